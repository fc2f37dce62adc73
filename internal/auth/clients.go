package auth

// Client is a statically registered OAuth client application.
type Client struct {
	ID           string
	Name         string
	RedirectURIs []string
	Type         string // "public" or "confidential"
	PKCERequired bool
}

// ClientRegistry is an immutable lookup table of registered clients. It is
// built once at startup and never mutated afterwards, so reads need no lock.
type ClientRegistry struct {
	clients map[string]Client
}

// NewClientRegistry builds a registry from the given clients. Later entries
// with a duplicate ID win; IDs are expected to be unique upstream.
func NewClientRegistry(clients []Client) *ClientRegistry {
	m := make(map[string]Client, len(clients))
	for _, c := range clients {
		m[c.ID] = c
	}
	return &ClientRegistry{clients: m}
}

// Lookup returns the client registered under id. A missing client is a
// normal outcome reported through ok, not an error.
func (r *ClientRegistry) Lookup(id string) (Client, bool) {
	c, ok := r.clients[id]
	return c, ok
}

// IsAllowedRedirect reports whether uri exactly matches one of the client's
// registered redirect URIs. No wildcard or prefix matching.
func (r *ClientRegistry) IsAllowedRedirect(id, uri string) bool {
	c, ok := r.clients[id]
	if !ok {
		return false
	}
	for _, registered := range c.RedirectURIs {
		if registered == uri {
			return true
		}
	}
	return false
}
