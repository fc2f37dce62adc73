package models

import (
	"strings"
	"time"
)

// Client types. Every client shipped today is public (browser extensions,
// desktop apps) and therefore cannot hold a secret.
const (
	ClientTypePublic       = "public"
	ClientTypeConfidential = "confidential"
)

// OAuthClient is a statically registered OAuth client. Rows are written once
// at seed time and loaded into the in-memory registry on startup; nothing
// mutates them while the server is running.
type OAuthClient struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	RedirectURIs string `gorm:"not null"` // space-separated, matched exactly
	ClientType   string `gorm:"default:'public'"`
	PKCERequired bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

// RedirectURIList splits the stored redirect URIs into a slice.
func (c *OAuthClient) RedirectURIList() []string {
	return strings.Fields(c.RedirectURIs)
}
