package services

import (
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/auth"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// ClientService manages the persisted OAuth client records that back the
// in-memory registry.
type ClientService interface {
	CreateClient(client *models.OAuthClient) error
	SeedDefaultClients() error
	LoadRegistry() (*auth.ClientRegistry, error)
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(client *models.OAuthClient) error {
	return s.db.Create(client).Error
}

// SeedDefaultClients registers the first-party public clients on an empty
// database. All of them require PKCE; none holds a secret.
func (s *clientService) SeedDefaultClients() error {
	var count int64
	if err := s.db.Model(&models.OAuthClient{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("OAuth clients already seeded")
		return nil
	}

	log.Info("Seeding default OAuth clients")
	clients := []models.OAuthClient{
		{
			ID:           "extension",
			Name:         "Browser Extension",
			RedirectURIs: "http://localhost:3000/oauth/extension-callback",
			ClientType:   models.ClientTypePublic,
			PKCERequired: true,
		},
		{
			ID:           "desktop",
			Name:         "Desktop App",
			RedirectURIs: "myapp://oauth-callback",
			ClientType:   models.ClientTypePublic,
			PKCERequired: true,
		},
		{
			ID:           "web",
			Name:         "Web Client",
			RedirectURIs: "http://localhost:3000/oauth/web-callback",
			ClientType:   models.ClientTypePublic,
			PKCERequired: true,
		},
	}
	for i := range clients {
		if err := s.db.Create(&clients[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// LoadRegistry reads every persisted client into an immutable registry. The
// registry is a point-in-time snapshot; clients added afterwards require a
// restart.
func (s *clientService) LoadRegistry() (*auth.ClientRegistry, error) {
	var rows []models.OAuthClient
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}

	clients := make([]auth.Client, 0, len(rows))
	for i := range rows {
		clients = append(clients, auth.Client{
			ID:           rows[i].ID,
			Name:         rows[i].Name,
			RedirectURIs: rows[i].RedirectURIList(),
			Type:         rows[i].ClientType,
			PKCERequired: rows[i].PKCERequired,
		})
	}
	log.WithField("clients", len(clients)).Info("OAuth client registry loaded")
	return auth.NewClientRegistry(clients), nil
}
