package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Local copy of the client schema so the script stays runnable standalone
// with `go run scripts/create_dev_client.go`.
type OAuthClient struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	RedirectURIs string `gorm:"not null"`
	ClientType   string `gorm:"default:'public'"`
	PKCERequired bool   `gorm:"default:true"`
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

func main() {
	id := flag.String("id", "dev-client", "Client identifier")
	name := flag.String("name", "Development Client", "Human readable client name")
	redirect := flag.String("redirect-uri", "http://localhost:3000/oauth/web-callback", "Allowed redirect URIs (space separated)")
	dbPath := flag.String("db", "oauth-bridge.sqlite", "Path to the sqlite database")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(&OAuthClient{}); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	var existing OAuthClient
	if err := db.Where("id = ?", *id).First(&existing).Error; err == nil {
		fmt.Printf("Client %q already exists (redirect URIs: %s)\n", existing.ID, existing.RedirectURIs)
		return
	}

	client := OAuthClient{
		ID:           *id,
		Name:         *name,
		RedirectURIs: strings.TrimSpace(*redirect),
		ClientType:   "public",
		PKCERequired: true,
	}
	if err := db.Create(&client).Error; err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Printf("OAuth client %q created.\n", client.ID)
	fmt.Println("Restart the server to pick it up, then authorize with:")
	fmt.Printf("  http://localhost:3000/oauth/authorize?client_id=%s&redirect_uri=%s&response_type=code&state=<state>&code_challenge=<challenge>&code_challenge_method=S256\n",
		client.ID, client.RedirectURIs)
}
