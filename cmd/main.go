package main

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/franciscosanchezn/gin-oauth-bridge/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/auth"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/config"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/controllers"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/database"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/middleware"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/models"
	"github.com/franciscosanchezn/gin-oauth-bridge/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	configuration *config.Config
	tokenSigner   *auth.TokenSigner
	oauthService  *auth.OAuthService
	userService   services.UserService

	sessionController  *controllers.SessionAuthController
	oauthController    *controllers.OAuthController
	resourceController *controllers.ResourceController
	callbackController *controllers.CallbackController
)

// @title OAuth Bridge API
// @version 1.0
// @description OAuth 2.0 Authorization Code + PKCE token service for browser extensions and desktop apps
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Build the OAuth core: registry snapshot, in-memory stores, signer
	registry := loadClientRegistry()
	tokenSigner = auth.NewTokenSigner(configuration.JWTSecret)
	oauthService = auth.NewOAuthService(registry,
		auth.NewAuthorizationCodeStore(), auth.NewRefreshTokenStore(), tokenSigner)

	// Initialize services and controllers
	userService = services.NewUserService(db)
	sessionController = controllers.NewSessionAuthController(userService)
	oauthController = controllers.NewOAuthController(oauthService)
	resourceController = controllers.NewResourceController(userService, oauthService)
	callbackController = controllers.NewCallbackController()

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection, runs migrations and
// seeds the default OAuth clients on first boot
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.SQLitePath,
	})
	checkPanicErr(err)

	// Migrate the schema
	checkPanicErr(db.AutoMigrate(&models.User{}, &models.OAuthClient{}))

	// Seed the first-party clients only if the table is empty
	checkPanicErr(services.NewClientService(db).SeedDefaultClients())
	return db
}

// loadClientRegistry snapshots the persisted clients into the immutable
// in-memory registry the OAuth core reads from
func loadClientRegistry() *auth.ClientRegistry {
	registry, err := services.NewClientService(db).LoadRegistry()
	checkPanicErr(err)
	return registry
}

// setupRouter initializes the Gin router and sets up the routes
func setupRouter() *gin.Engine {
	router := gin.Default()

	// Cookie sessions carry the first-party login only; OAuth clients never
	// see this cookie.
	store := cookie.NewStore([]byte(configuration.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
	})
	router.Use(sessions.Sessions("sid", store))

	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	// Session authentication (first-party, cookie based)
	router.POST("/signup", sessionController.Signup)
	router.POST("/login", sessionController.Login)
	router.POST("/logout", middleware.RequireSession(), sessionController.Logout)

	// OAuth 2.0 endpoints
	oauthGroup := router.Group("/oauth")
	{
		oauthGroup.GET("/authorize", middleware.RequireSession(), oauthController.Authorize)
		oauthGroup.POST("/token", oauthController.Token)

		// Redirect landing pages for the first-party public clients
		oauthGroup.GET("/extension-callback", callbackController.CallbackPage)
		oauthGroup.GET("/web-callback", callbackController.CallbackPage)
	}

	// Resources guarded by OAuth access tokens
	api := router.Group("/api")
	api.Use(middleware.OAuth2Auth(tokenSigner))
	{
		api.GET("/me", resourceController.Me)
		api.GET("/protected-resource", resourceController.ProtectedResource)
		api.POST("/logout-everywhere", resourceController.LogoutEverywhere)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-oauth-bridge",
	})
}
