package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mesutdemirok/FlatmateConnect-sub000/config"
	"github.com/Mesutdemirok/FlatmateConnect-sub000/controllers"
	"github.com/Mesutdemirok/FlatmateConnect-sub000/middleware"
	"github.com/Mesutdemirok/FlatmateConnect-sub000/models"
)

func main() {
	// Basic logging
	log.Println("Starting FlatmateConnect API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := buildLogger(cfg)
	defer func() {
		_ = logger.Sync()
	}()

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.ListingImage{},
		&models.Favorite{},
		&models.Message{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	router := setupRouter(cfg, logger)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildLogger selects the zap preset matching the environment
func buildLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	return logger
}

// setupRouter configures all middleware and API routes
func setupRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Public marketplace browsing
		v1.GET("/listings", controllers.ListListings)
		v1.GET("/listings/:id", controllers.GetListing)
		v1.GET("/users/:id", controllers.GetUser)
	}

	// Everything below requires a valid token
	auth := v1.Group("")
	auth.Use(middleware.EnsureValidToken(cfg))
	{
		auth.POST("/users", controllers.CreateUser)
		auth.GET("/users/me", controllers.GetMyProfile)
		auth.PUT("/users/me", controllers.UpdateMyProfile)
		auth.DELETE("/users/me", controllers.DeleteMyAccount)
		auth.GET("/users/me/listings", controllers.GetMyListings)

		auth.POST("/listings", controllers.CreateListing)
		auth.PUT("/listings/:id", controllers.UpdateListing)
		auth.DELETE("/listings/:id", controllers.DeleteListing)

		auth.POST("/listings/:id/favorite", controllers.AddFavorite)
		auth.DELETE("/listings/:id/favorite", controllers.RemoveFavorite)
		auth.GET("/favorites", controllers.ListFavorites)

		auth.GET("/conversations", controllers.ListConversations)
		auth.GET("/conversations/:userId", controllers.GetThread)
		auth.POST("/messages", controllers.SendMessage)
		auth.PUT("/messages/read", controllers.MarkMessagesRead)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "FlatmateConnect API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
