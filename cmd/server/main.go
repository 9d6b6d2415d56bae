package main

import (
	"context"
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/ratepulse/feedback-api/internal/config"
	"github.com/ratepulse/feedback-api/internal/constants"
	"github.com/ratepulse/feedback-api/internal/database"
	"github.com/ratepulse/feedback-api/internal/handlers"
	"github.com/ratepulse/feedback-api/internal/middleware"
	"github.com/ratepulse/feedback-api/internal/repository"
	"github.com/ratepulse/feedback-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAgeSeconds,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// Initialize services
	authService, err := services.NewAuthService(context.Background(), cfg, userRepo, templateRepo)
	if err != nil {
		log.Fatalf("Failed to initialize OIDC: %v", err)
	}
	templateService := services.NewTemplateService(templateRepo, userRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo, templateRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.LogoutRedirectURL)
	templateHandler := handlers.NewTemplateHandler(templateService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Feedback API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Login flow (public, delegated to the external OIDC provider)
		api.GET("/login", authHandler.Login)
		api.GET("/callback", authHandler.Callback)
		api.GET("/logout", authHandler.Logout)

		auth := api.Group("/auth")
		{
			auth.GET("/user", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Feedback routes
		feedback := api.Group("/feedback")
		{
			feedback.POST("/submit/:linkId", feedbackHandler.Submit)
			feedback.GET("", middleware.RequireAuth(), feedbackHandler.List)
			feedback.GET("/stats", middleware.RequireAuth(), feedbackHandler.Stats)
		}

		// Template routes
		templates := api.Group("/templates")
		{
			templates.GET("/public/:linkId", templateHandler.ListPublic)
			templates.GET("", middleware.RequireAuth(), templateHandler.List)
			templates.POST("", middleware.RequireAuth(), templateHandler.Create)
			templates.PUT("/:id", middleware.RequireAuth(), templateHandler.Update)
			templates.DELETE("/:id", middleware.RequireAuth(), templateHandler.Delete)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
