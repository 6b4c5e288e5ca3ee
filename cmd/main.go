package main

import (
	"fmt"
	"os"
	"time"

	"github.com/tidefeed/tidefeed-backend/internal/db"
	"github.com/tidefeed/tidefeed-backend/internal/handlers"
	"github.com/tidefeed/tidefeed-backend/internal/logger"
	"github.com/tidefeed/tidefeed-backend/internal/middleware"
	"github.com/tidefeed/tidefeed-backend/internal/repos"
	"github.com/tidefeed/tidefeed-backend/internal/server"
	"github.com/tidefeed/tidefeed-backend/internal/services"
	"github.com/tidefeed/tidefeed-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "", log)
	if jwtSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is required")
	}
	tokenTTLHours := utils.GetEnvAsInt("TOKEN_TTL_HOURS", 168, log)
	appPort := utils.GetEnv("APP_PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	userRepo := repos.NewUserRepo(thePG, log)
	articleRepo := repos.NewArticleRepo(thePG, log)
	swipeRepo := repos.NewSwipeRepo(thePG, log)

	// Services
	authService := services.NewAuthService(log, userRepo, jwtSecretKey, time.Duration(tokenTTLHours)*time.Hour)
	tasteService := services.NewTasteService(log, swipeRepo)
	feedService := services.NewFeedService(log, articleRepo, swipeRepo, tasteService)
	swipeService := services.NewSwipeService(log, swipeRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(log, authService)
	feedHandler := handlers.NewFeedHandler(log, feedService)
	swipeHandler := handlers.NewSwipeHandler(log, swipeService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		FeedHandler:    feedHandler,
		SwipeHandler:   swipeHandler,
		AuthMiddleware: authMiddleware,
	})

	log.Info("Starting API server", "port", appPort)
	if err := router.Run(":" + appPort); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}
