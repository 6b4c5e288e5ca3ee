package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tidefeed/tidefeed-backend/internal/handlers"
	"github.com/tidefeed/tidefeed-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	FeedHandler    *handlers.FeedHandler
	SwipeHandler   *handlers.SwipeHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	auth := router.Group("/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.GET("/feed", cfg.FeedHandler.GetFeed)
		api.POST("/swipe", cfg.SwipeHandler.RecordSwipe)
		api.POST("/reset", cfg.SwipeHandler.ResetSwipes)
		api.GET("/stats", cfg.SwipeHandler.GetStats)
		api.GET("/liked-articles", cfg.SwipeHandler.GetLikedArticles)
	}

	return router
}
