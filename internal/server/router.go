package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/codequest/codequest-backend/internal/handlers"
	"github.com/codequest/codequest-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	UserHandler      *handlers.UserHandler
	ChallengeHandler *handlers.ChallengeHandler
	StatsHandler     *handlers.StatsHandler
	DailyHandler     *handlers.DailyChallengeHandler
	BookmarkHandler  *handlers.BookmarkHandler
	AllowOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	// Challenges
	protected.POST("/challenges/generate", cfg.ChallengeHandler.Generate)
	protected.POST("/challenges/validate-answer", cfg.ChallengeHandler.ValidateAnswer)
	protected.POST("/challenges/explain-code", cfg.ChallengeHandler.ExplainCode)
	protected.GET("/challenges/quota", cfg.ChallengeHandler.GetQuota)
	protected.GET("/challenges/history", cfg.ChallengeHandler.History)
	protected.GET("/challenges/search", cfg.ChallengeHandler.Search)
	protected.GET("/challenges/:id", cfg.ChallengeHandler.GetByID)
	protected.DELETE("/challenges/:id", cfg.ChallengeHandler.Delete)
	// Stats
	protected.GET("/stats", cfg.StatsHandler.Overview)
	protected.GET("/stats/activity", cfg.StatsHandler.Activity)
	protected.GET("/stats/streak", cfg.StatsHandler.Streak)
	// Daily challenge
	protected.GET("/daily", cfg.DailyHandler.GetToday)
	protected.POST("/daily/complete", cfg.DailyHandler.Complete)
	// Bookmarks
	protected.GET("/bookmarks", cfg.BookmarkHandler.List)
	protected.POST("/bookmarks/:challengeID", cfg.BookmarkHandler.Add)
	protected.DELETE("/bookmarks/:challengeID", cfg.BookmarkHandler.Remove)

	return router
}
