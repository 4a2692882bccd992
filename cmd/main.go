package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/codequest/codequest-backend/internal/cache"
	"github.com/codequest/codequest-backend/internal/db"
	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/handlers"
	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/middleware"
	"github.com/codequest/codequest-backend/internal/repos"
	"github.com/codequest/codequest-backend/internal/server"
	"github.com/codequest/codequest-backend/internal/services"
	"github.com/codequest/codequest-backend/internal/utils"
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
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	dailyQuota := utils.GetEnvAsInt("CHALLENGE_DAILY_QUOTA", 50, log)
	cacheTTL := utils.GetEnvAsInt("CACHE_TTL_SECONDS", 3600, log)
	topicsFile := utils.GetEnv("TOPICS_FILE", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	challengeRepo := repos.NewChallengeRepo(thePG, log)
	quotaRepo := repos.NewChallengeQuotaRepo(thePG, log)
	answerRepo := repos.NewAnswerRecordRepo(thePG, log)
	bookmarkRepo := repos.NewChallengeBookmarkRepo(thePG, log)
	dailyRepo := repos.NewDailyChallengeRepo(thePG, log)

	// Generation pipeline
	log.Info("Setting up generation pipeline from main...")
	ollamaClient := genai.NewOllamaClient(log, genai.ClientConfigFromEnv(log))
	var generator genai.ChallengeGenerator = genai.NewGenerator(log, ollamaClient, genai.ConfigFromEnv(log))
	explainer := genai.NewExplainer(log, ollamaClient)

	redisStore, err := cache.NewRedisStore(log)
	if err != nil {
		log.Warn("Redis init failed, generation cache disabled", "error", err)
		redisStore = nil
	}
	var store cache.Store
	if redisStore != nil {
		store = redisStore
	}
	generator = cache.NewCachedGenerator(log, store, time.Duration(cacheTTL)*time.Second, generator)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo)
	challengeService := services.NewChallengeService(thePG, log, generator, challengeRepo, quotaRepo, answerRepo, dailyQuota)
	explainService := services.NewExplainService(log, explainer)
	statsService := services.NewStatsService(thePG, log, challengeRepo, answerRepo)
	dailyService := services.NewDailyChallengeService(thePG, log, generator, challengeRepo, dailyRepo, services.LoadDailyTopics(topicsFile, log))
	bookmarkService := services.NewBookmarkService(thePG, log, bookmarkRepo, challengeRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	challengeHandler := handlers.NewChallengeHandler(log, challengeService, explainService)
	statsHandler := handlers.NewStatsHandler(statsService)
	dailyHandler := handlers.NewDailyChallengeHandler(log, dailyService)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	var allowOrigins []string
	if origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); origins != "" {
		allowOrigins = strings.Split(origins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		UserHandler:      userHandler,
		ChallengeHandler: challengeHandler,
		StatsHandler:     statsHandler,
		DailyHandler:     dailyHandler,
		BookmarkHandler:  bookmarkHandler,
		AllowOrigins:     allowOrigins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
