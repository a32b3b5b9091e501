package main

import (
	"log"
	"os"
	"time"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var dbConfig config.DatabaseConfig

func init() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
		"PORT",
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()

	dbConfig = config.LoadDatabaseConfig()
	utils.InitMongoClient(dbConfig.URI, dbConfig.MaxPoolSize, dbConfig.MinPoolSize, dbConfig.MaxConnIdleTime)

	// Redis is optional: without it token blacklisting and the
	// progress snapshot cache are disabled, everything else works.
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		blacklist, err := services.NewTokenBlacklist(redisURL)
		if err != nil {
			log.Printf("Warning: token blacklist disabled: %v", err)
		} else {
			services.TokenBlacklist = blacklist
		}

		cacheTTL := utils.GetEnvAsDuration("PROGRESS_CACHE_TTL", 5*time.Minute)
		cache, err := services.NewProgressCache(redisURL, cacheTTL)
		if err != nil {
			log.Printf("Warning: progress cache disabled: %v", err)
		} else {
			services.GlobalProgressCache = cache
		}
	} else {
		log.Println("REDIS_URL not set, running without Redis")
	}
}

func setupRouter() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))

	userRepo := repository.GetUserRepo(utils.MongoClient)
	sessionRepo := repository.GetSessionRepo(utils.MongoClient)
	progressRepo := repository.GetProgressRepo(utils.MongoClient)
	catalogRepo := repository.GetCatalogRepo(utils.MongoClient)
	practiceRepo := repository.GetPracticeRepo(utils.MongoClient)

	progressService := &usecase.ProgressService{
		Store: progressRepo,
	}
	if services.GlobalProgressCache != nil {
		progressService.Cache = services.GlobalProgressCache
	}

	router.GET("/health", handler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, userRepo, progressRepo)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, userRepo, sessionRepo)
			})
			auth.POST("/refresh", handler.RefreshTokenHandler)
		}
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetUserProfileHandler(c, userRepo)
			})
			user.POST("/change-password", func(c *gin.Context) {
				handler.ChangePasswordHandler(c, userRepo, sessionRepo)
			})
			user.POST("/logout", handler.LogoutHandler)

			twofa := user.Group("/2fa")
			{
				twofa.POST("/enable", func(c *gin.Context) {
					handler.Enable2FAHandler(c, userRepo)
				})
				twofa.POST("/verify", func(c *gin.Context) {
					handler.Verify2FAHandler(c, userRepo)
				})
				twofa.POST("/disable", func(c *gin.Context) {
					handler.Disable2FAHandler(c, userRepo)
				})
			}
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", func(c *gin.Context) {
				handler.GetActiveSessionsHandler(c, sessionRepo)
			})
			sessions.POST("/logout-all", func(c *gin.Context) {
				handler.LogoutAllHandler(c, sessionRepo)
			})
		}

		catalog := protected.Group("")
		catalog.Use(middleware.CacheControlMiddleware("public, max-age=300"))
		{
			catalog.GET("/questions", func(c *gin.Context) {
				handler.GetQuestionsHandler(c, catalogRepo)
			})
			catalog.GET("/questions/:id/model-answer", func(c *gin.Context) {
				handler.GetModelAnswerHandler(c, catalogRepo)
			})
			catalog.GET("/personas", func(c *gin.Context) {
				handler.GetPersonasHandler(c, catalogRepo)
			})
			catalog.GET("/personas/:id", func(c *gin.Context) {
				handler.GetPersonaHandler(c, catalogRepo)
			})
			catalog.GET("/categories", func(c *gin.Context) {
				handler.GetCategoriesHandler(c, catalogRepo)
			})
		}

		practice := protected.Group("/practice")
		{
			practice.POST("/evaluate", func(c *gin.Context) {
				handler.EvaluatePracticeHandler(c, catalogRepo, practiceRepo, progressService)
			})
			practice.GET("/history", func(c *gin.Context) {
				handler.GetPracticeHistoryHandler(c, practiceRepo)
			})
		}

		progress := protected.Group("/progress")
		{
			progress.GET("", func(c *gin.Context) {
				handler.GetProgressHandler(c, progressService)
			})
			progress.GET("/detailed", func(c *gin.Context) {
				handler.GetDetailedProgressHandler(c, progressService)
			})
			progress.GET("/timeline", func(c *gin.Context) {
				handler.GetTimelineHandler(c, progressService)
			})
			progress.GET("/heatmap", func(c *gin.Context) {
				handler.GetHeatmapHandler(c, progressService)
			})
			progress.GET("/milestones", func(c *gin.Context) {
				handler.GetMilestonesHandler(c, progressService)
			})
			progress.PUT("/goals", func(c *gin.Context) {
				handler.UpdateGoalsHandler(c, progressService)
			})
		}
	}

	return router
}

func main() {
	db := utils.MongoClient.Database(dbConfig.DatabaseName)
	if err := repository.SetupIndexes(db); err != nil {
		log.Fatalf("Failed to set up indexes: %v", err)
	}

	router := setupRouter()

	port := utils.GetEnvAsString("PORT", "8080")
	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
