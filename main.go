// main.go
package main

import (
	"log"
	"os"
	"time"

	"betabreaker/database"
	"betabreaker/handlers"
	"betabreaker/handlers/admin"
	"betabreaker/middleware"
	"betabreaker/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Structured logger for the badge engine
	zapLogger, err := newZapLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Initialize services
	services.InitBadgeService(database.GetDB(), zapLogger)
	services.InitCleanupService()
	if getEnv("GUEST_CLEANUP_ENABLED", "true") == "true" {
		services.GetCleanupService().Start()
		defer services.GetCleanupService().Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)

	// Gym catalog routes
	api.Get("/gyms", handlers.GetGyms)
	api.Get("/gyms/:id", handlers.GetGym)
	api.Get("/gyms/:id/climbs", handlers.GetGymClimbs)

	// Climb log routes
	logGroup := api.Group("/logs")
	logGroup.Use(middleware.AuthMiddleware)
	logGroup.Post("/", handlers.LogClimb)
	logGroup.Get("/", handlers.GetClimbLogs)
	logGroup.Delete("/:id", handlers.DeleteClimbLog)

	// User routes
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetCurrentUser)
	userGroup.Put("/me", handlers.UpdateCurrentUser)
	userGroup.Get("/me/stats", handlers.GetUserStats)
	userGroup.Get("/search", handlers.SearchUsers)
	userGroup.Get("/:id", handlers.GetUserProfile)
	userGroup.Post("/:id/follow", handlers.FollowUser)
	userGroup.Delete("/:id/follow", handlers.UnfollowUser)
	userGroup.Get("/:id/followers", handlers.GetFollowers)
	userGroup.Get("/:id/following", handlers.GetFollowing)

	// Badge routes
	badgeGroup := api.Group("/badges")
	badgeGroup.Use(middleware.AuthMiddleware)
	badgeGroup.Get("/", handlers.GetUserBadges)

	// Training session routes
	trainingGroup := api.Group("/training")
	trainingGroup.Use(middleware.AuthMiddleware)
	trainingGroup.Post("/", handlers.CreateTrainingSession)
	trainingGroup.Get("/", handlers.GetTrainingSessions)
	trainingGroup.Delete("/:id", handlers.DeleteTrainingSession)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", admin.Login)
	adminGroup.Post("/logout", admin.Logout)

	// Protected admin routes
	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Get("/verify", admin.VerifyToken)
	adminProtected.Get("/users", admin.GetUsers)
	adminProtected.Get("/users/:id", admin.GetUser)
	adminProtected.Post("/users/:id/ban", admin.BanUser)
	adminProtected.Delete("/users/:id", admin.DeleteUser)

	// Admin badge catalog management
	adminProtected.Get("/badges", admin.GetBadges)
	adminProtected.Post("/badges", admin.CreateBadge)
	adminProtected.Put("/badges/:id", admin.UpdateBadge)
	adminProtected.Delete("/badges/:id", admin.DeleteBadge)

	// Admin gym and climb management
	adminProtected.Post("/gyms", admin.CreateGym)
	adminProtected.Put("/gyms/:id", admin.UpdateGym)
	adminProtected.Post("/gyms/:id/climbs", admin.CreateClimb)
	adminProtected.Post("/climbs/:climbId/retire", admin.RetireClimb)

	// Live activity feed
	app.Use("/ws/feed", handlers.FeedUpgradeRequired)
	app.Get("/ws/feed", middleware.FeedAuthMiddleware, handlers.FeedHandler)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🧗 Live feed available at ws://localhost:%s/ws/feed", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func newZapLogger() (*zap.Logger, error) {
	if getEnv("APP_ENV", "development") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
