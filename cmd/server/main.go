package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/mtakagi/task-tracker-api/internal/config"
	"github.com/mtakagi/task-tracker-api/internal/constants"
	"github.com/mtakagi/task-tracker-api/internal/database"
	"github.com/mtakagi/task-tracker-api/internal/handlers"
	"github.com/mtakagi/task-tracker-api/internal/middleware"
	"github.com/mtakagi/task-tracker-api/internal/repository"
	"github.com/mtakagi/task-tracker-api/internal/services"
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
	if cfg.DBDriver == config.DriverPostgres {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Session store: Redis when configured, cookie store otherwise
	store, err := buildSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())
	passwordPolicy := services.NewDefaultPasswordPolicy(cfg.PasswordMinLength)
	authService := services.NewAuthService(userRepo, passwordPolicy)
	taskService := services.NewTaskService(taskRepo, userRepo)

	// Initialize handlers and routes
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	handlers.RegisterRoutes(r, authHandler, taskHandler)

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.RedisHost == "" {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	return redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
}
