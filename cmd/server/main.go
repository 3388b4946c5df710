package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yukikurage/task-api/internal/config"
	"github.com/yukikurage/task-api/internal/database"
	"github.com/yukikurage/task-api/internal/handlers"
	"github.com/yukikurage/task-api/internal/logger"
	"github.com/yukikurage/task-api/internal/middleware"
	"github.com/yukikurage/task-api/internal/repository"
	"github.com/yukikurage/task-api/internal/services"
	"github.com/yukikurage/task-api/internal/token"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogJSON)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", "error", err)
	}

	db := database.GetDB()
	codec := token.NewCodec([]byte(cfg.SecretKey), cfg.TokenTTL)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, codec)
	taskService := services.NewTaskService(taskRepo)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// API routes
	api := r.Group("/api")
	{
		api.GET("/healthchecker", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"message": "Task API is running",
			})
		})

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("", authHandler.Login)
			auth.POST("/register", authHandler.Register)
		}

		// User routes (protected)
		user := api.Group("/user")
		user.Use(middleware.RequireAuth(codec, userRepo))
		{
			user.PUT("", userHandler.UpdateUser)
			user.DELETE("", userHandler.DeleteUser)
		}

		// Task routes (protected)
		tasks := api.Group("/task")
		tasks.Use(middleware.RequireAuth(codec, userRepo))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PUT("", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Start server
	logger.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", "error", err)
	}
}
