package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/merrylab/timeline/internal/config"
	"github.com/merrylab/timeline/internal/constants"
	"github.com/merrylab/timeline/internal/database"
	"github.com/merrylab/timeline/internal/handlers"
	"github.com/merrylab/timeline/internal/mailer"
	"github.com/merrylab/timeline/internal/middleware"
	"github.com/merrylab/timeline/internal/repository"
	"github.com/merrylab/timeline/internal/services"
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

	// Seed the initial admin account and department catalog
	if err := database.Seed(cfg); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	// Initialize repositories
	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)

	// Initialize mail transport
	smtpMailer := mailer.NewSMTPMailer(cfg)

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, smtpMailer)
	taskService := services.NewTaskService(taskRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	eventService := services.NewEventService(eventRepo)
	departmentService := services.NewDepartmentService(departmentRepo)
	calendarService := services.NewCalendarService(taskRepo, eventRepo)
	statsService := services.NewStatsService(taskRepo, userRepo)
	reportService := services.NewReportService(taskRepo, notificationRepo, smtpMailer, cfg.AdminEmail)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService, aiService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	eventHandler := handlers.NewEventHandler(eventService)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	statsHandler := handlers.NewStatsHandler(statsService)
	dashboardHandler := handlers.NewDashboardHandler(taskService, statsService, notificationService, eventService, taskRepo)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Timeline API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public login, protected profile)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PUT("/profile", middleware.RequireAuth(), authHandler.UpdateProfile)
		}

		// Task routes (protected; creation and deletion are admin only)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", middleware.RequireAdmin(), taskHandler.CreateTask)
			tasks.POST("/suggest", middleware.RequireAdmin(), taskHandler.SuggestTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireAdmin(), taskHandler.DeleteTask)
		}

		// User management routes (admin only)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		// Event routes (protected; mutation is admin only)
		events := api.Group("/events")
		events.Use(middleware.RequireAuth())
		{
			events.GET("", eventHandler.ListEvents)
			events.POST("", middleware.RequireAdmin(), eventHandler.CreateEvent)
			events.PUT("/:id", middleware.RequireAdmin(), eventHandler.UpdateEvent)
			events.DELETE("/:id", middleware.RequireAdmin(), eventHandler.DeleteEvent)
		}

		// Department routes (protected; creation is admin only)
		departments := api.Group("/departments")
		departments.Use(middleware.RequireAuth())
		{
			departments.GET("", departmentHandler.ListDepartments)
			departments.POST("", middleware.RequireAdmin(), departmentHandler.CreateDepartment)
		}

		// Calendar, dashboard, stats, reports (protected)
		api.GET("/calendar", middleware.RequireAuth(), calendarHandler.GetMonth)
		api.GET("/dashboard", middleware.RequireAuth(), dashboardHandler.GetDashboard)
		api.GET("/stats", middleware.RequireAuth(), statsHandler.GetUserStats)
		api.GET("/stats/system", middleware.RequireAuth(), middleware.RequireAdmin(), statsHandler.GetSystemStats)
		api.POST("/reports", middleware.RequireAuth(), reportHandler.SendReport)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
