package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/famboard/famboard-go/internal/auth"
	"github.com/famboard/famboard-go/internal/config"
	"github.com/famboard/famboard-go/internal/database"
	"github.com/famboard/famboard-go/internal/handlers"
	"github.com/famboard/famboard-go/internal/middleware"
	"github.com/famboard/famboard-go/internal/notify"
	"github.com/famboard/famboard-go/internal/repository"
	"github.com/famboard/famboard-go/internal/schedule"
	"github.com/gin-gonic/gin"
)

var Version = "dev"

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	scheduleRepo := repository.NewScheduleRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	notifier, err := notify.NewEmailNotifier(context.Background(), cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, scheduleRepo)
	if err != nil {
		log.Fatalf("Failed to initialize notifier: %v", err)
	}

	scheduleService := schedule.NewService(scheduleRepo, notifier)

	// Initialize Gin
	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": Version,
		})
	})

	// Version endpoint
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version": Version,
			"service": "famboard-go",
		})
	})

	// Root endpoint
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "FamBoard Go API",
			"version": Version,
		})
	})

	api := r.Group("/api")
	api.Use(middleware.FamilyMiddleware(familyRepo, cfg.BaseDomain))
	api.Use(middleware.RequireFamily())

	api.POST("/auth/login", handlers.Login(scheduleRepo, jwtService))

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(jwtService))
	{
		authed.GET("/schedule/week/:weekStart", handlers.GetWeekSchedule(scheduleService))
		authed.GET("/tasks", handlers.ListTasks(scheduleRepo))
		authed.GET("/members", handlers.ListMembers(scheduleRepo))
		authed.GET("/templates/week", handlers.ListWeekTemplates(scheduleRepo))
		authed.GET("/templates/week/:id", handlers.GetWeekTemplate(scheduleRepo))
		authed.GET("/templates/day", handlers.ListDayTemplates(scheduleRepo))
	}

	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("/schedule/week/:weekStart/overrides", handlers.ApplyWeekOverrides(scheduleService))
		admin.DELETE("/schedule/week/:weekStart/overrides", handlers.RevertWeekOverrides(scheduleService))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited")
}
