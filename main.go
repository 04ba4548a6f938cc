package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"train-fare-sim/config"
	"train-fare-sim/database"
	"train-fare-sim/handlers"
	"train-fare-sim/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Starting train fare simulation service")

	// Open the local ticket store
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to open ticket store: %v", err)
	}
	defer database.Close()

	// Wire services
	kmap := services.NewKMap(cfg.KMapSources...)
	sync := services.NewSyncService(database.Get(), time.Duration(cfg.SyncTimeoutMinutes)*time.Minute)
	holidays := services.LoadHolidayCalendar(cfg.HolidaysFile)
	handlers.Init(database.Get(), kmap, sync, holidays)

	// Warm the category map in the background; lookups fall back to the
	// default tier until it lands.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := kmap.Load(ctx); err != nil {
			log.Printf("K map warm-up failed: %v", err)
		}
	}()

	// Setup Gin router
	router := setupRouter()

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func setupRouter() *gin.Engine {
	// Set Gin to release mode in production
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// API routes
	api := router.Group("/api")
	{
		// Station routes
		api.GET("/stations", handlers.GetStations)

		// Ticket routes
		api.POST("/search", handlers.Search)
		api.GET("/tickets", handlers.GetTickets)
		api.POST("/tickets/import", handlers.ImportTickets)
		api.POST("/tickets/generate", handlers.GenerateTickets)
		api.POST("/tickets/sync", handlers.SyncTickets)
		api.DELETE("/tickets", handlers.ClearTickets)
		api.GET("/stats", handlers.GetStats)

		// Purchase routes
		api.POST("/purchases", handlers.CreatePurchase)
		api.GET("/purchases", handlers.GetPurchases)
		api.DELETE("/purchases/:ref", handlers.DeletePurchase)
		api.DELETE("/purchases", handlers.ClearPurchases)

		// Survey routes
		api.POST("/surveys", handlers.CreateSurvey)
		api.GET("/surveys", handlers.GetSurveys)

		// Cross-origin fetch proxy
		api.GET("/proxy", handlers.Proxy)
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
