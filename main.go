// main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/isalesbook/system-logger/config"
	"github.com/isalesbook/system-logger/endpoint"
	"github.com/isalesbook/system-logger/logger"
	"github.com/isalesbook/system-logger/middleware"
	"github.com/isalesbook/system-logger/model"
	"github.com/isalesbook/system-logger/util"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.SystemLog{}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	// Redis backs rate limiting and session lookups; the service degrades
	// gracefully without it.
	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable: %v", err)
	}

	if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
		log.Printf("GeoIP disabled: %v", err)
	}
	defer util.CloseGeoIP()

	svc := logger.NewService(db)

	// Scheduled retention sweep; LOGRETENTIONDAYS=0 disables it.
	if cfg.RetentionDays > 0 {
		sweeper := cron.New()
		_, err := sweeper.AddFunc("@daily", func() {
			deleted, err := svc.CleanOldLogs(cfg.RetentionDays)
			if err != nil {
				log.Printf("retention sweep failed: %v", err)
				return
			}
			log.Printf("retention sweep deleted %d entries older than %d days", deleted, cfg.RetentionDays)
		})
		if err != nil {
			log.Fatalf("error scheduling retention sweep: %v", err)
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(
		gin.Logger(),
		middleware.CORSMiddleware(),
		middleware.DatabaseMiddleware(db),
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.OptionalAuth(),
	)

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	api := router.Group("/api/logger")
	api.Use(middleware.RequestLogger())

	writeLimit := middleware.RateLimiter(middleware.RateLimitConfig{})
	api.POST("/log", writeLimit, endpoint.CreateLog)
	for _, level := range model.LogLevels() {
		api.POST("/"+level, writeLimit, endpoint.CreateLeveledLog(level))
	}

	api.GET("/logs", endpoint.ListLogs)
	api.GET("/logs/:id", endpoint.GetLog)
	api.DELETE("/logs/:id", endpoint.DeleteLog)

	api.GET("/statistics", endpoint.GetStatistics)
	api.GET("/levels", endpoint.GetLevels)
	api.GET("/categories", endpoint.GetCategories)

	api.POST("/clean", endpoint.CleanLogs)

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
