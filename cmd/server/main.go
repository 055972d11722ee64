package main

import (
	"context" // context package is needed for Redis operations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging

	"payment_portal/internal/api"        // Custom package for API handlers
	"payment_portal/internal/config"     // Custom package for configuration
	"payment_portal/internal/db"         // Custom package for the database connection
	"payment_portal/internal/repository" // Custom package for storage
	"payment_portal/internal/utils"      // Custom package for the cache
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine readable logs in production
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Connect to the database
	conn, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.Deps{
		Repo:     repository.New(conn),                                    // MySQL storage
		Cache:    utils.NewRedisCache(redisClient),                        // Redis listing cache
		Tokens:   api.TokenConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL}, // Access tokens
		CacheTTL: cfg.CacheTTL,                                            // Listing cache lifetime
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start

	// Start the server on port cfg.AppPort
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
