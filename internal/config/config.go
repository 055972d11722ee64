package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For token and cache durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string        // Application port
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name
	JWTSecret     string        // JWT secret key
	JWTTTL        time.Duration // Lifetime of issued tokens
	RedisAddr     string        // Redis server address
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	CacheTTL      time.Duration // Lifetime of cached listing pages
	IsProd        bool          // Is production environment
	StaffUsername string        // Staff account seeded by the migrate command
	StaffPassword string        // Password of the seeded staff account
	PortalAPIURL  string        // Base URL the login front end talks to
	SessionFile   string        // File the login front end keeps its token in
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:       envString("APP_PORT", "5000"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        envString("DB_HOST", "localhost"),
		DBPort:        envString("DB_PORT", "3306"),
		DBName:        os.Getenv("DB_NAME"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTTTL:        time.Duration(envInt("JWT_TTL_HOURS", 24)) * time.Hour,
		RedisAddr:     envString("REDIS_ADDR", "localhost:6379"),
		RedisPass:     os.Getenv("REDIS_PASS"),
		RedisDB:       redisDB,
		CacheTTL:      time.Duration(envInt("CACHE_TTL_SECONDS", 60)) * time.Second,
		IsProd:        os.Getenv("IS_PROD") == "true",
		StaffUsername: os.Getenv("STAFF_USERNAME"),
		StaffPassword: os.Getenv("STAFF_PASSWORD"),
		PortalAPIURL:  envString("PORTAL_API_URL", "https://localhost:5000"),
		SessionFile:   envString("PORTAL_SESSION_FILE", ".portal_session.json"),
	}
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
