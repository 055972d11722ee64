package main

import (
	"github.com/sirupsen/logrus" // Logrus for structured logging

	"payment_portal/internal/config" // Custom import path (Config)
	"payment_portal/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	conn, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration

	// Staff accounts are provisioned here, never through the public API
	if cfg.StaffUsername == "" {
		return
	}
	if err := db.SeedStaff(conn, cfg.StaffUsername, cfg.StaffPassword); err != nil {
		logrus.Fatalf("staff seeding failed: %v", err)
	}
	logrus.WithField("username", cfg.StaffUsername).Info("Staff account ready")
}
