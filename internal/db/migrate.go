package db

import (
	"fmt"     // Error wrapping
	"strings" // Username normalisation

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library

	"payment_portal/internal/domain"     // Importing domain models
	"payment_portal/internal/validation" // Credential rules
)

// Open connects to MySQL with duplicate key translation enabled
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(&domain.User{}, &domain.Transaction{})
}

// SeedStaff creates the staff account, or resets its password if it already exists
func SeedStaff(db *gorm.DB, username, password string) error {
	creds := validation.StaffCredentials{Username: username, Password: password}
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("staff credentials: %w", err) // Same rules as the login form
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash staff password: %w", err)
	}
	staff := domain.User{Username: strings.ToLower(username), Role: domain.RoleStaff}
	// Look up by username, then create or update the password hash
	return db.Where(domain.User{Username: staff.Username}).
		Assign(domain.User{Password: string(hash), Role: domain.RoleStaff}).
		FirstOrCreate(&staff).Error
}
