package domain

import "time"

// Role is the kind of portal identity a user holds
type Role string

// User roles
const (
	RoleClient Role = "client" // Customer making payments
	RoleStaff  Role = "staff"  // Employee verifying payments
)

// User Model
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                        // Primary key
	Username      string    `gorm:"size:64;unique;not null" json:"username"`     // Unique username
	FullName      string    `gorm:"size:128" json:"fullName"`                    // Display name
	AccountNumber *string   `gorm:"size:32;uniqueIndex" json:"accountNumber"`    // Bank account number, clients only
	Password      string    `gorm:"not null" json:"-"`                           // Hashed password
	Role          Role      `gorm:"size:16;not null;default:client" json:"role"` // Role: client or staff
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`             // Registration time
}
