package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Token lifetime

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing

	"payment_portal/internal/domain"     // Importing domain models
	"payment_portal/internal/repository" // User storage
	"payment_portal/internal/utils"      // Utility functions
	"payment_portal/internal/validation" // Credential rules
)

// TokenConfig controls issued access tokens
type TokenConfig struct {
	Secret string        // HMAC signing secret
	TTL    time.Duration // Token lifetime
}

// RegisterRequest is the client registration body
type RegisterRequest struct {
	validation.ClientCredentials
	FullName string `json:"fullName"` // Display name
}

// Response struct for authentication
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates a client account
func RegisterHandler(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// Same rules as the client login form
		if err := req.Validate(); err != nil {
			respondError(c, err, http.StatusBadRequest, "Invalid request")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		accountNumber := req.AccountNumber // Own copy for the pointer
		// Create user with lowercase username to ensure uniqueness
		user := domain.User{
			Username:      strings.ToLower(req.Username),
			FullName:      strings.TrimSpace(req.FullName),
			AccountNumber: &accountNumber,
			Password:      string(hash),
			Role:          domain.RoleClient,
		}
		if err := users.CreateUser(c.Request.Context(), &user); err != nil {
			if errors.Is(err, repository.ErrUsernameTaken) {
				c.JSON(http.StatusConflict, gin.H{"message": "Username or account number already registered"})
				return
			}
			logrus.WithError(err).Error("Failed to register user")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to register user"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
		}).Info("Client registered")
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// ClientLoginHandler authenticates a client by username, account number and password
func ClientLoginHandler(users repository.UserRepository, tokens TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.ClientCredentials // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		if err := req.Validate(); err != nil {
			respondError(c, err, http.StatusBadRequest, "Invalid request")
			return
		}
		user, err := users.FindClient(c.Request.Context(), strings.ToLower(req.Username), req.AccountNumber)
		issueToken(c, user, err, req.Password, tokens)
	}
}

// StaffLoginHandler authenticates a staff member by username and password
func StaffLoginHandler(users repository.UserRepository, tokens TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.StaffCredentials // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		if err := req.Validate(); err != nil {
			respondError(c, err, http.StatusBadRequest, "Invalid request")
			return
		}
		user, err := users.FindStaff(c.Request.Context(), strings.ToLower(req.Username))
		issueToken(c, user, err, req.Password, tokens)
	}
}

// issueToken finishes a login once the user lookup has run
func issueToken(c *gin.Context, user *domain.User, lookupErr error, password string, tokens TokenConfig) {
	if lookupErr != nil {
		if !errors.Is(lookupErr, repository.ErrUserNotFound) {
			logrus.WithError(lookupErr).Error("Login lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,   // User ID
			"role":    user.Role, // Role attempted
		}).Warn("Login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	token, err := utils.GenerateJWT(user.ID, user.Role, tokens.Secret, tokens.TTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,   // User ID
		"role":    user.Role, // Role granted
	}).Info("Login succeeded")
	c.JSON(http.StatusOK, AuthResponse{Token: token}) // Return the token in the response
}
