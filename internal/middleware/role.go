package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"payment_portal/internal/domain"     // Importing domain models
	"payment_portal/internal/repository" // User lookups
)

// RequireRole checks the token role and re-reads the user's role from storage on each request
func RequireRole(users repository.UserRepository, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(UserIDKey) // Get userID from context
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		// Fast path: the token already names another role
		if claimed, _ := c.Get(RoleKey); claimed != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied for this role"})
			return
		}
		user, err := users.FindUserByID(c.Request.Context(), userID.(uint)) // Fetch user from storage
		// Unknown user or role changed since the token was issued
		if err != nil || user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied for this role"})
			return
		}
		c.Next() // Role confirmed, proceed
	}
}
