package api

import (
	"time" // Cache lifetime

	"github.com/gin-gonic/gin" // Gin web framework

	"payment_portal/internal/domain"     // User roles
	"payment_portal/internal/middleware" // Custom package for middleware
	"payment_portal/internal/repository" // Storage
	"payment_portal/internal/utils"      // Cache
	"payment_portal/internal/validation" // Binding rules
)

// Deps are the collaborators the HTTP API needs
type Deps struct {
	Repo     repository.Repository // Users and transactions
	Cache    utils.Cache           // Listing cache
	Tokens   TokenConfig           // Access token settings
	CacheTTL time.Duration         // Lifetime of cached listings
}

// NewRouter registers every route on a new gin engine
func NewRouter(deps Deps) (*gin.Engine, error) {
	// Custom tags such as transaction_status in binding structs
	if err := validation.RegisterGinRules(); err != nil {
		return nil, err
	}

	r := gin.New()                                    // Gin router instance
	r.Use(middleware.RequestLogger(), gin.Recovery()) // Logrus request log and panic recovery

	apiGroup := r.Group("/api")
	apiGroup.GET("/reference", ReferenceHandler()) // Currencies, banks, methods, statuses

	// Auth routes
	auth := apiGroup.Group("/auth")
	auth.POST("/register", RegisterHandler(deps.Repo))                   // Client registration
	auth.POST("/login/user", ClientLoginHandler(deps.Repo, deps.Tokens)) // Client login
	auth.POST("/login/staff", StaffLoginHandler(deps.Repo, deps.Tokens)) // Staff login

	// Client payment routes
	payments := apiGroup.Group("/payments")
	payments.Use(middleware.JWTAuthMiddleware(deps.Tokens.Secret), middleware.RequireRole(deps.Repo, domain.RoleClient))
	payments.POST("", CreatePaymentHandler(deps.Repo, deps.Cache))                // Submit a payment
	payments.GET("", PaymentHistoryHandler(deps.Repo, deps.Cache, deps.CacheTTL)) // Own payment history

	// Staff routes
	staff := apiGroup.Group("/staff")
	staff.Use(middleware.JWTAuthMiddleware(deps.Tokens.Secret), middleware.RequireRole(deps.Repo, domain.RoleStaff))
	staff.GET("/payments", ListPaymentsHandler(deps.Repo, deps.Cache, deps.CacheTTL))      // All payments
	staff.PATCH("/payments/:id/status", UpdatePaymentStatusHandler(deps.Repo, deps.Cache)) // Set status

	return r, nil
}
