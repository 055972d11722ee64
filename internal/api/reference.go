package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"payment_portal/internal/domain" // Closed value sets
)

// ReferenceHandler lists the values a payment form may offer
func ReferenceHandler() gin.HandlerFunc {
	body := gin.H{
		"currencies":     domain.Currencies(),
		"banks":          domain.Banks(),
		"paymentMethods": domain.PaymentMethods(),
		"statuses":       domain.Statuses(),
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, body)
	}
}
