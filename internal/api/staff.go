package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"payment_portal/internal/domain"     // Importing domain models
	"payment_portal/internal/middleware" // Context keys
	"payment_portal/internal/repository" // Transaction storage
	"payment_portal/internal/utils"      // Cache helpers
)

// StatusRequest sets the status of a payment
type StatusRequest struct {
	Status string `json:"status" binding:"required,transaction_status"` // New status
}

// ListPaymentsHandler returns every payment, optionally filtered by status
func ListPaymentsHandler(txs repository.TransactionRepository, cache utils.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := domain.Status(c.Query("status")) // Optional status filter
		if status != "" && !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown status filter"})
			return
		}
		page, pageSize := parsePage(c)
		cacheKey := staffPaymentsPrefix + "status=" + string(status) + ":page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		servePage(c, txs, cache, ttl, cacheKey, repository.TransactionFilter{Status: status}, page, pageSize)
	}
}

// UpdatePaymentStatusHandler overwrites the status of a payment. Any status may follow any other.
func UpdatePaymentStatusHandler(txs repository.TransactionRepository, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64) // Payment ID from path
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment id"})
			return
		}
		var req StatusRequest // Bind and validate JSON body
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Status must be one of pending, verified, completed, failed"})
			return
		}
		tx, err := txs.UpdateTransactionStatus(c.Request.Context(), uint(id), domain.Status(req.Status))
		if err != nil {
			if errors.Is(err, repository.ErrTransactionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Payment not found"})
				return
			}
			logrus.WithError(err).WithField("payment_id", id).Error("Status update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Status update failed"})
			return
		}
		staffID, _ := c.Get(middleware.UserIDKey) // Acting staff member
		logrus.WithFields(logrus.Fields{
			"payment_id": tx.ID,        // Payment ID
			"reference":  tx.Reference, // Public reference
			"status":     tx.Status,    // New status
			"staff_id":   staffID,      // Acting staff member
		}).Info("Payment status changed")
		invalidate(c.Request.Context(), cache,
			userPaymentsPrefix+strconv.Itoa(int(tx.FromAccountID))+":",
			userPaymentsPrefix+strconv.Itoa(int(tx.ToAccountID))+":",
			staffPaymentsPrefix,
		)
		c.JSON(http.StatusOK, gin.H{"message": "Status updated", "transaction": tx})
	}
}
