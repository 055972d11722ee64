package api

import (
	"context"  // Cache operations
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"payment_portal/internal/domain"     // Importing domain models
	"payment_portal/internal/repository" // Transaction storage
	"payment_portal/internal/utils"      // Cache helpers
	"payment_portal/internal/validation" // Transaction rules
)

// PaymentPage is one page of a transaction listing
type PaymentPage struct {
	Transactions []domain.Transaction `json:"transactions"` // List of transactions
	Page         int                  `json:"page"`         // Current page
	PageSize     int                  `json:"page_size"`    // Page size
	Total        int64                `json:"total"`        // Total number of transactions
	TotalPages   int                  `json:"total_pages"`  // Total pages
	Cached       bool                 `json:"cached"`       // Served from cache
}

const (
	userPaymentsPrefix  = "payments:user:"  // Per client history pages
	staffPaymentsPrefix = "payments:staff:" // Staff listing pages
)

// CreatePaymentHandler validates and stores a payment made by the authenticated client
func CreatePaymentHandler(txs repository.TransactionRepository, cache utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		body, err := c.GetRawData() // Raw body, decoded field by field
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		in, typeErrs, err := validation.DecodeTransaction(body) // Wrong JSON types become field errors
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// The paying account is always the caller
		if in.FromAccount == nil && !typeErrs.Has("fromAccount") {
			in.FromAccount = &userID
		} else if in.FromAccount != nil && *in.FromAccount != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Payments can only be made from your own account"})
			return
		}
		// New payments start pending; staff moves them on
		if in.Status != "" && domain.Status(in.Status) != domain.StatusPending {
			if typeErrs == nil {
				typeErrs = validation.FieldErrors{}
			}
			typeErrs["status"] = "Only staff can set a payment status"
		}
		tx, err := validation.ValidateTransaction(in, time.Now().UTC())
		err = validation.Join(err, typeErrs) // Type errors replace the rule failures they cause
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Paying user
				"error":   err.Error(), // Failed rules
			}).Warn("Payment rejected")
			respondError(c, err, http.StatusBadRequest, "Invalid request")
			return
		}
		if err := txs.CreateTransaction(c.Request.Context(), tx); err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				respondError(c, validation.FieldErrors{"toAccount": "Account does not exist"}, http.StatusBadRequest, "")
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Paying user
				"error":   err.Error(), // Error message
			}).Error("Payment failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Payment failed"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"reference":      tx.Reference,       // Public reference
			"from_account":   tx.FromAccountID,   // Paying user
			"to_account":     tx.ToAccountID,     // Receiving user
			"amount":         tx.Amount.String(), // Amount
			"currency":       tx.Currency,        // Currency
			"swift_code":     tx.SwiftCode,       // Receiving bank
			"payment_method": tx.PaymentMethod,   // Funding method
		}).Info("Payment submitted")
		// Both parties' history and the staff listing are stale now
		invalidate(c.Request.Context(), cache,
			userPaymentsPrefix+strconv.Itoa(int(tx.FromAccountID))+":",
			userPaymentsPrefix+strconv.Itoa(int(tx.ToAccountID))+":",
			staffPaymentsPrefix,
		)
		c.JSON(http.StatusCreated, gin.H{"message": "Payment submitted", "transaction": tx})
	}
}

// PaymentHistoryHandler returns the authenticated client's payments, newest first
func PaymentHistoryHandler(txs repository.TransactionRepository, cache utils.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		page, pageSize := parsePage(c)
		// Redis cache key
		cacheKey := userPaymentsPrefix + strconv.Itoa(int(userID)) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		filter := repository.TransactionFilter{AccountID: userID}
		servePage(c, txs, cache, ttl, cacheKey, filter, page, pageSize)
	}
}

// servePage answers a listing from cache, or from storage and then caches it
func servePage(c *gin.Context, txs repository.TransactionRepository, cache utils.Cache, ttl time.Duration,
	cacheKey string, filter repository.TransactionFilter, page, pageSize int) {
	ctx := c.Request.Context()
	var cached PaymentPage
	// If found in cache, return it
	if found, err := cache.GetCache(ctx, cacheKey, &cached); err == nil && found {
		cached.Cached = true
		c.JSON(http.StatusOK, cached)
		return
	} else if err != nil {
		logrus.WithError(err).WithField("key", cacheKey).Warn("Cache read failed")
	}
	filter.Offset = (page - 1) * pageSize // Calculate offset
	filter.Limit = pageSize
	list, total, err := txs.ListTransactions(ctx, filter)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch transactions")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch transactions"})
		return
	}
	resp := PaymentPage{
		Transactions: list,
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
		TotalPages:   totalPages(total, pageSize),
	}
	if err := cache.SetCache(ctx, cacheKey, resp, ttl); err != nil {
		logrus.WithError(err).WithField("key", cacheKey).Warn("Cache write failed")
	}
	c.JSON(http.StatusOK, resp)
}

// invalidate drops cached listings; failures only cost a stale page until the TTL passes
func invalidate(ctx context.Context, cache utils.Cache, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := cache.DeletePrefix(ctx, prefix); err != nil {
			logrus.WithError(err).WithField("prefix", prefix).Warn("Cache invalidation failed")
		}
	}
}
