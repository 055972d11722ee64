// Package repository defines storage for portal users and payment records.
package repository

import (
	"context" // Request scoped storage calls
	"errors"  // Sentinel errors

	"payment_portal/internal/domain" // Stored models
)

var (
	// ErrUserNotFound no user matches the lookup
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken username or account number already registered
	ErrUsernameTaken = errors.New("username or account number already registered")

	// ErrAccountNotFound a transaction references a user that does not exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound no transaction matches the lookup
	ErrTransactionNotFound = errors.New("transaction not found")
)

// TransactionFilter narrows a transaction listing. Zero values match everything.
type TransactionFilter struct {
	AccountID uint          // Either side of the payment
	Status    domain.Status // Exact status
	Offset    int
	Limit     int
}

// UserRepository stores portal identities.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByID(ctx context.Context, id uint) (*domain.User, error)
	// FindClient matches a client by username and account number.
	FindClient(ctx context.Context, username, accountNumber string) (*domain.User, error)
	FindStaff(ctx context.Context, username string) (*domain.User, error)
}

// TransactionRepository stores validated payment records.
type TransactionRepository interface {
	// CreateTransaction persists tx, failing with ErrAccountNotFound when
	// either account does not exist.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	// ListTransactions returns one page, newest first, and the total match count.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, int64, error)
	UpdateTransactionStatus(ctx context.Context, id uint, status domain.Status) (*domain.Transaction, error)
}

// Repository is the full storage surface used by the API.
type Repository interface {
	UserRepository
	TransactionRepository
}
