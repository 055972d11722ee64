package repository

import (
	"context" // Request scoped queries
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"gorm.io/gorm" // GORM ORM library

	"payment_portal/internal/domain" // Importing domain models
)

type gormRepository struct {
	db *gorm.DB
}

// New returns a Repository backed by GORM. The connection should be opened
// with TranslateError so duplicate keys surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// CreateUser inserts a new user
func (r *gormRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken // Unique username or account number violated
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindUserByID fetches a user by primary key
func (r *gormRepository) FindUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	return r.first(r.db.WithContext(ctx).Where("id = ?", id), &user)
}

// FindClient fetches a client by username and account number
func (r *gormRepository) FindClient(ctx context.Context, username, accountNumber string) (*domain.User, error) {
	var user domain.User
	query := r.db.WithContext(ctx).Where("username = ? AND account_number = ? AND role = ?", username, accountNumber, domain.RoleClient)
	return r.first(query, &user)
}

// FindStaff fetches a staff member by username
func (r *gormRepository) FindStaff(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	return r.first(r.db.WithContext(ctx).Where("username = ? AND role = ?", username, domain.RoleStaff), &user)
}

func (r *gormRepository) first(query *gorm.DB, user *domain.User) (*domain.User, error) {
	if err := query.First(user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// CreateTransaction checks both accounts and inserts the record atomically
func (r *gormRepository) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range []uint{t.FromAccountID, t.ToAccountID} {
			var count int64 // Matching users
			if err := tx.Model(&domain.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("check account %d: %w", id, err)
			}
			if count == 0 {
				return ErrAccountNotFound // Referenced user is missing
			}
		}
		// Omit associations so the referenced users are never upserted
		if err := tx.Omit("FromAccount", "ToAccount").Create(t).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil // Commit transaction
	})
}

// ListTransactions returns a page of transactions, newest first
func (r *gormRepository) ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Transaction{}) // Start building the query
	if filter.AccountID != 0 {
		query = query.Where("from_account_id = ? OR to_account_id = ?", filter.AccountID, filter.AccountID) // Filter by account
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status) // Filter by status
	}
	var total int64 // Total matching transactions
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	var txs []domain.Transaction // Page of transactions
	page := query.Order("transaction_date desc, id desc").Offset(filter.Offset)
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit) // Apply page size
	}
	if err := page.Find(&txs).Error; err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return txs, total, nil
}

// UpdateTransactionStatus overwrites the status of a transaction
func (r *gormRepository) UpdateTransactionStatus(ctx context.Context, id uint, status domain.Status) (*domain.Transaction, error) {
	var t domain.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("find transaction: %w", err)
		}
		if err := tx.Model(&t).Update("status", status).Error; err != nil {
			return fmt.Errorf("update transaction status: %w", err)
		}
		t.Status = status // Reflect the stored value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}
