// Package inmem is a mutex-guarded in-memory Repository for tests and local runs.
package inmem

import (
	"context" // Repository signatures
	"sort"    // Newest first ordering
	"sync"    // Concurrent access

	"payment_portal/internal/domain"     // Stored models
	"payment_portal/internal/repository" // Interfaces and errors
)

// Repository keeps users and transactions in slices.
type Repository struct {
	mu           sync.RWMutex         // Guards both slices
	users        []domain.User        // IDs are index + 1
	transactions []domain.Transaction // IDs are index + 1
}

// New returns an empty in-memory repository.
func New() *Repository {
	return &Repository{}
}

var _ repository.Repository = (*Repository)(nil)

// CreateUser implements repository.UserRepository.
func (r *Repository) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
		if u.AccountNumber != nil && user.AccountNumber != nil && *u.AccountNumber == *user.AccountNumber {
			return repository.ErrUsernameTaken
		}
	}
	user.ID = uint(len(r.users) + 1)
	if user.Role == "" {
		user.Role = domain.RoleClient
	}
	r.users = append(r.users, *user)
	return nil
}

// FindUserByID implements repository.UserRepository.
func (r *Repository) FindUserByID(_ context.Context, id uint) (*domain.User, error) {
	return r.findUser(func(u domain.User) bool { return u.ID == id })
}

// FindClient implements repository.UserRepository.
func (r *Repository) FindClient(_ context.Context, username, accountNumber string) (*domain.User, error) {
	return r.findUser(func(u domain.User) bool {
		return u.Role == domain.RoleClient && u.Username == username &&
			u.AccountNumber != nil && *u.AccountNumber == accountNumber
	})
}

// FindStaff implements repository.UserRepository.
func (r *Repository) FindStaff(_ context.Context, username string) (*domain.User, error) {
	return r.findUser(func(u domain.User) bool {
		return u.Role == domain.RoleStaff && u.Username == username
	})
}

func (r *Repository) findUser(match func(domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// CreateTransaction implements repository.TransactionRepository.
func (r *Repository) CreateTransaction(_ context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasUser(tx.FromAccountID) || !r.hasUser(tx.ToAccountID) {
		return repository.ErrAccountNotFound
	}
	tx.EnsureReference()
	tx.ID = uint(len(r.transactions) + 1)
	r.transactions = append(r.transactions, *tx)
	return nil
}

func (r *Repository) hasUser(id uint) bool {
	for _, u := range r.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// ListTransactions implements repository.TransactionRepository.
func (r *Repository) ListTransactions(_ context.Context, filter repository.TransactionFilter) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	matched := make([]domain.Transaction, 0, len(r.transactions))
	for _, t := range r.transactions {
		if filter.AccountID != 0 && t.FromAccountID != filter.AccountID && t.ToAccountID != filter.AccountID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		matched = append(matched, t)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].TransactionDate.Equal(matched[j].TransactionDate) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].TransactionDate.After(matched[j].TransactionDate)
	})

	total := int64(len(matched))
	start := min(max(filter.Offset, 0), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, end)
	}
	return matched[start:end], total, nil
}

// UpdateTransactionStatus implements repository.TransactionRepository.
func (r *Repository) UpdateTransactionStatus(_ context.Context, id uint, status domain.Status) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.transactions {
		if r.transactions[i].ID == id {
			r.transactions[i].Status = status
			updated := r.transactions[i]
			return &updated, nil
		}
	}
	return nil, repository.ErrTransactionNotFound
}
