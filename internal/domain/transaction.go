package domain

import (
	"time" // Transaction timestamps

	"github.com/google/uuid"        // Public references
	"github.com/shopspring/decimal" // Exact money amounts
	"gorm.io/gorm"                  // GORM hooks
)

// Transaction Model
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`                                 // Primary key
	Reference       string          `gorm:"size:36;uniqueIndex;not null" json:"reference"`        // Public UUID reference
	FromAccountID   uint            `gorm:"not null;index" json:"fromAccount"`                    // Foreign key to the paying User
	FromAccount     User            `gorm:"foreignKey:FromAccountID" json:"-"`                    // Paying user
	ToAccountID     uint            `gorm:"not null;index" json:"toAccount"`                      // Foreign key to the receiving User
	ToAccount       User            `gorm:"foreignKey:ToAccountID" json:"-"`                      // Receiving user
	Amount          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`            // Amount of the transaction
	Currency        Currency        `gorm:"size:3;not null" json:"currency"`                      // ISO currency code
	SwiftCode       SwiftCode       `gorm:"size:11;not null" json:"swiftCode"`                    // Receiving bank SWIFT code
	PaymentMethod   PaymentMethod   `gorm:"size:20;not null" json:"paymentMethod"`                // Funding method
	TransactionDate time.Time       `gorm:"not null;index" json:"transactionDate"`                // When the payment was made
	Status          Status          `gorm:"size:16;not null;default:pending;index" json:"status"` // Processing status
}

// EnsureReference assigns a public reference if the transaction has none
func (t *Transaction) EnsureReference() {
	if t.Reference == "" {
		t.Reference = uuid.NewString() // Random UUID v4
	}
}

// BeforeCreate is the GORM hook that fills the public reference
func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	t.EnsureReference()
	return nil
}
