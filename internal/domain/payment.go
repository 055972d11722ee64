package domain

// PaymentMethod is how a payment is funded
type PaymentMethod string

// Supported payment methods
const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentPayPal       PaymentMethod = "paypal"
)

// PaymentMethods lists every supported payment method
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentPayPal}
}

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentPayPal:
		return true
	}
	return false
}

// Status is the processing state of a transaction.
// Any status may be written at any time; no transition order is enforced.
type Status string

// Transaction statuses
const (
	StatusPending   Status = "pending"
	StatusVerified  Status = "verified"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Statuses lists every transaction status
func Statuses() []Status {
	return []Status{StatusPending, StatusVerified, StatusCompleted, StatusFailed}
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusCompleted, StatusFailed:
		return true
	}
	return false
}
