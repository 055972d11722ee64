package validation

import (
	"encoding/json" // Field by field decoding of request bodies
	"errors"        // Error construction
	"reflect"       // Walking the input's JSON fields
	"time"          // Transaction date defaulting

	"github.com/shopspring/decimal" // Exact amounts

	"payment_portal/internal/domain" // Closed value sets and the stored record
)

// AmountScale is the number of decimal places an amount is stored with.
const AmountScale = 2

// TransactionInput is a candidate payment record as received from a caller.
// Pointer fields distinguish an absent value from a zero value.
type TransactionInput struct {
	FromAccount     *uint      `json:"fromAccount" validate:"required"`
	ToAccount       *uint      `json:"toAccount" validate:"required"`
	Amount          *float64   `json:"amount" validate:"required,gte=0,lt=1000000000000000000"` // decimal(20,2) holds 18 integer digits
	Currency        string     `json:"currency" validate:"required,currency_code,supported_currency"`
	SwiftCode       string     `json:"swiftCode" validate:"required,swift_format,swift_whitelist"`
	PaymentMethod   string     `json:"paymentMethod" validate:"required,payment_method"`
	TransactionDate *time.Time `json:"transactionDate"`
	Status          string     `json:"status" validate:"omitempty,transaction_status"`
}

// ErrNotObject is a transaction body that is not a JSON object.
var ErrNotObject = errors.New("transaction body must be a JSON object")

// DecodeTransaction reads a JSON object into a TransactionInput one field at
// a time. A field holding the wrong JSON type is reported in the returned
// FieldErrors and left empty, so the remaining rules can still run on the
// rest of the record. Unknown fields are ignored.
func DecodeTransaction(body []byte) (TransactionInput, FieldErrors, error) {
	var in TransactionInput
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return in, nil, ErrNotObject
	}

	var typeErrs FieldErrors
	v := reflect.ValueOf(&in).Elem()
	for i := 0; i < v.NumField(); i++ {
		name := jsonFieldName(v.Type().Field(i))
		value, ok := raw[name]
		if !ok {
			continue
		}
		field := v.Field(i)
		if err := json.Unmarshal(value, field.Addr().Interface()); err != nil {
			field.Set(reflect.Zero(field.Type())) // Drop any partial value
			if typeErrs == nil {
				typeErrs = make(FieldErrors)
			}
			typeErrs[name] = typeMessage(name)
		}
	}
	return in, typeErrs, nil
}

// ValidateTransaction applies every record rule to in. On success it returns
// the record to persist with transactionDate defaulted to now, status
// defaulted to pending and the amount rounded half away from zero to
// AmountScale places; otherwise it returns FieldErrors naming each failing
// field. Referential integrity of the accounts is left to storage.
func ValidateTransaction(in TransactionInput, now time.Time) (*domain.Transaction, error) {
	if err := validate.Struct(in); err != nil {
		return nil, toFieldErrors(err)
	}

	date := now
	if in.TransactionDate != nil && !in.TransactionDate.IsZero() {
		date = *in.TransactionDate
	}
	status := domain.StatusPending
	if in.Status != "" {
		status = domain.Status(in.Status)
	}

	return &domain.Transaction{
		FromAccountID:   *in.FromAccount,
		ToAccountID:     *in.ToAccount,
		Amount:          decimal.NewFromFloat(*in.Amount).Round(AmountScale), // Same value the column keeps
		Currency:        domain.Currency(in.Currency),
		SwiftCode:       domain.SwiftCode(in.SwiftCode),
		PaymentMethod:   domain.PaymentMethod(in.PaymentMethod),
		TransactionDate: date,
		Status:          status,
	}, nil
}
