package validation

import (
	"errors"  // Error inspection
	"maps"    // Copying field errors
	"sort"    // Stable error text
	"strings" // Joining messages

	"github.com/go-playground/validator/v10" // Rule failures to translate
)

// FieldErrors carries one message per offending field, keyed by JSON field name.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + fe[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// AsFieldErrors extracts FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// messages holds the user-facing text per "field.tag", with "tag" as the fallback key.
var messages = map[string]string{
	"amount.gte":                   "Amount must be a positive number",
	"amount.lt":                    "Amount is too large",
	"currency.currency_code":       "Currency must be a three letter uppercase code",
	"currency.supported_currency":  "Currency is not supported",
	"swiftCode.swift_format":       "SWIFT code must be 8 to 11 uppercase letters or digits",
	"swiftCode.swift_whitelist":    "SWIFT code does not belong to a supported bank",
	"paymentMethod.payment_method": "Payment method must be one of credit_card, debit_card, bank_transfer, paypal",
	"status.transaction_status":    "Status must be one of pending, verified, completed, failed",
	"username.required":            "Username is required",
	"username.alphanum":            "Username can only contain letters and numbers.",
	"accountNumber.required":       "Account Number is required",
	"accountNumber.number":         "Account Number must be numeric",
	"password.required":            "Password is required",
	"password.min":                 "Password must be at least 8 characters",
	"password.portal_password":     "Password must contain at least one letter and one number.",
	"required":                     "is required",
}

// typeMessages is the text for a field whose JSON value has the wrong type.
var typeMessages = map[string]string{
	"fromAccount":     "From Account must be an account id",
	"toAccount":       "To Account must be an account id",
	"amount":          "Amount must be a number",
	"transactionDate": "Transaction Date must be an RFC 3339 date",
}

func typeMessage(field string) string {
	if msg, ok := typeMessages[field]; ok {
		return msg
	}
	return field + " must be a string"
}

// Join adds extra to the field errors in err. Messages in extra win, since a
// value of the wrong type also fails every rule that follows. A nil err
// with no extra stays nil; an err that is not FieldErrors is returned as is.
func Join(err error, extra FieldErrors) error {
	if len(extra) == 0 {
		return err
	}
	if err == nil {
		return maps.Clone(extra)
	}
	fe, ok := AsFieldErrors(err)
	if !ok {
		return err
	}
	out := maps.Clone(fe)
	maps.Copy(out, extra)
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Tag()]; ok {
		return fe.Field() + " " + msg
	}
	return fe.Field() + " is invalid"
}

// toFieldErrors converts validator output; anything else is returned unchanged.
func toFieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = messageFor(fe)
		}
	}
	return out
}
