// Package validation holds the rule sets applied to payment records and
// login credentials before they reach storage or the network.
package validation

import (
	"reflect" // Struct field tags
	"regexp"  // Format rules
	"strings" // Tag parsing

	"github.com/gin-gonic/gin/binding"       // Gin's validator engine
	"github.com/go-playground/validator/v10" // Struct tag validation

	"payment_portal/internal/domain" // Closed value sets
)

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)       // ISO style code
	swiftPattern    = regexp.MustCompile(`^[A-Z0-9]{8,11}$`) // BIC shape
	passwordPattern = regexp.MustCompile(`^[A-Za-z\d]{8,}$`) // Letters and digits only
	hasLetter       = regexp.MustCompile(`[A-Za-z]`)         // At least one letter
	hasDigit        = regexp.MustCompile(`\d`)               // At least one digit
)

// rules maps custom validator tags to their checks.
var rules = map[string]validator.Func{
	"currency_code": func(fl validator.FieldLevel) bool {
		return currencyPattern.MatchString(fl.Field().String())
	},
	"supported_currency": func(fl validator.FieldLevel) bool {
		return domain.Currency(fl.Field().String()).Valid()
	},
	"swift_format": func(fl validator.FieldLevel) bool {
		return swiftPattern.MatchString(fl.Field().String())
	},
	"swift_whitelist": func(fl validator.FieldLevel) bool {
		return domain.SwiftCode(fl.Field().String()).Valid()
	},
	"payment_method": func(fl validator.FieldLevel) bool {
		return domain.PaymentMethod(fl.Field().String()).Valid()
	},
	"transaction_status": func(fl validator.FieldLevel) bool {
		return domain.Status(fl.Field().String()).Valid()
	},
	"portal_password": func(fl validator.FieldLevel) bool {
		return IsValidPassword(fl.Field().String())
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := registerRules(v); err != nil {
		panic(err) // Only a malformed tag name can fail here
	}
	return v
}

func registerRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName) // Errors keyed like the request body
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterGinRules makes the custom tags usable in gin `binding` tags.
func RegisterGinRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil // A custom engine without these tags
	}
	return registerRules(v)
}

// jsonFieldName reports fields by their JSON name so error keys match request bodies.
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// IsValidPassword reports whether password is at least 8 letters or digits
// and contains at least one of each.
func IsValidPassword(password string) bool {
	return passwordPattern.MatchString(password) &&
		hasLetter.MatchString(password) &&
		hasDigit.MatchString(password)
}
