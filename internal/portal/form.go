// Package portal is the login front end: a form controller that validates
// credentials for the selected user type, submits them to the matching
// endpoint and keeps the resulting token in a Session.
package portal

import (
	"context" // Submission cancellation
	"errors"  // Sentinel errors
	"maps"    // Copies of field errors handed to callers
	"sync"    // Form state locking

	"payment_portal/internal/validation" // Credential rules
)

// Route is a view to open after a successful login.
type Route string

// Post-login destinations
const (
	RouteClientPayments Route = "/payments"
	RouteStaffPayments  Route = "/payment"
)

// DestinationFor returns the view a user of userType lands on.
func DestinationFor(userType validation.UserType) Route {
	if userType == validation.UserTypeStaff {
		return RouteStaffPayments
	}
	return RouteClientPayments
}

// GenericFailureMessage is shown when a login fails without a server message.
const GenericFailureMessage = "Something went wrong. Please try again."

// ErrSubmitInProgress is returned while an earlier submission is outstanding.
var ErrSubmitInProgress = errors.New("login already being submitted")

// State is where the form is in its submit cycle.
type State int

const (
	StateIdle       State = iota // Editable, submit enabled
	StateSubmitting              // Login request outstanding
	StateSucceeded               // Token saved, destination returned
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	}
	return "idle"
}

// Form is the login form controller. It is safe for concurrent use; at most
// one submission is outstanding at a time.
type Form struct {
	auth    Authenticator // Login transport
	session *Session      // Receives the token

	mu            sync.Mutex             // Guards everything below
	userType      validation.UserType    // Selected role
	username      string                 // Username field
	accountNumber string                 // Account number field, Client only
	password      string                 // Password field
	state         State                  // Submit cycle
	validated     bool                   // Field errors are tracked once validation has run
	fieldErrors   validation.FieldErrors // Errors from the last validation
	serverError   string                 // Banner text of the last failure
}

// NewForm returns an empty form set to Client.
func NewForm(auth Authenticator, session *Session) *Form {
	return &Form{auth: auth, session: session, userType: validation.UserTypeClient}
}

// UserType returns the selected login role.
func (f *Form) UserType() validation.UserType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userType
}

// SetUserType switches the role. Field errors are re-derived for the new
// role's rules if validation has already run.
func (f *Form) SetUserType(userType validation.UserType) error {
	if !userType.Valid() {
		return errors.New("unknown user type " + string(userType))
	}
	f.update(func() { f.userType = userType })
	return nil
}

// SetUsername updates the username field.
func (f *Form) SetUsername(v string) { f.update(func() { f.username = v }) }

// SetAccountNumber updates the account number field. It is kept while the
// form is set to Staff but neither validated nor sent.
func (f *Form) SetAccountNumber(v string) { f.update(func() { f.accountNumber = v }) }

// SetPassword updates the password field.
func (f *Form) SetPassword(v string) { f.update(func() { f.password = v }) }

func (f *Form) update(change func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	change()
	if f.validated {
		f.validateLocked() // Keep shown errors in step with the fields
	}
}

// Credentials returns the credential variant for the current role.
func (f *Form) Credentials() validation.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.credentialsLocked()
}

func (f *Form) credentialsLocked() validation.Credentials {
	if f.userType == validation.UserTypeStaff {
		return validation.StaffCredentials{Username: f.username, Password: f.password}
	}
	return validation.ClientCredentials{Username: f.username, AccountNumber: f.accountNumber, Password: f.password}
}

// Validate checks the fields against the current role's rules and returns
// the offending fields, or nil.
func (f *Form) Validate() validation.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.validateLocked())
}

func (f *Form) validateLocked() validation.FieldErrors {
	f.validated = true
	f.fieldErrors = nil
	if fe, ok := validation.AsFieldErrors(f.credentialsLocked().Validate()); ok {
		f.fieldErrors = fe
	}
	return f.fieldErrors
}

// FieldErrors returns the field errors from the last validation.
func (f *Form) FieldErrors() validation.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.fieldErrors)
}

// ServerError returns the banner message of the last failed submission.
func (f *Form) ServerError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.serverError
}

// State returns the submit state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit() bool {
	return f.State() != StateSubmitting
}

// Submit validates the form, sends the credentials to the role's endpoint,
// saves the returned token in the session and returns the destination.
// Invalid fields are returned as validation.FieldErrors without any network
// call. Any other failure leaves the form idle with ServerError set; nothing
// is retried.
func (f *Form) Submit(ctx context.Context) (Route, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return "", ErrSubmitInProgress
	}
	f.serverError = "" // New attempt clears the banner
	if fe := f.validateLocked(); fe != nil {
		f.mu.Unlock()
		return "", maps.Clone(fe) // Invalid fields never reach the network
	}
	creds := f.credentialsLocked() // Snapshot sent to the server
	f.state = StateSubmitting
	f.mu.Unlock()

	token, err := f.auth.Login(ctx, creds) // Lock released while the request runs
	if err == nil {
		err = f.session.Save(token)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateIdle                 // Form stays usable, nothing is retried
		f.serverError = FailureMessage(err) // Server text or the generic fallback
		return "", err
	}
	f.state = StateSucceeded
	return DestinationFor(creds.UserType()), nil
}

// FailureMessage is the text shown for a failed submission: the server's
// own message when it sent one, otherwise GenericFailureMessage.
func FailureMessage(err error) string {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return GenericFailureMessage
}
