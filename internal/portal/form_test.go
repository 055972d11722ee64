package portal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payment_portal/internal/validation"
)

// fakeAuth records logins and answers with token or err. When block is set,
// Login waits on it before answering.
type fakeAuth struct {
	mu      sync.Mutex
	calls   []validation.Credentials
	token   string
	err     error
	block   chan struct{}
	started chan struct{}
}

func (a *fakeAuth) Login(_ context.Context, creds validation.Credentials) (string, error) {
	a.mu.Lock()
	a.calls = append(a.calls, creds)
	a.mu.Unlock()
	if a.block != nil {
		close(a.started)
		<-a.block
	}
	return a.token, a.err
}

func (a *fakeAuth) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func newTestForm(auth *fakeAuth) (*Form, *Session) {
	session := NewSession(NewMemoryStore())
	return NewForm(auth, session), session
}

func TestForm_DefaultsToClient(t *testing.T) {
	f, _ := newTestForm(&fakeAuth{})
	assert.Equal(t, validation.UserTypeClient, f.UserType())
	assert.Equal(t, StateIdle, f.State())
	assert.True(t, f.CanSubmit())
	assert.IsType(t, validation.ClientCredentials{}, f.Credentials())
}

func TestForm_SwitchingUserTypeRederivesValidation(t *testing.T) {
	f, _ := newTestForm(&fakeAuth{})
	f.SetUsername("alice")
	f.SetPassword("abcd1234")

	fe := f.Validate()
	assert.Equal(t, "Account Number is required", fe["accountNumber"])

	require.NoError(t, f.SetUserType(validation.UserTypeStaff))
	assert.Empty(t, f.FieldErrors())
	assert.IsType(t, validation.StaffCredentials{}, f.Credentials())

	require.NoError(t, f.SetUserType(validation.UserTypeClient))
	assert.True(t, f.FieldErrors().Has("accountNumber"))

	f.SetAccountNumber("12ab")
	assert.Equal(t, "Account Number must be numeric", f.FieldErrors()["accountNumber"])
	f.SetAccountNumber("1001")
	assert.Empty(t, f.FieldErrors())

	assert.Error(t, f.SetUserType("Admin"))
	assert.Equal(t, validation.UserTypeClient, f.UserType())
}

func TestForm_NoErrorsBeforeFirstValidation(t *testing.T) {
	f, _ := newTestForm(&fakeAuth{})
	f.SetUsername("a b")
	assert.Empty(t, f.FieldErrors())
}

func TestForm_SubmitInvalidSkipsNetwork(t *testing.T) {
	auth := &fakeAuth{token: "tok"}
	f, _ := newTestForm(auth)
	f.SetUsername("alice")
	f.SetPassword("abcdefgh")

	route, err := f.Submit(context.Background())
	assert.Empty(t, route)
	fe, ok := validation.AsFieldErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("password"))
	assert.True(t, fe.Has("accountNumber"))
	assert.Zero(t, auth.callCount())
	assert.Equal(t, StateIdle, f.State())
}

func TestForm_SubmitClient(t *testing.T) {
	auth := &fakeAuth{token: "client-token"}
	f, session := newTestForm(auth)
	f.SetUsername("alice")
	f.SetAccountNumber("1001")
	f.SetPassword("abcd1234")

	route, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteClientPayments, route)
	assert.Equal(t, StateSucceeded, f.State())

	token, ok, err := session.Token()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "client-token", token)

	require.Equal(t, 1, auth.callCount())
	assert.Equal(t, "1001", auth.calls[0].Payload().AccountNumber)
}

func TestForm_SubmitStaffDropsAccountNumber(t *testing.T) {
	auth := &fakeAuth{token: "staff-token"}
	f, _ := newTestForm(auth)
	f.SetAccountNumber("1001")
	require.NoError(t, f.SetUserType(validation.UserTypeStaff))
	f.SetUsername("carol")
	f.SetPassword("abcd1234")

	route, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteStaffPayments, route)
	require.Equal(t, 1, auth.callCount())
	assert.Equal(t, validation.UserTypeStaff, auth.calls[0].UserType())
	assert.Empty(t, auth.calls[0].Payload().AccountNumber)
}

func TestForm_SubmitFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"server message shown verbatim", &ServerError{StatusCode: 401, Message: "Invalid credentials"}, "Invalid credentials"},
		{"server answer without message", &ServerError{StatusCode: 502}, GenericFailureMessage},
		{"network failure", errors.New("dial tcp: connection refused"), GenericFailureMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{err: tt.err}
			f, session := newTestForm(auth)
			require.NoError(t, f.SetUserType(validation.UserTypeStaff))
			f.SetUsername("carol")
			f.SetPassword("abcd1234")

			route, err := f.Submit(context.Background())
			assert.Empty(t, route)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.wantMsg, f.ServerError())
			assert.Equal(t, StateIdle, f.State())
			assert.True(t, f.CanSubmit())
			_, ok, _ := session.Token()
			assert.False(t, ok)
			assert.Equal(t, 1, auth.callCount(), "failures are not retried")

			// The form stays usable and the next attempt clears the banner
			auth.err = nil
			auth.token = "tok"
			_, err = f.Submit(context.Background())
			require.NoError(t, err)
			assert.Empty(t, f.ServerError())
		})
	}
}

func TestForm_SingleSubmissionInFlight(t *testing.T) {
	auth := &fakeAuth{token: "tok", block: make(chan struct{}), started: make(chan struct{})}
	f, _ := newTestForm(auth)
	f.SetUsername("alice")
	f.SetAccountNumber("1001")
	f.SetPassword("abcd1234")

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()
	<-auth.started

	assert.Equal(t, StateSubmitting, f.State())
	assert.False(t, f.CanSubmit())
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(auth.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, auth.callCount())
	assert.True(t, f.CanSubmit())
}

func TestDestinationFor(t *testing.T) {
	assert.Equal(t, RouteClientPayments, DestinationFor(validation.UserTypeClient))
	assert.Equal(t, RouteStaffPayments, DestinationFor(validation.UserTypeStaff))
	assert.Equal(t, "submitting", StateSubmitting.String())
}
