package validation

import "fmt" // Error formatting

// UserType selects which credential shape, endpoint and destination a login uses.
type UserType string

// Login roles
const (
	UserTypeClient UserType = "Client" // Customer login
	UserTypeStaff  UserType = "Staff"  // Employee login
)

// Valid reports whether t is a known login role.
func (t UserType) Valid() bool {
	return t == UserTypeClient || t == UserTypeStaff
}

// LoginPayload is the body sent to a login endpoint.
type LoginPayload struct {
	Username      string `json:"username"`                // Login name
	AccountNumber string `json:"accountNumber,omitempty"` // Sent for clients only
	Password      string `json:"password"`                // Plain password, TLS protects it
}

// Credentials is implemented only by ClientCredentials and StaffCredentials.
type Credentials interface {
	UserType() UserType
	// Validate returns FieldErrors for every offending field, or nil.
	Validate() error
	Payload() LoginPayload
	isCredentials()
}

// ClientCredentials identify a customer by username, account number and password.
type ClientCredentials struct {
	Username      string `json:"username" validate:"required,alphanum"`
	AccountNumber string `json:"accountNumber" validate:"required,number"`
	Password      string `json:"password" validate:"required,min=8,portal_password"`
}

// StaffCredentials identify an employee by username and password.
type StaffCredentials struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8,portal_password"`
}

func (ClientCredentials) UserType() UserType { return UserTypeClient }
func (StaffCredentials) UserType() UserType  { return UserTypeStaff }

func (c ClientCredentials) Validate() error { return structErrors(c) }
func (c StaffCredentials) Validate() error  { return structErrors(c) }

func (c ClientCredentials) Payload() LoginPayload {
	return LoginPayload{Username: c.Username, AccountNumber: c.AccountNumber, Password: c.Password}
}

func (c StaffCredentials) Payload() LoginPayload {
	return LoginPayload{Username: c.Username, Password: c.Password}
}

func (ClientCredentials) isCredentials() {}
func (StaffCredentials) isCredentials()  {}

// NewCredentials builds the variant selected by userType. accountNumber is
// ignored for staff.
func NewCredentials(userType UserType, username, accountNumber, password string) (Credentials, error) {
	switch userType {
	case UserTypeClient:
		return ClientCredentials{Username: username, AccountNumber: accountNumber, Password: password}, nil
	case UserTypeStaff:
		return StaffCredentials{Username: username, Password: password}, nil
	}
	return nil, fmt.Errorf("unknown user type %q", userType)
}

func structErrors(s any) error {
	if err := validate.Struct(s); err != nil {
		return toFieldErrors(err)
	}
	return nil
}
