package portal

import (
	"bytes"         // Request bodies
	"context"       // Request cancellation
	"encoding/json" // Wire format
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"io"            // Bounded body reads
	"net/http"      // HTTP client
	"strings"       // URL trimming

	"github.com/sirupsen/logrus" // Logrus for structured logging

	"payment_portal/internal/domain"     // Payment records
	"payment_portal/internal/validation" // Credentials
)

// Login endpoints, relative to the API base URL.
const (
	ClientLoginPath = "/api/auth/login/user"  // Client login
	StaffLoginPath  = "/api/auth/login/staff" // Staff login
)

// Payment listing endpoints, relative to the API base URL.
const (
	ClientPaymentsPath = "/api/payments"       // Own payment history
	StaffPaymentsPath  = "/api/staff/payments" // Every payment
)

const maxBody = 1 << 20 // Largest response body read

// LoginPath returns the endpoint for userType.
func LoginPath(userType validation.UserType) string {
	if userType == validation.UserTypeStaff {
		return StaffLoginPath
	}
	return ClientLoginPath
}

// PaymentsPath returns the listing a user of userType may read.
func PaymentsPath(userType validation.UserType) string {
	if userType == validation.UserTypeStaff {
		return StaffPaymentsPath
	}
	return ClientPaymentsPath
}

// ServerError is a request the server answered with a failure status.
type ServerError struct {
	StatusCode int    // HTTP status
	Message    string // Human readable text from the response body, may be empty
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request rejected with status %d: %s", e.StatusCode, e.Message)
}

// ErrMissingToken is a login success response that carried no token.
var ErrMissingToken = errors.New("login response has no token")

// Authenticator exchanges credentials for an access token.
type Authenticator interface {
	Login(ctx context.Context, creds validation.Credentials) (string, error)
}

// PaymentPage is one page of a payment listing.
type PaymentPage struct {
	Transactions []domain.Transaction `json:"transactions"` // Newest first
	Page         int                  `json:"page"`         // Current page
	PageSize     int                  `json:"page_size"`    // Page size
	Total        int64                `json:"total"`        // Payments on record
	TotalPages   int                  `json:"total_pages"`  // Total pages
}

// AuthClient talks to the login and payment listing endpoints over HTTP.
type AuthClient struct {
	baseURL    string       // API base URL without trailing slash
	httpClient *http.Client // Transport
}

// NewAuthClient returns a client for the API at baseURL. A nil httpClient
// means http.DefaultClient.
func NewAuthClient(baseURL string, httpClient *http.Client) *AuthClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AuthClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Login posts the credentials to the endpoint of their user type.
func (c *AuthClient) Login(ctx context.Context, creds validation.Credentials) (string, error) {
	body, err := json.Marshal(creds.Payload()) // Staff payloads carry no account number
	if err != nil {
		return "", fmt.Errorf("encode login: %w", err)
	}
	url := c.baseURL + LoginPath(creds.UserType())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Token string `json:"token"` // JWT access token
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", ErrMissingToken
	}
	return out.Token, nil
}

// Payments fetches the first page of the listing for userType, authorized
// by the token in session.
func (c *AuthClient) Payments(ctx context.Context, session *Session, userType validation.UserType) (*PaymentPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+PaymentsPath(userType), nil)
	if err != nil {
		return nil, fmt.Errorf("build payments request: %w", err)
	}
	if err := session.Authorize(req); err != nil {
		return nil, err // No token, or the store failed
	}
	var page PaymentPage
	if err := c.do(req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// do sends req and decodes a 2xx JSON body into out. Other statuses become
// a ServerError carrying the body's message, if it has one.
func (c *AuthClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	log := logrus.WithFields(logrus.Fields{
		"method": req.Method,      // HTTP method
		"path":   req.URL.Path,    // Endpoint
		"status": resp.StatusCode, // Response status
	})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Message string `json:"message"` // Server provided reason
		}
		// A body that is not JSON still counts as a server answer without a message
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&failure)
		log.WithField("message", failure.Message).Debug("Request rejected")
		return &ServerError{StatusCode: resp.StatusCode, Message: failure.Message}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	log.Debug("Request accepted")
	return nil
}
