package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"payment_portal/internal/domain"
	"payment_portal/internal/repository/inmem"
	"payment_portal/internal/utils"
)

const testSecret = "test-secret"

// memCache is an in-process stand-in for the Redis cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) GetCache(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (m *memCache) SetCache(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *memCache) DeleteCache(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

var _ utils.Cache = (*memCache)(nil)

type testServer struct {
	router *gin.Engine
	repo   *inmem.Repository
	cache  *memCache
}

// newTestServer seeds clients alice (1) and bob (2) and staff member carol (3).
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := inmem.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("abcd1234"), bcrypt.MinCost)
	require.NoError(t, err)
	for _, u := range []domain.User{
		{Username: "alice", AccountNumber: strPtr("1001"), Password: string(hash), Role: domain.RoleClient},
		{Username: "bob", AccountNumber: strPtr("1002"), Password: string(hash), Role: domain.RoleClient},
		{Username: "carol", Password: string(hash), Role: domain.RoleStaff},
	} {
		require.NoError(t, repo.CreateUser(context.Background(), &u))
	}

	cache := newMemCache()
	router, err := NewRouter(Deps{
		Repo:     repo,
		Cache:    cache,
		Tokens:   TokenConfig{Secret: testSecret, TTL: time.Hour},
		CacheTTL: time.Minute,
	})
	require.NoError(t, err)
	return &testServer{router: router, repo: repo, cache: cache}
}

func strPtr(s string) *string { return &s }

func tokenFor(t *testing.T, id uint, role domain.Role) string {
	t.Helper()
	token, err := utils.GenerateJWT(id, role, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func validPayment() map[string]any {
	return map[string]any{
		"toAccount":     2,
		"amount":        100,
		"currency":      "ZAR",
		"swiftCode":     "ABSAZAJJ",
		"paymentMethod": "bank_transfer",
	}
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "Dave", "accountNumber": "1004", "password": "dave1234", "fullName": "Dave D",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, body := s.do(t, http.MethodPost, "/api/auth/login/user", "", map[string]any{
		"username": "dave", "accountNumber": "1004", "password": "dave1234",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])

	w, _ = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "dave", "accountNumber": "1005", "password": "dave1234",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "erin", "accountNumber": "1006", "password": "password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := body["errors"].(map[string]any)
	assert.Equal(t, "Password must contain at least one letter and one number.", errs["password"])
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		body     map[string]any
		wantCode int
		wantRole domain.Role
		wantMsg  string
	}{
		{"client ok", "/api/auth/login/user", map[string]any{"username": "alice", "accountNumber": "1001", "password": "abcd1234"}, http.StatusOK, domain.RoleClient, ""},
		{"client username is case insensitive", "/api/auth/login/user", map[string]any{"username": "ALICE", "accountNumber": "1001", "password": "abcd1234"}, http.StatusOK, domain.RoleClient, ""},
		{"client wrong account", "/api/auth/login/user", map[string]any{"username": "alice", "accountNumber": "1002", "password": "abcd1234"}, http.StatusUnauthorized, "", "Invalid credentials"},
		{"client wrong password", "/api/auth/login/user", map[string]any{"username": "alice", "accountNumber": "1001", "password": "abcd9999"}, http.StatusUnauthorized, "", "Invalid credentials"},
		{"client missing account", "/api/auth/login/user", map[string]any{"username": "alice", "password": "abcd1234"}, http.StatusBadRequest, "", "Validation failed"},
		{"staff ok without account", "/api/auth/login/staff", map[string]any{"username": "carol", "password": "abcd1234"}, http.StatusOK, domain.RoleStaff, ""},
		{"client cannot use staff login", "/api/auth/login/staff", map[string]any{"username": "alice", "password": "abcd1234"}, http.StatusUnauthorized, "", "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := s.do(t, http.MethodPost, tt.path, "", tt.body)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
				return
			}
			claims, err := utils.ParseJWT(body["token"].(string), testSecret)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, claims.Role)
		})
	}
}

func TestCreatePayment(t *testing.T) {
	s := newTestServer(t)
	alice := tokenFor(t, 1, domain.RoleClient)

	w, body := s.do(t, http.MethodPost, "/api/payments", alice, validPayment())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tx := body["transaction"].(map[string]any)
	assert.Equal(t, "pending", tx["status"])
	assert.Equal(t, float64(1), tx["fromAccount"])
	assert.Equal(t, "100", tx["amount"])
	assert.NotEmpty(t, tx["reference"])
	assert.NotEmpty(t, tx["transactionDate"])

	zero := validPayment()
	zero["amount"] = 0
	w, _ = s.do(t, http.MethodPost, "/api/payments", alice, zero)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreatePaymentRejected(t *testing.T) {
	s := newTestServer(t)
	alice := tokenFor(t, 1, domain.RoleClient)

	tests := []struct {
		name     string
		change   map[string]any
		token    string
		wantCode int
		field    string
	}{
		{"negative amount", map[string]any{"amount": -1}, alice, http.StatusBadRequest, "amount"},
		{"non-numeric amount", map[string]any{"amount": "abc"}, alice, http.StatusBadRequest, "amount"},
		{"amount as string", map[string]any{"amount": "100"}, alice, http.StatusBadRequest, "amount"},
		{"amount beyond storage", map[string]any{"amount": 1e18}, alice, http.StatusBadRequest, "amount"},
		{"receiver as string", map[string]any{"toAccount": "bob"}, alice, http.StatusBadRequest, "toAccount"},
		{"unknown swift code", map[string]any{"swiftCode": "ZZZZZZZZ"}, alice, http.StatusBadRequest, "swiftCode"},
		{"lowercase currency", map[string]any{"currency": "usd"}, alice, http.StatusBadRequest, "currency"},
		{"unknown payment method", map[string]any{"paymentMethod": "cheque"}, alice, http.StatusBadRequest, "paymentMethod"},
		{"missing receiver", map[string]any{"toAccount": nil}, alice, http.StatusBadRequest, "toAccount"},
		{"receiver does not exist", map[string]any{"toAccount": 99}, alice, http.StatusBadRequest, "toAccount"},
		{"client sets status", map[string]any{"status": "completed"}, alice, http.StatusBadRequest, "status"},
		{"paying from another account", map[string]any{"fromAccount": 2}, alice, http.StatusForbidden, ""},
		{"no token", nil, "", http.StatusUnauthorized, ""},
		{"staff token", nil, tokenFor(t, 3, domain.RoleStaff), http.StatusForbidden, ""},
		{"client token for staff user", nil, tokenFor(t, 3, domain.RoleClient), http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayment()
			for k, v := range tt.change {
				payload[k] = v
			}
			w, body := s.do(t, http.MethodPost, "/api/payments", tt.token, payload)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.field != "" {
				errs := body["errors"].(map[string]any)
				assert.Contains(t, errs, tt.field)
			}
		})
	}

	w, body := s.do(t, http.MethodGet, "/api/payments", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["total"], "rejected payments are never stored")
}

func TestCreatePaymentReportsEveryField(t *testing.T) {
	s := newTestServer(t)
	alice := tokenFor(t, 1, domain.RoleClient)

	payload := validPayment()
	payload["amount"] = "abc"
	payload["currency"] = "usd"
	payload["swiftCode"] = 42
	w, body := s.do(t, http.MethodPost, "/api/payments", alice, payload)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "Validation failed", body["message"])
	assert.Equal(t, map[string]any{
		"amount":    "Amount must be a number",
		"currency":  "Currency must be a three letter uppercase code",
		"swiftCode": "swiftCode must be a string",
	}, body["errors"])

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(`[1, 2]`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+alice)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid request"}`, rec.Body.String())
}

func TestCreatePaymentRoundsToStoredScale(t *testing.T) {
	s := newTestServer(t)
	alice := tokenFor(t, 1, domain.RoleClient)

	payload := validPayment()
	payload["amount"] = 12.345
	w, body := s.do(t, http.MethodPost, "/api/payments", alice, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "12.35", body["transaction"].(map[string]any)["amount"])

	_, body = s.do(t, http.MethodGet, "/api/payments", alice, nil)
	stored := body["transactions"].([]any)[0].(map[string]any)
	assert.Equal(t, "12.35", stored["amount"], "history shows the amount the client was told")
}

func TestPaymentHistoryCaching(t *testing.T) {
	s := newTestServer(t)
	alice := tokenFor(t, 1, domain.RoleClient)
	bob := tokenFor(t, 2, domain.RoleClient)

	w, _ := s.do(t, http.MethodPost, "/api/payments", alice, validPayment())
	require.Equal(t, http.StatusCreated, w.Code)

	_, body := s.do(t, http.MethodGet, "/api/payments", bob, nil)
	assert.Equal(t, false, body["cached"])
	assert.Equal(t, float64(1), body["total"])

	_, body = s.do(t, http.MethodGet, "/api/payments", bob, nil)
	assert.Equal(t, true, body["cached"])
	assert.Len(t, body["transactions"], 1)

	// A new payment to bob invalidates his cached history
	w, _ = s.do(t, http.MethodPost, "/api/payments", alice, validPayment())
	require.Equal(t, http.StatusCreated, w.Code)
	_, body = s.do(t, http.MethodGet, "/api/payments?page=1&page_size=1", bob, nil)
	assert.Equal(t, false, body["cached"])
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, float64(2), body["total_pages"])
	assert.Len(t, body["transactions"], 1)
}

func TestStaffPayments(t *testing.T) {
	s := newTestServer(t)
	alice := tokenFor(t, 1, domain.RoleClient)
	carol := tokenFor(t, 3, domain.RoleStaff)

	for i := 0; i < 2; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/payments", alice, validPayment())
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, _ := s.do(t, http.MethodGet, "/api/staff/payments", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := s.do(t, http.MethodGet, "/api/staff/payments", carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["total"])

	// Any status may be written directly, with no ordering
	w, body = s.do(t, http.MethodPatch, "/api/staff/payments/1/status", carol, map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", body["transaction"].(map[string]any)["status"])

	w, _ = s.do(t, http.MethodPatch, "/api/staff/payments/1/status", carol, map[string]any{"status": "refunded"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = s.do(t, http.MethodPatch, "/api/staff/payments/42/status", carol, map[string]any{"status": "failed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(t, http.MethodPatch, "/api/staff/payments/abc/status", carol, map[string]any{"status": "failed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/staff/payments?status=completed", carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["cached"], "status change invalidates staff listings")
	assert.Equal(t, float64(1), body["total"])

	w, _ = s.do(t, http.MethodGet, "/api/staff/payments?status=lost", carol, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReference(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/api/reference", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["currencies"], 9)
	assert.Len(t, body["banks"], 9)
	assert.Len(t, body["paymentMethods"], 4)
	assert.Len(t, body["statuses"], 4)
}
