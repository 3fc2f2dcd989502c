package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlog/internal/auth"
	"spendlog/internal/core"
	"spendlog/internal/ledger"
)

// fakeExpenseStore is an in-memory ledger.Store honoring the owner-scoped
// contract.
type fakeExpenseStore struct {
	expenses map[int64]core.Expense
	nextID   int64
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{expenses: make(map[int64]core.Expense), nextID: 1}
}

func (s *fakeExpenseStore) Insert(_ context.Context, e core.Expense) (core.Expense, error) {
	e.ID = s.nextID
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	s.nextID++
	s.expenses[e.ID] = e
	return e, nil
}

func (s *fakeExpenseStore) FindByOwner(_ context.Context, ownerID int64) ([]core.Expense, error) {
	var out []core.Expense
	for id := int64(1); id < s.nextID; id++ {
		if e, ok := s.expenses[id]; ok && e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeExpenseStore) FindOneByIDAndOwner(_ context.Context, id, ownerID int64) (core.Expense, error) {
	e, ok := s.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return core.Expense{}, core.ErrNotFound
	}
	return e, nil
}

func (s *fakeExpenseStore) Replace(_ context.Context, id, ownerID int64, in core.ExpenseInput) (core.Expense, error) {
	e, ok := s.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return core.Expense{}, core.ErrNotFound
	}
	e.Title, e.Amount, e.Category, e.Description, e.Date = in.Title, in.Amount, in.Category, in.Description, in.Date
	e.UpdatedAt = time.Now().UTC()
	s.expenses[id] = e
	return e, nil
}

func (s *fakeExpenseStore) Remove(_ context.Context, id, ownerID int64) (bool, error) {
	e, ok := s.expenses[id]
	if !ok || e.OwnerID != ownerID {
		return false, nil
	}
	delete(s.expenses, id)
	return true, nil
}

// fakeUserStore is an in-memory auth.UserStore keyed by email.
type fakeUserStore struct {
	users  map[string]auth.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]auth.User), nextID: 1}
}

func (s *fakeUserStore) CreateUser(_ context.Context, email, fullName string, hash []byte) (auth.User, error) {
	if _, ok := s.users[email]; ok {
		return auth.User{}, auth.ErrEmailTaken
	}
	u := auth.User{ID: s.nextID, Email: email, FullName: fullName, PasswordHash: hash, CreatedAt: time.Now()}
	s.nextID++
	s.users[email] = u
	return u, nil
}

func (s *fakeUserStore) UserByEmail(_ context.Context, email string) (auth.User, error) {
	u, ok := s.users[email]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tokens := auth.NewTokenIssuer("test-secret-at-least-16b", time.Hour)
	authSvc := auth.NewService(newFakeUserStore(), tokens)
	ledgerSvc := ledger.NewService(newFakeExpenseStore(), nil)

	s := NewServer(":0", authSvc, ledgerSvc, tokens)
	t.Cleanup(s.limiter.Stop)
	return s
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
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

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func signup(t *testing.T, s *Server, email string) string {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":     email,
		"password":  "hunter22",
		"full_name": "Test User",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[authResponse](t, rec).Token
}

func expensePayload(title string) map[string]any {
	return map[string]any{
		"title":       title,
		"amount":      12.50,
		"category":    "Food & Dining",
		"description": "lunch",
		"date":        "2024-03-15",
	}
}

func TestSignupReturnsTokenAndUser(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":     "alice@example.com",
		"password":  "hunter22",
		"full_name": "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody[authResponse](t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "Alice", resp.User.FullName)
}

func TestSignupDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	signup(t, s, "alice@example.com")

	rec := doJSON(t, s, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":     "alice@example.com",
		"password":  "hunter22",
		"full_name": "Alice Again",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email already exists", decodeBody[errorResponse](t, rec).Error)
}

func TestSigninWrongPassword(t *testing.T) {
	s := newTestServer(t)
	signup(t, s, "alice@example.com")

	rec := doJSON(t, s, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeBody[errorResponse](t, rec).Error)
}

func TestSigninUnknownEmailSameError(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeBody[errorResponse](t, rec).Error)
}

func TestExpensesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/expenses"},
		{http.MethodPost, "/api/expenses"},
		{http.MethodPut, "/api/expenses/1"},
		{http.MethodDelete, "/api/expenses/1"},
		{http.MethodGet, "/api/expenses/stats"},
	} {
		rec := doJSON(t, s, tc.method, tc.path, "", nil)
		assert.Equalf(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/expenses", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndListExpense(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice@example.com")

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", token, expensePayload("Lunch"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody[expenseResponse](t, rec)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Lunch", created.Title)
	assert.Equal(t, 12.50, created.Amount)
	assert.Equal(t, "Food & Dining", created.Category)
	require.NotNil(t, created.Description)
	assert.Equal(t, "lunch", *created.Description)
	assert.Equal(t, "2024-03-15", created.Date)

	rec = doJSON(t, s, http.MethodGet, "/api/expenses", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]expenseResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestCreateExpenseInvalidAmount(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice@example.com")

	payload := expensePayload("Lunch")
	payload["amount"] = "-5"
	rec := doJSON(t, s, http.MethodPost, "/api/expenses", token, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateExpenseUnknownCategory(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice@example.com")

	payload := expensePayload("Lunch")
	payload["category"] = "Gambling"
	rec := doJSON(t, s, http.MethodPost, "/api/expenses", token, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListIsOwnerScoped(t *testing.T) {
	s := newTestServer(t)
	aliceToken := signup(t, s, "alice@example.com")
	bobToken := signup(t, s, "bob@example.com")

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", aliceToken, expensePayload("Lunch"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/expenses", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]expenseResponse](t, rec))
}

func TestListQueryPipeline(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice@example.com")

	for _, p := range []map[string]any{
		{"title": "Beta", "amount": 30, "category": "Food & Dining", "date": "2024-03-01"},
		{"title": "Alpha", "amount": 10, "category": "Travel", "date": "2024-03-02"},
		{"title": "Gamma", "amount": 20, "category": "Food & Dining", "date": "2024-03-03"},
	} {
		rec := doJSON(t, s, http.MethodPost, "/api/expenses", token, p)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, s, http.MethodGet, "/api/expenses?sort_by=title&sort_order=asc", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]expenseResponse](t, rec)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Title)
	assert.Equal(t, "Gamma", list[2].Title)

	rec = doJSON(t, s, http.MethodGet, "/api/expenses?category=Travel", token, nil)
	list = decodeBody[[]expenseResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Alpha", list[0].Title)

	rec = doJSON(t, s, http.MethodGet, "/api/expenses?search=gam", token, nil)
	list = decodeBody[[]expenseResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Gamma", list[0].Title)
}

func TestUpdateExpense(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice@example.com")

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", token, expensePayload("Lunch"))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[expenseResponse](t, rec)

	payload := expensePayload("Dinner")
	payload["amount"] = "32.00"
	rec = doJSON(t, s, http.MethodPut, "/api/expenses/"+itoa(created.ID), token, payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decodeBody[expenseResponse](t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Dinner", updated.Title)
	assert.Equal(t, 32.0, updated.Amount)
}

func TestUpdateForeignExpenseIs404(t *testing.T) {
	s := newTestServer(t)
	aliceToken := signup(t, s, "alice@example.com")
	bobToken := signup(t, s, "bob@example.com")

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", aliceToken, expensePayload("Lunch"))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[expenseResponse](t, rec)

	rec = doJSON(t, s, http.MethodPut, "/api/expenses/"+itoa(created.ID), bobToken, expensePayload("Hijack"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteExpense(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice@example.com")

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", token, expensePayload("Lunch"))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[expenseResponse](t, rec)

	rec = doJSON(t, s, http.MethodDelete, "/api/expenses/"+itoa(created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[map[string]bool](t, rec)["success"])

	rec = doJSON(t, s, http.MethodDelete, "/api/expenses/"+itoa(created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedExpenseIDIs404(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice@example.com")

	rec := doJSON(t, s, http.MethodDelete, "/api/expenses/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	token := signup(t, s, "alice@example.com")

	for _, p := range []map[string]any{
		{"title": "Lunch", "amount": 10, "category": "Food & Dining", "date": "2024-03-01"},
		{"title": "Train", "amount": 20, "category": "Travel", "date": "2024-03-02"},
	} {
		rec := doJSON(t, s, http.MethodPost, "/api/expenses", token, p)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/expenses/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stats := decodeBody[statsResponse](t, rec)
	assert.Equal(t, 30.0, stats.Total)
	require.Len(t, stats.ByCategory, 2)
	assert.Len(t, stats.Weekly, 7)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, "", nil)
		assert.Equalf(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
