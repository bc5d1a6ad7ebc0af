package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trailcolombo/booking-api/internal/config"
	"github.com/trailcolombo/booking-api/internal/database"
	"github.com/trailcolombo/booking-api/internal/handler"
	"github.com/trailcolombo/booking-api/internal/middleware"
	"github.com/trailcolombo/booking-api/internal/queue"
	"github.com/trailcolombo/booking-api/internal/repository"
	"github.com/trailcolombo/booking-api/internal/router"
	"github.com/trailcolombo/booking-api/internal/utils"
)

// recordingNotifier captures events instead of publishing them so tests
// can assert the fire-and-forget path without a broker.
type recordingNotifier struct {
	mu     sync.Mutex
	events []queue.BookingCreatedEvent
}

func (r *recordingNotifier) Notify(_ context.Context, ev queue.BookingCreatedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recordingNotifier) last() queue.BookingCreatedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type testEnv struct {
	e        *echo.Echo
	admins   *repository.AdminRepo
	tours    *repository.TourRepo
	bookings *repository.BookingRepo
	notes    *recordingNotifier
}

// newTestEnv wires the full router against a temp-file database. Rate
// limits are generous by default so unrelated tests never trip them.
func newTestEnv(t *testing.T, limits config.RateLimits) *testEnv {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))

	cfg := config.Config{
		Env:           "test",
		JWTSecret:     "test-secret",
		TokenTTLHours: 1,
		BcryptCost:    bcrypt.MinCost,
		BodyLimit:     "10K",
		AllowedOrigins: []string{
			"http://localhost:5173",
		},
	}

	admins := repository.NewAdminRepo(db)
	tours := repository.NewTourRepo(db)
	bookings := repository.NewBookingRepo(db)
	notes := &recordingNotifier{}

	e := echo.New()
	router.Register(e, router.Deps{
		Cfg:      cfg,
		Limits:   limits,
		Counters: middleware.NewMemoryCounter(),
		Admin:    handler.NewAdminHandler(cfg, admins),
		Tours:    handler.NewTourHandler(tours),
		Bookings: handler.NewBookingHandler(bookings, notes),
	})

	return &testEnv{e: e, admins: admins, tours: tours, bookings: bookings, notes: notes}
}

func looseLimits() config.RateLimits {
	loose := func(prefix string) config.RateLimitConfig {
		return config.RateLimitConfig{Limit: 1000, Window: time.Minute, Message: "too many requests", Prefix: prefix}
	}
	return config.RateLimits{Login: loose("rl:login"), Booking: loose("rl:booking"), General: loose("rl:general")}
}

func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.e.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates an admin over the API and returns its token.
func registerAndLogin(t *testing.T, env *testEnv) string {
	t.Helper()
	creds := map[string]string{"email": "admin@example.com", "password": "supersecret1"}

	w := env.do(http.MethodPost, "/api/admin/register", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/admin/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestBookingLifecycle(t *testing.T) {
	env := newTestEnv(t, looseLimits())
	token := registerAndLogin(t, env)

	w := env.do(http.MethodPost, "/api/tours", token, map[string]any{
		"title": "Lotus Tower Visit",
		"price": 50,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tourID := decode(t, w)["id"].(float64)

	w = env.do(http.MethodPost, "/api/bookings", "", map[string]any{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"phone":   "+94 77 123 4567",
		"tour_id": tourID,
		"date":    "2030-05-10",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, true, created["success"])
	firstID := created["id"].(float64)

	// A second booking for the same tour gets its own id.
	w = env.do(http.MethodPost, "/api/bookings", "", map[string]any{
		"name":    "John Doe",
		"email":   "john@example.com",
		"phone":   "0771234568",
		"tour_id": tourID,
		"date":    "2030-05-11",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, firstID, decode(t, w)["id"].(float64))

	// Admin listing shows both rows as pending, joined with the title.
	w = env.do(http.MethodGet, "/api/bookings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, "pending", it["status"])
		assert.Equal(t, "Lotus Tower Visit", it["tour_title"])
	}

	// The notifier eventually sees both events.
	assert.Eventually(t, func() bool { return env.notes.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Lotus Tower Visit", env.notes.last().TourTitle)
}

func TestBookingUnknownTour(t *testing.T) {
	env := newTestEnv(t, looseLimits())

	w := env.do(http.MethodPost, "/api/bookings", "", map[string]any{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"phone":   "0771234567",
		"tour_id": 999,
		"date":    "2030-05-10",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "tour not found", decode(t, w)["error"])

	n, err := env.bookings.CountForTour(context.Background(), 999)
	require.NoError(t, err)
	assert.Zero(t, n, "a rejected booking leaves no row")
	assert.Zero(t, env.notes.count())
}

func TestBookingValidation(t *testing.T) {
	env := newTestEnv(t, looseLimits())
	token := registerAndLogin(t, env)

	w := env.do(http.MethodPost, "/api/tours", token, map[string]any{"title": "City Walk", "price": 40})
	require.Equal(t, http.StatusOK, w.Code)
	tourID := decode(t, w)["id"].(float64)

	today := time.Now().Format("2006-01-02")

	valid := func() map[string]any {
		return map[string]any{
			"name": "Jane Doe", "email": "jane@example.com", "phone": "0771234567",
			"tour_id": tourID, "date": "2030-05-10",
		}
	}

	cases := []struct {
		name   string
		mutate func(map[string]any)
		want   string
	}{
		{"missing field", func(m map[string]any) { delete(m, "email") }, "all fields are required"},
		{"bad email", func(m map[string]any) { m["email"] = "not-an-email" }, "invalid email format"},
		{"short name", func(m map[string]any) { m["name"] = "J" }, "name must be 2-100 characters"},
		{"short phone", func(m map[string]any) { m["phone"] = "123456" }, "invalid phone format"},
		{"today is not future", func(m map[string]any) { m["date"] = today }, "tour date must be in the future"},
		{"past date", func(m map[string]any) { m["date"] = "2020-01-01" }, "tour date must be in the future"},
		{"bad tour id", func(m map[string]any) { m["tour_id"] = "abc" }, "invalid tour id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := valid()
			tc.mutate(body)
			w := env.do(http.MethodPost, "/api/bookings", "", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, decode(t, w)["error"])
		})
	}

	// The boundary-valid request still passes.
	body := valid()
	body["phone"] = "1234567" // exactly 7 digits
	w = env.do(http.MethodPost, "/api/bookings", "", body)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	env := newTestEnv(t, looseLimits())

	cases := []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/tours", map[string]any{"title": "Sneaky Tour", "price": 10}},
		{http.MethodDelete, "/api/tours/1", nil},
		{http.MethodGet, "/api/bookings", nil},
		{http.MethodPut, "/api/bookings/1", map[string]any{"status": "confirmed"}},
		{http.MethodDelete, "/api/bookings/1", nil},
	}
	for _, tc := range cases {
		for _, token := range []string{"", "garbage.token.value"} {
			w := env.do(tc.method, tc.path, token, tc.body)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s token=%q", tc.method, tc.path, token)
			assert.Equal(t, "unauthorized", decode(t, w)["error"])
		}
	}

	// Nothing slipped through the guard.
	tours, err := env.tours.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tours)
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	env := newTestEnv(t, looseLimits())

	// Structurally valid but signed with a different key.
	tok, err := utils.NewAdminToken("some-other-secret", 1, "admin@example.com", 1)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/bookings", tok.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decode(t, w)["error"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, looseLimits())
	creds := map[string]string{"email": "admin@example.com", "password": "supersecret1"}

	w := env.do(http.MethodPost, "/api/admin/register", "", creds)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/admin/register", "", creds)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "registration failed", decode(t, w)["error"])

	// Policy failures produce the identical body as a duplicate.
	w = env.do(http.MethodPost, "/api/admin/register", "", map[string]string{"email": "x@y.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "registration failed", decode(t, w)["error"])

	n, err := env.admins.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t, looseLimits())
	creds := map[string]string{"email": "admin@example.com", "password": "supersecret1"}
	w := env.do(http.MethodPost, "/api/admin/register", "", creds)
	require.Equal(t, http.StatusOK, w.Code)

	// Unknown email and wrong password are indistinguishable.
	w = env.do(http.MethodPost, "/api/admin/login", "", map[string]string{"email": "nobody@example.com", "password": "supersecret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decode(t, w)["error"])

	w = env.do(http.MethodPost, "/api/admin/login", "", map[string]string{"email": "admin@example.com", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decode(t, w)["error"])

	w = env.do(http.MethodPost, "/api/admin/login", "", map[string]string{"email": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTourCreateValidationAndImageNormalization(t *testing.T) {
	env := newTestEnv(t, looseLimits())
	token := registerAndLogin(t, env)

	w := env.do(http.MethodPost, "/api/tours", token, map[string]any{"title": "ab", "price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "title must be 3-200 characters", decode(t, w)["error"])

	w = env.do(http.MethodPost, "/api/tours", token, map[string]any{"title": "City Walk", "price": "free"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "price must be a positive number", decode(t, w)["error"])

	w = env.do(http.MethodPost, "/api/tours", token, map[string]any{"price": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "title and price are required", decode(t, w)["error"])

	// A string price and a bad image URL are both normalized, not fatal.
	w = env.do(http.MethodPost, "/api/tours", token, map[string]any{
		"title": "Temple & Museum Tour",
		"price": "75.50",
		"image": "javascript:alert(1)",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodGet, "/api/tours", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tours []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tours))
	require.Len(t, tours, 1)
	assert.Equal(t, 75.5, tours[0]["price"])
	assert.Equal(t, "", tours[0]["image"])
	assert.Equal(t, "Temple &amp; Museum Tour", tours[0]["title"])
}

func TestTourDeleteCascade(t *testing.T) {
	env := newTestEnv(t, looseLimits())
	token := registerAndLogin(t, env)

	w := env.do(http.MethodPost, "/api/tours", token, map[string]any{"title": "Temple Tour", "price": 75})
	require.Equal(t, http.StatusOK, w.Code)
	tourID := decode(t, w)["id"].(float64)

	w = env.do(http.MethodPost, "/api/bookings", "", map[string]any{
		"name": "Jane Doe", "email": "jane@example.com", "phone": "0771234567",
		"tour_id": tourID, "date": "2030-05-10",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/tours/%d", int64(tourID)), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/bookings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Empty(t, items, "bookings vanish with their tour")

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/tours/%d", int64(tourID)), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "tour not found", decode(t, w)["error"])
}

func TestBookingStatusUpdate(t *testing.T) {
	env := newTestEnv(t, looseLimits())
	token := registerAndLogin(t, env)

	w := env.do(http.MethodPost, "/api/tours", token, map[string]any{"title": "City Walk", "price": 40})
	require.Equal(t, http.StatusOK, w.Code)
	tourID := decode(t, w)["id"].(float64)

	w = env.do(http.MethodPost, "/api/bookings", "", map[string]any{
		"name": "Jane Doe", "email": "jane@example.com", "phone": "0771234567",
		"tour_id": tourID, "date": "2030-05-10",
	})
	require.Equal(t, http.StatusOK, w.Code)
	bookingID := int64(decode(t, w)["id"].(float64))

	w = env.do(http.MethodPut, fmt.Sprintf("/api/bookings/%d", bookingID), token, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid status value", decode(t, w)["error"])

	w = env.do(http.MethodPut, fmt.Sprintf("/api/bookings/%d", bookingID), token, map[string]string{"status": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status is required", decode(t, w)["error"])

	w = env.do(http.MethodPut, fmt.Sprintf("/api/bookings/%d", bookingID), token, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPut, "/api/bookings/4242", token, map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "booking not found", decode(t, w)["error"])

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/bookings/%d", bookingID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/bookings/%d", bookingID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, looseLimits())

	w := env.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "endpoint not found", body["error"])
}

func TestEmptyListsAreArrays(t *testing.T) {
	env := newTestEnv(t, looseLimits())
	token := registerAndLogin(t, env)

	w := env.do(http.MethodGet, "/api/tours", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = env.do(http.MethodGet, "/api/bookings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestLoginRateLimit(t *testing.T) {
	limits := looseLimits()
	limits.Login = config.RateLimitConfig{
		Limit:   3,
		Window:  time.Minute,
		Message: "too many login attempts, try again later",
		Prefix:  "rl:login",
	}
	env := newTestEnv(t, limits)

	creds := map[string]string{"email": "nobody@example.com", "password": "whatever1"}
	for i := 0; i < 3; i++ {
		w := env.do(http.MethodPost, "/api/admin/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d hits the handler", i+1)
	}

	// The fourth attempt is throttled before credentials are checked.
	w := env.do(http.MethodPost, "/api/admin/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "too many login attempts, try again later", decode(t, w)["error"])
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, looseLimits())
	w := env.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
