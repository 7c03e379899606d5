package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sairaklin-backend/internal/config"
	"sairaklin-backend/internal/middleware"
	"sairaklin-backend/internal/models"
	"sairaklin-backend/internal/services"
	"sairaklin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	adminPassword = "admin123!"
	userPassword  = "rahasia!"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SilenceLoggers()
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestServer(t *testing.T, limiter *middleware.IPRateLimiter) *testServer {
	t.Helper()

	cfg := &config.Config{
		DBDriver:      "sqlite",
		DBDSN:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		AdminUsername: "admin",
		AdminEmail:    "admin@sairaklin.id",
		AdminPassword: adminPassword,
	}
	db, err := config.ConnectDB(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	require.NoError(t, config.SeedAdmin(db, cfg))

	auth := services.NewAuthService(db, services.AuthOptions{
		Secret:              []byte("rahasia-test"),
		TokenTTL:            time.Hour,
		AllowedEmailDomains: []string{"gmail.com"},
	})
	orders := services.NewOrderService(db, services.OrderOptions{})

	r := gin.New()
	SetupRoutes(r, Dependencies{
		Auth:        auth,
		Orders:      orders,
		Reviews:     services.NewReviewService(db, nil),
		Admin:       services.NewAdminService(db, orders),
		Limiter:     limiter,
		CORSOrigins: []string{"http://localhost:5173"},
	})

	return &testServer{t: t, db: db, router: r}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func (s *testServer) register(username string) {
	s.t.Helper()
	w, resp := s.do(http.MethodPost, "/register", "", gin.H{
		"name":     "User " + username,
		"username": username,
		"email":    username + "@gmail.com",
		"password": userPassword,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, resp.Message)
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()
	w, resp := s.do(http.MethodPost, "/login", "", gin.H{"username": username, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, resp.Message)

	var result services.LoginResult
	require.NoError(s.t, json.Unmarshal(resp.Data, &result))
	require.NotEmpty(s.t, result.Token)
	return result.Token
}

func (s *testServer) createOrder(token string) models.Order {
	s.t.Helper()
	w, resp := s.do(http.MethodPost, "/orders", token, gin.H{
		"service_type": "room",
		"date":         "2025-12-01",
		"time":         "10:00",
		"address":      "Jl. X",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, resp.Message)

	var order models.Order
	require.NoError(s.t, json.Unmarshal(resp.Data, &order))
	return order
}

func TestOrderAndReviewFlow(t *testing.T) {
	s := newTestServer(t, nil)

	s.register("alice")
	alice := s.login("alice", userPassword)

	order := s.createOrder(alice)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.StatusWaiting, order.Status)
	assert.Equal(t, float64(35000), order.TotalPrice)

	// Review sebelum order selesai ditolak
	w, resp := s.do(http.MethodPost, "/orders/"+order.ID+"/review", alice, gin.H{"rating": 5, "review": "Bagus"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, resp.Message, models.StatusDone)

	admin := s.login("admin", adminPassword)
	w, resp = s.do(http.MethodPut, "/orders/"+order.ID, admin, gin.H{"status": models.StatusDone})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)

	w, resp = s.do(http.MethodPost, "/orders/"+order.ID+"/review", alice, gin.H{"rating": 5, "review": "Bagus"})
	require.Equal(t, http.StatusCreated, w.Code, resp.Message)

	w, _ = s.do(http.MethodPost, "/reviews", alice, gin.H{"order_id": order.ID, "rating": 5, "review": "Bagus"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp = s.do(http.MethodGet, "/reviews/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.ReviewStats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 5.0, stats.AverageRating)
	assert.EqualValues(t, 1, stats.TotalReviews)
	require.Len(t, stats.RecentReviews, 1)
	assert.Equal(t, "User alice", stats.RecentReviews[0].UserName)
	assert.Equal(t, "Bagus", stats.RecentReviews[0].Comment)
}

func TestNonAdminCannotUpdateStatus(t *testing.T) {
	s := newTestServer(t, nil)

	s.register("alice")
	alice := s.login("alice", userPassword)
	order := s.createOrder(alice)

	w, _ := s.do(http.MethodPut, "/orders/"+order.ID, alice, gin.H{"status": models.StatusDone})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// body kosong atau rusak tetap 403 untuk non-admin
	w, _ = s.do(http.MethodPut, "/orders/"+order.ID, alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/orders/"+order.ID, bytes.NewBufferString("{rusak"))
	req.Header.Set("Authorization", "Bearer "+alice)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	w, _ = s.do(http.MethodDelete, "/orders/"+order.ID, alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := s.do(http.MethodGet, "/orders/"+order.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Order
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, models.StatusWaiting, got.Status)
}

func TestAuthenticationRequired(t *testing.T) {
	s := newTestServer(t, nil)

	w, resp := s.do(http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)

	w, _ = s.do(http.MethodGet, "/user", "token-ngawur", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodPost, "/login", "", gin.H{"username": "admin", "password": "salah!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnershipIsMaskedAsNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	s.register("alice")
	s.register("bob")
	alice := s.login("alice", userPassword)
	bob := s.login("bob", userPassword)

	order := s.createOrder(alice)

	w, _ := s.do(http.MethodGet, "/orders/"+order.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodGet, "/orders/ORD-TIDAK-ADA", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp := s.do(http.MethodGet, "/orders", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(resp.Data, &orders))
	assert.Empty(t, orders)
}

func TestValidationErrorsReturnFields(t *testing.T) {
	s := newTestServer(t, nil)

	s.register("alice")
	alice := s.login("alice", userPassword)

	w, resp := s.do(http.MethodPost, "/orders", alice, gin.H{"service_type": "garage"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &fields))
	assert.Contains(t, fields, "service_type")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "address")

	// Field wajib binding memakai nama JSON
	w, resp = s.do(http.MethodPost, "/register", "", gin.H{"username": "carol"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields = nil
	require.NoError(t, json.Unmarshal(resp.Data, &fields))
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "email")

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{bukan json"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	w, _ = s.do(http.MethodPost, "/register", "", gin.H{
		"name": "Alice Lagi", "username": "alice", "email": "alice2@gmail.com", "password": userPassword,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProfileAndLogout(t *testing.T) {
	s := newTestServer(t, nil)

	s.register("alice")
	token := s.login("alice", userPassword)

	w, resp := s.do(http.MethodGet, "/user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.PublicProfile
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, "alice", profile.Username)
	assert.NotContains(t, string(resp.Data), "password")

	w, resp = s.do(http.MethodPut, "/user", token, gin.H{"bio": "Suka rumah bersih"})
	require.Equal(t, http.StatusOK, w.Code, resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, "Suka rumah bersih", profile.Bio)

	w, _ = s.do(http.MethodPost, "/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, "/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	s.register("alice")
	alice := s.login("alice", userPassword)
	order := s.createOrder(alice)
	admin := s.login("admin@sairaklin.id", adminPassword)

	w, _ := s.do(http.MethodGet, "/api/v1/admin/orders", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := s.do(http.MethodGet, "/api/v1/admin/orders?status=Menunggu", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(resp.Data, &orders))
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].User)
	assert.Equal(t, "alice", orders[0].User.Username)

	w, _ = s.do(http.MethodPut, "/api/v1/admin/orders/"+order.ID+"/status", admin, gin.H{"status": "Hilang"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(http.MethodPut, "/api/v1/admin/orders/"+order.ID+"/status", admin, gin.H{"status": models.StatusProcessing})
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = s.do(http.MethodGet, "/api/v1/admin/users?page=1&limit=10", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page services.UserPage
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.EqualValues(t, 1, page.Total)

	w, resp = s.do(http.MethodGet, "/api/v1/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash models.DashboardStats
	require.NoError(t, json.Unmarshal(resp.Data, &dash))
	assert.EqualValues(t, 1, dash.TotalOrders)

	w, _ = s.do(http.MethodDelete, "/api/v1/admin/orders/"+order.ID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodDelete, "/orders/"+order.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPingMetricsAndCORS(t *testing.T) {
	s := newTestServer(t, nil)

	w, resp := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	req := httptest.NewRequest(http.MethodOptions, "/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sairaklin_http_requests_total")
}

func TestRateLimitRejectsBurst(t *testing.T) {
	s := newTestServer(t, middleware.NewIPRateLimiter(rate.Limit(0.001), 2))

	for i := 0; i < 2; i++ {
		w, _ := s.do(http.MethodGet, "/reviews/stats", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, resp := s.do(http.MethodGet, "/reviews/stats", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, resp.Success)
}
