package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/parklot/internal/adapter/http/handler"
	apimiddleware "github.com/iho/parklot/internal/adapter/http/middleware"
	"github.com/iho/parklot/internal/chart"
	"github.com/iho/parklot/internal/domain"
	"github.com/iho/parklot/internal/infrastructure/auth"
	"github.com/iho/parklot/internal/usecase"
)

type stubParkingService struct{}

func (stubParkingService) CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error) {
	return &domain.Entry{TokenID: "TWABC123", VehicleClass: input.VehicleClass}, nil
}

func (stubParkingService) LookupOpen(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error) {
	return &domain.Entry{TokenID: tokenID, VehicleClass: class}, nil
}

func (stubParkingService) ProcessExit(ctx context.Context, class domain.VehicleClass, tokenID string) (*domain.Entry, error) {
	return &domain.Entry{TokenID: tokenID, VehicleClass: class}, nil
}

type stubReportService struct{}

func (stubReportService) BuildReport(ctx context.Context, start, end time.Time) (*domain.Report, error) {
	return &domain.Report{Start: start, End: end}, nil
}

func (stubReportService) GetDashboardStats(ctx context.Context) (*usecase.DashboardStats, error) {
	return &usecase.DashboardStats{TodayRevenue: decimal.Zero}, nil
}

func (stubReportService) BuildExport(ctx context.Context, start, end time.Time) (*usecase.ExportData, error) {
	return &usecase.ExportData{Report: &domain.Report{Start: start, End: end}}, nil
}

type stubUserService struct{}

func (stubUserService) Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error) {
	return &domain.User{ID: "u-1", Username: input.Username, Role: domain.RoleOperator}, nil
}

func (stubUserService) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
	return &domain.User{ID: "u-2", Username: input.Username, Role: input.Role}, nil
}

type stubAuditService struct{}

func (stubAuditService) AuditTrail(ctx context.Context, tokenID string, limit int) ([]*domain.AuditLog, error) {
	return []*domain.AuditLog{{ID: "a-1", Actor: "boss", Action: domain.AuditActionEntryCreate, TokenID: "TWABC123"}}, nil
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	jwtManager := auth.NewJWTManager("test-secret", time.Minute)
	reportSvc := stubReportService{}

	cfg := RouterConfig{
		EntryHandler:  handler.NewEntryHandler(stubParkingService{}),
		ReportHandler: handler.NewReportHandler(reportSvc, chart.NewRenderer(), nil),
		ExportHandler: handler.NewExportHandler(reportSvc, nil),
		AuthHandler:   handler.NewAuthHandler(stubUserService{}, jwtManager),
		AuditHandler:  handler.NewAuditHandler(stubAuditService{}),
		HealthHandler: &handler.HealthHandler{},
		JWTManager:    jwtManager,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_StaffEndpointsRequireAuth(t *testing.T) {
	cfg := newRouterConfig()
	router := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, err := cfg.JWTManager.Generate(&domain.User{ID: "u-1", Username: "op", Role: domain.RoleOperator})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestNewRouter_AuditEndpointIsAdminOnly(t *testing.T) {
	cfg := newRouterConfig()
	router := NewRouter(cfg)

	operatorToken, _ := cfg.JWTManager.Generate(&domain.User{ID: "u-1", Username: "op", Role: domain.RoleOperator})
	adminToken, _ := cfg.JWTManager.Generate(&domain.User{ID: "u-2", Username: "boss", Role: domain.RoleAdmin})

	req := httptest.NewRequest(http.MethodGet, "/audit", nil)
	req.Header.Set("Authorization", "Bearer "+operatorToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for operator, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/audit", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestNewRouter_LoginRateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.LoginRateLimiter = rl
	}))

	body := `{"username":"op","password":"secret123"}`

	req1 := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first login to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second login to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /login",
		"GET /stats",
		"POST /two-wheeler-entry",
		"POST /four-wheeler-entry",
		"GET /two-wheeler-exit/{token_id}/",
		"POST /two-wheeler-exit/{token_id}/",
		"GET /four-wheeler-exit/{token_id}/",
		"POST /four-wheeler-exit/{token_id}/",
		"GET /reports/",
		"GET /reports/export-excel",
		"GET /reports/export/daily",
		"GET /reports/export/weekly",
		"GET /reports/export/monthly",
		"POST /users",
		"GET /audit",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered, have %v", route, seen)
		}
	}
}
