package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/seu-repo/retention-center/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/retention-center/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/retention-center/internal/adapter/storage/postgres"
	"github.com/seu-repo/retention-center/internal/service/analytics"
	"github.com/seu-repo/retention-center/internal/service/auth"
	"github.com/seu-repo/retention-center/internal/service/retention"
	"github.com/seu-repo/retention-center/internal/service/scoring"
)

// setupTestApp wires the full HTTP stack against the container database the
// same way the server entrypoint does.
func setupTestApp(t *testing.T, env *TestEnv) *fiber.App {
	t.Helper()

	logger := zap.NewNop()

	customerRepo := postgres.NewCustomerRepository(env.DB, logger)
	orderRepo := postgres.NewOrderRepository(env.DB, logger)
	subscriptionRepo := postgres.NewSubscriptionRepository(env.DB, logger)
	contactRepo := postgres.NewContactEventRepository(env.DB, logger)
	userRepo := postgres.NewUserRepository(env.DB, logger)

	authService := auth.NewService(userRepo, env.Cache, "integration-test-secret", logger)
	retentionService := retention.NewService(
		customerRepo, orderRepo, subscriptionRepo, contactRepo,
		scoring.NewClassifier(nil), scoring.NewScorer(nil), scoring.NewEstimator(nil),
		nil, // no response cache so every request hits the database
		retention.DefaultParams(),
		logger,
	)
	analyticsService := analytics.NewService(orderRepo, subscriptionRepo, nil, analytics.DefaultParams(), logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
	})
	app.Use(recover.New())

	authHandler := handlers.NewAuthHandler(authService, logger)
	retentionHandler := handlers.NewRetentionHandler(retentionService, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, logger)

	v1 := app.Group("/api/v1")
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)

	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/dashboard/summary", retentionHandler.DashboardSummary)
	protected.Get("/clients", retentionHandler.ListClients)
	protected.Get("/clients/:id", retentionHandler.ClientDetail)
	protected.Post("/clients/:id/contacted", middleware.WriteRequired(), retentionHandler.MarkContacted)
	protected.Get("/analytics/trend", analyticsHandler.Trend)

	return app
}

func registerAndLogin(t *testing.T, app *fiber.App, email, role string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"name":     "Integration User",
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("Register request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		t.Fatalf("Register returned %d", resp.StatusCode)
	}

	body, _ = json.Marshal(map[string]string{
		"email":    email,
		"password": "password123",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, 10000)
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Login returned %d", resp.StatusCode)
	}

	var result struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	if result.Tokens.AccessToken == "" {
		t.Fatal("Login returned empty access token")
	}
	return result.Tokens.AccessToken
}

func authedRequest(method, path, token string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// TestAPI_RequiresAuth verifies protected routes reject anonymous and
// garbage-token requests.
func TestAPI_RequiresAuth(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)
	app := setupTestApp(t, env)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", resp.StatusCode)
	}

	req = authedRequest(http.MethodGet, "/api/v1/clients", "not-a-token", nil)
	resp, err = app.Test(req, 10000)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 with bad token, got %d", resp.StatusCode)
	}
}

// TestAPI_ClientListFlow walks register, login, seed, list, detail.
func TestAPI_ClientListFlow(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)
	app := setupTestApp(t, env)

	customers := postgres.NewCustomerRepository(env.DB, env.Logger)
	orders := postgres.NewOrderRepository(env.DB, env.Logger)
	seedCustomer(t, customers, "CUST-API-1", "Meridian Systems", "enterprise")
	seedOrder(t, orders, "CUST-API-1", 40, 8000, "Renewal", "Security", 15)

	token := registerAndLogin(t, app, "operator@example.com", "operator")

	resp, err := app.Test(authedRequest(http.MethodGet, "/api/v1/clients", token, nil), 10000)
	if err != nil {
		t.Fatalf("List request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("List returned %d", resp.StatusCode)
	}

	var list struct {
		Clients []struct {
			CustomerID    string `json:"customer_id"`
			PriorityScore int    `json:"priority_score"`
			RenewalStatus string `json:"renewal_status"`
		} `json:"clients"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if list.Count != 1 || len(list.Clients) != 1 {
		t.Fatalf("Expected 1 client, got count=%d len=%d", list.Count, len(list.Clients))
	}
	if list.Clients[0].PriorityScore <= 0 {
		t.Errorf("Expected a positive priority score, got %d", list.Clients[0].PriorityScore)
	}

	detailResp, err := app.Test(authedRequest(http.MethodGet, "/api/v1/clients/CUST-API-1", token, nil), 10000)
	if err != nil {
		t.Fatalf("Detail request failed: %v", err)
	}
	detailResp.Body.Close()
	if detailResp.StatusCode != http.StatusOK {
		t.Errorf("Detail returned %d", detailResp.StatusCode)
	}

	missingResp, err := app.Test(authedRequest(http.MethodGet, "/api/v1/clients/CUST-NOPE", token, nil), 10000)
	if err != nil {
		t.Fatalf("Missing-detail request failed: %v", err)
	}
	missingResp.Body.Close()
	if missingResp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown client, got %d", missingResp.StatusCode)
	}
}

// TestAPI_MarkContactedRoles verifies viewers are rejected and operators can
// append contact events.
func TestAPI_MarkContactedRoles(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)
	app := setupTestApp(t, env)

	customers := postgres.NewCustomerRepository(env.DB, env.Logger)
	seedCustomer(t, customers, "CUST-API-2", "Harbor Partners", "commercial")

	payload, _ := json.Marshal(map[string]string{
		"contact_type": "call",
		"notes":        "quarterly check-in",
	})

	viewerToken := registerAndLogin(t, app, "viewer@example.com", "viewer")
	resp, err := app.Test(authedRequest(http.MethodPost, "/api/v1/clients/CUST-API-2/contacted", viewerToken, payload), 10000)
	if err != nil {
		t.Fatalf("Viewer request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 for viewer, got %d", resp.StatusCode)
	}

	operatorToken := registerAndLogin(t, app, "operator2@example.com", "operator")
	resp, err = app.Test(authedRequest(http.MethodPost, "/api/v1/clients/CUST-API-2/contacted", operatorToken, payload), 10000)
	if err != nil {
		t.Fatalf("Operator request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected 201 for operator, got %d", resp.StatusCode)
	}

	contacts := postgres.NewContactEventRepository(env.DB, env.Logger)
	events, err := contacts.FindByCustomer(env.ctx, "CUST-API-2", 10)
	if err != nil {
		t.Fatalf("FindByCustomer failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 contact event, got %d", len(events))
	}
	if events[0].ContactedBy != "operator2@example.com" {
		t.Errorf("Expected actor from token, got %q", events[0].ContactedBy)
	}
}

// TestAPI_DashboardAndTrend smoke-tests the aggregate read endpoints against
// seeded data.
func TestAPI_DashboardAndTrend(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)
	app := setupTestApp(t, env)

	customers := postgres.NewCustomerRepository(env.DB, env.Logger)
	orders := postgres.NewOrderRepository(env.DB, env.Logger)
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("CUST-DASH-%d", i)
		seedCustomer(t, customers, id, fmt.Sprintf("Dash Co %d", i), "smb")
		seedOrder(t, orders, id, 20+i, 1000, "Renewal", "Norton", 0)
	}

	token := registerAndLogin(t, app, "dash@example.com", "viewer")

	resp, err := app.Test(authedRequest(http.MethodGet, "/api/v1/dashboard/summary", token, nil), 10000)
	if err != nil {
		t.Fatalf("Summary request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Summary returned %d", resp.StatusCode)
	}

	var summary struct {
		TotalCustomers   int     `json:"total_customers"`
		AvgLifetimeValue float64 `json:"avg_customer_lifetime_value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("Failed to decode summary: %v", err)
	}
	if summary.TotalCustomers != 3 {
		t.Errorf("Expected 3 customers, got %d", summary.TotalCustomers)
	}
	if summary.AvgLifetimeValue != 1000 {
		t.Errorf("Expected avg lifetime value 1000, got %v", summary.AvgLifetimeValue)
	}

	trendResp, err := app.Test(authedRequest(http.MethodGet, "/api/v1/analytics/trend?months=6", token, nil), 10000)
	if err != nil {
		t.Fatalf("Trend request failed: %v", err)
	}
	defer trendResp.Body.Close()
	if trendResp.StatusCode != http.StatusOK {
		t.Fatalf("Trend returned %d", trendResp.StatusCode)
	}

	var trend struct {
		Months []struct {
			Label       string `json:"label"`
			TotalOrders int    `json:"total_orders"`
		} `json:"months"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(trendResp.Body).Decode(&trend); err != nil {
		t.Fatalf("Failed to decode trend: %v", err)
	}
	if len(trend.Months) != 6 {
		t.Errorf("Expected 6 trend points, got %d", len(trend.Months))
	}
}
