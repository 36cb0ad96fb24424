package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"restodash/internal/dashboard"
	"restodash/internal/database"
	"restodash/internal/feed"
	"restodash/internal/inventory"
	"restodash/internal/models"
	"restodash/internal/monitoring"
	"restodash/internal/recipes"
	"restodash/internal/sales"
	"restodash/internal/waste"
)

var fixedNow = time.Date(2024, 3, 27, 12, 0, 0, 0, time.UTC)

type staticLoader struct {
	daily []sales.DailyAggregate
	err   error
}

func (l *staticLoader) Load(ctx context.Context) ([]sales.DailyAggregate, error) {
	return l.daily, l.err
}

type mockRecipes struct {
	mock.Mock
}

func (m *mockRecipes) Generate(ctx context.Context, req models.RecipeRequest) (*models.Recipe, error) {
	args := m.Called(req)
	recipe, _ := args.Get(0).(*models.Recipe)
	return recipe, args.Error(1)
}

func (m *mockRecipes) List() ([]models.Recipe, error) {
	args := m.Called()
	return args.Get(0).([]models.Recipe), args.Error(1)
}

type fixture struct {
	server  *Server
	loader  *staticLoader
	monitor *monitoring.Monitor
	waste   *waste.Store
}

func newFixture(t *testing.T, secret string, recipeService RecipeService) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	inv := inventory.NewStore(db)
	require.NoError(t, inv.Seed(inventory.DefaultCatalogue()))
	wasteStore := waste.NewStore(db)
	require.NoError(t, wasteStore.Seed(waste.DefaultEntries()))

	loader := &staticLoader{daily: []sales.DailyAggregate{
		{Date: "2024-03-25", Sales: 5, Revenue: decimal.NewFromInt(800), Orders: 2},
		{Date: "2024-03-26", Sales: 3, Revenue: decimal.NewFromInt(900), Orders: 1},
	}}
	monitor := monitoring.NewMonitor()
	dash := dashboard.NewService(loader,
		dashboard.WithClock(func() time.Time { return fixedNow }),
		dashboard.WithRecorder(monitor),
	)

	server := NewServer(Dependencies{
		Dashboard:    dash,
		Inventory:    inv,
		Waste:        wasteStore,
		Recipes:      recipeService,
		Monitor:      monitor,
		JWTSecret:    secret,
		ExpiringDays: 7,
		Now:          func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC) },
	})
	return &fixture{server: server, loader: loader, monitor: monitor, waste: wasteStore}
}

func (f *fixture) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.server.Router.ServeHTTP(w, req)
	return w
}

func (f *fixture) scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	f.monitor.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func (f *fixture) reload(t *testing.T) {
	t.Helper()
	w := f.do(http.MethodPost, "/api/v1/sales/reload", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

type overviewBody struct {
	Range   string                 `json:"range"`
	Daily   []sales.DailyAggregate `json:"daily"`
	Summary sales.Summary          `json:"summary"`
	Revenue decimal.Decimal        `json:"revenue"`
	Start   string                 `json:"start"`
	End     string                 `json:"end"`
}

func TestHealth(t *testing.T) {
	f := newFixture(t, "", nil)

	w := f.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSalesBeforeLoad(t *testing.T) {
	f := newFixture(t, "", nil)

	w := f.do(http.MethodGet, "/api/v1/sales", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSalesOverview(t *testing.T) {
	f := newFixture(t, "", nil)
	f.reload(t)

	w := f.do(http.MethodGet, "/api/v1/sales?range=all", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body overviewBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "all", body.Range)
	assert.Len(t, body.Daily, 2)
	assert.Equal(t, 3, body.Summary.TotalOrders)
	assert.True(t, decimal.NewFromInt(1700).Equal(body.Summary.TotalRevenue))
	assert.True(t, decimal.RequireFromString("566.67").Equal(body.Summary.AverageOrderValue))
	assert.Equal(t, "14:00", body.Summary.PeakHour)
	assert.Equal(t, "2024-03-25", body.Start)
	assert.Equal(t, "2024-03-26", body.End)
}

func TestSalesCustomRange(t *testing.T) {
	f := newFixture(t, "", nil)
	f.reload(t)

	w := f.do(http.MethodGet, "/api/v1/sales?range=custom&start=2024-03-26&end=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body overviewBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Daily, 1)
	assert.True(t, decimal.NewFromInt(900).Equal(body.Revenue))
}

func TestSalesBadRequests(t *testing.T) {
	f := newFixture(t, "", nil)
	f.reload(t)

	for _, path := range []string{
		"/api/v1/sales?range=decade",
		"/api/v1/sales?range=custom&start=2024-03-26",
		"/api/v1/sales?range=custom&start=26/03/2024&end=2024-03-31",
		"/api/v1/sales/revenue?start=2024-03-25",
	} {
		w := f.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestSalesRevenue(t *testing.T) {
	f := newFixture(t, "", nil)
	f.reload(t)

	w := f.do(http.MethodGet, "/api/v1/sales/revenue?start=2024-03-25&end=2024-03-25", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Revenue decimal.Decimal `json:"revenue"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, decimal.NewFromInt(800).Equal(body.Revenue))
}

func TestSalesReloadFailure(t *testing.T) {
	f := newFixture(t, "", nil)
	f.reload(t)

	f.loader.err = feed.ErrFeedUnavailable
	w := f.do(http.MethodPost, "/api/v1/sales/reload", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = f.do(http.MethodGet, "/api/v1/sales", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	metrics := f.scrape(t)
	assert.Contains(t, metrics, `restodash_feed_loads_total{outcome="success"} 1`)
	assert.Contains(t, metrics, `restodash_feed_loads_total{outcome="failure"} 1`)
}

func TestSalesExport(t *testing.T) {
	f := newFixture(t, "", nil)
	f.reload(t)

	w := f.do(http.MethodGet, "/api/v1/sales/export.xlsx?range=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestInventoryEndpoints(t *testing.T) {
	f := newFixture(t, "", nil)

	w := f.do(http.MethodGet, "/api/v1/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, len(inventory.DefaultCatalogue()))

	w = f.do(http.MethodPost, "/api/v1/inventory", map[string]interface{}{
		"name": "Saffron", "quantity": 0.1, "unit": "kg", "category": "spices",
		"expirationDate": "2026-01-01", "cost": "250000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var added models.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))

	added.Quantity = 0.5
	w = f.do(http.MethodPut, "/api/v1/inventory/"+added.ID, added)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/api/v1/inventory/"+added.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":0.5`)

	w = f.do(http.MethodDelete, "/api/v1/inventory/"+added.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, "/api/v1/inventory/"+added.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodPost, "/api/v1/inventory", map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryQueries(t *testing.T) {
	f := newFixture(t, "", nil)

	w := f.do(http.MethodGet, "/api/v1/inventory/expiring?days=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var expiring []models.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &expiring))
	names := []string{}
	for _, item := range expiring {
		names = append(names, item.Name)
	}
	assert.ElementsMatch(t, []string{"Milk", "Banana", "Yogurt"}, names)

	w = f.do(http.MethodGet, "/api/v1/inventory/expiring?days=soon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/v1/inventory/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = f.do(http.MethodPost, "/api/v1/inventory/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":32`)
}

func TestWasteEndpoints(t *testing.T) {
	f := newFixture(t, "", nil)

	w := f.do(http.MethodPost, "/api/v1/waste", map[string]interface{}{
		"itemName": "Dal", "quantity": 2, "unit": "kg", "category": "Overproduction",
		"cost": "120", "date": "2024-03-21", "reason": "Extra batch", "chefName": "Neha Sharma",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, f.scrape(t), "restodash_waste_entries_total 1")

	w = f.do(http.MethodPost, "/api/v1/waste", map[string]interface{}{
		"itemName": "Dal", "category": "Burnt", "date": "2024-03-21",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/v1/waste", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.WasteEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 11)

	w = f.do(http.MethodGet, "/api/v1/waste/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var analytics models.WasteAnalytics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analytics))
	assert.True(t, decimal.NewFromInt(3650).Equal(analytics.TotalWasteCost), "total %s", analytics.TotalWasteCost)

	w = f.do(http.MethodGet, "/api/v1/waste/report.pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestWasteStream(t *testing.T) {
	f := newFixture(t, "", nil)
	ts := httptest.NewServer(f.server.Router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/waste/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var snapshot WasteEvent
	require.NoError(t, conn.ReadJSON(&snapshot))
	assert.Equal(t, "snapshot", snapshot.Type)
	assert.True(t, decimal.NewFromInt(3530).Equal(snapshot.Analytics.TotalWasteCost))

	_, err = f.waste.Add(models.WasteEntry{
		ItemName: "Naan", Quantity: 10, Unit: "pieces", Category: models.WasteOverproduction,
		Cost: decimal.NewFromInt(70), Date: "2024-03-21",
	})
	require.NoError(t, err)

	var update WasteEvent
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, "entry", update.Type)
	require.NotNil(t, update.Entry)
	assert.Equal(t, "Naan", update.Entry.ItemName)
	assert.True(t, decimal.NewFromInt(3600).Equal(update.Analytics.TotalWasteCost))
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "kitchen-secret"
	f := newFixture(t, secret, nil)

	w := f.do(http.MethodPost, "/api/v1/inventory/reset", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/api/v1/inventory/reset", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	wrong := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "chef"})
	wrongSigned, err := wrong.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	w = f.do(http.MethodPost, "/api/v1/inventory/reset", nil, "Authorization", "Bearer "+wrongSigned)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "chef",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	w = f.do(http.MethodPost, "/api/v1/inventory/reset", nil, "Authorization", "Bearer "+signed)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/v1/inventory", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecipesDisabled(t *testing.T) {
	f := newFixture(t, "", nil)

	w := f.do(http.MethodPost, "/api/v1/recipes/generate", models.RecipeRequest{SelectedIngredients: []string{"Rice"}})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = f.do(http.MethodGet, "/api/v1/recipes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestRecipeEndpoints(t *testing.T) {
	svc := &mockRecipes{}
	f := newFixture(t, "", svc)

	good := models.RecipeRequest{SelectedIngredients: []string{"Paneer"}}
	svc.On("Generate", good).Return(&models.Recipe{ID: "r1", Name: "Paneer Tikka", Servings: 4}, nil)
	svc.On("Generate", models.RecipeRequest{UseExpiringItems: true}).Return(nil, recipes.ErrNoIngredients)
	svc.On("Generate", models.RecipeRequest{SelectedIngredients: []string{"Stone"}}).Return(nil, recipes.ErrUnparseableRecipe)
	svc.On("List").Return([]models.Recipe{{ID: "r1", Name: "Paneer Tikka"}}, nil)

	w := f.do(http.MethodPost, "/api/v1/recipes/generate", good)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Paneer Tikka")

	w = f.do(http.MethodPost, "/api/v1/recipes/generate", models.RecipeRequest{UseExpiringItems: true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/v1/recipes/generate", models.RecipeRequest{SelectedIngredients: []string{"Stone"}})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = f.do(http.MethodGet, "/api/v1/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"r1"`)

	svc.AssertExpectations(t)
}

func TestRequestMetrics(t *testing.T) {
	f := newFixture(t, "", nil)

	f.do(http.MethodGet, "/health", nil)
	f.do(http.MethodGet, "/nowhere", nil)

	count, err := testutil.GatherAndCount(f.monitor.Registry(), "restodash_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
