package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restodash/internal/dashboard"
	"restodash/internal/inventory"
	"restodash/internal/logging"
	"restodash/internal/models"
	"restodash/internal/monitoring"
	"restodash/internal/waste"
)

// RecipeService generates and lists recipe suggestions
type RecipeService interface {
	Generate(ctx context.Context, req models.RecipeRequest) (*models.Recipe, error)
	List() ([]models.Recipe, error)
}

// Dependencies holds everything the API serves from
type Dependencies struct {
	Dashboard *dashboard.Service
	Inventory *inventory.Store
	Waste     *waste.Store
	// Recipes may be nil when no model provider is configured
	Recipes      RecipeService
	Monitor      *monitoring.Monitor
	JWTSecret    string
	ExpiringDays int
	Now          func() time.Time
}

// Server represents the dashboard HTTP API
type Server struct {
	Router *gin.Engine

	dashboard    *dashboard.Service
	inventory    *inventory.Store
	waste        *waste.Store
	recipes      RecipeService
	monitor      *monitoring.Monitor
	jwtSecret    string
	expiringDays int
	now          func() time.Time
}

// NewServer creates a new API server
func NewServer(deps Dependencies) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger(), MetricsMiddleware(deps.Monitor))

	s := &Server{
		Router:       router,
		dashboard:    deps.Dashboard,
		inventory:    deps.Inventory,
		waste:        deps.Waste,
		recipes:      deps.Recipes,
		monitor:      deps.Monitor,
		jwtSecret:    deps.JWTSecret,
		expiringDays: deps.ExpiringDays,
		now:          deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.expiringDays <= 0 {
		s.expiringDays = 7
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.Router.GET("/health", s.Health)

	auth := AuthMiddleware(s.jwtSecret)
	v1 := s.Router.Group("/api/v1")
	{
		// Sales dashboard
		v1.GET("/sales", s.GetSalesOverview)
		v1.POST("/sales/reload", auth, s.ReloadSales)
		v1.GET("/sales/revenue", s.GetRevenue)
		v1.GET("/sales/export.xlsx", s.ExportSales)

		// Inventory management
		v1.GET("/inventory", s.ListInventory)
		v1.POST("/inventory", auth, s.AddInventoryItem)
		v1.GET("/inventory/low-stock", s.GetLowStock)
		v1.GET("/inventory/expiring", s.GetExpiring)
		v1.POST("/inventory/reset", auth, s.ResetInventory)
		v1.GET("/inventory/:id", s.GetInventoryItem)
		v1.PUT("/inventory/:id", auth, s.UpdateInventoryItem)
		v1.DELETE("/inventory/:id", auth, s.DeleteInventoryItem)

		// Waste tracking
		v1.GET("/waste", s.ListWaste)
		v1.POST("/waste", auth, s.AddWaste)
		v1.GET("/waste/analytics", s.GetWasteAnalytics)
		v1.GET("/waste/report.pdf", s.ExportWasteReport)
		v1.GET("/waste/stream", s.StreamWaste)

		// Recipe suggestions
		v1.POST("/recipes/generate", auth, s.GenerateRecipe)
		v1.GET("/recipes", s.ListRecipes)
	}
}

// Health reports liveness and the state of the sales snapshot
func (s *Server) Health(c *gin.Context) {
	body := gin.H{"status": "ok", "message": "Restaurant dashboard API is running"}
	if err := s.dashboard.LastError(); err != nil {
		body["sales_error"] = err.Error()
	}
	if s.monitor != nil {
		body["monitor"] = s.monitor.Status()
	}
	c.JSON(http.StatusOK, body)
}

func respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		logging.FromContext(c).WithError(err).Error("Request failed")
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
