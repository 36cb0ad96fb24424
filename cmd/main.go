package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"restodash/internal/api"
	"restodash/internal/config"
	"restodash/internal/dashboard"
	"restodash/internal/database"
	"restodash/internal/feed"
	"restodash/internal/inventory"
	"restodash/internal/logging"
	"restodash/internal/monitoring"
	"restodash/internal/recipes"
	"restodash/internal/waste"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
	port       = flag.Int("port", 0, "API server port (overrides config)")
	feedFlag   = flag.String("feed", "", "Sales CSV URL or path (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *feedFlag != "" {
		cfg.Sales.Feed = *feedFlag
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := initializeDB(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	monitor := monitoring.NewMonitor()

	inventoryStore := inventory.NewStore(db)
	wasteStore := waste.NewStore(db)
	if cfg.Database.Seed {
		if err := seed(inventoryStore, wasteStore); err != nil {
			logrus.Fatalf("Failed to seed database: %v", err)
		}
	}

	fetcher := feed.NewFetcher(cfg.Sales.Feed, cfg.Sales.FetchTimeout)
	salesService := dashboard.NewService(fetcher,
		dashboard.WithRecorder(monitor),
		dashboard.WithSource(fetcher.Location()),
	)
	if err := salesService.Reload(ctx); err != nil {
		logrus.WithError(err).Warn("Initial sales load failed, dashboard will report until the next reload")
	}

	refresher := dashboard.NewRefresher(salesService, cfg.Sales.RefreshInterval)
	if err := refresher.Start(ctx); err != nil {
		logrus.Fatalf("Failed to start sales refresher: %v", err)
	}

	server := api.NewServer(api.Dependencies{
		Dashboard:    salesService,
		Inventory:    inventoryStore,
		Waste:        wasteStore,
		Recipes:      initializeRecipes(cfg, inventoryStore, db, monitor),
		Monitor:      monitor,
		JWTSecret:    cfg.Auth.JWTSecret,
		ExpiringDays: cfg.Recipes.ExpiringDays,
	})

	metricsServer := startMetricsServer(cfg.Server.MetricsPort, monitor)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logrus.Info("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("API server shutdown error")
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Metrics server shutdown error")
		}

		cancel()
	}()

	logrus.WithFields(logrus.Fields{
		"port": cfg.Server.Port,
		"feed": fetcher.Location(),
	}).Info("Starting API server")
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		logrus.Fatalf("API server error: %v", err)
	}
}

func initializeDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// seed fills an empty inventory and waste log with the starter data
func seed(inv *inventory.Store, wasteStore *waste.Store) error {
	count, err := inv.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		if err := inv.Seed(inventory.DefaultCatalogue()); err != nil {
			return err
		}
	}
	return wasteStore.Seed(waste.DefaultEntries())
}

// initializeRecipes returns nil when the model provider is not configured,
// which disables recipe generation without stopping the dashboard
func initializeRecipes(cfg *config.Config, inv *inventory.Store, db *gorm.DB, monitor *monitoring.Monitor) api.RecipeService {
	generator, err := recipes.NewGenerator(cfg.Recipes)
	if err != nil {
		logrus.WithError(err).Warn("Recipe generation disabled")
		return nil
	}
	return recipes.NewService(generator, inv, db, cfg.Recipes.ExpiringDays, recipes.WithRecorder(monitor))
}

func startMetricsServer(port int, monitor *monitoring.Monitor) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET("/metrics", gin.WrapH(monitor.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	go func() {
		logrus.WithField("port", port).Info("Starting metrics server")
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logrus.WithError(err).Error("Metrics server error")
		}
	}()
	return metricsServer
}
