package monitoring

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Monitor collects service metrics on a private Prometheus registry and
// keeps a small status snapshot for the health endpoint
type Monitor struct {
	registry *prometheus.Registry

	feedLoads         *prometheus.CounterVec
	feedDays          prometheus.Gauge
	recipeGenerations *prometheus.CounterVec
	wasteEntries      prometheus.Counter
	requestDuration   *prometheus.HistogramVec

	statusMutex sync.RWMutex
	status      map[string]interface{}
	startTime   time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	m := &Monitor{
		registry: prometheus.NewRegistry(),
		feedLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restodash_feed_loads_total",
				Help: "Sales feed loads by outcome",
			},
			[]string{"outcome"},
		),
		feedDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "restodash_feed_aggregate_days",
			Help: "Number of daily aggregates in the current sales snapshot",
		}),
		recipeGenerations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "restodash_recipe_generations_total",
				Help: "AI recipe generation requests by outcome",
			},
			[]string{"outcome"},
		),
		wasteEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "restodash_waste_entries_total",
			Help: "Waste entries logged since start",
		}),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "restodash_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		status:    make(map[string]interface{}),
		startTime: time.Now(),
	}

	m.registry.MustRegister(
		m.feedLoads,
		m.feedDays,
		m.recipeGenerations,
		m.wasteEntries,
		m.requestDuration,
	)

	return m
}

// Registry exposes the underlying registry
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordFeedLoad records a sales feed load. days is ignored on failure.
func (m *Monitor) RecordFeedLoad(err error, days int) {
	if err != nil {
		m.feedLoads.WithLabelValues(OutcomeFailure).Inc()
		m.setStatus("feed_last_error", err.Error())
		return
	}
	m.feedLoads.WithLabelValues(OutcomeSuccess).Inc()
	m.feedDays.Set(float64(days))
	m.setStatus("feed_days", days)
	m.setStatus("feed_loaded_at", time.Now().Format(time.RFC3339))
	m.setStatus("feed_last_error", "")
}

// RecordRecipeGeneration records one recipe request
func (m *Monitor) RecordRecipeGeneration(err error) {
	if err != nil {
		m.recipeGenerations.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	m.recipeGenerations.WithLabelValues(OutcomeSuccess).Inc()
}

// RecordWasteEntry counts a logged waste entry
func (m *Monitor) RecordWasteEntry() {
	m.wasteEntries.Inc()
}

// ObserveRequest records the latency of one HTTP request
func (m *Monitor) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Status returns a copy of the status snapshot with the current uptime
func (m *Monitor) Status() map[string]interface{} {
	m.statusMutex.RLock()
	defer m.statusMutex.RUnlock()

	status := make(map[string]interface{}, len(m.status)+1)
	for k, v := range m.status {
		status[k] = v
	}
	status["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return status
}

func (m *Monitor) setStatus(name string, value interface{}) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()
	m.status[name] = value
}
