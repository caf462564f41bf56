package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Bridge metrics
	BridgeCalls    *prometheus.CounterVec
	BridgeDuration *prometheus.HistogramVec
	BridgeErrors   *prometheus.CounterVec

	// Dispatch metrics
	Dispatches *prometheus.CounterVec

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON report
type Snapshot struct {
	Calls         map[string]int64 `json:"calls"`
	Errors        map[string]int64 `json:"errors"`
	Dispatches    int64            `json:"dispatches"`
	Prevented     int64            `json:"prevented"`
	TotalDuration float64          `json:"total_duration_seconds"`
}

// NewMetrics registers the collectors on reg. A nil reg uses the default
// Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		BridgeCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domshim_bridge_calls_total",
				Help: "Total number of host bridge calls",
			},
			[]string{"operation"},
		),
		BridgeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "domshim_bridge_duration_seconds",
				Help:    "Host bridge call duration in seconds",
				Buckets: []float64{.00001, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"operation"},
		),
		BridgeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domshim_bridge_errors_total",
				Help: "Total number of failed host bridge calls",
			},
			[]string{"operation"},
		),
		Dispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domshim_dispatches_total",
				Help: "Total number of host triggered event dispatches",
			},
			[]string{"type", "outcome"},
		),
		snapshot: Snapshot{
			Calls:  make(map[string]int64),
			Errors: make(map[string]int64),
		},
	}
}

// RecordBridgeCall records one bridge call
func (m *Metrics) RecordBridgeCall(operation string, duration time.Duration, err error) {
	m.BridgeCalls.WithLabelValues(operation).Inc()
	m.BridgeDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.BridgeErrors.WithLabelValues(operation).Inc()
	}

	m.mu.Lock()
	m.snapshot.Calls[operation]++
	m.snapshot.TotalDuration += duration.Seconds()
	if err != nil {
		m.snapshot.Errors[operation]++
	}
	m.mu.Unlock()
}

// RecordDispatch records a host triggered dispatch and whether a listener
// prevented the default action.
func (m *Metrics) RecordDispatch(eventType string, doDefault bool) {
	outcome := "default"
	if !doDefault {
		outcome = "prevented"
	}
	m.Dispatches.WithLabelValues(eventType, outcome).Inc()

	m.mu.Lock()
	m.snapshot.Dispatches++
	if !doDefault {
		m.snapshot.Prevented++
	}
	m.mu.Unlock()
}

// Snapshot returns a copy of the current totals
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	snap.Calls = make(map[string]int64, len(m.snapshot.Calls))
	for k, v := range m.snapshot.Calls {
		snap.Calls[k] = v
	}
	snap.Errors = make(map[string]int64, len(m.snapshot.Errors))
	for k, v := range m.snapshot.Errors {
		snap.Errors[k] = v
	}
	return snap
}
