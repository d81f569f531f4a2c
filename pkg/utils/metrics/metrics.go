package metrics

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Save outcomes of the history cache
const (
	SaveFull    = "full"
	SaveTrimmed = "trimmed"
	SaveMinimal = "minimal"
	SaveFailed  = "failed"
)

// Metrics holds the client counters on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	historySave    *prometheus.CounterVec
	historyRead    prometheus.Counter
	historyExpired prometheus.Counter
	identify       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		historySave: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seefood",
			Name:      "history_save_total",
			Help:      "History saves by the tier that was persisted.",
		}, []string{"tier"}),
		historyRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seefood",
			Name:      "history_load_failures_total",
			Help:      "History reads that failed and fell back to an empty state.",
		}),
		historyExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seefood",
			Name:      "history_expired_total",
			Help:      "History records removed by the expiry sweep.",
		}),
		identify: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seefood",
			Name:      "identify_total",
			Help:      "Identification requests by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(m.historySave, m.historyRead, m.historyExpired, m.identify)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) HistorySaved(tier string) {
	if m == nil {
		return
	}
	m.historySave.WithLabelValues(tier).Inc()
}

func (m *Metrics) HistoryReadFailed() {
	if m == nil {
		return
	}
	m.historyRead.Inc()
}

func (m *Metrics) HistoryExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.historyExpired.Add(float64(n))
}

func (m *Metrics) Identified(success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.identify.WithLabelValues(result).Inc()
}

// WriteTextfile writes all counters in the node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return goerr.Wrap(err, "failed to write metrics textfile", goerr.V("path", path))
	}
	return nil
}
