package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/seefood/pkg/utils/metrics"
)

func TestWriteTextfile(t *testing.T) {
	m := metrics.New()
	m.HistorySaved(metrics.SaveFull)
	m.HistorySaved(metrics.SaveFull)
	m.HistorySaved(metrics.SaveMinimal)
	m.HistoryReadFailed()
	m.HistoryExpired(3)
	m.Identified(true)
	m.Identified(false)

	path := filepath.Join(t.TempDir(), "seefood.prom")
	gt.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	gt.NoError(t, err)
	out := string(data)
	gt.S(t, out).Contains(`seefood_history_save_total{tier="full"} 2`)
	gt.S(t, out).Contains(`seefood_history_save_total{tier="minimal"} 1`)
	gt.S(t, out).Contains(`seefood_history_load_failures_total 1`)
	gt.S(t, out).Contains(`seefood_history_expired_total 3`)
	gt.S(t, out).Contains(`seefood_identify_total{result="failure"} 1`)
	gt.S(t, out).Contains(`seefood_identify_total{result="success"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics
	m.HistorySaved(metrics.SaveFailed)
	m.HistoryReadFailed()
	m.HistoryExpired(1)
	m.Identified(true)
	gt.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}
