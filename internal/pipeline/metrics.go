package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// runMetrics describes one run for the node exporter textfile collector.
type runMetrics struct {
	registry    *prometheus.Registry
	records     *prometheus.GaugeVec
	passInvalid *prometheus.GaugeVec
	fetches     *prometheus.GaugeVec
	duration    prometheus.Gauge
	lastRun     prometheus.Gauge
}

func newRunMetrics() *runMetrics {
	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rostercheck_records",
			Help: "Roster records of the last run by validity",
		}, []string{"state"}), // state: "valid", "invalid", "dropped"
		passInvalid: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rostercheck_pass_invalidated_records",
			Help: "Records invalidated by each pass of the last run",
		}, []string{"pass"}),
		fetches: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rostercheck_fetches",
			Help: "Remote lookups of the last run by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rostercheck_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rostercheck_last_run_timestamp_seconds",
			Help: "Unix time the last run started",
		}),
	}
	m.registry.MustRegister(m.records, m.passInvalid, m.fetches, m.duration, m.lastRun)
	return m
}

func (m *runMetrics) observe(result Result) {
	m.records.WithLabelValues("valid").Set(float64(result.ValidRecords))
	m.records.WithLabelValues("invalid").Set(float64(result.InvalidRecords()))
	m.records.WithLabelValues("dropped").Set(float64(result.DroppedLines))
	for _, pc := range result.PassCounts {
		m.passInvalid.WithLabelValues(pc.Pass).Set(float64(pc.Invalid))
	}
	f := result.Fetches
	m.fetches.WithLabelValues("cache_hit").Set(float64(f.CacheHits))
	m.fetches.WithLabelValues("network").Set(float64(f.NetworkFetches))
	m.fetches.WithLabelValues("retry").Set(float64(f.Retries))
	m.fetches.WithLabelValues("not_found").Set(float64(f.NotFound))
	m.fetches.WithLabelValues("exhausted").Set(float64(f.Exhausted))
	m.fetches.WithLabelValues("cache_write_failure").Set(float64(f.CacheWriteFailures))
	m.duration.Set(result.Duration.Seconds())
	m.lastRun.Set(float64(result.StartedAt.Unix()))
}

// writeMetrics writes the run metrics in the text exposition format.
func writeMetrics(path string, result Result) error {
	m := newRunMetrics()
	m.observe(result)
	return prometheus.WriteToTextfile(path, m.registry)
}
