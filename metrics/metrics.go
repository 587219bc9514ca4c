// Package metrics records run figures and pushes them to a Prometheus
// Pushgateway once the batch is over.
package metrics

import (
	"context"
	"time"

	"vaccine-slot-scraper/models"
	"vaccine-slot-scraper/services"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

type Recorder struct {
	registry *prometheus.Registry
	url      string
	job      string

	venuesTotal *prometheus.CounterVec
	runVenues   *prometheus.GaugeVec
	runDuration prometheus.Gauge
	lastRunTS   prometheus.Gauge
}

var _ services.RunRecorder = (*Recorder)(nil)

// NewRecorder builds a recorder on its own registry. An empty pushURL turns
// Flush into a no-op.
func NewRecorder(pushURL, job string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		url:      pushURL,
		job:      job,
	}
	r.venuesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vaccine_scraper",
		Name:      "venues_total",
		Help:      "Venues scanned by platform and outcome",
	}, []string{"platform", "status"})
	r.runVenues = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "vaccine_scraper",
		Name:      "run_venues",
		Help:      "Venue counts of the last run",
	}, []string{"kind"})
	r.runDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vaccine_scraper",
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last run",
	})
	r.lastRunTS = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vaccine_scraper",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed run",
	})

	r.registry.MustRegister(r.venuesTotal, r.runVenues, r.runDuration, r.lastRunTS)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) Record(outcomes []models.Outcome, stats services.Stats, elapsed time.Duration) {
	for _, out := range outcomes {
		r.venuesTotal.WithLabelValues(out.Center.Platform, out.Status.String()).Inc()
	}
	r.runVenues.WithLabelValues("total").Set(float64(stats.Total))
	r.runVenues.WithLabelValues("available").Set(float64(stats.Available))
	r.runVenues.WithLabelValues("blocked").Set(float64(stats.Blocked))
	r.runVenues.WithLabelValues("dropped").Set(float64(stats.Dropped))
	r.runDuration.Set(elapsed.Seconds())
	r.lastRunTS.SetToCurrentTime()
}

func (r *Recorder) Flush(ctx context.Context) error {
	if r.url == "" {
		return nil
	}
	err := push.New(r.url, r.job).Gatherer(r.registry).PushContext(ctx)
	return errors.Wrap(err, "push metrics")
}
