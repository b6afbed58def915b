package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spigell/research-matcher/internal/researchapi"
)

const namespace = "research_matcher"

// Collector holds the client metrics. It implements researchapi.RequestObserver
// and poller.TickObserver.
type Collector struct {
	registry *prometheus.Registry

	APIRequests       *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	PollTicks         *prometheus.CounterVec
	JobProgress       prometheus.Gauge
	MatchesDisplayed  prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		APIRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of research API requests",
			},
			[]string{"endpoint", "outcome"},
		),
		APIRequestLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Duration of research API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		PollTicks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "poll_ticks_total",
				Help:      "Total number of matching status polls",
			},
			[]string{"outcome"},
		),
		JobProgress: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "job_progress",
				Help:      "Last observed progress of the matching job",
			},
		),
		MatchesDisplayed: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "matches_displayed",
				Help:      "Number of matches currently displayed",
			},
		),
	}
}

func (c *Collector) ObserveRequest(endpoint, outcome string, elapsed time.Duration) {
	c.APIRequests.WithLabelValues(endpoint, outcome).Inc()
	c.APIRequestLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveTick(outcome string, status *researchapi.MatchingJobStatus) {
	c.PollTicks.WithLabelValues(outcome).Inc()
	if status != nil {
		c.JobProgress.Set(float64(status.Progress))
	}
}

func (c *Collector) SetMatchesDisplayed(n int) {
	c.MatchesDisplayed.Set(float64(n))
}

// Handler serves the registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
