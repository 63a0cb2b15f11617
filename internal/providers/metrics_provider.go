package providers

import (
	"decayd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncStakesCreated()
	IncBurns(amount int64)
	IncRewards(amount int64)
	SetActiveStakes(count int64)
	SetTotalSupply(amount int64)
	SetTotalBurned(amount int64)
	ObserveSweepDuration(duration time.Duration)
	IncReplicationFailures(peer string)
	IncEvictions()
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	stakesCreated       prometheus.Counter
	burnsTotal          prometheus.Counter
	burnedValue         prometheus.Counter
	rewardsTotal        prometheus.Counter
	rewardedValue       prometheus.Counter
	activeStakes        prometheus.Gauge
	totalSupply         prometheus.Gauge
	totalBurned         prometheus.Gauge
	sweepDuration       prometheus.Histogram
	replicationFailures *prometheus.CounterVec
	evictionsTotal      prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits()   { m.cacheHits.Inc() }
func (m *MetricsProvider) IncCacheMisses() { m.cacheMisses.Inc() }

func (m *MetricsProvider) IncStakesCreated() { m.stakesCreated.Inc() }

func (m *MetricsProvider) IncBurns(amount int64) {
	m.burnsTotal.Inc()
	m.burnedValue.Add(float64(amount))
}

func (m *MetricsProvider) IncRewards(amount int64) {
	m.rewardsTotal.Inc()
	m.rewardedValue.Add(float64(amount))
}

func (m *MetricsProvider) SetActiveStakes(count int64)  { m.activeStakes.Set(float64(count)) }
func (m *MetricsProvider) SetTotalSupply(amount int64)  { m.totalSupply.Set(float64(amount)) }
func (m *MetricsProvider) SetTotalBurned(amount int64)  { m.totalBurned.Set(float64(amount)) }

func (m *MetricsProvider) ObserveSweepDuration(duration time.Duration) {
	m.sweepDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncReplicationFailures(peer string) {
	m.replicationFailures.WithLabelValues(peer).Inc()
}

func (m *MetricsProvider) IncEvictions() { m.evictionsTotal.Inc() }

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "decayd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "decayd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decayd_cache_hits_total",
			Help: "Total number of query cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decayd_cache_misses_total",
			Help: "Total number of query cache misses",
		}),

		stakesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decayd_stakes_created_total",
			Help: "Total number of stakes created",
		}),

		burnsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decayd_burns_total",
			Help: "Total number of burn events emitted",
		}),

		burnedValue: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decayd_burned_value_total",
			Help: "Total token value removed from circulation by burns",
		}),

		rewardsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decayd_rewards_total",
			Help: "Total number of engagement rewards granted",
		}),

		rewardedValue: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decayd_rewarded_value_total",
			Help: "Total token value paid out as engagement rewards",
		}),

		activeStakes: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "decayd_active_stakes",
			Help: "Current number of non-burned stakes",
		}),

		totalSupply: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "decayd_total_supply",
			Help: "Current circulating token supply",
		}),

		totalBurned: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "decayd_total_burned",
			Help: "Cumulative burned token value",
		}),

		sweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "decayd_sweep_duration_seconds",
			Help:    "Duration of decay sweep runs in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		replicationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "decayd_replication_failures_total",
			Help: "Total number of failed replication attempts per peer",
		}, []string{"peer"}),

		evictionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decayd_evictions_total",
			Help: "Total number of content records evicted from local storage",
		}),
	}

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) IncStakesCreated()                                 {}
func (n *noopMetrics) IncBurns(_ int64)                                  {}
func (n *noopMetrics) IncRewards(_ int64)                                {}
func (n *noopMetrics) SetActiveStakes(_ int64)                           {}
func (n *noopMetrics) SetTotalSupply(_ int64)                            {}
func (n *noopMetrics) SetTotalBurned(_ int64)                            {}
func (n *noopMetrics) ObserveSweepDuration(_ time.Duration)              {}
func (n *noopMetrics) IncReplicationFailures(_ string)                   {}
func (n *noopMetrics) IncEvictions()                                     {}
