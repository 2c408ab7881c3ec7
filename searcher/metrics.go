package searcher

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SearchMetric summarizes one SelectMove call.
type SearchMetric struct {
	StartTime    time.Time
	Duration     time.Duration
	Simulations  int
	Expansions   int
	FullPlayouts int // simulations that reached a finished game
	StoreSize    int
}

type Collector interface {
	Start()
	AddSimulation()
	AddExpansion()
	AddFullPlayout()
	Complete(storeSize int) SearchMetric
}

type collector struct {
	startTime    time.Time
	simulations  atomic.Int64
	expansions   atomic.Int64
	fullPlayouts atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start() {
	c.startTime = time.Now()
	c.simulations.Store(0)
	c.expansions.Store(0)
	c.fullPlayouts.Store(0)
}

func (c *collector) AddSimulation() {
	c.simulations.Add(1)
}

func (c *collector) AddExpansion() {
	c.expansions.Add(1)
}

func (c *collector) AddFullPlayout() {
	c.fullPlayouts.Add(1)
}

func (c *collector) Complete(storeSize int) SearchMetric {
	return SearchMetric{
		StartTime:    c.startTime,
		Duration:     time.Since(c.startTime),
		Simulations:  int(c.simulations.Load()),
		Expansions:   int(c.expansions.Load()),
		FullPlayouts: int(c.fullPlayouts.Load()),
		StoreSize:    storeSize,
	}
}

// PromMetrics holds the Prometheus series shared by every search of a process.
type PromMetrics struct {
	simulationsTotal  prometheus.Counter
	expansionsTotal   prometheus.Counter
	fullPlayoutsTotal prometheus.Counter
	searchDuration    prometheus.Histogram
	searchSimulations prometheus.Histogram
	storeEntries      prometheus.Gauge
}

// NewPromMetrics registers the search metrics with reg. A nil reg creates unregistered
// metrics.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	factory := promauto.With(reg)
	return &PromMetrics{
		simulationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mcts_simulations_total",
			Help: "Total simulations run across all searches",
		}),
		expansionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mcts_expansions_total",
			Help: "Total statistics entries created by expansion",
		}),
		fullPlayoutsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mcts_full_playouts_total",
			Help: "Total simulations that reached a finished game",
		}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mcts_search_duration_seconds",
			Help:    "Wall-clock duration of one move search",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		searchSimulations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mcts_search_simulations",
			Help:    "Simulations run per move search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		storeEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mcts_store_entries",
			Help: "Statistics store size after the last search",
		}),
	}
}

// NewCollector returns a collector for one engine that also feeds the shared series.
// Collectors count per search and must not be shared between engines.
func (pm *PromMetrics) NewCollector() Collector {
	return &promCollector{metrics: pm}
}

type promCollector struct {
	collector
	metrics *PromMetrics
}

func (p *promCollector) AddSimulation() {
	p.collector.AddSimulation()
	p.metrics.simulationsTotal.Inc()
}

func (p *promCollector) AddExpansion() {
	p.collector.AddExpansion()
	p.metrics.expansionsTotal.Inc()
}

func (p *promCollector) AddFullPlayout() {
	p.collector.AddFullPlayout()
	p.metrics.fullPlayoutsTotal.Inc()
}

func (p *promCollector) Complete(storeSize int) SearchMetric {
	metric := p.collector.Complete(storeSize)
	p.metrics.searchDuration.Observe(metric.Duration.Seconds())
	p.metrics.searchSimulations.Observe(float64(metric.Simulations))
	p.metrics.storeEntries.Set(float64(storeSize))
	return metric
}
