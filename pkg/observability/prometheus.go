package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voronoi"

// Prometheus implements every hook interface on top of client_golang
// collectors.
type Prometheus struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration prometheus.Histogram
	stageDuration  *prometheus.HistogramVec
	renderPixels   prometheus.Counter

	cacheTotal *prometheus.CounterVec
	cacheBytes prometheus.Counter

	httpInFlight prometheus.Gauge
	httpTotal    *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewPrometheus creates the collectors and registers them with reg.
// Passing a *prometheus.Registry also makes it the source for Handler.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		rendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "total",
			Help:      "Number of completed renders by result.",
		}, []string{"result"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "End-to-end render duration.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each render stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16),
		}, []string{"stage"}),
		renderPixels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "pixels_total",
			Help:      "Pixels requested across all renders.",
		}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes by operation.",
		}, []string{"key_type", "op"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being served.",
		}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of served HTTP requests.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		gatherer: prometheus.DefaultGatherer,
	}

	for _, c := range []prometheus.Collector{
		p.rendersTotal, p.renderDuration, p.stageDuration, p.renderPixels,
		p.cacheTotal, p.cacheBytes,
		p.httpInFlight, p.httpTotal, p.httpDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		p.gatherer = g
	}
	return p, nil
}

// Install registers p as the global render, cache and HTTP hooks.
func (p *Prometheus) Install() {
	SetRenderHooks(p)
	SetCacheHooks(p)
	SetHTTPHooks(p)
}

// Handler serves the metrics exposition.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func (p *Prometheus) OnRenderStart(_ context.Context, width, height, _ int) {
	p.renderPixels.Add(float64(width) * float64(height))
}

func (p *Prometheus) OnStageComplete(_ context.Context, stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *Prometheus) OnRenderComplete(_ context.Context, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.rendersTotal.WithLabelValues(result).Inc()
	p.renderDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheTotal.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheTotal.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheTotal.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string) {
	p.httpInFlight.Inc()
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.httpInFlight.Dec()
	p.httpTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

var (
	_ RenderHooks = (*Prometheus)(nil)
	_ CacheHooks  = (*Prometheus)(nil)
	_ HTTPHooks   = (*Prometheus)(nil)
)
