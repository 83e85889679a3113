// Package prometheus provides Prometheus instrumentation for notescan
// services.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/notescan"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "notescan"

// StatusOK labels successful operations. Failures are labelled with their
// notescan error code.
const StatusOK = "ok"

// Metrics holds the collectors registered for a process.
type Metrics struct {
	// AnalysesTotal counts analyses by source and status.
	AnalysesTotal *prometheus.CounterVec

	// AnalyzeDuration measures analysis duration by source.
	AnalyzeDuration *prometheus.HistogramVec

	// ArticlesTotal counts parsed articles by source.
	ArticlesTotal *prometheus.CounterVec

	// FeedChecksTotal counts feed probes by result.
	FeedChecksTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "analyses_total",
				Help:      "Total number of screenshot analyses",
			},
			[]string{"source", "status"},
		),
		AnalyzeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "analyze_duration_seconds",
				Help:      "Duration of screenshot analyses in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"source"},
		),
		ArticlesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "articles_total",
				Help:      "Total number of articles extracted",
			},
			[]string{"source"},
		),
		FeedChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "feed_checks_total",
				Help:      "Total number of feed probes",
			},
			[]string{"result"},
		),
	}
}

// RecordAnalysis records one analysis.
func (m *Metrics) RecordAnalysis(source, status string, articles int, duration time.Duration) {
	m.AnalysesTotal.WithLabelValues(source, status).Inc()
	m.AnalyzeDuration.WithLabelValues(source).Observe(duration.Seconds())
	if articles > 0 {
		m.ArticlesTotal.WithLabelValues(source).Add(float64(articles))
	}
}

// RecordFeedCheck records one feed probe.
func (m *Metrics) RecordFeedCheck(ok bool) {
	result := "failed"
	if ok {
		result = "working"
	}
	m.FeedChecksTotal.WithLabelValues(result).Inc()
}

// Handler returns an HTTP handler exposing the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

var _ notescan.Analyzer = (*InstrumentedAnalyzer)(nil)

// InstrumentedAnalyzer wraps an Analyzer and records metrics for it.
type InstrumentedAnalyzer struct {
	next    notescan.Analyzer
	metrics *Metrics
	source  string
}

// NewInstrumentedAnalyzer creates an InstrumentedAnalyzer whose metrics are
// labelled with source.
func NewInstrumentedAnalyzer(next notescan.Analyzer, metrics *Metrics, source string) *InstrumentedAnalyzer {
	return &InstrumentedAnalyzer{next: next, metrics: metrics, source: source}
}

// Analyze delegates to the wrapped analyzer.
func (a *InstrumentedAnalyzer) Analyze(ctx context.Context, image []byte) (analysis *notescan.Analysis, err error) {
	defer func(begin time.Time) {
		status := StatusOK
		if err != nil {
			status = notescan.ErrorCode(err)
		}
		var articles int
		if analysis != nil {
			articles = len(analysis.Articles)
		}
		a.metrics.RecordAnalysis(a.source, status, articles, time.Since(begin))
	}(time.Now())
	return a.next.Analyze(ctx, image)
}

var _ notescan.FeedProber = (*InstrumentedFeedProber)(nil)

// InstrumentedFeedProber wraps a FeedProber and counts results.
type InstrumentedFeedProber struct {
	next    notescan.FeedProber
	metrics *Metrics
}

// NewInstrumentedFeedProber creates a new InstrumentedFeedProber.
func NewInstrumentedFeedProber(next notescan.FeedProber, metrics *Metrics) *InstrumentedFeedProber {
	return &InstrumentedFeedProber{next: next, metrics: metrics}
}

// Probe delegates to the wrapped prober. Probes interrupted by ctx are not
// counted.
func (p *InstrumentedFeedProber) Probe(ctx context.Context, url string) (notescan.FeedStatus, error) {
	status, err := p.next.Probe(ctx, url)
	if err == nil {
		p.metrics.RecordFeedCheck(status.OK)
	}
	return status, err
}
