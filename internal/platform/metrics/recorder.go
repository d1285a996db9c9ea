package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/betslip-analyzer/internal/platform/resilience"
)

const namespace = "betslip"

// Recorder owns the service collectors. A nil *Recorder discards everything.
type Recorder struct {
	registry        *prometheus.Registry
	analysisRuns    *prometheus.CounterVec
	analysisMatches *prometheus.HistogramVec
	providerCalls   *prometheus.CounterVec
	breakerState    *prometheus.GaugeVec
	ledgerOps       *prometheus.CounterVec
	creditsGranted  *prometheus.CounterVec
	purchases       *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		analysisRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Analysis runs by terminal outcome.",
		}, []string{"outcome"}),
		analysisMatches: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_matches",
			Help:      "Matches per run at each pipeline stage.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 20},
		}, []string{"stage"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Outbound provider calls by kind and outcome.",
		}, []string{"provider", "kind", "outcome"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_open",
			Help:      "1 while the named breaker is open, 0.5 half-open, 0 closed.",
		}, []string{"name"}),
		ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Ledger mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		creditsGranted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_granted_total",
			Help:      "Credits added by purchase channel.",
		}, []string{"channel"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Purchase reconciliation outcomes by channel.",
		}, []string{"channel", "outcome"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.analysisRuns,
		r.analysisMatches,
		r.providerCalls,
		r.breakerState,
		r.ledgerOps,
		r.creditsGranted,
		r.purchases,
	)
	return r
}

func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) AnalysisRun(outcome string) {
	if r == nil {
		return
	}
	r.analysisRuns.WithLabelValues(outcome).Inc()
}

func (r *Recorder) AnalysisMatches(stage string, count int) {
	if r == nil {
		return
	}
	r.analysisMatches.WithLabelValues(stage).Observe(float64(count))
}

func (r *Recorder) ProviderCall(provider, kind, outcome string) {
	if r == nil {
		return
	}
	r.providerCalls.WithLabelValues(provider, kind, outcome).Inc()
}

func (r *Recorder) LedgerOp(op, outcome string) {
	if r == nil {
		return
	}
	r.ledgerOps.WithLabelValues(op, outcome).Inc()
}

func (r *Recorder) CreditsGranted(channel string, credits int) {
	if r == nil || credits <= 0 {
		return
	}
	r.creditsGranted.WithLabelValues(channel).Add(float64(credits))
}

func (r *Recorder) Purchase(channel, outcome string) {
	if r == nil {
		return
	}
	r.purchases.WithLabelValues(channel, outcome).Inc()
}

// BreakerStateChanged matches resilience.StateFunc.
func (r *Recorder) BreakerStateChanged(name string, _, to resilience.State) {
	if r == nil {
		return
	}
	value := 0.0
	switch to {
	case resilience.StateOpen:
		value = 1
	case resilience.StateHalfOpen:
		value = 0.5
	}
	r.breakerState.WithLabelValues(name).Set(value)
}
