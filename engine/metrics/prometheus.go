package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rollcall/rollcall/engine"
	"github.com/rollcall/rollcall/engine/strategy"
)

// DefaultNamespace prefixes every metric when the caller supplies none.
const DefaultNamespace = "rollcall"

// PrometheusCollector implements engine.MetricsCollector and strategy.Metrics
// backed by Prometheus. Metrics are created and registered on first use.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	picks              *prometheus.CounterVec
	requested          prometheus.Counter
	winners            prometheus.Counter
	shortfalls         prometheus.Counter
	candidates         prometheus.Histogram
	eligible           prometheus.Histogram
	cooldownExclusions prometheus.Counter
	fallbacks          *prometheus.CounterVec
	strategyFallbacks  prometheus.Counter
	groupRequests      *prometheus.CounterVec
	groupMembers       prometheus.Histogram
	pluginLoads        *prometheus.CounterVec
}

// Compile-time assertions that PrometheusCollector covers both engine and registry hooks.
var (
	_ engine.MetricsCollector = (*PrometheusCollector)(nil)
	_ strategy.Metrics        = (*PrometheusCollector)(nil)
)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: metrics namespace (defaults to "rollcall" if empty)
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		poolBuckets := prometheus.ExponentialBuckets(1, 2, 9) // 1 .. 256

		p.picks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "pick",
			Name:      "requests_total",
			Help:      "Total pick requests by mode (single, multiple).",
		}, []string{"mode"})
		p.requested = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "pick",
			Name:      "requested_winners_total",
			Help:      "Total winners requested across pick requests.",
		})
		p.winners = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "pick",
			Name:      "winners_total",
			Help:      "Total winners returned across pick requests.",
		})
		p.shortfalls = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "pick",
			Name:      "shortfalls_total",
			Help:      "Pick requests that returned fewer winners than requested.",
		})
		p.candidates = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "eligibility",
			Name:      "candidates",
			Help:      "Candidates supplied per request.",
			Buckets:   poolBuckets,
		})
		p.eligible = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "eligibility",
			Name:      "eligible_candidates",
			Help:      "Candidates left after filtering per request.",
			Buckets:   poolBuckets,
		})
		p.cooldownExclusions = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "eligibility",
			Name:      "cooldown_exclusions_total",
			Help:      "Total candidates removed by the cooldown stage.",
		})
		p.fallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "eligibility",
			Name:      "fallbacks_total",
			Help:      "Constraint relaxations by kind (manual_relaxed, cooldown_skipped).",
		}, []string{"kind"})
		p.strategyFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "fallbacks_total",
			Help:      "Unknown strategy presets resolved to classic.",
		})
		p.groupRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "group",
			Name:      "requests_total",
			Help:      "Total group requests by strategy (random, balanced-score).",
		}, []string{"strategy"})
		p.groupMembers = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "group",
			Name:      "members_per_group",
			Help:      "Average members per group in each group request.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		})
		p.pluginLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "strategy",
			Name:      "plugin_loads_total",
			Help:      "Plugin load outcomes by status.",
		}, []string{"status"})

		p.reg.MustRegister(p.picks)
		p.reg.MustRegister(p.requested)
		p.reg.MustRegister(p.winners)
		p.reg.MustRegister(p.shortfalls)
		p.reg.MustRegister(p.candidates)
		p.reg.MustRegister(p.eligible)
		p.reg.MustRegister(p.cooldownExclusions)
		p.reg.MustRegister(p.fallbacks)
		p.reg.MustRegister(p.strategyFallbacks)
		p.reg.MustRegister(p.groupRequests)
		p.reg.MustRegister(p.groupMembers)
		p.reg.MustRegister(p.pluginLoads)
	})
}

// RecordPick counts a pick request and its requested and returned winners.
func (p *PrometheusCollector) RecordPick(mode engine.Mode, requested, winners int) {
	p.ensureRegistered()
	p.picks.WithLabelValues(string(mode)).Inc()
	if requested > 0 {
		p.requested.Add(float64(requested))
	}
	p.winners.Add(float64(winners))
	if winners < requested {
		p.shortfalls.Inc()
	}
}

// RecordEligibility observes pool sizes before and after filtering.
func (p *PrometheusCollector) RecordEligibility(candidates, eligible int) {
	p.ensureRegistered()
	p.candidates.Observe(float64(candidates))
	p.eligible.Observe(float64(eligible))
}

// RecordCooldownExclusions adds to the cooldown exclusion counter.
func (p *PrometheusCollector) RecordCooldownExclusions(count int) {
	if count <= 0 {
		return
	}
	p.ensureRegistered()
	p.cooldownExclusions.Add(float64(count))
}

// RecordFallback counts a relaxation by kind.
func (p *PrometheusCollector) RecordFallback(kind string) {
	p.ensureRegistered()
	p.fallbacks.WithLabelValues(kind).Inc()
}

// RecordStrategyFallback counts an unknown preset. The preset name comes from
// request input, so it is logged by the engine rather than used as a label.
func (p *PrometheusCollector) RecordStrategyFallback(_ /* requested */ string) {
	p.ensureRegistered()
	p.strategyFallbacks.Inc()
}

// RecordGroup counts a group request and observes its average group size.
func (p *PrometheusCollector) RecordGroup(gs engine.GroupStrategy, groups, members int) {
	p.ensureRegistered()
	p.groupRequests.WithLabelValues(string(gs)).Inc()
	if groups > 0 {
		p.groupMembers.Observe(float64(members) / float64(groups))
	}
}

// RecordPluginLoad counts a plugin load outcome.
func (p *PrometheusCollector) RecordPluginLoad(status string) {
	p.ensureRegistered()
	p.pluginLoads.WithLabelValues(status).Inc()
}
