package metrics

import (
	"github.com/rollcall/rollcall/engine"
	"github.com/rollcall/rollcall/engine/strategy"
)

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for tests or when the caller collects
// metrics elsewhere.
type NopMetrics struct{}

// Compile-time assertions that NopMetrics covers both engine and registry hooks.
var (
	_ engine.MetricsCollector = (*NopMetrics)(nil)
	_ strategy.Metrics        = (*NopMetrics)(nil)
)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	m := metrics.NewNop()
//	eng := engine.New(strategy.NewRegistry(strategy.WithMetrics(m)), engine.WithMetrics(m))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordPick discards the pick metric.
func (n *NopMetrics) RecordPick(_ engine.Mode, _ /* requested */, _ /* winners */ int) {
	// No-op
}

// RecordEligibility discards the eligibility metric.
func (n *NopMetrics) RecordEligibility(_ /* candidates */, _ /* eligible */ int) {
	// No-op
}

// RecordCooldownExclusions discards the cooldown metric.
func (n *NopMetrics) RecordCooldownExclusions(_ /* count */ int) {
	// No-op
}

// RecordFallback discards the fallback metric.
func (n *NopMetrics) RecordFallback(_ /* kind */ string) {
	// No-op
}

// RecordStrategyFallback discards the strategy fallback metric.
func (n *NopMetrics) RecordStrategyFallback(_ /* requested */ string) {
	// No-op
}

// RecordGroup discards the group metric.
func (n *NopMetrics) RecordGroup(_ engine.GroupStrategy, _ /* groups */, _ /* members */ int) {
	// No-op
}

// RecordPluginLoad discards the plugin load metric.
func (n *NopMetrics) RecordPluginLoad(_ /* status */ string) {
	// No-op
}
