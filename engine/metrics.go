package engine

// MetricsCollector receives operational metrics from the engine.
// Implementations must be non-blocking and safe for concurrent use.
type MetricsCollector interface {
	// RecordPick records a completed pick request.
	RecordPick(mode Mode, requested, winners int)

	// RecordEligibility records the pool size before and after filtering.
	RecordEligibility(candidates, eligible int)

	// RecordCooldownExclusions records how many candidates the cooldown stage removed.
	RecordCooldownExclusions(count int)

	// RecordFallback records a relaxation ("manual_relaxed" or "cooldown_skipped").
	RecordFallback(kind string)

	// RecordStrategyFallback records an unknown strategy preset resolved to classic.
	RecordStrategyFallback(requested string)

	// RecordGroup records a completed group request.
	RecordGroup(strategy GroupStrategy, groups, members int)
}

// Fallback kinds reported to RecordFallback.
const (
	FallbackManualRelaxed   = "manual_relaxed"
	FallbackCooldownSkipped = "cooldown_skipped"
)

type nopMetrics struct{}

func (nopMetrics) RecordPick(Mode, int, int)           {}
func (nopMetrics) RecordEligibility(int, int)          {}
func (nopMetrics) RecordCooldownExclusions(int)        {}
func (nopMetrics) RecordFallback(string)               {}
func (nopMetrics) RecordStrategyFallback(string)       {}
func (nopMetrics) RecordGroup(GroupStrategy, int, int) {}
