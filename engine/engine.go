package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rollcall/rollcall/engine/roster"
	"github.com/rollcall/rollcall/engine/strategy"
	"github.com/rollcall/rollcall/engine/trace"
)

// Version is reported in every result's metadata.
const Version = "1.4.0"

// Engine runs pick and group requests against a strategy registry.
// An Engine holds no per-request state; concurrent calls are safe as long as
// their RandomSources are not shared.
type Engine struct {
	registry *strategy.Registry
	metrics  MetricsCollector
	clock    func() time.Time
	random   RandomSource
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics sets the metrics collector. Nil keeps the no-op collector.
func WithMetrics(m MetricsCollector) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithClock sets the clock used for GeneratedAt when a request carries no override.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithRandom sets the default randomness source for requests that carry none.
func WithRandom(r RandomSource) Option {
	return func(e *Engine) {
		if r != nil {
			e.random = r
		}
	}
}

// WithIDGenerator sets the generator for result ids.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// New creates an Engine resolving strategies from registry.
// A nil registry gets a fresh built-ins-only registry.
func New(registry *strategy.Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = strategy.NewRegistry()
	}
	e := &Engine{
		registry: registry,
		metrics:  nopMetrics{},
		clock:    time.Now,
		random:   DefaultRandom(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Registry returns the strategy registry the engine resolves against.
func (e *Engine) Registry() *strategy.Registry {
	return e.registry
}

// Pick selects up to req.Count distinct winners.
// It never fails: counts are clamped and starvation is resolved per policy.
func (e *Engine) Pick(req PickRequest) PickResult {
	policy := req.Policy.normalized()
	rnd := e.sourceFor(req.Random)

	elig := runEligibility(req.Candidates, policy, req.History, req.ClassID)
	e.metrics.RecordEligibility(len(req.Candidates), len(elig.pool))
	e.metrics.RecordCooldownExclusions(len(elig.cooldownExcluded))
	for _, kind := range elig.fallbacks {
		e.metrics.RecordFallback(kind)
	}

	entries := e.weigh(req.Candidates, elig, policy, req.History, req.ClassID)

	count := min(max(req.Count, 0), len(entries))
	quota := min(policy.PrioritizeUnpickedCount, count)
	drawn := drawWinners(entries, count, quota, policy.WeightedRandom, rnd)

	winners := make([]roster.Candidate, 0, len(drawn))
	for _, w := range drawn {
		winners = append(winners, req.Candidates[w.index])
		if w.priority {
			elig.traces[w.index].Add(trace.ReasonPriorityUnpicked)
		}
	}

	mode := resolveMode(req.Mode, req.Count)
	res := PickResult{
		ID:                  e.newID(),
		Winners:             winners,
		Traces:              flattenTraces(elig.traces),
		CooldownExcludedIDs: elig.cooldownExcluded,
		Metadata: PickMetadata{
			EngineVersion:  Version,
			Mode:           mode,
			ClassID:        req.ClassID,
			ClassName:      req.ClassName,
			Policy:         policy,
			RequestedCount: req.Count,
			ActualCount:    len(winners),
			GeneratedAt:    e.timestamp(req.GeneratedAt),
			FallbackNotes:  elig.notes,
		},
	}
	e.metrics.RecordPick(mode, req.Count, len(winners))
	logrus.Debugf("pick %s: class=%q candidates=%d eligible=%d requested=%d winners=%d",
		res.ID, req.ClassID, len(req.Candidates), len(entries), req.Count, len(winners))
	return res
}

// Group partitions the active candidates into max(1, req.GroupCount) groups.
// Only the status filter applies; cooldown and manual exclusions do not.
func (e *Engine) Group(req GroupRequest) GroupResult {
	policy := req.Policy.normalized()
	rnd := e.sourceFor(req.Random)
	groupCount := max(1, req.GroupCount)

	traces, active := statusFilter(req.Candidates)
	pool := make([]roster.Candidate, 0, len(active))
	for _, i := range active {
		traces[i].Admit(traces[i].BaseWeight)
		pool = append(pool, req.Candidates[i])
	}
	e.metrics.RecordEligibility(len(req.Candidates), len(pool))

	var groups [][]roster.Candidate
	switch policy.GroupStrategy {
	case GroupBalancedScore:
		recent := roster.RecentForClass(req.History, req.ClassID, policy.PairAvoidRounds)
		groups = assignBalanced(pool, groupCount, pairCounts(recent), rnd)
	default:
		groups = assignRandom(pool, groupCount, rnd)
	}

	res := GroupResult{
		ID:     e.newID(),
		Groups: groups,
		Traces: flattenTraces(traces),
		Metadata: GroupMetadata{
			EngineVersion: Version,
			Mode:          ModeGroup,
			ClassID:       req.ClassID,
			ClassName:     req.ClassName,
			Policy:        policy,
			Strategy:      policy.GroupStrategy,
			GroupCount:    groupCount,
			GeneratedAt:   e.timestamp(req.GeneratedAt),
		},
	}
	e.metrics.RecordGroup(policy.GroupStrategy, groupCount, len(pool))
	logrus.Debugf("group %s: class=%q strategy=%s groups=%d members=%d",
		res.ID, req.ClassID, policy.GroupStrategy, groupCount, len(pool))
	return res
}

func (e *Engine) sourceFor(r RandomSource) RandomSource {
	if r != nil {
		return r
	}
	return e.random
}

func (e *Engine) timestamp(override *time.Time) time.Time {
	if override != nil {
		return override.UTC()
	}
	return e.clock().UTC()
}
