package engine

import (
	"sync"
	"time"

	"github.com/rollcall/rollcall/engine/roster"
	"github.com/rollcall/rollcall/engine/strategy"
)

const testClass = "class-1"

var testNow = time.Date(2024, 9, 2, 8, 30, 0, 0, time.UTC)

// newTestEngine returns an engine with a fixed clock and id so results compare exactly.
func newTestEngine(opts ...Option) *Engine {
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string { return "result-1" }),
	}
	return New(strategy.NewRegistry(), append(base, opts...)...)
}

func activeCandidate(id string) roster.Candidate {
	return roster.Candidate{ID: id, Name: id, ClassID: testClass, Status: roster.StatusActive}
}

func candidateWithStatus(id string, status roster.Status) roster.Candidate {
	c := activeCandidate(id)
	c.Status = status
	return c
}

func pickRecord(id, ts string, picked ...string) roster.PickRecord {
	r := roster.PickRecord{ID: id, Timestamp: ts, ClassID: testClass}
	for _, p := range picked {
		r.Picked = append(r.Picked, roster.PickedRef{ID: p, Name: p})
	}
	return r
}

func winnerIDs(res PickResult) []string {
	ids := make([]string, len(res.Winners))
	for i, w := range res.Winners {
		ids[i] = w.ID
	}
	return ids
}

func groupIDs(res GroupResult) [][]string {
	out := make([][]string, len(res.Groups))
	for i, g := range res.Groups {
		out[i] = make([]string, len(g))
		for j, c := range g {
			out[i][j] = c.ID
		}
	}
	return out
}

// fakeMetrics records every call for assertions.
type fakeMetrics struct {
	mu                 sync.Mutex
	picks              int
	groups             int
	cooldownExclusions int
	fallbacks          []string
	strategyFallbacks  []string
	lastEligible       int
}

func (m *fakeMetrics) RecordPick(Mode, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.picks++
}

func (m *fakeMetrics) RecordEligibility(_, eligible int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastEligible = eligible
}

func (m *fakeMetrics) RecordCooldownExclusions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cooldownExclusions += n
}

func (m *fakeMetrics) RecordFallback(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, kind)
}

func (m *fakeMetrics) RecordStrategyFallback(requested string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategyFallbacks = append(m.strategyFallbacks, requested)
}

func (m *fakeMetrics) RecordGroup(GroupStrategy, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups++
}
