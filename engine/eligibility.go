package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rollcall/rollcall/engine/roster"
	"github.com/rollcall/rollcall/engine/trace"
)

// eligibility is the outcome of the filter pipeline.
// pool holds candidate indices in input order.
type eligibility struct {
	traces           []*trace.Trace
	pool             []int
	cooldownExcluded []string
	notes            []string
	fallbacks        []string
}

// statusFilter creates one trace per candidate and returns the indices of active ones.
func statusFilter(cands []roster.Candidate) ([]*trace.Trace, []int) {
	traces := make([]*trace.Trace, len(cands))
	active := make([]int, 0, len(cands))
	for i, c := range cands {
		traces[i] = trace.New(c.ID, c.BaseWeight())
		if c.IsActive() {
			active = append(active, i)
		} else {
			traces[i].Exclude(trace.ReasonExcludedByStatus)
		}
	}
	return traces, active
}

// runEligibility applies the status, manual-exclusion and cooldown stages in order.
//
// Cooldown never empties the pool: if every remaining candidate was picked recently
// the stage is skipped. With AutoRelaxOnConflict, manual exclusions that would empty
// the pool are lifted, so the pool is empty only when nobody is active or relaxing is
// off. Survivors are marked eligible; weights are assigned later.
func runEligibility(cands []roster.Candidate, policy SelectionPolicy, history []roster.PickRecord, classID string) eligibility {
	traces, active := statusFilter(cands)
	out := eligibility{
		traces:           traces,
		cooldownExcluded: make([]string, 0),
		notes:            make([]string, 0),
	}
	pool := active

	if len(policy.ManualExcludedIDs) > 0 {
		barred := make(map[string]bool, len(policy.ManualExcludedIDs))
		for _, id := range policy.ManualExcludedIDs {
			barred[id] = true
		}
		kept := make([]int, 0, len(pool))
		for _, i := range pool {
			if barred[cands[i].ID] {
				traces[i].Exclude(trace.ReasonExcludedByManual)
				continue
			}
			kept = append(kept, i)
		}
		pool = kept

		// Manual exclusion is the only stage that can empty a non-empty active set;
		// cooldown steps aside instead.
		if len(pool) == 0 && len(active) > 0 && policy.AutoRelaxOnConflict {
			pool = out.relax(active, FallbackManualRelaxed,
				fmt.Sprintf("manual exclusions relaxed: all %d active candidates were excluded", len(active)))
		}
	}

	if policy.PreventRepeat && policy.CooldownRounds > 0 {
		recent := roster.RecentForClass(history, classID, policy.CooldownRounds)
		recentIDs := make(map[string]bool)
		for _, id := range roster.PickedIDs(recent) {
			recentIDs[id] = true
		}
		kept := make([]int, 0, len(pool))
		var dropped []int
		for _, i := range pool {
			if recentIDs[cands[i].ID] {
				dropped = append(dropped, i)
			} else {
				kept = append(kept, i)
			}
		}
		switch {
		case len(dropped) == 0:
		case len(kept) == 0:
			out.fallbacks = append(out.fallbacks, FallbackCooldownSkipped)
			out.notes = append(out.notes,
				fmt.Sprintf("cooldown skipped: every eligible candidate was picked in the last %d rounds", policy.CooldownRounds))
		default:
			for _, i := range dropped {
				traces[i].Exclude(trace.ReasonExcludedByCooldown)
				out.cooldownExcluded = append(out.cooldownExcluded, cands[i].ID)
			}
			pool = kept
		}
	}

	for _, i := range pool {
		traces[i].Admit(0)
	}
	out.pool = pool
	return out
}

// relax restores the active set, tags it and records a note.
func (e *eligibility) relax(active []int, kind, note string) []int {
	for _, i := range active {
		e.traces[i].Add(trace.ReasonRelaxedConstraints)
	}
	e.fallbacks = append(e.fallbacks, kind)
	e.notes = append(e.notes, note)
	logrus.Debugf("eligibility fallback (%s): %s", kind, note)
	return append([]int(nil), active...)
}
