package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/rollcall/rollcall/engine/roster"
	"github.com/rollcall/rollcall/engine/strategy"
	"github.com/rollcall/rollcall/engine/trace"
)

const (
	// termBalanceFactor dampens weight per cumulative pick.
	termBalanceFactor = 0.25
	// stageFairnessFactor dampens weight per pick inside the recent window.
	stageFairnessFactor = 0.4
	// minDrawWeight keeps every eligible candidate selectable under weighted draws.
	minDrawWeight = 0.1
)

// drawEntry is an eligible candidate with its final draw weight.
type drawEntry struct {
	index     int // position in the request's candidate list
	weight    float64
	pickCount int
}

// weigh computes the final draw weight of every eligible candidate and records it
// in the candidate's trace. Entries keep the eligible pool's order.
func (e *Engine) weigh(cands []roster.Candidate, elig eligibility, policy SelectionPolicy, history []roster.PickRecord, classID string) []drawEntry {
	desc := e.resolveStrategy(policy.StrategyPreset)

	var recent []roster.PickRecord
	if policy.StageFairnessRounds > 0 {
		recent = roster.RecentForClass(history, classID, policy.StageFairnessRounds)
	}

	entries := make([]drawEntry, 0, len(elig.pool))
	for _, i := range elig.pool {
		c := cands[i]
		tr := elig.traces[i]

		if policy.WeightedRandom {
			tr.Add(trace.ReasonWeighted)
			if desc.ID != strategy.Classic {
				tr.Add(trace.ReasonStrategyAdjusted)
			}
		} else {
			tr.Add(trace.ReasonFallbackRandom)
		}

		w := desc.Adjust(c, c.BaseWeight())
		if policy.BalanceByTerm {
			w *= 1 / (1 + float64(max(0, c.PickCount))*termBalanceFactor)
			tr.Add(trace.ReasonBalanceTarget)
		}
		if len(recent) > 0 {
			if n := roster.PickFrequency(recent, c.ID); n > 0 {
				w *= 1 / (1 + float64(n)*stageFairnessFactor)
				tr.Add(trace.ReasonStageFairness)
			}
		}
		w = max(w, minDrawWeight)

		tr.FinalWeight = w
		entries = append(entries, drawEntry{index: i, weight: w, pickCount: c.PickCount})
	}
	return entries
}

// resolveStrategy looks up preset, falling back to classic. An empty preset is
// the classic default, not a fallback.
func (e *Engine) resolveStrategy(preset string) strategy.Descriptor {
	if preset == "" {
		return e.registry.ResolveOrClassic(strategy.Classic)
	}
	desc, ok := e.registry.Resolve(preset)
	if !ok {
		logrus.Debugf("unknown strategy preset %q, using %s", preset, strategy.Classic)
		e.metrics.RecordStrategyFallback(preset)
		return e.registry.ResolveOrClassic(strategy.Classic)
	}
	return desc
}
