package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollcall/rollcall/engine/roster"
	"github.com/rollcall/rollcall/engine/strategy"
	"github.com/rollcall/rollcall/engine/trace"
)

func weighOnce(e *Engine, cands []roster.Candidate, policy SelectionPolicy, history []roster.PickRecord) ([]drawEntry, eligibility) {
	elig := runEligibility(cands, policy, history, testClass)
	return e.weigh(cands, elig, policy, history, testClass), elig
}

func TestWeigh_UniformTagsFallbackRandom(t *testing.T) {
	e := newTestEngine()
	cands := []roster.Candidate{activeCandidate("a"), activeCandidate("b")}

	entries, elig := weighOnce(e, cands, DefaultPolicy(), nil)

	require.Len(t, entries, 2)
	for i, en := range entries {
		assert.Equal(t, 1.0, en.weight)
		assert.Equal(t, []trace.Reason{trace.ReasonEligible, trace.ReasonFallbackRandom}, elig.traces[i].Reasons)
		assert.Equal(t, 1.0, elig.traces[i].FinalWeight)
	}
}

func TestWeigh_BalanceByTerm(t *testing.T) {
	e := newTestEngine()
	c := activeCandidate("a")
	c.PickCount = 4
	policy := DefaultPolicy()
	policy.WeightedRandom = true
	policy.BalanceByTerm = true

	entries, elig := weighOnce(e, []roster.Candidate{c}, policy, nil)

	// 1 / (1 + 4*0.25)
	assert.InDelta(t, 0.5, entries[0].weight, 1e-12)
	assert.Equal(t, []trace.Reason{
		trace.ReasonEligible,
		trace.ReasonWeighted,
		trace.ReasonBalanceTarget,
	}, elig.traces[0].Reasons)
}

func TestWeigh_StageFairnessCountsRecentAppearances(t *testing.T) {
	// GIVEN a was picked in two of the last three class rounds and b in none
	e := newTestEngine()
	cands := []roster.Candidate{activeCandidate("a"), activeCandidate("b")}
	history := []roster.PickRecord{
		pickRecord("h1", "2024-09-01T09:00:00Z", "a"),
		pickRecord("h2", "2024-09-01T10:00:00Z", "a", "x"),
		pickRecord("h3", "2024-09-01T11:00:00Z", "x"),
	}
	policy := DefaultPolicy()
	policy.WeightedRandom = true
	policy.StageFairnessRounds = 3

	// WHEN weights are computed
	entries, elig := weighOnce(e, cands, policy, history)

	// THEN a is dampened by 1/(1 + 2*0.4) and b is untouched
	assert.InDelta(t, 1/1.8, entries[0].weight, 1e-12)
	assert.True(t, elig.traces[0].Has(trace.ReasonStageFairness))
	assert.Equal(t, 1.0, entries[1].weight)
	assert.False(t, elig.traces[1].Has(trace.ReasonStageFairness))
}

func TestWeigh_FloorKeepsCandidatesSelectable(t *testing.T) {
	e := newTestEngine()
	c := activeCandidate("a")
	c.Weight = 0.01
	policy := DefaultPolicy()
	policy.WeightedRandom = true

	entries, elig := weighOnce(e, []roster.Candidate{c}, policy, nil)

	assert.Equal(t, minDrawWeight, entries[0].weight)
	assert.Equal(t, 0.01, elig.traces[0].BaseWeight)
	assert.Equal(t, minDrawWeight, elig.traces[0].FinalWeight)
}

func TestWeigh_NonClassicStrategyTagsAdjusted(t *testing.T) {
	e := newTestEngine()
	c := activeCandidate("a")
	c.Score = 5
	policy := DefaultPolicy()
	policy.WeightedRandom = true
	policy.StrategyPreset = strategy.Momentum

	entries, elig := weighOnce(e, []roster.Candidate{c}, policy, nil)

	// 1 * (1 + 5*0.1)
	assert.InDelta(t, 1.5, entries[0].weight, 1e-12)
	assert.Equal(t, []trace.Reason{
		trace.ReasonEligible,
		trace.ReasonWeighted,
		trace.ReasonStrategyAdjusted,
	}, elig.traces[0].Reasons)
}

func TestWeigh_UnknownPresetFallsBackToClassic(t *testing.T) {
	// GIVEN a policy naming a strategy that is not registered
	m := &fakeMetrics{}
	e := newTestEngine(WithMetrics(m))
	c := activeCandidate("a")
	c.Score = 5
	policy := DefaultPolicy()
	policy.WeightedRandom = true
	policy.StrategyPreset = "does-not-exist"

	// WHEN weights are computed
	entries, elig := weighOnce(e, []roster.Candidate{c}, policy, nil)

	// THEN classic applies, the fallback is counted and nothing is tagged as adjusted
	assert.Equal(t, 1.0, entries[0].weight)
	assert.False(t, elig.traces[0].Has(trace.ReasonStrategyAdjusted))
	assert.Equal(t, []string{"does-not-exist"}, m.strategyFallbacks)
}

func TestWeigh_StrategyIgnoredForUniformDraws(t *testing.T) {
	e := newTestEngine()
	policy := DefaultPolicy()
	policy.StrategyPreset = strategy.Momentum

	_, elig := weighOnce(e, []roster.Candidate{activeCandidate("a")}, policy, nil)

	assert.True(t, elig.traces[0].Has(trace.ReasonFallbackRandom))
	assert.False(t, elig.traces[0].Has(trace.ReasonStrategyAdjusted))
}

func TestWeigh_LoadedPluginStrategy(t *testing.T) {
	// GIVEN a signed plugin loaded into the engine's registry
	reg := strategy.NewRegistry()
	plugin := strategy.PluginConfig{ID: "boost", Name: "Boost"}
	bm, sf := 1.5, 0.2
	plugin.BaseMultiplier = &bm
	plugin.ScoreFactor = &sf
	res := reg.LoadPlugins([]strategy.PluginConfig{strategy.Sign(plugin)}, "1.0.0")
	require.Equal(t, 1, res.Loaded)

	e := New(reg)
	c := activeCandidate("a")
	c.Score = 5
	policy := DefaultPolicy()
	policy.WeightedRandom = true
	policy.StrategyPreset = "boost"

	// WHEN weights are computed
	entries, elig := weighOnce(e, []roster.Candidate{c}, policy, nil)

	// THEN the plugin formula applies: 1 * 1.5 * (1 + 5*0.2)
	assert.InDelta(t, 3.0, entries[0].weight, 1e-9)
	assert.True(t, elig.traces[0].Has(trace.ReasonStrategyAdjusted))
}

func TestWeigh_ExcludedCandidatesHaveNoEntry(t *testing.T) {
	e := newTestEngine()
	cands := []roster.Candidate{
		candidateWithStatus("a", roster.StatusExcluded),
		activeCandidate("b"),
	}

	entries, elig := weighOnce(e, cands, DefaultPolicy(), nil)

	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].index)
	assert.Zero(t, elig.traces[0].FinalWeight)
	assert.Equal(t, []trace.Reason{trace.ReasonExcludedByStatus}, elig.traces[0].Reasons)
}
