package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollcall/rollcall/engine/roster"
	"github.com/rollcall/rollcall/engine/trace"
)

func poolIDs(cands []roster.Candidate, elig eligibility) []string {
	ids := make([]string, len(elig.pool))
	for i, idx := range elig.pool {
		ids[i] = cands[idx].ID
	}
	return ids
}

func TestEligibility_ManualExclusion(t *testing.T) {
	cands := []roster.Candidate{activeCandidate("a"), activeCandidate("b"), activeCandidate("c")}
	policy := DefaultPolicy()
	policy.ManualExcludedIDs = []string{"b", "not-present"}

	elig := runEligibility(cands, policy, nil, testClass)

	assert.Equal(t, []string{"a", "c"}, poolIDs(cands, elig))
	assert.Equal(t, []trace.Reason{trace.ReasonExcludedByManual}, elig.traces[1].Reasons)
	assert.Empty(t, elig.notes)
}

func TestEligibility_ManualConflict_RelaxedWhenEnabled(t *testing.T) {
	// GIVEN every active candidate is manually excluded and auto-relax is on
	cands := []roster.Candidate{
		activeCandidate("a"),
		activeCandidate("b"),
		candidateWithStatus("c", roster.StatusAbsent),
	}
	policy := DefaultPolicy()
	policy.ManualExcludedIDs = []string{"a", "b"}

	// WHEN the pipeline runs
	elig := runEligibility(cands, policy, nil, testClass)

	// THEN the active set is restored, annotated, and a note explains why
	assert.Equal(t, []string{"a", "b"}, poolIDs(cands, elig))
	assert.Equal(t, []trace.Reason{
		trace.ReasonExcludedByManual,
		trace.ReasonRelaxedConstraints,
		trace.ReasonEligible,
	}, elig.traces[0].Reasons)
	assert.True(t, elig.traces[0].Eligible)
	assert.False(t, elig.traces[2].Eligible, "status filter is never relaxed")
	require.Len(t, elig.notes, 1)
	assert.Contains(t, elig.notes[0], "manual exclusions relaxed")
	assert.Equal(t, []string{FallbackManualRelaxed}, elig.fallbacks)
}

func TestEligibility_ManualConflict_EmptyWhenRelaxDisabled(t *testing.T) {
	cands := []roster.Candidate{activeCandidate("a")}
	policy := DefaultPolicy()
	policy.AutoRelaxOnConflict = false
	policy.ManualExcludedIDs = []string{"a"}

	elig := runEligibility(cands, policy, nil, testClass)

	assert.Empty(t, elig.pool)
	assert.Empty(t, elig.notes)
	assert.False(t, elig.traces[0].Eligible)
}

func TestEligibility_Cooldown_UsesMostRecentRecordsOfSameClass(t *testing.T) {
	// GIVEN an older record for bob, the newest class record for alice and a
	// newer record in another class for carol
	cands := []roster.Candidate{activeCandidate("alice"), activeCandidate("bob"), activeCandidate("carol")}
	other := pickRecord("h3", "2024-09-03T10:00:00Z", "carol")
	other.ClassID = "class-2"
	history := []roster.PickRecord{
		pickRecord("h1", "2024-09-01T10:00:00Z", "bob"),
		other,
		pickRecord("h2", "2024-09-02T10:00:00Z", "alice"),
	}
	policy := DefaultPolicy()
	policy.PreventRepeat = true
	policy.CooldownRounds = 1

	// WHEN the pipeline runs with a one-round cooldown
	elig := runEligibility(cands, policy, history, testClass)

	// THEN only alice is cooled down
	assert.Equal(t, []string{"alice"}, elig.cooldownExcluded)
	assert.Equal(t, []string{"bob", "carol"}, poolIDs(cands, elig))
}

func TestEligibility_Cooldown_RequiresPreventRepeat(t *testing.T) {
	cands := []roster.Candidate{activeCandidate("a"), activeCandidate("b")}
	history := []roster.PickRecord{pickRecord("h1", "2024-09-01T10:00:00Z", "a")}
	policy := DefaultPolicy()
	policy.CooldownRounds = 3 // PreventRepeat off

	elig := runEligibility(cands, policy, history, testClass)

	assert.Empty(t, elig.cooldownExcluded)
	assert.Len(t, elig.pool, 2)
}

func TestEligibility_Cooldown_SkippedWhenItWouldEmptyPool(t *testing.T) {
	cands := []roster.Candidate{activeCandidate("a"), activeCandidate("b")}
	history := []roster.PickRecord{
		pickRecord("h1", "2024-09-01T10:00:00Z", "a"),
		pickRecord("h2", "2024-09-02T10:00:00Z", "b"),
	}
	policy := DefaultPolicy()
	policy.PreventRepeat = true
	policy.CooldownRounds = 2

	elig := runEligibility(cands, policy, history, testClass)

	assert.Equal(t, []string{"a", "b"}, poolIDs(cands, elig))
	assert.Empty(t, elig.cooldownExcluded)
	assert.Equal(t, []string{FallbackCooldownSkipped}, elig.fallbacks)
	for _, tr := range elig.traces {
		assert.Equal(t, []trace.Reason{trace.ReasonEligible}, tr.Reasons)
	}
}

func TestEligibility_CooldownAppliesAfterManualRelax(t *testing.T) {
	// GIVEN manual exclusions cover everyone and a was picked last round
	cands := []roster.Candidate{activeCandidate("a"), activeCandidate("b")}
	history := []roster.PickRecord{pickRecord("h1", "2024-09-01T10:00:00Z", "a")}
	policy := DefaultPolicy()
	policy.ManualExcludedIDs = []string{"a", "b"}
	policy.PreventRepeat = true
	policy.CooldownRounds = 1

	elig := runEligibility(cands, policy, history, testClass)

	// THEN manual exclusions are relaxed and cooldown still removes a
	assert.Equal(t, []string{"b"}, poolIDs(cands, elig))
	assert.Equal(t, []string{"a"}, elig.cooldownExcluded)
	assert.Zero(t, elig.traces[0].FinalWeight)
}

func TestEligibility_NoActiveCandidates(t *testing.T) {
	cands := []roster.Candidate{candidateWithStatus("a", roster.StatusAbsent)}

	elig := runEligibility(cands, DefaultPolicy(), nil, testClass)

	assert.Empty(t, elig.pool)
	assert.Empty(t, elig.notes, "nothing to relax when nobody is active")
}

func TestEligibility_AutoRelaxNeverLeavesActiveSetEmpty(t *testing.T) {
	cands := []roster.Candidate{
		activeCandidate("a"),
		activeCandidate("b"),
		candidateWithStatus("c", roster.StatusExcluded),
	}
	history := []roster.PickRecord{
		pickRecord("h1", "2024-09-01T10:00:00Z", "a"),
		pickRecord("h2", "2024-09-02T10:00:00Z", "b"),
	}
	tests := []struct {
		name          string
		manual        []string
		cooldown      int
		wantPool      []string
		wantFallbacks []string
	}{
		{"no constraints", nil, 0, []string{"a", "b"}, nil},
		{"partial manual", []string{"a"}, 0, []string{"b"}, nil},
		{"all manual", []string{"a", "b"}, 0, []string{"a", "b"}, []string{FallbackManualRelaxed}},
		{"all cooldown", nil, 2, []string{"a", "b"}, []string{FallbackCooldownSkipped}},
		{"partial cooldown", nil, 1, []string{"a"}, nil},
		{"all manual and all cooldown", []string{"a", "b"}, 2, []string{"a", "b"},
			[]string{FallbackManualRelaxed, FallbackCooldownSkipped}},
		{"partial manual then cooldown on survivor", []string{"a"}, 1, []string{"b"},
			[]string{FallbackCooldownSkipped}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN auto-relax on and some mix of manual and cooldown constraints
			policy := DefaultPolicy()
			policy.ManualExcludedIDs = tt.manual
			policy.PreventRepeat = tt.cooldown > 0
			policy.CooldownRounds = tt.cooldown

			// WHEN the pipeline runs
			elig := runEligibility(cands, policy, history, testClass)

			// THEN some active candidate survives and each fallback fires at most once
			assert.Equal(t, tt.wantPool, poolIDs(cands, elig))
			assert.Equal(t, tt.wantFallbacks, elig.fallbacks)
			assert.Len(t, elig.notes, len(tt.wantFallbacks))
		})
	}
}
