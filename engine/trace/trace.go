// Package trace provides per-candidate decision traces for selection and grouping.
// This package has no dependencies on engine/; it stores pure data types.
package trace

// Reason is a reason code from the closed trace vocabulary.
type Reason string

const (
	ReasonEligible           Reason = "eligible"
	ReasonExcludedByStatus   Reason = "excluded_by_status"
	ReasonExcludedByManual   Reason = "excluded_by_manual"
	ReasonExcludedByCooldown Reason = "excluded_by_cooldown"
	ReasonWeighted           Reason = "weighted"
	ReasonStrategyAdjusted   Reason = "strategy_adjusted"
	ReasonFallbackRandom     Reason = "fallback_random"
	ReasonBalanceTarget      Reason = "balance_target_boost"
	ReasonStageFairness      Reason = "stage_fairness_boost"
	ReasonPriorityUnpicked   Reason = "priority_unpicked"
	ReasonRelaxedConstraints Reason = "fallback_relaxed_constraints"
)

// validReasons maps accepted reason strings.
var validReasons = map[Reason]bool{
	ReasonEligible:           true,
	ReasonExcludedByStatus:   true,
	ReasonExcludedByManual:   true,
	ReasonExcludedByCooldown: true,
	ReasonWeighted:           true,
	ReasonStrategyAdjusted:   true,
	ReasonFallbackRandom:     true,
	ReasonBalanceTarget:      true,
	ReasonStageFairness:      true,
	ReasonPriorityUnpicked:   true,
	ReasonRelaxedConstraints: true,
}

// IsValidReason returns true if the given string is part of the reason vocabulary.
func IsValidReason(r string) bool {
	return validReasons[Reason(r)]
}

// Trace is the audit record for one candidate in one request.
// Eligible=false always implies FinalWeight=0; use Exclude to keep that true.
type Trace struct {
	CandidateID string   `json:"candidateId"`
	BaseWeight  float64  `json:"baseWeight"`
	FinalWeight float64  `json:"finalWeight"`
	Eligible    bool     `json:"eligible"`
	Reasons     []Reason `json:"reasons"`
}

// New creates an undecided trace for a candidate.
func New(candidateID string, baseWeight float64) *Trace {
	return &Trace{
		CandidateID: candidateID,
		BaseWeight:  baseWeight,
		Reasons:     make([]Reason, 0, 4),
	}
}

// Add appends a reason unless already present. Insertion order is preserved.
func (t *Trace) Add(r Reason) {
	if t.Has(r) {
		return
	}
	t.Reasons = append(t.Reasons, r)
}

// Has reports whether the trace carries reason r.
func (t *Trace) Has(r Reason) bool {
	for _, existing := range t.Reasons {
		if existing == r {
			return true
		}
	}
	return false
}

// Exclude marks the candidate ineligible for reason r and zeroes its weight.
func (t *Trace) Exclude(r Reason) {
	t.Eligible = false
	t.FinalWeight = 0
	t.Add(r)
}

// Admit marks the candidate eligible with the given final weight.
func (t *Trace) Admit(finalWeight float64) {
	t.Eligible = true
	t.FinalWeight = finalWeight
	t.Add(ReasonEligible)
}
