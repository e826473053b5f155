package trace

// Summary aggregates statistics over the traces of one request.
type Summary struct {
	Total         int            `json:"total"`
	EligibleCount int            `json:"eligibleCount"`
	ExcludedCount int            `json:"excludedCount"`
	MeanWeight    float64        `json:"meanWeight"` // mean FinalWeight over eligible traces
	MaxWeight     float64        `json:"maxWeight"`
	ReasonCounts  map[Reason]int `json:"reasonCounts"` // reason → number of traces carrying it
}

// Summarize computes aggregate statistics from a list of traces.
// Safe for nil or empty input (returns zero-value fields).
func Summarize(traces []Trace) *Summary {
	summary := &Summary{
		ReasonCounts: make(map[Reason]int),
	}
	summary.Total = len(traces)

	totalWeight := 0.0
	for _, t := range traces {
		if t.Eligible {
			summary.EligibleCount++
			totalWeight += t.FinalWeight
			if t.FinalWeight > summary.MaxWeight {
				summary.MaxWeight = t.FinalWeight
			}
		} else {
			summary.ExcludedCount++
		}
		for _, r := range t.Reasons {
			summary.ReasonCounts[r]++
		}
	}
	if summary.EligibleCount > 0 {
		summary.MeanWeight = totalWeight / float64(summary.EligibleCount)
	}
	return summary
}
