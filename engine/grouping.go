package engine

import (
	"sort"

	"github.com/rollcall/rollcall/engine/roster"
)

// Cost weights for balanced-score assignment.
const (
	pairPenaltyWeight = 100
	groupSizeWeight   = 10
)

// pairKey is an unordered pair of participant ids (a < b).
type pairKey struct {
	a, b string
}

func newPairKey(x, y string) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// pairCounts counts how often each unordered pair appeared together in records.
func pairCounts(records []roster.PickRecord) map[pairKey]int {
	counts := make(map[pairKey]int)
	for _, r := range records {
		for i := 0; i < len(r.Picked); i++ {
			for j := i + 1; j < len(r.Picked); j++ {
				if r.Picked[i].ID == r.Picked[j].ID {
					continue
				}
				counts[newPairKey(r.Picked[i].ID, r.Picked[j].ID)]++
			}
		}
	}
	return counts
}

func emptyGroups(n int) [][]roster.Candidate {
	groups := make([][]roster.Candidate, n)
	for i := range groups {
		groups[i] = make([]roster.Candidate, 0)
	}
	return groups
}

// assignRandom shuffles pool (Fisher–Yates) and deals it round-robin.
func assignRandom(pool []roster.Candidate, groupCount int, rnd RandomSource) [][]roster.Candidate {
	shuffled := append([]roster.Candidate(nil), pool...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := uniformIndex(rnd, i+1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	groups := emptyGroups(groupCount)
	for i, c := range shuffled {
		groups[i%groupCount] = append(groups[i%groupCount], c)
	}
	return groups
}

// assignBalanced places candidates, highest score first, into the group with the
// lowest cost:
//
//	sum(scores) + 100 × pair penalty against current members + 10 × size
//
// Equal-score neighbours are swapped with probability 1/2 in one pass so input
// order does not fix tie order. Cost ties go to the lowest group index.
func assignBalanced(pool []roster.Candidate, groupCount int, pairs map[pairKey]int, rnd RandomSource) [][]roster.Candidate {
	ordered := append([]roster.Candidate(nil), pool...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})
	for i := 0; i+1 < len(ordered); i++ {
		if ordered[i].Score == ordered[i+1].Score && rnd() < 0.5 {
			ordered[i], ordered[i+1] = ordered[i+1], ordered[i]
		}
	}

	groups := emptyGroups(groupCount)
	scoreSums := make([]int, groupCount)
	for _, c := range ordered {
		best := 0
		bestCost := 0
		for g := range groups {
			penalty := 0
			for _, member := range groups[g] {
				penalty += pairs[newPairKey(c.ID, member.ID)]
			}
			cost := scoreSums[g] + pairPenaltyWeight*penalty + groupSizeWeight*len(groups[g])
			if g == 0 || cost < bestCost {
				best, bestCost = g, cost
			}
		}
		groups[best] = append(groups[best], c)
		scoreSums[best] += c.Score
	}
	return groups
}
