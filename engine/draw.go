package engine

// drawn is one winner: its candidate index and whether it filled the never-picked quota.
type drawn struct {
	index    int
	priority bool
}

// pickWeighted returns the position of the winner in entries.
// A uniform value in [0, total) is walked down the list; the first entry that takes
// the remainder below zero wins. The last entry absorbs floating-point drift.
func pickWeighted(entries []drawEntry, rnd RandomSource) int {
	total := 0.0
	for _, en := range entries {
		total += en.weight
	}
	if total <= 0 {
		return uniformIndex(rnd, len(entries))
	}
	remainder := rnd() * total
	for pos, en := range entries {
		remainder -= en.weight
		if remainder < 0 {
			return pos
		}
	}
	return len(entries) - 1
}

func pickOne(entries []drawEntry, weighted bool, rnd RandomSource) int {
	if weighted {
		return pickWeighted(entries, rnd)
	}
	return uniformIndex(rnd, len(entries))
}

// drawWinners selects count entries without replacement. Up to quota winners are
// first drawn only from entries with zero cumulative picks; the rest come from
// whatever remains. count must not exceed len(entries).
func drawWinners(entries []drawEntry, count, quota int, weighted bool, rnd RandomSource) []drawn {
	remaining := append([]drawEntry(nil), entries...)
	winners := make([]drawn, 0, count)

	take := func(pos int, priority bool) {
		winners = append(winners, drawn{index: remaining[pos].index, priority: priority})
		remaining = append(remaining[:pos], remaining[pos+1:]...)
	}

	for len(winners) < quota {
		unpicked := make([]drawEntry, 0, len(remaining))
		positions := make([]int, 0, len(remaining))
		for pos, en := range remaining {
			if en.pickCount == 0 {
				unpicked = append(unpicked, en)
				positions = append(positions, pos)
			}
		}
		if len(unpicked) == 0 {
			break
		}
		take(positions[pickOne(unpicked, weighted, rnd)], true)
	}

	for len(winners) < count && len(remaining) > 0 {
		take(pickOne(remaining, weighted, rnd), false)
	}
	return winners
}
