package strategy

import (
	"github.com/rollcall/rollcall/engine/roster"
)

// Built-in strategy ids.
const (
	Classic  = "classic"
	Balanced = "balanced"
	Momentum = "momentum"
)

const (
	balancedPickDecay = 0.5
	momentumScoreGain = 0.1
)

// builtinOrder fixes listing order; the map below is never mutated after init.
var builtinOrder = []string{Classic, Balanced, Momentum}

var builtins = map[string]Descriptor{
	Classic: {
		ID:          Classic,
		Name:        "Classic",
		Description: "Base weight unchanged.",
		Builtin:     true,
		Adjust: func(_ roster.Candidate, base float64) float64 {
			return base
		},
	},
	Balanced: {
		ID:          Balanced,
		Name:        "Balanced",
		Description: "Dampens candidates in proportion to their cumulative pick count.",
		Builtin:     true,
		Adjust: func(c roster.Candidate, base float64) float64 {
			return base / (1 + float64(max(0, c.PickCount))*balancedPickDecay)
		},
	},
	Momentum: {
		ID:          Momentum,
		Name:        "Momentum",
		Description: "Boosts candidates with a positive score.",
		Builtin:     true,
		Adjust: func(c roster.Candidate, base float64) float64 {
			return base * (1 + float64(max(0, c.Score))*momentumScoreGain)
		},
	},
}

// IsBuiltin returns true if id names a built-in strategy.
func IsBuiltin(id string) bool {
	_, ok := builtins[id]
	return ok
}

// BuiltinIDs returns the built-in strategy ids in listing order.
func BuiltinIDs() []string {
	return append([]string(nil), builtinOrder...)
}
