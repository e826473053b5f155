// Package strategy resolves a policy's named weighting strategy to a weighting function.
//
// A Registry holds three immutable built-ins (classic, balanced, momentum) plus any
// number of data-driven plugins. Plugins are never code: each one is a small set of
// tuning parameters compiled into a closed-form formula
//
//	clamp(base × baseMultiplier × (1 + max(0,score) × scoreFactor)
//	      / (1 + max(0,pickCount) × pickDecayFactor), minWeight, maxWeight)
//
// Plugin configs are gated before registration: disabled configs, configs that need a
// newer application version and unsigned configs are skipped; configs whose checksum does
// not match, or whose id shadows a built-in, are rejected. Only then are values checked,
// and only those the formula cannot compute (non-finite, negative pickDecayFactor) are
// rejected as invalid. The checksum is a tamper
// deterrent only; it is trivially forgeable and must not be treated as authentication.
//
// Usage:
//
//	reg := strategy.NewRegistry()
//	res := reg.LoadPlugins(configs, "2.4.0")
//	desc := reg.ResolveOrClassic(policy.StrategyPreset)
//	w := desc.Adjust(candidate, 1.0)
package strategy
