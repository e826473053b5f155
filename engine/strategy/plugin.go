package strategy

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/rollcall/rollcall/engine/roster"
)

// Plugin parameter defaults applied when a field is absent.
const (
	DefaultBaseMultiplier = 1.0
	DefaultMinWeight      = 0.1
)

// PluginConfig is an externally supplied, signed strategy descriptor.
// Pointer fields distinguish "absent" from zero; absence matters to both the
// weight formula defaults and the checksum input.
type PluginConfig struct {
	ID              string   `json:"id" yaml:"id" validate:"required"`
	Name            string   `json:"name" yaml:"name"`
	Description     *string  `json:"description,omitempty" yaml:"description,omitempty"`
	Enabled         *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	MinAppVersion   string   `json:"minAppVersion,omitempty" yaml:"minAppVersion,omitempty"`
	Signature       string   `json:"signature,omitempty" yaml:"signature,omitempty"`
	BaseMultiplier  *float64 `json:"baseMultiplier,omitempty" yaml:"baseMultiplier,omitempty"`
	ScoreFactor     *float64 `json:"scoreFactor,omitempty" yaml:"scoreFactor,omitempty"`
	PickDecayFactor *float64 `json:"pickDecayFactor,omitempty" yaml:"pickDecayFactor,omitempty" validate:"omitempty,gte=0"`
	MinWeight       *float64 `json:"minWeight,omitempty" yaml:"minWeight,omitempty"`
	MaxWeight       *float64 `json:"maxWeight,omitempty" yaml:"maxWeight,omitempty"`
}

// Package-level validator instance for plugin config validation.
var validate = validator.New()

// IsEnabled reports whether the config is enabled. Absent means enabled.
func (c PluginConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Validate rejects parameters the weight formula cannot compute: a missing id,
// non-finite values, or a negative pickDecayFactor (the divisor could reach
// zero). Any other signed value, zero or negative included, is honored as is.
func (c PluginConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %q", ErrInvalidPlugin, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidPlugin, err)
	}
	for _, v := range []*float64{c.BaseMultiplier, c.ScoreFactor, c.PickDecayFactor, c.MinWeight, c.MaxWeight} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%w: tuning parameters must be finite", ErrInvalidPlugin)
		}
	}
	return nil
}

func (c PluginConfig) minWeight() float64 {
	if c.MinWeight != nil {
		return *c.MinWeight
	}
	return DefaultMinWeight
}

func valueOr(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

// compile turns the tuning parameters into a weighting closure.
// Parameters are copied so later edits to the config cannot change a registered strategy.
func (c PluginConfig) compile() WeightFunc {
	baseMultiplier := valueOr(c.BaseMultiplier, DefaultBaseMultiplier)
	scoreFactor := valueOr(c.ScoreFactor, 0)
	pickDecay := valueOr(c.PickDecayFactor, 0)
	minWeight := c.minWeight()
	maxWeight := math.Inf(1)
	if c.MaxWeight != nil {
		maxWeight = *c.MaxWeight
	}

	return func(cand roster.Candidate, base float64) float64 {
		w := base * baseMultiplier * (1 + float64(max(0, cand.Score))*scoreFactor) /
			(1 + float64(max(0, cand.PickCount))*pickDecay)
		return math.Min(math.Max(w, minWeight), maxWeight)
	}
}

func (c PluginConfig) descriptor() Descriptor {
	d := Descriptor{
		ID:     c.ID,
		Name:   c.Name,
		Adjust: c.compile(),
	}
	if c.Description != nil {
		d.Description = *c.Description
	}
	return d
}
