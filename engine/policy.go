package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rollcall/rollcall/engine/strategy"
)

// GroupStrategy selects the group assignment algorithm.
type GroupStrategy string

const (
	// GroupRandom shuffles the pool and deals it round-robin.
	GroupRandom GroupStrategy = "random"
	// GroupBalancedScore greedily packs by score while avoiding recent pairings.
	GroupBalancedScore GroupStrategy = "balanced-score"
)

// validGroupStrategies maps accepted group strategy names.
var validGroupStrategies = map[GroupStrategy]bool{
	GroupRandom:        true,
	GroupBalancedScore: true,
	"":                 true, // empty defaults to random
}

// IsValidGroupStrategy returns true if name is a recognized group strategy.
func IsValidGroupStrategy(name string) bool {
	return validGroupStrategies[GroupStrategy(name)]
}

// SelectionPolicy configures one pick or group request.
// Zero value is a valid uniform, classic, non-relaxing policy.
type SelectionPolicy struct {
	WeightedRandom          bool          `json:"weightedRandom" yaml:"weightedRandom"`
	PreventRepeat           bool          `json:"preventRepeat" yaml:"preventRepeat"`
	CooldownRounds          int           `json:"cooldownRounds" yaml:"cooldownRounds" validate:"gte=0"`
	StrategyPreset          string        `json:"strategyPreset,omitempty" yaml:"strategyPreset,omitempty"`
	BalanceByTerm           bool          `json:"balanceByTerm" yaml:"balanceByTerm"`
	StageFairnessRounds     int           `json:"stageFairnessRounds" yaml:"stageFairnessRounds" validate:"gte=0"`
	PrioritizeUnpickedCount int           `json:"prioritizeUnpickedCount" yaml:"prioritizeUnpickedCount" validate:"gte=0"`
	GroupStrategy           GroupStrategy `json:"groupStrategy,omitempty" yaml:"groupStrategy,omitempty" validate:"omitempty,oneof=random balanced-score"`
	PairAvoidRounds         int           `json:"pairAvoidRounds" yaml:"pairAvoidRounds" validate:"gte=0"`
	AutoRelaxOnConflict     bool          `json:"autoRelaxOnConflict" yaml:"autoRelaxOnConflict"`
	ManualExcludedIDs       []string      `json:"manualExcludedIds,omitempty" yaml:"manualExcludedIds,omitempty" validate:"dive,required"`
}

// Package-level validator instance for policy validation.
var validate = validator.New()

// DefaultPolicy returns the policy used when a caller supplies none:
// uniform draws, classic strategy, random grouping, relax on conflict.
func DefaultPolicy() SelectionPolicy {
	return SelectionPolicy{
		StrategyPreset:      strategy.Classic,
		GroupStrategy:       GroupRandom,
		AutoRelaxOnConflict: true,
	}
}

// Validate checks that option ranges and names are valid. The engine itself never
// calls Validate; it clamps out-of-range values instead. Configuration loaders do.
func (p SelectionPolicy) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating policy: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid policy: %s", strings.Join(msgs, "; "))
}

// Clone returns a deep copy.
func (p SelectionPolicy) Clone() SelectionPolicy {
	c := p
	if p.ManualExcludedIDs != nil {
		c.ManualExcludedIDs = append([]string(nil), p.ManualExcludedIDs...)
	}
	return c
}

// normalized returns a clone with negative counts clamped to 0 and an unknown
// group strategy replaced by random.
func (p SelectionPolicy) normalized() SelectionPolicy {
	c := p.Clone()
	c.CooldownRounds = max(0, c.CooldownRounds)
	c.StageFairnessRounds = max(0, c.StageFairnessRounds)
	c.PrioritizeUnpickedCount = max(0, c.PrioritizeUnpickedCount)
	c.PairAvoidRounds = max(0, c.PairAvoidRounds)
	if c.GroupStrategy == "" || !IsValidGroupStrategy(string(c.GroupStrategy)) {
		c.GroupStrategy = GroupRandom
	}
	return c
}

// ParsePolicy decodes a YAML policy document with strict field checking:
// unknown keys are errors so typos cannot silently disable an option.
// Fields absent from the document keep their DefaultPolicy values.
func ParsePolicy(data []byte) (*SelectionPolicy, error) {
	p := DefaultPolicy()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
