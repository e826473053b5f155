package engine

import (
	"time"

	"github.com/rollcall/rollcall/engine/roster"
	"github.com/rollcall/rollcall/engine/trace"
)

// Mode tags the kind of request that produced a result.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeMultiple Mode = "multiple"
	ModeGroup    Mode = "group"
)

// PickRequest asks for Count winners from Candidates.
// Random overrides the engine's randomness source for this request only.
type PickRequest struct {
	Mode        Mode
	ClassID     string
	ClassName   string
	Candidates  []roster.Candidate
	History     []roster.PickRecord
	Count       int
	Policy      SelectionPolicy
	GeneratedAt *time.Time
	Random      RandomSource
}

// PickMetadata describes how a pick result was produced.
type PickMetadata struct {
	EngineVersion  string          `json:"engineVersion"`
	Mode           Mode            `json:"mode"`
	ClassID        string          `json:"classId"`
	ClassName      string          `json:"className,omitempty"`
	Policy         SelectionPolicy `json:"policy"`
	RequestedCount int             `json:"requestedCount"`
	ActualCount    int             `json:"actualCount"`
	GeneratedAt    time.Time       `json:"generatedAt"`
	FallbackNotes  []string        `json:"fallbackNotes"`
}

// PickResult holds winners in selection order and one trace per input candidate
// in input order.
type PickResult struct {
	ID                  string             `json:"id"`
	Winners             []roster.Candidate `json:"winners"`
	Traces              []trace.Trace      `json:"traces"`
	CooldownExcludedIDs []string           `json:"cooldownExcludedIds"`
	Metadata            PickMetadata       `json:"metadata"`
}

// GroupRequest asks for Candidates to be partitioned into GroupCount groups.
type GroupRequest struct {
	ClassID     string
	ClassName   string
	Candidates  []roster.Candidate
	History     []roster.PickRecord
	GroupCount  int
	Policy      SelectionPolicy
	GeneratedAt *time.Time
	Random      RandomSource
}

// GroupMetadata describes how a group result was produced.
type GroupMetadata struct {
	EngineVersion string          `json:"engineVersion"`
	Mode          Mode            `json:"mode"`
	ClassID       string          `json:"classId"`
	ClassName     string          `json:"className,omitempty"`
	Policy        SelectionPolicy `json:"policy"`
	Strategy      GroupStrategy   `json:"strategy"`
	GroupCount    int             `json:"groupCount"`
	GeneratedAt   time.Time       `json:"generatedAt"`
}

// GroupResult holds exactly GroupCount groups (some possibly empty) and one trace
// per input candidate in input order.
type GroupResult struct {
	ID       string               `json:"id"`
	Groups   [][]roster.Candidate `json:"groups"`
	Traces   []trace.Trace        `json:"traces"`
	Metadata GroupMetadata        `json:"metadata"`
}

// Members returns the total number of participants across all groups.
func (r GroupResult) Members() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g)
	}
	return n
}

func resolveMode(m Mode, count int) Mode {
	if m != "" {
		return m
	}
	if count == 1 {
		return ModeSingle
	}
	return ModeMultiple
}

func flattenTraces(traces []*trace.Trace) []trace.Trace {
	out := make([]trace.Trace, len(traces))
	for i, t := range traces {
		out[i] = *t
	}
	return out
}
