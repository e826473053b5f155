// Package roster holds the point-in-time participant and history snapshots the engine reads.
// This package has no dependencies on engine/; it stores pure data types.
package roster

import (
	"sort"
	"time"
)

// Status is a participant's attendance state captured at request time.
type Status string

const (
	StatusActive   Status = "active"
	StatusAbsent   Status = "absent"
	StatusExcluded Status = "excluded"
)

// validStatuses maps accepted status strings.
var validStatuses = map[Status]bool{
	StatusActive:   true,
	StatusAbsent:   true,
	StatusExcluded: true,
}

// IsValidStatus returns true if the given status string is a recognized status.
func IsValidStatus(s string) bool {
	return validStatuses[Status(s)]
}

// DefaultWeight is the base weight of a candidate whose Weight is unset.
const DefaultWeight = 1.0

// Candidate is an immutable snapshot of one participant. The engine only reads it.
type Candidate struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	StudentID string  `json:"studentId,omitempty" yaml:"studentId,omitempty"`
	ClassID   string  `json:"classId" yaml:"classId"`
	ClassName string  `json:"className,omitempty" yaml:"className,omitempty"`
	Status    Status  `json:"status" yaml:"status"`
	Weight    float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	PickCount int     `json:"pickCount" yaml:"pickCount"`
	Score     int     `json:"score" yaml:"score"`
}

// IsActive reports whether the candidate may take part in a draw.
func (c Candidate) IsActive() bool {
	return c.Status == StatusActive
}

// BaseWeight returns Weight, or DefaultWeight when Weight is not positive.
func (c Candidate) BaseWeight() float64 {
	if c.Weight > 0 {
		return c.Weight
	}
	return DefaultWeight
}

// PickedRef references a participant as it was recorded in a past draw.
type PickedRef struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	StudentID string `json:"studentId,omitempty" yaml:"studentId,omitempty"`
}

// PickRecord is one past draw event for a class.
type PickRecord struct {
	ID        string      `json:"id" yaml:"id"`
	Timestamp string      `json:"timestamp" yaml:"timestamp"` // ISO-8601
	ClassID   string      `json:"classId" yaml:"classId"`
	Picked    []PickedRef `json:"picked" yaml:"picked"`
}

// Contains reports whether the participant id appears in the record.
func (r PickRecord) Contains(id string) bool {
	for _, p := range r.Picked {
		if p.ID == id {
			return true
		}
	}
	return false
}

// RecentForClass returns up to n records of classID, most recent first.
// The input slice is not modified. n <= 0 returns nil.
func RecentForClass(records []PickRecord, classID string, n int) []PickRecord {
	if n <= 0 {
		return nil
	}
	matched := make([]PickRecord, 0, len(records))
	for _, r := range records {
		if r.ClassID == classID {
			matched = append(matched, r)
		}
	}
	// Instants are compared only when every timestamp in the batch parses;
	// mixing parsed and lexicographic comparisons is not a total order.
	instants := make([]time.Time, len(matched))
	parsed := true
	for i, r := range matched {
		t, ok := parseTimestamp(r.Timestamp)
		if !ok {
			parsed = false
			break
		}
		instants[i] = t
	}
	idx := make([]int, len(matched))
	for i := range idx {
		idx[i] = i
	}
	// Stable: records sharing a timestamp keep their input order.
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := idx[i], idx[j]
		if parsed {
			return instants[a].After(instants[b])
		}
		return matched[a].Timestamp > matched[b].Timestamp
	})
	out := make([]PickRecord, 0, min(n, len(idx)))
	for _, i := range idx[:min(n, len(idx))] {
		out = append(out, matched[i])
	}
	return out
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseTimestamp accepts RFC 3339 plus the zone-less and date-only ISO-8601
// forms, the latter read as UTC.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PickedIDs returns the union of participant ids across records, in first-seen order.
func PickedIDs(records []PickRecord) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range records {
		for _, p := range r.Picked {
			if !seen[p.ID] {
				seen[p.ID] = true
				ids = append(ids, p.ID)
			}
		}
	}
	return ids
}

// PickFrequency counts how many times id appears across records.
func PickFrequency(records []PickRecord, id string) int {
	n := 0
	for _, r := range records {
		for _, p := range r.Picked {
			if p.ID == id {
				n++
			}
		}
	}
	return n
}
