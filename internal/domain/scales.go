package domain

import "fmt"

// --- Ordinal scales ---
//
// StrengthLevel and ResistanceLevel are ordinal: two values compare by
// their index in the scale's canonical ordering, never by their textual
// form. Both scales start at "none", which is the baseline for every
// derived-requirement minimum.

// StrengthLevel is an ordinal mechanical strength value.
type StrengthLevel string

const (
	StrengthNone     StrengthLevel = "none"
	StrengthVeryLow  StrengthLevel = "very_low"
	StrengthLow      StrengthLevel = "low"
	StrengthModerate StrengthLevel = "moderate"
	StrengthHigh     StrengthLevel = "high"
	StrengthVeryHigh StrengthLevel = "very_high"
)

// strengthOrder is the canonical ordering, weakest first.
var strengthOrder = []StrengthLevel{
	StrengthNone,
	StrengthVeryLow,
	StrengthLow,
	StrengthModerate,
	StrengthHigh,
	StrengthVeryHigh,
}

var strengthIndex = buildIndex(strengthOrder)

// Index returns the ordinal position of the level, or -1 if unknown.
func (s StrengthLevel) Index() int {
	i, ok := strengthIndex[s]
	if !ok {
		return -1
	}
	return i
}

// AtLeast reports whether s is at or above min in the canonical ordering.
func (s StrengthLevel) AtLeast(min StrengthLevel) bool {
	return s.Index() >= min.Index()
}

// MaxStrength returns the greater of a and b in the canonical ordering.
func MaxStrength(a, b StrengthLevel) StrengthLevel {
	if b.Index() > a.Index() {
		return b
	}
	return a
}

// ParseStrength returns an error if the value is not on the strength scale.
func ParseStrength(s string) (StrengthLevel, error) {
	l := StrengthLevel(s)
	if _, ok := strengthIndex[l]; !ok {
		return "", fmt.Errorf("invalid strength level %q", s)
	}
	return l, nil
}

// ResistanceLevel is an ordinal environmental resistance value.
type ResistanceLevel string

const (
	ResistanceNone      ResistanceLevel = "none"
	ResistancePoor      ResistanceLevel = "poor"
	ResistanceFair      ResistanceLevel = "fair"
	ResistanceGood      ResistanceLevel = "good"
	ResistanceExcellent ResistanceLevel = "excellent"
)

// resistanceOrder is the canonical ordering, weakest first.
var resistanceOrder = []ResistanceLevel{
	ResistanceNone,
	ResistancePoor,
	ResistanceFair,
	ResistanceGood,
	ResistanceExcellent,
}

var resistanceIndex = buildIndex(resistanceOrder)

// Index returns the ordinal position of the level, or -1 if unknown.
func (r ResistanceLevel) Index() int {
	i, ok := resistanceIndex[r]
	if !ok {
		return -1
	}
	return i
}

// AtLeast reports whether r is at or above min in the canonical ordering.
func (r ResistanceLevel) AtLeast(min ResistanceLevel) bool {
	return r.Index() >= min.Index()
}

// MaxResistance returns the greater of a and b in the canonical ordering.
func MaxResistance(a, b ResistanceLevel) ResistanceLevel {
	if b.Index() > a.Index() {
		return b
	}
	return a
}

// ParseResistance returns an error if the value is not on the resistance scale.
func ParseResistance(s string) (ResistanceLevel, error) {
	l := ResistanceLevel(s)
	if _, ok := resistanceIndex[l]; !ok {
		return "", fmt.Errorf("invalid resistance level %q", s)
	}
	return l, nil
}

func buildIndex[T comparable](order []T) map[T]int {
	idx := make(map[T]int, len(order))
	for i, v := range order {
		idx[v] = i
	}
	return idx
}
