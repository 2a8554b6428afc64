// Package interaction drives a positive and a negative design against each
// other and reports whether they are orthogonal.
package interaction

import (
	apperrors "github.com/openagora/ludics/internal/platform/errors"
)

// Status is the terminal verdict class of an interaction run.
type Status int

const (
	StatusUnspecified Status = iota
	// StatusConvergent: the designs are orthogonal; the run reached daimon
	// (or exhausted both designs with every obligation answered).
	StatusConvergent
	// StatusDivergent: the designs actively conflict at a shared locus.
	StatusDivergent
	// StatusStuck: a pending locus has literally no response in the other
	// design. Distinct from divergence: absence, not conflict.
	StatusStuck
	// StatusOngoing: the fuel budget ran out before any terminal condition.
	// Not an error and never to be conflated with stuck or divergent.
	StatusOngoing
)

func (s Status) String() string {
	switch s {
	case StatusConvergent:
		return "CONVERGENT"
	case StatusDivergent:
		return "DIVERGENT"
	case StatusStuck:
		return "STUCK"
	case StatusOngoing:
		return "ONGOING"
	default:
		return "UNSPECIFIED"
	}
}

// CompositionMode selects how chained compositions are pre-validated before
// stepping.
type CompositionMode string

const (
	// ModeAssoc assumes associative recombination is safe and runs the whole
	// interaction as one linear trace. The default.
	ModeAssoc CompositionMode = "assoc"
	// ModePartial runs the static preflight first and reports the first
	// incomplete sub-composition instead of forcing a full run.
	ModePartial CompositionMode = "partial"
	// ModeSpiritual is the loose scanning mode: only outright conflicts
	// count, a missing response does not.
	ModeSpiritual CompositionMode = "spiritual"
)

// ParseMode validates a composition mode string, defaulting empty to assoc.
func ParseMode(value string) (CompositionMode, error) {
	switch CompositionMode(value) {
	case "":
		return ModeAssoc, nil
	case ModeAssoc, ModePartial, ModeSpiritual:
		return CompositionMode(value), nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeCompositionModeBad,
			"composition mode "+value+" is not one of assoc, partial, spiritual",
			map[string]string{"Mode": value})
	}
}

// Pair is one matched play: a positive-design act answered by a
// negative-design act at the same locus.
type Pair struct {
	PosActID  string
	NegActID  string
	LocusPath string
}

// Trace is the full output of one stepping run. It is produced fresh per
// call and never mutated afterwards.
type Trace struct {
	DialogueID      string
	PosDesignID     string
	NegDesignID     string
	Pairs           []Pair
	Status          Status
	Reason          string
	DecisiveIndices []int
}
