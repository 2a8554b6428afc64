// Package act defines the atomic moves of the dialogue game.
package act

import (
	apperrors "github.com/openagora/ludics/internal/platform/errors"
	"github.com/openagora/ludics/internal/ludics/locus"
)

// Polarity is the side an act plays for.
type Polarity int

const (
	PolarityUnspecified Polarity = iota
	PolarityPos
	PolarityNeg
)

func (p Polarity) String() string {
	switch p {
	case PolarityPos:
		return "pos"
	case PolarityNeg:
		return "neg"
	default:
		return "unspecified"
	}
}

// Opposite returns the dual polarity.
func (p Polarity) Opposite() Polarity {
	switch p {
	case PolarityPos:
		return PolarityNeg
	case PolarityNeg:
		return PolarityPos
	default:
		return PolarityUnspecified
	}
}

// ParsePolarity maps the wire strings "pos"/"neg" to a Polarity.
func ParsePolarity(value string) (Polarity, bool) {
	switch value {
	case "pos":
		return PolarityPos, true
	case "neg":
		return PolarityNeg, true
	default:
		return PolarityUnspecified, false
	}
}

// Kind distinguishes the two act variants.
type Kind int

const (
	KindUnspecified Kind = iota
	// KindProper is a polarized move at a locus, opening child loci.
	KindProper
	// KindDaimon terminates a branch; it has no polarity-matching partner.
	KindDaimon
)

func (k Kind) String() string {
	switch k {
	case KindProper:
		return "PROPER"
	case KindDaimon:
		return "DAIMON"
	default:
		return "UNSPECIFIED"
	}
}

// ParseKind maps the wire strings "PROPER"/"DAIMON" to a Kind.
func ParseKind(value string) (Kind, bool) {
	switch value {
	case "PROPER":
		return KindProper, true
	case "DAIMON":
		return KindDaimon, true
	default:
		return KindUnspecified, false
	}
}

// Meta keys with engine-level meaning. Everything else in Meta is opaque.
const (
	// MetaJustifiedBy names the locus that justifies this act for the
	// decisive-chain walk; the act's own locus is assumed when absent.
	MetaJustifiedBy = "justifiedBy"
	// MetaConcession marks a daimon recorded through a concession.
	MetaConcession = "concession"
)

// Act is one move in the dialogue game. Kind selects which fields apply:
// a DAIMON carries only an optional expression (and a locus when it was
// recorded as a concession), while a PROPER act is polarized, anchored at a
// locus, and declares the child selectors it opens.
type Act struct {
	ID           string
	Kind         Kind
	Polarity     Polarity
	Locus        string
	Ramification []string
	Expression   string
	IsAdditive   bool
	Meta         map[string]string
}

// Proper builds a polarized act at a locus opening the given child selectors.
func Proper(polarity Polarity, locusPath string, ramification ...string) Act {
	return Act{
		Kind:         KindProper,
		Polarity:     polarity,
		Locus:        locusPath,
		Ramification: ramification,
	}
}

// Daimon builds a terminating act.
func Daimon(expression string) Act {
	return Act{Kind: KindDaimon, Expression: expression}
}

// IsDaimon reports whether the act terminates its branch.
func (a Act) IsDaimon() bool {
	return a.Kind == KindDaimon
}

// Openings returns the child loci this act opens, in ramification order.
// A leaf act (empty ramification) opens nothing.
func (a Act) Openings() []string {
	if a.Kind != KindProper || len(a.Ramification) == 0 {
		return nil
	}
	out := make([]string, 0, len(a.Ramification))
	for _, selector := range a.Ramification {
		out = append(out, locus.Child(a.Locus, selector))
	}
	return out
}

// JustifiedBy returns the justifying locus recorded in meta, falling back to
// the act's own locus.
func (a Act) JustifiedBy() string {
	if j, ok := a.Meta[MetaJustifiedBy]; ok && j != "" {
		return j
	}
	return a.Locus
}

// Validate checks the act's internal shape. Legality relative to a design
// (alternation, locus opening) is checked at append time, not here.
func Validate(a Act) error {
	switch a.Kind {
	case KindDaimon:
		if a.Locus != "" {
			return locus.Validate(a.Locus)
		}
		return nil
	case KindProper:
		if a.Polarity != PolarityPos && a.Polarity != PolarityNeg {
			return apperrors.New(apperrors.CodeActInvalidPolarity,
				"proper acts require a positive or negative polarity")
		}
		if a.Locus == "" {
			return apperrors.New(apperrors.CodeActEmptyLocus,
				"proper acts require a locus path")
		}
		if err := locus.Validate(a.Locus); err != nil {
			return err
		}
		for _, selector := range a.Ramification {
			if err := locus.Validate(selector); err != nil {
				return err
			}
		}
		return nil
	default:
		return apperrors.New(apperrors.CodeActInvalidKind, "act kind is not recognized")
	}
}
