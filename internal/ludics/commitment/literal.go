// Package commitment maintains per-owner fact/rule sets scoped down the
// locus tree and computes their bounded inference closure.
package commitment

import (
	"strings"
	"unicode"
)

// Literal is a parsed proposition: an atom with an optional negation.
type Literal struct {
	Atom    string
	Negated bool
}

// ParseLiteral normalizes a raw proposition label. Recognized negation
// forms: "not X", "¬X", "!X", and camel-case "notX" (which lowercases the
// first letter of the remainder). Atoms compare case-insensitively.
func ParseLiteral(label string) Literal {
	s := strings.TrimSpace(label)

	switch {
	case strings.HasPrefix(s, "¬"):
		return negated(strings.TrimPrefix(s, "¬"))
	case strings.HasPrefix(s, "!"):
		return negated(strings.TrimPrefix(s, "!"))
	case strings.HasPrefix(strings.ToLower(s), "not "):
		return negated(s[len("not "):])
	case len(s) > 3 && strings.HasPrefix(s, "not") && unicode.IsUpper(rune(s[3])):
		rest := s[3:]
		return negated(strings.ToLower(rest[:1]) + rest[1:])
	default:
		return Literal{Atom: normalizeAtom(s)}
	}
}

func negated(rest string) Literal {
	lit := ParseLiteral(rest)
	lit.Negated = !lit.Negated
	return lit
}

func normalizeAtom(atom string) string {
	return strings.ToLower(strings.TrimSpace(atom))
}

// Negation returns the dual literal.
func (l Literal) Negation() Literal {
	return Literal{Atom: l.Atom, Negated: !l.Negated}
}

// Conflicts reports whether two literals are direct negations of one another.
func (l Literal) Conflicts(other Literal) bool {
	return l.Atom == other.Atom && l.Negated != other.Negated
}

// Rule is a conditional commitment: when every antecedent is held, the
// consequent becomes a derived fact.
type Rule struct {
	Label       string
	LocusPath   string
	Antecedents []Literal
	Consequent  Literal
}

var arrows = []string{"->", "=>"}

// IsRuleLabel reports whether a label spells a conditional.
func IsRuleLabel(label string) bool {
	for _, arrow := range arrows {
		if strings.Contains(label, arrow) {
			return true
		}
	}
	return false
}

// ParseRule splits a conditional label into antecedent literals and a
// consequent. Antecedents separate on "&" or ","; whitespace is trimmed
// everywhere. Returns false when label carries no arrow or parses empty.
func ParseRule(label string) (Rule, bool) {
	arrowAt, arrowLen := -1, 0
	for _, arrow := range arrows {
		if idx := strings.Index(label, arrow); idx >= 0 && (arrowAt < 0 || idx < arrowAt) {
			arrowAt, arrowLen = idx, len(arrow)
		}
	}
	if arrowAt < 0 {
		return Rule{}, false
	}

	lhs := label[:arrowAt]
	rhs := strings.TrimSpace(label[arrowAt+arrowLen:])
	if rhs == "" {
		return Rule{}, false
	}

	splitter := func(r rune) bool { return r == '&' || r == ',' }
	var antecedents []Literal
	for _, part := range strings.FieldsFunc(lhs, splitter) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		antecedents = append(antecedents, ParseLiteral(part))
	}
	if len(antecedents) == 0 {
		return Rule{}, false
	}

	return Rule{
		Label:       strings.TrimSpace(label),
		Antecedents: antecedents,
		Consequent:  ParseLiteral(rhs),
	}, true
}
