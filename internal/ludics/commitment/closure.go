package commitment

import (
	"sort"

	"github.com/openagora/ludics/internal/ludics/act"
	"github.com/openagora/ludics/internal/ludics/locus"
)

// Element is one raw commitment as asserted by an owner at a locus. A
// neg-polarity label containing an arrow is a rule; everything else is a
// fact. NegationOf optionally names the exact label this element denies,
// overriding prefix-based negation parsing.
type Element struct {
	ID           string
	Owner        string
	LocusPath    string
	Label        string
	BasePolarity act.Polarity
	Entitled     bool
	NegationOf   string
}

// Fact is one effective proposition in a closure result.
type Fact struct {
	Literal
	Label      string
	LocusPath  string
	Entitled   bool
	NegationOf string
	Derived    bool
}

// Contradiction pairs two labels that cannot be held together. Scope is
// "local" when both sit at the query locus and "inherited" when the pair
// crosses a locus boundary.
type Contradiction struct {
	A     string
	B     string
	Scope string
}

// Closure is the scoped commitment view plus one inference pass family.
type Closure struct {
	DerivedFacts   []Fact
	Contradictions []Contradiction
	EffectiveFacts []Fact
	EffectiveRules []Rule
}

// maxClosureRounds bounds the rule-firing loop. The derivation is the
// original's deliberately naive re-derive, not a general inference engine;
// the bound only guards degenerate rule sets.
const maxClosureRounds = 32

// Interact computes the scoped closure at scopePath: elements asserted there
// or at any ancestor, one fixed-point family of rule firings over the
// entitled facts, and every direct contradiction among the effective facts.
// An empty scopePath sees everything.
func Interact(elements []Element, scopePath string) Closure {
	var result Closure

	for _, el := range elements {
		if !inScope(el.LocusPath, scopePath) {
			continue
		}
		if el.BasePolarity == act.PolarityNeg && IsRuleLabel(el.Label) {
			if rule, ok := ParseRule(el.Label); ok {
				rule.LocusPath = el.LocusPath
				result.EffectiveRules = append(result.EffectiveRules, rule)
				continue
			}
		}
		result.EffectiveFacts = append(result.EffectiveFacts, Fact{
			Literal:    ParseLiteral(el.Label),
			Label:      el.Label,
			LocusPath:  el.LocusPath,
			Entitled:   el.Entitled,
			NegationOf: el.NegationOf,
		})
	}

	result.DerivedFacts = fireRules(&result)
	result.Contradictions = findContradictions(result.EffectiveFacts, scopePath)
	return result
}

// fireRules repeatedly fires every rule whose antecedents are all held by
// entitled effective facts, appending consequents as derived facts until a
// fixpoint (or the round bound) is reached. Suspended facts do not fire
// rules.
func fireRules(c *Closure) []Fact {
	var derived []Fact

	held := map[Literal]bool{}
	for _, f := range c.EffectiveFacts {
		if f.Entitled {
			held[f.Literal] = true
		}
	}

	for round := 0; round < maxClosureRounds; round++ {
		progressed := false
		for _, rule := range c.EffectiveRules {
			if held[rule.Consequent] {
				continue
			}
			if !allHeld(held, rule.Antecedents) {
				continue
			}
			fact := Fact{
				Literal:   rule.Consequent,
				Label:     renderLiteral(rule.Consequent),
				LocusPath: rule.LocusPath,
				Entitled:  true,
				Derived:   true,
			}
			held[rule.Consequent] = true
			derived = append(derived, fact)
			c.EffectiveFacts = append(c.EffectiveFacts, fact)
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return derived
}

func allHeld(held map[Literal]bool, antecedents []Literal) bool {
	for _, a := range antecedents {
		if !held[a] {
			return false
		}
	}
	return true
}

func renderLiteral(l Literal) string {
	if l.Negated {
		return "not " + l.Atom
	}
	return l.Atom
}

// findContradictions reports every unordered pair of effective facts that
// deny each other, either through literal negation or an explicit
// NegationOf link.
func findContradictions(facts []Fact, scopePath string) []Contradiction {
	var out []Contradiction
	for i := 0; i < len(facts); i++ {
		for j := i + 1; j < len(facts); j++ {
			a, b := facts[i], facts[j]
			if !denies(a, b) && !denies(b, a) {
				continue
			}
			scope := "inherited"
			if scopePath == "" || (a.LocusPath == scopePath && b.LocusPath == scopePath) {
				scope = "local"
			}
			out = append(out, Contradiction{A: a.Label, B: b.Label, Scope: scope})
		}
	}
	return out
}

func denies(a, b Fact) bool {
	if a.NegationOf != "" && ParseLiteral(a.NegationOf) == b.Literal {
		return true
	}
	return a.Literal.Conflicts(b.Literal)
}

// Conflict is one proposition asserted by one owner and denied by the other.
type Conflict struct {
	Atom   string
	LabelA string
	LabelB string
}

// Divergence compares two owners' effective commitment closures at a locus
// and reports the propositions where one asserts and the other denies.
func Divergence(elementsA, elementsB []Element, scopePath string) []Conflict {
	closureA := Interact(elementsA, scopePath)
	closureB := Interact(elementsB, scopePath)

	var out []Conflict
	seen := map[string]bool{}
	for _, fa := range closureA.EffectiveFacts {
		for _, fb := range closureB.EffectiveFacts {
			if !denies(fa, fb) && !denies(fb, fa) {
				continue
			}
			if seen[fa.Atom] {
				continue
			}
			seen[fa.Atom] = true
			out = append(out, Conflict{Atom: fa.Atom, LabelA: fa.Label, LabelB: fb.Label})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Atom < out[j].Atom })
	return out
}

func inScope(elementPath, scopePath string) bool {
	if scopePath == "" {
		return true
	}
	return locus.IsAncestorOrEqual(elementPath, scopePath)
}
