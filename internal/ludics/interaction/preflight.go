package interaction

import (
	"sort"

	"github.com/openagora/ludics/internal/ludics/act"
	"github.com/openagora/ludics/internal/ludics/design"
	"github.com/openagora/ludics/internal/ludics/locus"
)

// Issue codes reported by Preflight.
const (
	// IssueConflictingPolarity flags a shared locus where both designs only
	// ever play the same polarity, so no pairing is possible there.
	IssueConflictingPolarity = "CONFLICTING_POLARITY"
	// IssueRamificationMismatch flags a responder whose openings select none
	// of an additive offer's declared branches.
	IssueRamificationMismatch = "RAMIFICATION_MISMATCH"
	// IssueUnanchoredLocus flags a non-root locus whose parent is opened by
	// neither design.
	IssueUnanchoredLocus = "UNANCHORED_LOCUS"
)

// Issue is one composition problem found without stepping.
type Issue struct {
	Code      string
	LocusPath string
	Detail    string
}

// CompositionCheck is the static preflight result.
type CompositionCheck struct {
	Composable bool
	Issues     []Issue
}

// Preflight statically checks that two designs' locus namespaces compose:
// shared loci must admit an opposite-polarity pairing, additive offers must
// have at least one declared branch selected by the other side, and every
// non-root locus must hang off an opening. No stepper fuel is spent.
//
// ModeSpiritual skips the ramification check; it only cares about outright
// polarity conflicts.
func Preflight(pos, neg design.Design, mode CompositionMode) CompositionCheck {
	byLocusPos := properByLocus(pos)
	byLocusNeg := properByLocus(neg)

	opened := map[string]bool{pos.RootLocus: true, neg.RootLocus: true}
	for _, d := range []design.Design{pos, neg} {
		for _, a := range d.Acts {
			for _, child := range a.Openings() {
				opened[child] = true
			}
		}
	}

	var issues []Issue

	for _, path := range sortedShared(byLocusPos, byLocusNeg) {
		if !pairable(byLocusPos[path], byLocusNeg[path]) {
			issues = append(issues, Issue{
				Code:      IssueConflictingPolarity,
				LocusPath: path,
				Detail:    "both designs play the same polarity at this locus",
			})
		}
		if mode != ModeSpiritual {
			issues = append(issues, ramificationIssues(path, byLocusPos[path], byLocusNeg[path])...)
		}
	}

	for _, d := range []design.Design{pos, neg} {
		for _, a := range d.Acts {
			if a.Kind != act.KindProper || a.Locus == d.RootLocus {
				continue
			}
			if parent := locus.Parent(a.Locus); parent != "" && !opened[parent] && !opened[a.Locus] {
				issues = append(issues, Issue{
					Code:      IssueUnanchoredLocus,
					LocusPath: a.Locus,
					Detail:    "parent locus " + parent + " is opened by neither design",
				})
			}
		}
	}

	return CompositionCheck{Composable: len(issues) == 0, Issues: issues}
}

func properByLocus(d design.Design) map[string][]act.Act {
	out := map[string][]act.Act{}
	for _, a := range d.Acts {
		if a.Kind == act.KindProper {
			out[a.Locus] = append(out[a.Locus], a)
		}
	}
	return out
}

func sortedShared(a, b map[string][]act.Act) []string {
	var shared []string
	for path := range a {
		if _, ok := b[path]; ok {
			shared = append(shared, path)
		}
	}
	sort.Strings(shared)
	return shared
}

// pairable reports whether some act on one side has the opposite polarity of
// some act on the other.
func pairable(posActs, negActs []act.Act) bool {
	for _, p := range posActs {
		for _, n := range negActs {
			if p.Polarity == n.Polarity.Opposite() {
				return true
			}
		}
	}
	return false
}

func ramificationIssues(path string, posActs, negActs []act.Act) []Issue {
	var issues []Issue
	check := func(offer act.Act, responders []act.Act) {
		if !offer.IsAdditive || len(offer.Ramification) < 2 {
			return
		}
		offered := map[string]bool{}
		for _, child := range offer.Openings() {
			offered[child] = true
		}
		for _, r := range responders {
			if r.Polarity != offer.Polarity.Opposite() || len(r.Ramification) == 0 {
				continue
			}
			selected := false
			for _, child := range r.Openings() {
				if offered[child] {
					selected = true
					break
				}
			}
			if !selected {
				issues = append(issues, Issue{
					Code:      IssueRamificationMismatch,
					LocusPath: path,
					Detail:    "responder opens none of the additive branches",
				})
			}
		}
	}
	for _, p := range posActs {
		check(p, negActs)
	}
	for _, n := range negActs {
		check(n, posActs)
	}
	return issues
}
