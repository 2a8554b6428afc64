package interaction

import (
	apperrors "github.com/openagora/ludics/internal/platform/errors"
	"github.com/openagora/ludics/internal/ludics/act"
	"github.com/openagora/ludics/internal/ludics/design"
	"github.com/openagora/ludics/internal/ludics/locus"
)

// DefaultMaxPairs is the fuel budget applied when the caller passes zero.
const DefaultMaxPairs = 64

// StepOptions parameterizes one stepping run.
type StepOptions struct {
	// StartPosActID resumes the run at a specific act of the positive
	// design; the first act is used when empty. Acts before the start act
	// are skipped entirely.
	StartPosActID string
	// MaxPairs is the fuel budget: the run returns StatusOngoing rather
	// than producing more pairs than this. Zero means DefaultMaxPairs.
	MaxPairs int
	// Mode selects composition pre-validation. Empty means ModeAssoc.
	Mode CompositionMode
}

// Step runs the interaction between a positive and a negative design to one
// of the four verdicts. It is a pure function of its inputs: the same
// designs, start position and fuel always produce the same trace, and the
// verdict is symmetric in the two designs (swapping roles with polarities
// mirrored reports the same convergence).
func Step(pos, neg design.Design, opts StepOptions) (Trace, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeAssoc
	}
	maxPairs := opts.MaxPairs
	if maxPairs <= 0 {
		maxPairs = DefaultMaxPairs
	}

	trace := Trace{
		DialogueID:  pos.DialogueID,
		PosDesignID: pos.ID,
		NegDesignID: neg.ID,
	}

	if mode == ModePartial {
		if check := Preflight(pos, neg, mode); !check.Composable {
			issue := check.Issues[0]
			trace.Status = StatusStuck
			trace.Reason = "composition incomplete: " + issue.Code + " at " + issue.LocusPath
			return trace, nil
		}
	}

	start := 0
	if opts.StartPosActID != "" {
		start = -1
		for i, a := range pos.Acts {
			if a.ID == opts.StartPosActID {
				start = i
				break
			}
		}
		if start < 0 {
			return Trace{}, apperrors.WithMetadata(apperrors.CodeStartActMissing,
				"start act "+opts.StartPosActID+" is not part of the positive design",
				map[string]string{"ActID": opts.StartPosActID})
		}
	}

	consumed := make([]bool, len(neg.Acts))
	// Committed additive choices: offering locus -> chosen child locus.
	choices := map[string]string{}

	for i := start; ; i++ {
		if i >= len(pos.Acts) {
			trace.Status, trace.Reason = drainVerdict(pos, neg, consumed)
			break
		}
		cur := pos.Acts[i]

		if cur.IsDaimon() {
			trace.Status = StatusConvergent
			trace.Reason = "daimon reached"
			break
		}

		if violated, committed := additiveViolation(cur.Locus, choices); violated {
			trace.Status = StatusDivergent
			trace.Reason = "act at " + cur.Locus + " crosses the committed additive choice " + committed
			break
		}

		match := findMatch(neg, consumed, cur)
		if match < 0 {
			if daimonAt(neg, consumed) {
				trace.Status = StatusConvergent
				trace.Reason = "opponent played daimon"
				break
			}
			if conflictsAt(neg, cur) {
				trace.Status = StatusDivergent
				trace.Reason = "conflicting acts at " + cur.Locus
				break
			}
			trace.Status = StatusStuck
			trace.Reason = "no response at " + cur.Locus
			break
		}

		// Fuel is spent only on new pairs so a verdict reachable in exactly
		// N plays is unaffected by MaxPairs == N.
		if len(trace.Pairs) >= maxPairs {
			trace.Status = StatusOngoing
			trace.Reason = "max pairs reached"
			break
		}

		responder := neg.Acts[match]
		consumed[match] = true
		trace.Pairs = append(trace.Pairs, Pair{
			PosActID:  cur.ID,
			NegActID:  responder.ID,
			LocusPath: cur.Locus,
		})

		recordAdditiveChoice(choices, cur, responder)
		recordAdditiveChoice(choices, responder, cur)
	}

	if mode == ModeSpiritual && trace.Status == StatusStuck {
		// Scanning mode: absence of a response is not an outright conflict.
		trace.Status = StatusConvergent
		trace.Reason = "no conflict (spiritual): " + trace.Reason
	}

	return trace, nil
}

// drainVerdict decides the outcome once the positive design is exhausted
// without daimon. An unanswered proper act on the other side means the
// interaction is stuck, unless the driver played the same locus with the
// same polarity: that is an active conflict, and classifying it by which
// design drove would break the symmetry of the verdict. Everything paired
// means the designs converge.
func drainVerdict(pos, neg design.Design, consumed []bool) (Status, string) {
	for i, a := range neg.Acts {
		if consumed[i] || a.Kind != act.KindProper {
			continue
		}
		if conflictsAt(pos, a) {
			return StatusDivergent, "conflicting acts at " + a.Locus
		}
		return StatusStuck, "no response at " + a.Locus
	}
	return StatusConvergent, "all obligations answered"
}

// findMatch locates an unconsumed act in the other design at the same locus
// with the opposite polarity. Matching is polarity-agnostic on the driver
// side so a run with swapped roles behaves identically.
func findMatch(neg design.Design, consumed []bool, cur act.Act) int {
	for i, a := range neg.Acts {
		if consumed[i] || a.Kind != act.KindProper {
			continue
		}
		if a.Locus == cur.Locus && a.Polarity == cur.Polarity.Opposite() {
			return i
		}
	}
	return -1
}

// daimonAt reports whether the other design still holds an unconsumed daimon.
func daimonAt(neg design.Design, consumed []bool) bool {
	for i, a := range neg.Acts {
		if !consumed[i] && a.IsDaimon() {
			return true
		}
	}
	return false
}

// conflictsAt reports whether the other design plays the same locus with the
// same polarity: an active conflict rather than a missing response.
func conflictsAt(neg design.Design, cur act.Act) bool {
	for _, a := range neg.Acts {
		if a.Kind == act.KindProper && a.Locus == cur.Locus && a.Polarity == cur.Polarity {
			return true
		}
	}
	return false
}

// recordAdditiveChoice commits the responder's branch selection against an
// additive offer. The first branch of the offer that the responder opens
// wins and binds the rest of the run below that locus.
func recordAdditiveChoice(choices map[string]string, offer, responder act.Act) {
	if offer.Kind != act.KindProper || !offer.IsAdditive || len(offer.Ramification) < 2 {
		return
	}
	if _, done := choices[offer.Locus]; done {
		return
	}
	offered := map[string]bool{}
	for _, child := range offer.Openings() {
		offered[child] = true
	}
	for _, child := range responder.Openings() {
		if offered[child] {
			choices[offer.Locus] = child
			return
		}
	}
}

// additiveViolation reports whether path sits under a committed additive
// locus but outside its chosen branch.
func additiveViolation(path string, choices map[string]string) (bool, string) {
	for offer, chosen := range choices {
		if locus.IsStrictAncestor(offer, path) && !locus.IsAncestorOrEqual(chosen, path) {
			return true, offer
		}
	}
	return false, ""
}
