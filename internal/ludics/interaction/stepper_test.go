package interaction

import (
	"testing"

	"github.com/openagora/ludics/internal/ludics/act"
	"github.com/openagora/ludics/internal/ludics/design"
	apperrors "github.com/openagora/ludics/internal/platform/errors"
)

func posDesign(acts ...act.Act) design.Design {
	return design.Design{ID: "pos1", DialogueID: "dlg1", Owner: "proponent", RootLocus: "0", Acts: acts}
}

func negDesign(acts ...act.Act) design.Design {
	return design.Design{ID: "neg1", DialogueID: "dlg1", Owner: "opponent", RootLocus: "0", Acts: acts}
}

func withID(a act.Act, id string) act.Act {
	a.ID = id
	return a
}

func TestStepDaimonConverges(t *testing.T) {
	pos := posDesign(
		withID(act.Proper(act.PolarityPos, "0", "1"), "a1"),
		withID(act.Daimon("accepted"), "a2"),
	)
	neg := negDesign(withID(act.Proper(act.PolarityNeg, "0"), "b1"))

	trace, err := Step(pos, neg, StepOptions{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusConvergent {
		t.Fatalf("expected CONVERGENT, got %v (%s)", trace.Status, trace.Reason)
	}
	if len(trace.Pairs) != 1 {
		t.Fatalf("expected one pair before daimon, got %d", len(trace.Pairs))
	}
	if trace.Pairs[0].PosActID != "a1" || trace.Pairs[0].NegActID != "b1" || trace.Pairs[0].LocusPath != "0" {
		t.Fatalf("unexpected pair: %+v", trace.Pairs[0])
	}
}

func TestStepAllObligationsAnsweredConverges(t *testing.T) {
	pos := posDesign(
		withID(act.Proper(act.PolarityPos, "0", "1"), "a1"),
		withID(act.Proper(act.PolarityNeg, "0.1"), "a2"),
	)
	neg := negDesign(
		withID(act.Proper(act.PolarityNeg, "0"), "b1"),
		withID(act.Proper(act.PolarityPos, "0.1"), "b2"),
	)

	trace, err := Step(pos, neg, StepOptions{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusConvergent {
		t.Fatalf("expected CONVERGENT, got %v (%s)", trace.Status, trace.Reason)
	}
	if len(trace.Pairs) != 2 {
		t.Fatalf("expected both acts paired, got %d", len(trace.Pairs))
	}
}

func TestStepEmptyOpponentIsStuck(t *testing.T) {
	pos := posDesign(withID(act.Proper(act.PolarityPos, "0"), "a1"))
	neg := negDesign()

	trace, err := Step(pos, neg, StepOptions{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusStuck {
		t.Fatalf("expected STUCK, got %v (%s)", trace.Status, trace.Reason)
	}
	if len(trace.Pairs) != 0 {
		t.Fatalf("expected no pairs, got %d", len(trace.Pairs))
	}
}

func TestStepUnansweredObligationIsStuck(t *testing.T) {
	pos := posDesign(withID(act.Proper(act.PolarityPos, "0", "1"), "a1"))
	neg := negDesign(
		withID(act.Proper(act.PolarityNeg, "0"), "b1"),
		withID(act.Proper(act.PolarityPos, "0.1"), "b2"),
	)

	trace, err := Step(pos, neg, StepOptions{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusStuck {
		t.Fatalf("expected STUCK when obligations remain, got %v (%s)", trace.Status, trace.Reason)
	}
}

func TestStepSamePolarityClashDiverges(t *testing.T) {
	pos := posDesign(withID(act.Proper(act.PolarityPos, "0"), "a1"))
	neg := negDesign(withID(act.Proper(act.PolarityPos, "0"), "b1"))

	trace, err := Step(pos, neg, StepOptions{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusDivergent {
		t.Fatalf("expected DIVERGENT, got %v (%s)", trace.Status, trace.Reason)
	}
}

func TestStepConflictBehindPairedActDiverges(t *testing.T) {
	// The opponent both answers locus 0 and plays it again with the
	// driver's polarity. The clash must be reported no matter which
	// design drives.
	pos := posDesign(withID(act.Proper(act.PolarityPos, "0"), "a1"))
	neg := negDesign(
		withID(act.Proper(act.PolarityPos, "0"), "b1"),
		withID(act.Proper(act.PolarityNeg, "0"), "b2"),
	)

	trace, err := Step(pos, neg, StepOptions{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusDivergent {
		t.Fatalf("expected DIVERGENT, got %v (%s)", trace.Status, trace.Reason)
	}

	// Mirrored run: the clashing design drives.
	mirrorPos := posDesign(
		withID(act.Proper(act.PolarityNeg, "0"), "a1"),
		withID(act.Proper(act.PolarityPos, "0"), "a2"),
	)
	mirrorNeg := negDesign(withID(act.Proper(act.PolarityNeg, "0"), "b1"))

	mirrored, err := Step(mirrorPos, mirrorNeg, StepOptions{})
	if err != nil {
		t.Fatalf("mirrored step: %v", err)
	}
	if mirrored.Status != StatusDivergent {
		t.Fatalf("expected DIVERGENT in mirrored run, got %v (%s)", mirrored.Status, mirrored.Reason)
	}
}

func TestStepOpponentDaimonConverges(t *testing.T) {
	pos := posDesign(withID(act.Proper(act.PolarityPos, "0.9"), "a1"))
	neg := negDesign(withID(act.Daimon("I give up"), "b1"))

	trace, err := Step(pos, neg, StepOptions{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusConvergent {
		t.Fatalf("expected CONVERGENT on opponent daimon, got %v (%s)", trace.Status, trace.Reason)
	}
}

func TestStepFuelExhaustionIsOngoing(t *testing.T) {
	pos := posDesign(
		withID(act.Proper(act.PolarityPos, "0", "1"), "a1"),
		withID(act.Proper(act.PolarityNeg, "0.1"), "a2"),
		withID(act.Daimon(""), "a3"),
	)
	neg := negDesign(
		withID(act.Proper(act.PolarityNeg, "0"), "b1"),
		withID(act.Proper(act.PolarityPos, "0.1"), "b2"),
	)

	trace, err := Step(pos, neg, StepOptions{MaxPairs: 1})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusOngoing {
		t.Fatalf("expected ONGOING at fuel limit, got %v (%s)", trace.Status, trace.Reason)
	}
	if len(trace.Pairs) != 1 {
		t.Fatalf("expected exactly one pair produced, got %d", len(trace.Pairs))
	}

	// A verdict reachable in exactly N pairs is unaffected by MaxPairs == N.
	trace, err = Step(pos, neg, StepOptions{MaxPairs: 2})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusConvergent {
		t.Fatalf("expected CONVERGENT at exact fuel, got %v (%s)", trace.Status, trace.Reason)
	}
	if len(trace.Pairs) != 2 {
		t.Fatalf("expected two pairs, got %d", len(trace.Pairs))
	}
}

func TestStepVerdictIsSymmetric(t *testing.T) {
	pos := posDesign(
		withID(act.Proper(act.PolarityPos, "0", "1"), "a1"),
		withID(act.Proper(act.PolarityNeg, "0.1"), "a2"),
	)
	neg := negDesign(
		withID(act.Proper(act.PolarityNeg, "0"), "b1"),
		withID(act.Proper(act.PolarityPos, "0.1"), "b2"),
	)

	forward, err := Step(pos, neg, StepOptions{})
	if err != nil {
		t.Fatalf("forward step: %v", err)
	}
	backward, err := Step(neg, pos, StepOptions{})
	if err != nil {
		t.Fatalf("backward step: %v", err)
	}

	if forward.Status != backward.Status {
		t.Fatalf("expected symmetric verdicts, got %v vs %v", forward.Status, backward.Status)
	}
	if len(forward.Pairs) != len(backward.Pairs) {
		t.Fatalf("expected symmetric pair counts, got %d vs %d", len(forward.Pairs), len(backward.Pairs))
	}
}

func TestStepDeterministic(t *testing.T) {
	pos := posDesign(
		withID(act.Proper(act.PolarityPos, "0", "1"), "a1"),
		withID(act.Daimon(""), "a2"),
	)
	neg := negDesign(withID(act.Proper(act.PolarityNeg, "0"), "b1"))

	first, err := Step(pos, neg, StepOptions{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Step(pos, neg, StepOptions{})
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if again.Status != first.Status || len(again.Pairs) != len(first.Pairs) || again.Reason != first.Reason {
			t.Fatalf("expected identical traces across runs, got %+v vs %+v", again, first)
		}
	}
}

func TestStepAdditiveChoiceBinds(t *testing.T) {
	offer := act.Proper(act.PolarityPos, "0", "1", "2")
	offer.IsAdditive = true
	pos := posDesign(
		withID(offer, "a1"),
		withID(act.Proper(act.PolarityNeg, "0.2"), "a2"),
	)
	neg := negDesign(
		withID(act.Proper(act.PolarityNeg, "0", "1"), "b1"),
		withID(act.Proper(act.PolarityPos, "0.2"), "b2"),
	)

	trace, err := Step(pos, neg, StepOptions{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusDivergent {
		t.Fatalf("expected DIVERGENT when crossing the chosen branch, got %v (%s)", trace.Status, trace.Reason)
	}
	if len(trace.Pairs) != 1 {
		t.Fatalf("expected only the offer paired, got %d", len(trace.Pairs))
	}
}

func TestStepStartActResumes(t *testing.T) {
	pos := posDesign(
		withID(act.Proper(act.PolarityPos, "0", "1"), "a1"),
		withID(act.Daimon(""), "a2"),
	)
	neg := negDesign(withID(act.Proper(act.PolarityNeg, "0"), "b1"))

	trace, err := Step(pos, neg, StepOptions{StartPosActID: "a2"})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusConvergent || len(trace.Pairs) != 0 {
		t.Fatalf("expected immediate daimon with no pairs, got %v with %d pairs", trace.Status, len(trace.Pairs))
	}

	_, err = Step(pos, neg, StepOptions{StartPosActID: "missing"})
	if !apperrors.IsCode(err, apperrors.CodeStartActMissing) {
		t.Fatalf("expected START_ACT_MISSING, got %v", err)
	}
}

func TestStepSpiritualRelaxesStuck(t *testing.T) {
	pos := posDesign(withID(act.Proper(act.PolarityPos, "0"), "a1"))
	neg := negDesign()

	trace, err := Step(pos, neg, StepOptions{Mode: ModeSpiritual})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusConvergent {
		t.Fatalf("expected spiritual mode to relax stuck, got %v (%s)", trace.Status, trace.Reason)
	}

	// Outright conflicts still diverge.
	clash := negDesign(withID(act.Proper(act.PolarityPos, "0"), "b1"))
	trace, err = Step(pos, clash, StepOptions{Mode: ModeSpiritual})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusDivergent {
		t.Fatalf("expected DIVERGENT to survive spiritual mode, got %v", trace.Status)
	}
}

func TestStepPartialReportsFirstIncomposition(t *testing.T) {
	pos := posDesign(withID(act.Proper(act.PolarityPos, "0"), "a1"))
	neg := negDesign(withID(act.Proper(act.PolarityPos, "0"), "b1"))

	trace, err := Step(pos, neg, StepOptions{Mode: ModePartial})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if trace.Status != StatusStuck {
		t.Fatalf("expected partial mode to report stuck, got %v", trace.Status)
	}
	if len(trace.Pairs) != 0 {
		t.Fatalf("expected no stepping in partial failure, got %d pairs", len(trace.Pairs))
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode(""); err != nil || mode != ModeAssoc {
		t.Fatalf("expected empty to default to assoc, got %v %v", mode, err)
	}
	for _, value := range []string{"assoc", "partial", "spiritual"} {
		if mode, err := ParseMode(value); err != nil || string(mode) != value {
			t.Fatalf("expected %s to parse, got %v %v", value, mode, err)
		}
	}
	if _, err := ParseMode("strict"); !apperrors.IsCode(err, apperrors.CodeCompositionModeBad) {
		t.Fatalf("expected COMPOSITION_MODE_INVALID, got %v", err)
	}
}
