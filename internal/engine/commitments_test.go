package engine

import (
	"context"
	"testing"

	apperrors "github.com/openagora/ludics/internal/platform/errors"
)

func assertFact(t *testing.T, e *Engine, dialogueID, owner, path, label string) {
	t.Helper()

	_, err := e.AssertCommitment(context.Background(), AssertCommitmentInput{
		DialogueID:   dialogueID,
		Owner:        owner,
		LocusPath:    path,
		Label:        label,
		BasePolarity: "pos",
	})
	if err != nil {
		t.Fatalf("assert %q: %v", label, err)
	}
}

func TestAssertCommitmentValidation(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.AssertCommitment(ctx, AssertCommitmentInput{Owner: "p", LocusPath: "0", Label: "x"}); !apperrors.IsCode(err, apperrors.CodeDialogueEmptyID) {
		t.Fatalf("expected DIALOGUE_EMPTY_ID, got %v", err)
	}
	if _, err := e.AssertCommitment(ctx, AssertCommitmentInput{DialogueID: "d", Owner: "p", LocusPath: "0"}); !apperrors.IsCode(err, apperrors.CodeCommitmentNoLabel) {
		t.Fatalf("expected COMMITMENT_EMPTY_LABEL, got %v", err)
	}
	if _, err := e.AssertCommitment(ctx, AssertCommitmentInput{DialogueID: "d", Owner: "p", LocusPath: "0..", Label: "x"}); !apperrors.IsCode(err, apperrors.CodeLocusPathInvalid) {
		t.Fatalf("expected LOCUS_PATH_INVALID, got %v", err)
	}
	if _, err := e.AssertCommitment(ctx, AssertCommitmentInput{DialogueID: "d", Owner: "p", LocusPath: "0", Label: "x", BasePolarity: "maybe"}); !apperrors.IsCode(err, apperrors.CodeActInvalidPolarity) {
		t.Fatalf("expected ACT_INVALID_POLARITY, got %v", err)
	}
}

func TestInteractCEScopedDerivesAndDetects(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	dialogue, err := e.CreateDialogue(ctx, "payment")
	if err != nil {
		t.Fatalf("create dialogue: %v", err)
	}

	assertFact(t, e, dialogue.ID, "proponent", "0", "signed")
	assertFact(t, e, dialogue.ID, "proponent", "0", "delivered")
	if _, err := e.AssertCommitment(ctx, AssertCommitmentInput{
		DialogueID:   dialogue.ID,
		Owner:        "proponent",
		LocusPath:    "0",
		Label:        "signed & delivered -> paid",
		BasePolarity: "neg",
	}); err != nil {
		t.Fatalf("assert rule: %v", err)
	}

	closure, err := e.InteractCEScoped(ctx, dialogue.ID, "proponent", "0")
	if err != nil {
		t.Fatalf("interact: %v", err)
	}
	if len(closure.DerivedFacts) != 1 || closure.DerivedFacts[0].Atom != "paid" {
		t.Fatalf("expected paid derived, got %v", closure.DerivedFacts)
	}
	if len(closure.Contradictions) != 0 {
		t.Fatalf("expected no contradictions, got %v", closure.Contradictions)
	}

	assertFact(t, e, dialogue.ID, "proponent", "0", "notPaid")
	closure, err = e.InteractCEScoped(ctx, dialogue.ID, "proponent", "0")
	if err != nil {
		t.Fatalf("interact: %v", err)
	}
	if len(closure.Contradictions) != 1 {
		t.Fatalf("expected derived contradiction, got %v", closure.Contradictions)
	}
}

func TestSetEntitlementSuspendsDerivation(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	dialogue, err := e.CreateDialogue(ctx, "payment")
	if err != nil {
		t.Fatalf("create dialogue: %v", err)
	}

	if _, err := e.AssertCommitment(ctx, AssertCommitmentInput{
		DialogueID:   dialogue.ID,
		Owner:        "proponent",
		LocusPath:    "0",
		Label:        "signed",
		BasePolarity: "pos",
	}); err != nil {
		t.Fatalf("assert fact: %v", err)
	}
	if _, err := e.AssertCommitment(ctx, AssertCommitmentInput{
		DialogueID:   dialogue.ID,
		Owner:        "proponent",
		LocusPath:    "0",
		Label:        "signed -> paid",
		BasePolarity: "neg",
	}); err != nil {
		t.Fatalf("assert rule: %v", err)
	}

	if err := e.SetEntitlement(ctx, dialogue.ID, "proponent", "signed", false); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	closure, err := e.InteractCEScoped(ctx, dialogue.ID, "proponent", "0")
	if err != nil {
		t.Fatalf("interact: %v", err)
	}
	if len(closure.DerivedFacts) != 0 {
		t.Fatalf("expected suspension to block derivation, got %v", closure.DerivedFacts)
	}

	if err := e.SetEntitlement(ctx, dialogue.ID, "proponent", "signed", true); err != nil {
		t.Fatalf("restore: %v", err)
	}
	closure, err = e.InteractCEScoped(ctx, dialogue.ID, "proponent", "0")
	if err != nil {
		t.Fatalf("interact: %v", err)
	}
	if len(closure.DerivedFacts) != 1 {
		t.Fatalf("expected derivation restored, got %v", closure.DerivedFacts)
	}

	if err := e.SetEntitlement(ctx, dialogue.ID, "proponent", "missing", false); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCheckSemanticDivergence(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	dialogue, err := e.CreateDialogue(ctx, "payment")
	if err != nil {
		t.Fatalf("create dialogue: %v", err)
	}

	assertFact(t, e, dialogue.ID, "proponent", "0", "paid")
	if _, err := e.AssertCommitment(ctx, AssertCommitmentInput{
		DialogueID:   dialogue.ID,
		Owner:        "opponent",
		LocusPath:    "0",
		Label:        "notPaid",
		BasePolarity: "pos",
		NegationOf:   "paid",
	}); err != nil {
		t.Fatalf("assert denial: %v", err)
	}

	conflicts, err := e.CheckSemanticDivergence(ctx, dialogue.ID, "proponent", "opponent", "0")
	if err != nil {
		t.Fatalf("divergence: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].Atom != "paid" {
		t.Fatalf("expected paid divergence, got %v", conflicts)
	}
}
