package engine

import (
	"context"
	"strings"

	"github.com/openagora/ludics/internal/ludics/act"
	"github.com/openagora/ludics/internal/ludics/commitment"
	"github.com/openagora/ludics/internal/ludics/locus"
	"github.com/openagora/ludics/internal/storage"

	apperrors "github.com/openagora/ludics/internal/platform/errors"
)

// AssertCommitmentInput carries one commitment assertion.
type AssertCommitmentInput struct {
	DialogueID   string
	Owner        string
	LocusPath    string
	Label        string
	BasePolarity string
	// NegationOf optionally names the exact label this element denies.
	NegationOf string
}

// AssertCommitment records a fact or rule for an owner at a locus. New
// elements start entitled.
func (e *Engine) AssertCommitment(ctx context.Context, input AssertCommitmentInput) (storage.Element, error) {
	if err := e.ready(); err != nil {
		return storage.Element{}, err
	}
	if strings.TrimSpace(input.DialogueID) == "" {
		return storage.Element{}, apperrors.New(apperrors.CodeDialogueEmptyID, "dialogue id cannot be empty")
	}
	if strings.TrimSpace(input.Label) == "" {
		return storage.Element{}, apperrors.New(apperrors.CodeCommitmentNoLabel, "commitment label cannot be empty")
	}
	if err := locus.Validate(input.LocusPath); err != nil {
		return storage.Element{}, err
	}
	polarity := strings.TrimSpace(input.BasePolarity)
	if polarity != "" {
		if _, ok := act.ParsePolarity(polarity); !ok {
			return storage.Element{}, apperrors.New(apperrors.CodeActInvalidPolarity,
				"base polarity must be pos or neg")
		}
	}

	elementID, err := e.nextID()
	if err != nil {
		return storage.Element{}, err
	}
	now := e.clock().UTC()
	el := storage.Element{
		ID:           elementID,
		DialogueID:   strings.TrimSpace(input.DialogueID),
		Owner:        strings.TrimSpace(input.Owner),
		LocusPath:    input.LocusPath,
		Label:        strings.TrimSpace(input.Label),
		BasePolarity: polarity,
		Entitled:     true,
		NegationOf:   strings.TrimSpace(input.NegationOf),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.store.PutElement(ctx, el); err != nil {
		return storage.Element{}, mapStoreErr(err, "assert commitment")
	}
	return el, nil
}

// SetEntitlement suspends or restores an owner's commitment by label.
// Suspended elements stay on the record but no longer fire rules.
func (e *Engine) SetEntitlement(ctx context.Context, dialogueID, owner, label string, entitled bool) error {
	if err := e.ready(); err != nil {
		return err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return apperrors.New(apperrors.CodeCommitmentNoLabel, "commitment label cannot be empty")
	}

	records, err := e.store.ListElements(ctx, dialogueID, owner)
	if err != nil {
		return mapStoreErr(err, "list commitments for "+owner)
	}
	for _, record := range records {
		if record.Label != label {
			continue
		}
		if err := e.store.SetEntitled(ctx, dialogueID, record.ID, entitled); err != nil {
			return mapStoreErr(err, "set entitlement")
		}
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeNotFound,
		owner+" holds no commitment labelled "+label,
		map[string]string{"Label": label})
}

// InteractCEScoped computes an owner's commitment closure at a locus scope:
// their facts and rules asserted there or above, one rule-firing fixpoint,
// and every contradiction among the effective facts.
func (e *Engine) InteractCEScoped(ctx context.Context, dialogueID, owner, scopePath string) (commitment.Closure, error) {
	if err := e.ready(); err != nil {
		return commitment.Closure{}, err
	}
	if scopePath != "" {
		if err := locus.Validate(scopePath); err != nil {
			return commitment.Closure{}, err
		}
	}

	elements, err := e.loadElements(ctx, dialogueID, owner)
	if err != nil {
		return commitment.Closure{}, err
	}
	return commitment.Interact(elements, scopePath), nil
}

// CheckSemanticDivergence compares two owners' commitment closures at a
// scope and reports the propositions one asserts and the other denies.
func (e *Engine) CheckSemanticDivergence(ctx context.Context, dialogueID, ownerA, ownerB, scopePath string) ([]commitment.Conflict, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if scopePath != "" {
		if err := locus.Validate(scopePath); err != nil {
			return nil, err
		}
	}

	elementsA, err := e.loadElements(ctx, dialogueID, ownerA)
	if err != nil {
		return nil, err
	}
	elementsB, err := e.loadElements(ctx, dialogueID, ownerB)
	if err != nil {
		return nil, err
	}
	return commitment.Divergence(elementsA, elementsB, scopePath), nil
}

func (e *Engine) loadElements(ctx context.Context, dialogueID, owner string) ([]commitment.Element, error) {
	records, err := e.store.ListElements(ctx, dialogueID, owner)
	if err != nil {
		return nil, mapStoreErr(err, "list commitments for "+owner)
	}

	out := make([]commitment.Element, 0, len(records))
	for _, record := range records {
		polarity, _ := act.ParsePolarity(record.BasePolarity)
		out = append(out, commitment.Element{
			ID:           record.ID,
			Owner:        record.Owner,
			LocusPath:    record.LocusPath,
			Label:        record.Label,
			BasePolarity: polarity,
			Entitled:     record.Entitled,
			NegationOf:   record.NegationOf,
		})
	}
	return out, nil
}
