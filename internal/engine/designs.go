package engine

import (
	"context"
	"strings"

	"github.com/openagora/ludics/internal/ludics/act"
	"github.com/openagora/ludics/internal/ludics/design"
	"github.com/openagora/ludics/internal/ludics/locus"
	"github.com/openagora/ludics/internal/platform/pagination"
	"github.com/openagora/ludics/internal/storage"

	apperrors "github.com/openagora/ludics/internal/platform/errors"
)

const (
	defaultListActsPageSize = 50
	maxListActsPageSize     = 200
)

// CreateDesign registers a participant strategy rooted at an existing locus.
func (e *Engine) CreateDesign(ctx context.Context, dialogueID, owner, rootLocus string) (storage.Design, error) {
	if err := e.ready(); err != nil {
		return storage.Design{}, err
	}
	if strings.TrimSpace(dialogueID) == "" {
		return storage.Design{}, apperrors.New(apperrors.CodeDialogueEmptyID, "dialogue id cannot be empty")
	}

	draft := design.Design{Owner: strings.TrimSpace(owner), RootLocus: strings.TrimSpace(rootLocus)}
	if err := design.Validate(draft); err != nil {
		return storage.Design{}, err
	}

	if _, err := e.EnsureLocus(ctx, dialogueID, draft.RootLocus); err != nil {
		return storage.Design{}, err
	}

	designID, err := e.nextID()
	if err != nil {
		return storage.Design{}, err
	}
	now := e.clock().UTC()
	header := storage.Design{
		ID:         designID,
		DialogueID: dialogueID,
		Owner:      draft.Owner,
		RootLocus:  draft.RootLocus,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.store.CreateDesign(ctx, header); err != nil {
		return storage.Design{}, mapStoreErr(err, "create design")
	}
	return header, nil
}

// AppendOptions mirrors the design legality switches for persisted appends.
type AppendOptions struct {
	EnforceAlternation bool
}

// AppendActs validates acts against the stored design and persists them in
// one atomic write. Fresh ids are assigned to acts without one, and every
// opened locus is materialized in the dialogue tree.
func (e *Engine) AppendActs(ctx context.Context, designID string, acts []act.Act, opts AppendOptions) (storage.Design, error) {
	if err := e.ready(); err != nil {
		return storage.Design{}, err
	}

	current, header, err := e.loadDesign(ctx, designID)
	if err != nil {
		return storage.Design{}, err
	}

	// Assign ids on a copy so a rejected append leaves the caller's acts
	// untouched.
	acts = append([]act.Act(nil), acts...)
	for i := range acts {
		if acts[i].ID == "" {
			actID, err := e.nextID()
			if err != nil {
				return storage.Design{}, err
			}
			acts[i].ID = actID
		}
	}

	next, err := design.Append(current, acts, design.AppendOptions{
		EnforceAlternation: opts.EnforceAlternation,
	})
	if err != nil {
		return storage.Design{}, err
	}

	records := make([]storage.ActRecord, 0, len(acts))
	base := len(current.Acts)
	for i, a := range next.Acts[base:] {
		records = append(records, actToRecord(a, designID, base+i))
	}

	header.HasDaimon = next.HasDaimon
	header.Version = next.Version
	header.UpdatedAt = e.clock().UTC()
	if err := e.store.AppendActs(ctx, header, current.Version, records); err != nil {
		return storage.Design{}, mapStoreErr(err, "append acts to design "+designID)
	}

	for _, a := range next.Acts[base:] {
		for _, opened := range a.Openings() {
			if _, err := e.EnsureLocus(ctx, header.DialogueID, opened); err != nil {
				return storage.Design{}, err
			}
		}
	}
	return header, nil
}

// CloneDesignWithShift delocates a design under a fresh tag: a full copy
// whose every locus is rewritten from the old root namespace into tag.
func (e *Engine) CloneDesignWithShift(ctx context.Context, designID, tag string) (storage.Design, error) {
	if err := e.ready(); err != nil {
		return storage.Design{}, err
	}

	source, _, err := e.loadDesign(ctx, designID)
	if err != nil {
		return storage.Design{}, err
	}

	others, err := e.store.ListDesigns(ctx, source.DialogueID)
	if err != nil {
		return storage.Design{}, mapStoreErr(err, "list designs for delocation")
	}
	for _, other := range others {
		if other.RootLocus == tag {
			return storage.Design{}, apperrors.WithMetadata(apperrors.CodeDelocationTagInUse,
				"tag "+tag+" is already a design root in this dialogue",
				map[string]string{"Tag": tag})
		}
	}

	cloneID, err := e.nextID()
	if err != nil {
		return storage.Design{}, err
	}
	clone, err := design.Delocate(source, tag, cloneID)
	if err != nil {
		return storage.Design{}, err
	}

	now := e.clock().UTC()
	if err := e.store.PutLocus(ctx, storage.Locus{
		DialogueID: source.DialogueID,
		Path:       tag,
		CreatedAt:  now,
	}); err != nil {
		return storage.Design{}, mapStoreErr(err, "materialize delocation root "+tag)
	}

	header := storage.Design{
		ID:         clone.ID,
		DialogueID: clone.DialogueID,
		Owner:      clone.Owner,
		RootLocus:  clone.RootLocus,
		HasDaimon:  clone.HasDaimon,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.store.CreateDesign(ctx, header); err != nil {
		return storage.Design{}, mapStoreErr(err, "create delocated design")
	}

	records := make([]storage.ActRecord, 0, len(clone.Acts))
	for i, a := range clone.Acts {
		records = append(records, actToRecord(a, clone.ID, i))
	}
	header.Version = clone.Version
	header.UpdatedAt = now
	if err := e.store.AppendActs(ctx, header, 0, records); err != nil {
		return storage.Design{}, mapStoreErr(err, "persist delocated acts")
	}

	for _, a := range clone.Acts {
		if a.Locus == "" {
			continue
		}
		if err := e.materializeLineage(ctx, clone.DialogueID, a.Locus); err != nil {
			return storage.Design{}, err
		}
	}
	return header, nil
}

// Concede appends a marked daimon yielding the branch at locusPath.
func (e *Engine) Concede(ctx context.Context, designID, locusPath, expression string) (storage.Design, error) {
	if err := e.ready(); err != nil {
		return storage.Design{}, err
	}

	current, header, err := e.loadDesign(ctx, designID)
	if err != nil {
		return storage.Design{}, err
	}

	actID, err := e.nextID()
	if err != nil {
		return storage.Design{}, err
	}
	next, err := design.Concede(current, locusPath, expression)
	if err != nil {
		return storage.Design{}, err
	}
	yield := next.Acts[len(next.Acts)-1]
	yield.ID = actID

	header.HasDaimon = true
	header.Version = next.Version
	header.UpdatedAt = e.clock().UTC()
	record := actToRecord(yield, designID, len(current.Acts))
	if err := e.store.AppendActs(ctx, header, current.Version, []storage.ActRecord{record}); err != nil {
		return storage.Design{}, mapStoreErr(err, "persist concession")
	}
	return header, nil
}

// ListActs returns one page of a design's stored acts.
func (e *Engine) ListActs(ctx context.Context, designID, filter, pageToken string, pageSize int32) (storage.ActPage, error) {
	if err := e.ready(); err != nil {
		return storage.ActPage{}, err
	}

	size := pagination.ClampPageSize(pageSize, pagination.PageSizeConfig{
		Default: defaultListActsPageSize,
		Max:     maxListActsPageSize,
	})
	page, err := e.store.ListActs(ctx, storage.ListActsRequest{
		DesignID:  designID,
		Filter:    filter,
		PageSize:  size,
		PageToken: pageToken,
	})
	if err != nil {
		return storage.ActPage{}, apperrors.Wrap(apperrors.CodeBadRequest, "list acts", err)
	}
	return page, nil
}

// materializeLineage creates path and any missing ancestors, root outward.
func (e *Engine) materializeLineage(ctx context.Context, dialogueID, path string) error {
	lineage := append(locus.Ancestors(path), path)
	now := e.clock().UTC()
	for _, node := range lineage {
		if _, err := e.store.GetLocus(ctx, dialogueID, node); err == nil {
			continue
		} else if !isNotFound(err) {
			return mapStoreErr(err, "materialize locus "+node)
		}
		if err := e.store.PutLocus(ctx, storage.Locus{
			DialogueID: dialogueID,
			Path:       node,
			ParentPath: locus.Parent(node),
			CreatedAt:  now,
		}); err != nil {
			return mapStoreErr(err, "materialize locus "+node)
		}
	}
	return nil
}
