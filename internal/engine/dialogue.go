package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/openagora/ludics/internal/ludics/locus"
	"github.com/openagora/ludics/internal/storage"

	apperrors "github.com/openagora/ludics/internal/platform/errors"
)

const maskedSep = ","

// CreateDialogue opens a new dialogue with its root locus materialized.
func (e *Engine) CreateDialogue(ctx context.Context, topic string) (storage.Dialogue, error) {
	if err := e.ready(); err != nil {
		return storage.Dialogue{}, err
	}

	dialogueID, err := e.nextID()
	if err != nil {
		return storage.Dialogue{}, err
	}
	dialogue := storage.Dialogue{
		ID:        dialogueID,
		Topic:     strings.TrimSpace(topic),
		CreatedAt: e.clock().UTC(),
	}
	if err := e.store.CreateDialogue(ctx, dialogue); err != nil {
		return storage.Dialogue{}, mapStoreErr(err, "create dialogue")
	}
	root := storage.Locus{
		DialogueID: dialogueID,
		Path:       locus.Root,
		CreatedAt:  dialogue.CreatedAt,
	}
	if err := e.store.PutLocus(ctx, root); err != nil {
		return storage.Dialogue{}, mapStoreErr(err, "create root locus")
	}
	return dialogue, nil
}

// EnsureLocus materializes path in the dialogue tree, creating any missing
// ancestors along the way. Unlike copy and instantiate, ensure never requires
// the base to pre-exist; callers rely on both behaviors.
func (e *Engine) EnsureLocus(ctx context.Context, dialogueID, path string) (storage.Locus, error) {
	if err := e.ready(); err != nil {
		return storage.Locus{}, err
	}
	if err := locus.Validate(path); err != nil {
		return storage.Locus{}, err
	}

	if existing, err := e.store.GetLocus(ctx, dialogueID, path); err == nil {
		return existing, nil
	} else if !isNotFound(err) {
		return storage.Locus{}, mapStoreErr(err, "ensure locus "+path)
	}

	if err := e.materializeLineage(ctx, dialogueID, path); err != nil {
		return storage.Locus{}, err
	}
	node, err := e.store.GetLocus(ctx, dialogueID, path)
	if err != nil {
		return storage.Locus{}, mapStoreErr(err, "ensure locus "+path)
	}
	return node, nil
}

// CopyLoci allocates count fresh numeric children under base, the
// exponential move that lets an argument be attacked several times. The
// smallest unused non-negative names win.
func (e *Engine) CopyLoci(ctx context.Context, dialogueID, basePath string, count int) ([]string, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := locus.Validate(basePath); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, apperrors.New(apperrors.CodeLocusCopyCountNonPos,
			"copy count must be greater than zero")
	}

	base, err := e.store.GetLocus(ctx, dialogueID, basePath)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.WithMetadata(apperrors.CodeBaseNotFound,
				"base locus "+basePath+" does not exist",
				map[string]string{"Path": basePath})
		}
		return nil, mapStoreErr(err, "copy loci under "+basePath)
	}

	children, err := e.store.ListChildren(ctx, dialogueID, basePath)
	if err != nil {
		return nil, mapStoreErr(err, "copy loci under "+basePath)
	}
	taken := make([]string, 0, len(children))
	for _, child := range children {
		taken = append(taken, locus.LastSegment(child.Path))
	}
	taken = append(taken, maskedNames(base.Masked)...)

	now := e.clock().UTC()
	names := locus.AllocateChildren(taken, count)
	nodes := make([]storage.Locus, 0, count)
	paths := make([]string, 0, count)
	for _, name := range names {
		path := locus.Child(basePath, name)
		nodes = append(nodes, storage.Locus{
			DialogueID: dialogueID,
			Path:       path,
			ParentPath: basePath,
			CreatedAt:  now,
		})
		paths = append(paths, path)
	}
	// One batch so a racing copy that grabbed the same names loses whole.
	if err := e.store.InsertLoci(ctx, nodes); err != nil {
		return nil, mapStoreErr(err, "copy loci under "+basePath)
	}
	return paths, nil
}

// InstantiateLocus creates a named child under base. With mask set the name
// is also recorded on the parent so it cannot be claimed twice and copies
// skip it; callers pass false to leave the name reusable.
func (e *Engine) InstantiateLocus(ctx context.Context, dialogueID, basePath, name string, mask bool) (storage.Locus, error) {
	if err := e.ready(); err != nil {
		return storage.Locus{}, err
	}
	if err := locus.Validate(basePath); err != nil {
		return storage.Locus{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Locus{}, apperrors.New(apperrors.CodeLocusNameEmpty,
			"instantiation name cannot be empty")
	}
	if err := locus.Validate(name); err != nil {
		return storage.Locus{}, err
	}

	base, err := e.store.GetLocus(ctx, dialogueID, basePath)
	if err != nil {
		if isNotFound(err) {
			return storage.Locus{}, apperrors.WithMetadata(apperrors.CodeBaseNotFound,
				"base locus "+basePath+" does not exist",
				map[string]string{"Path": basePath})
		}
		return storage.Locus{}, mapStoreErr(err, "instantiate locus under "+basePath)
	}

	for _, taken := range maskedNames(base.Masked) {
		if taken == name {
			return storage.Locus{}, apperrors.WithMetadata(apperrors.CodeLocusNameTaken,
				"name "+name+" is already instantiated under "+basePath,
				map[string]string{"Name": name, "Path": basePath})
		}
	}
	path := locus.Child(basePath, name)
	if _, err := e.store.GetLocus(ctx, dialogueID, path); err == nil {
		return storage.Locus{}, apperrors.WithMetadata(apperrors.CodeLocusNameTaken,
			"name "+name+" is already a child of "+basePath,
			map[string]string{"Name": name, "Path": basePath})
	} else if !isNotFound(err) {
		return storage.Locus{}, mapStoreErr(err, "instantiate locus "+path)
	}

	node := storage.Locus{
		DialogueID: dialogueID,
		Path:       path,
		ParentPath: basePath,
		CreatedAt:  e.clock().UTC(),
	}
	if err := e.store.PutLocus(ctx, node); err != nil {
		return storage.Locus{}, mapStoreErr(err, "instantiate locus "+path)
	}

	if mask {
		masked := append(maskedNames(base.Masked), name)
		if err := e.store.SetMasked(ctx, dialogueID, basePath, strings.Join(masked, maskedSep)); err != nil {
			return storage.Locus{}, mapStoreErr(err, "mask name on "+basePath)
		}
	}
	return node, nil
}

func maskedNames(masked string) []string {
	if strings.TrimSpace(masked) == "" {
		return nil
	}
	parts := strings.Split(masked, maskedSep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
