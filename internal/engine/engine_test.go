package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/openagora/ludics/internal/storage"
)

// fakeStore is an in-memory storage.Store for engine tests.
type fakeStore struct {
	dialogues map[string]storage.Dialogue
	loci      map[string]storage.Locus
	designs   map[string]storage.Design
	acts      map[string][]storage.ActRecord
	elements  []storage.Element
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		dialogues: map[string]storage.Dialogue{},
		loci:      map[string]storage.Locus{},
		designs:   map[string]storage.Design{},
		acts:      map[string][]storage.ActRecord{},
	}
}

func locusKey(dialogueID, path string) string {
	return dialogueID + "\x00" + path
}

func (f *fakeStore) CreateDialogue(_ context.Context, dialogue storage.Dialogue) error {
	if _, ok := f.dialogues[dialogue.ID]; ok {
		return storage.ErrAlreadyExists
	}
	f.dialogues[dialogue.ID] = dialogue
	return nil
}

func (f *fakeStore) GetDialogue(_ context.Context, id string) (storage.Dialogue, error) {
	dialogue, ok := f.dialogues[id]
	if !ok {
		return storage.Dialogue{}, storage.ErrNotFound
	}
	return dialogue, nil
}

func (f *fakeStore) PutLocus(_ context.Context, loc storage.Locus) error {
	key := locusKey(loc.DialogueID, loc.Path)
	if _, ok := f.loci[key]; ok {
		return nil
	}
	f.loci[key] = loc
	return nil
}

func (f *fakeStore) InsertLoci(_ context.Context, loci []storage.Locus) error {
	for _, loc := range loci {
		if _, ok := f.loci[locusKey(loc.DialogueID, loc.Path)]; ok {
			return storage.ErrAlreadyExists
		}
	}
	for _, loc := range loci {
		f.loci[locusKey(loc.DialogueID, loc.Path)] = loc
	}
	return nil
}

func (f *fakeStore) GetLocus(_ context.Context, dialogueID, path string) (storage.Locus, error) {
	loc, ok := f.loci[locusKey(dialogueID, path)]
	if !ok {
		return storage.Locus{}, storage.ErrNotFound
	}
	return loc, nil
}

func (f *fakeStore) ListChildren(_ context.Context, dialogueID, parentPath string) ([]storage.Locus, error) {
	var out []storage.Locus
	for _, loc := range f.loci {
		if loc.DialogueID == dialogueID && loc.ParentPath == parentPath {
			out = append(out, loc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (f *fakeStore) SetMasked(_ context.Context, dialogueID, path, masked string) error {
	key := locusKey(dialogueID, path)
	loc, ok := f.loci[key]
	if !ok {
		return storage.ErrNotFound
	}
	loc.Masked = masked
	f.loci[key] = loc
	return nil
}

func (f *fakeStore) CreateDesign(_ context.Context, d storage.Design) error {
	if _, ok := f.designs[d.ID]; ok {
		return storage.ErrAlreadyExists
	}
	f.designs[d.ID] = d
	return nil
}

func (f *fakeStore) GetDesign(_ context.Context, id string) (storage.Design, error) {
	d, ok := f.designs[id]
	if !ok {
		return storage.Design{}, storage.ErrNotFound
	}
	return d, nil
}

func (f *fakeStore) ListDesigns(_ context.Context, dialogueID string) ([]storage.Design, error) {
	var out []storage.Design
	for _, d := range f.designs {
		if d.DialogueID == dialogueID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) AppendActs(_ context.Context, d storage.Design, expectedVersion int, acts []storage.ActRecord) error {
	stored, ok := f.designs[d.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	stored.HasDaimon = d.HasDaimon
	stored.Version = d.Version
	stored.UpdatedAt = d.UpdatedAt
	f.designs[d.ID] = stored
	f.acts[d.ID] = append(f.acts[d.ID], acts...)
	return nil
}

func (f *fakeStore) ListActs(_ context.Context, req storage.ListActsRequest) (storage.ActPage, error) {
	acts := f.acts[req.DesignID]
	if req.PageSize <= 0 || req.PageSize >= len(acts) {
		return storage.ActPage{Acts: acts}, nil
	}
	return storage.ActPage{
		Acts:          acts[:req.PageSize],
		NextPageToken: fmt.Sprintf("after-%d", req.PageSize),
	}, nil
}

func (f *fakeStore) ActsForDesign(_ context.Context, designID string) ([]storage.ActRecord, error) {
	out := append([]storage.ActRecord(nil), f.acts[designID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (f *fakeStore) PutElement(_ context.Context, el storage.Element) error {
	for i, existing := range f.elements {
		if existing.ID == el.ID {
			f.elements[i] = el
			return nil
		}
	}
	f.elements = append(f.elements, el)
	return nil
}

func (f *fakeStore) SetEntitled(_ context.Context, dialogueID, elementID string, entitled bool) error {
	for i, el := range f.elements {
		if el.DialogueID == dialogueID && el.ID == elementID {
			f.elements[i].Entitled = entitled
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ListElements(_ context.Context, dialogueID, owner string) ([]storage.Element, error) {
	var out []storage.Element
	for _, el := range f.elements {
		if el.DialogueID == dialogueID && el.Owner == owner {
			out = append(out, el)
		}
	}
	return out, nil
}

var _ storage.Store = (*fakeStore)(nil)

// newTestEngine builds an engine over a fake store with a fixed clock and a
// deterministic id sequence.
func newTestEngine() (*Engine, *fakeStore) {
	store := newFakeStore()
	e := New(store)
	e.clock = func() time.Time {
		return time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
	}
	counter := 0
	e.newID = func() (string, error) {
		counter++
		return fmt.Sprintf("id-%03d", counter), nil
	}
	return e, store
}
