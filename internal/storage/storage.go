// Package storage defines persistence contracts for dialogue state: loci,
// designs and their act sequences, and commitment elements.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrVersionConflict indicates a concurrent append advanced the design
	// past the expected version.
	ErrVersionConflict = errors.New("design version conflict")
)

// Dialogue stores one dialogue aggregate root.
type Dialogue struct {
	ID        string
	Topic     string
	CreatedAt time.Time
}

// Locus stores one materialized node of a dialogue's justification tree.
type Locus struct {
	DialogueID string
	Path       string
	ParentPath string
	// Masked lists child names hidden by instantiation, comma-joined.
	Masked    string
	CreatedAt time.Time
}

// Design stores one participant strategy header; its acts live in ActRecord
// rows keyed by sequence.
type Design struct {
	ID         string
	DialogueID string
	Owner      string
	RootLocus  string
	HasDaimon  bool
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ActRecord stores one act of a design at a fixed sequence position.
type ActRecord struct {
	ID           string
	DesignID     string
	Seq          int
	Kind         string
	Polarity     string
	LocusPath    string
	Ramification string
	Expression   string
	IsAdditive   bool
	Meta         map[string]string
	CreatedAt    time.Time
}

// ActPage stores one page of act records.
type ActPage struct {
	Acts          []ActRecord
	NextPageToken string
}

// ListActsRequest parameterizes a paged act listing.
type ListActsRequest struct {
	DesignID string
	// Filter is an AIP-160 expression over kind, polarity, locus_path,
	// is_additive and ts. Empty means no filtering.
	Filter    string
	PageSize  int
	PageToken string
}

// Element stores one commitment element asserted by an owner at a locus.
type Element struct {
	ID           string
	DialogueID   string
	Owner        string
	LocusPath    string
	Label        string
	BasePolarity string
	Entitled     bool
	NegationOf   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DialogueStore persists dialogue roots.
type DialogueStore interface {
	CreateDialogue(ctx context.Context, dialogue Dialogue) error
	GetDialogue(ctx context.Context, id string) (Dialogue, error)
}

// LocusStore persists the materialized locus tree of a dialogue.
type LocusStore interface {
	PutLocus(ctx context.Context, loc Locus) error
	InsertLoci(ctx context.Context, loci []Locus) error
	GetLocus(ctx context.Context, dialogueID, path string) (Locus, error)
	ListChildren(ctx context.Context, dialogueID, parentPath string) ([]Locus, error)
	SetMasked(ctx context.Context, dialogueID, path, masked string) error
}

// DesignStore persists design headers and their append-only act sequences.
type DesignStore interface {
	CreateDesign(ctx context.Context, d Design) error
	GetDesign(ctx context.Context, id string) (Design, error)
	ListDesigns(ctx context.Context, dialogueID string) ([]Design, error)
	// AppendActs atomically appends acts and advances the design header from
	// expectedVersion. ErrVersionConflict is returned when the stored
	// version moved.
	AppendActs(ctx context.Context, d Design, expectedVersion int, acts []ActRecord) error
	ListActs(ctx context.Context, req ListActsRequest) (ActPage, error)
	ActsForDesign(ctx context.Context, designID string) ([]ActRecord, error)
}

// CommitmentStore persists commitment elements per dialogue and owner.
type CommitmentStore interface {
	PutElement(ctx context.Context, el Element) error
	SetEntitled(ctx context.Context, dialogueID, elementID string, entitled bool) error
	ListElements(ctx context.Context, dialogueID, owner string) ([]Element, error)
}

// Store aggregates every persistence contract the engine needs.
type Store interface {
	DialogueStore
	LocusStore
	DesignStore
	CommitmentStore
}
