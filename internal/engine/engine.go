// Package engine wires persistent dialogue state to the ludics domain:
// locus management, design appends, interaction stepping and commitment
// reasoning, all on top of a storage.Store.
package engine

import (
	"errors"
	"time"

	"github.com/openagora/ludics/internal/platform/id"
	"github.com/openagora/ludics/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/openagora/ludics/internal/platform/errors"
)

const tracerName = "github.com/openagora/ludics/internal/engine"

// Engine coordinates dialogue operations against a store.
type Engine struct {
	store  storage.Store
	clock  func() time.Time
	newID  func() (string, error)
	tracer trace.Tracer
}

// New creates an Engine with default dependencies.
func New(store storage.Store) *Engine {
	return &Engine{
		store:  store,
		clock:  time.Now,
		newID:  id.NewID,
		tracer: otel.Tracer(tracerName),
	}
}

func (e *Engine) ready() error {
	if e == nil || e.store == nil {
		return apperrors.New(apperrors.CodeInternal, "engine store is not configured")
	}
	return nil
}

func (e *Engine) nextID() (string, error) {
	value, err := e.newID()
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, "generate id", err)
	}
	return value, nil
}

// mapStoreErr lifts well-known storage errors into coded engine errors.
func mapStoreErr(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, message, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return apperrors.Wrap(apperrors.CodeBadRequest, message, err)
	default:
		return apperrors.Wrap(apperrors.CodeInternal, message, err)
	}
}
