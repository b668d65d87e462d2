// Package store implements the generic entity store: typed CRUD over the
// abstract persistence backend, with validation, referential linking and
// per-collection id allocation. One Store instance owns one collection;
// the underlying records are never exposed for direct mutation.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"go.uber.org/zap"
)

// Record is the contract every stored entity satisfies.
type Record interface {
	GetID() int
	SetID(id int)
	RecordKind() domain.Kind
	Validate() error
}

// LinkFunc resolves the record's foreign keys and recomputes its derived
// fields. It runs on every write, so derived fields always mirror the
// current FK target regardless of caller-supplied values. It returns a
// *domain.ReferenceError when a foreign key does not resolve.
type LinkFunc[T Record] func(ctx context.Context, rec T) error

// Store owns one entity collection.
type Store[T Record] struct {
	kind    domain.Kind
	backend persistence.Backend
	fresh   func() T
	link    LinkFunc[T]
	logger  *zap.Logger

	// mu serializes writes so the max+1 allocator never reads a stale
	// maximum. Reads do not take it.
	mu sync.Mutex
}

// New creates a store for one entity kind. fresh must return a zero-value
// record; link may be nil for kinds without foreign keys.
func New[T Record](kind domain.Kind, backend persistence.Backend, fresh func() T, link LinkFunc[T], logger *zap.Logger) *Store[T] {
	return &Store[T]{
		kind:    kind,
		backend: backend,
		fresh:   fresh,
		link:    link,
		logger:  logger,
	}
}

// Kind returns the entity kind this store owns.
func (s *Store[T]) Kind() domain.Kind { return s.kind }

// List returns all records in insertion order.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	raw, err := s.backend.FetchAll(ctx, s.kind)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "fetchAll", Kind: s.kind, Err: err}
	}
	records := make([]T, 0, len(raw))
	for _, data := range raw {
		rec := s.fresh()
		if err := json.Unmarshal(data, rec); err != nil {
			return nil, &domain.PersistenceError{Op: "fetchAll", Kind: s.kind, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetByID returns the record with the given id.
func (s *Store[T]) GetByID(ctx context.Context, id int) (T, error) {
	var zero T
	raw, err := s.backend.FetchOne(ctx, s.kind, id)
	if err == persistence.ErrNotFound {
		return zero, &domain.NotFoundError{Kind: s.kind, ID: id}
	}
	if err != nil {
		return zero, &domain.PersistenceError{Op: "fetchOne", Kind: s.kind, Err: err}
	}
	rec := s.fresh()
	if err := json.Unmarshal(raw, rec); err != nil {
		return zero, &domain.PersistenceError{Op: "fetchOne", Kind: s.kind, Err: err}
	}
	return rec, nil
}

// Create validates and stores a new record from a partial JSON document.
// Any caller-supplied id is discarded; the allocator assigns the next one.
func (s *Store[T]) Create(ctx context.Context, partial json.RawMessage) (T, error) {
	var zero T

	rec := s.fresh()
	if err := json.Unmarshal(partial, rec); err != nil {
		ve := domain.NewValidationError()
		ve.Add("_", "request body is not a valid record")
		return zero, ve
	}
	rec.SetID(0)

	if s.link != nil {
		if err := s.link(ctx, rec); err != nil {
			return zero, err
		}
	}
	if err := rec.Validate(); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check cancellation before committing: a cancelled create must not be
	// partially applied.
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	existing, err := s.List(ctx)
	if err != nil {
		return zero, err
	}
	rec.SetID(NextID(existing))

	data, err := json.Marshal(rec)
	if err != nil {
		return zero, &domain.PersistenceError{Op: "insert", Kind: s.kind, Err: err}
	}
	stored, err := s.backend.Insert(ctx, s.kind, data)
	if err != nil {
		return zero, &domain.PersistenceError{Op: "insert", Kind: s.kind, Err: err}
	}

	// The backend may have overridden the id; echo its stored form.
	out := s.fresh()
	if err := json.Unmarshal(stored, out); err != nil {
		return zero, &domain.PersistenceError{Op: "insert", Kind: s.kind, Err: err}
	}
	s.logger.Debug("record created",
		zap.String("kind", string(s.kind)),
		zap.Int("id", out.GetID()),
	)
	return out, nil
}

// Update merges a partial JSON patch over the stored record, re-links and
// re-validates the result, and replaces the stored form. Fields omitted
// from the patch keep their prior values; the id never changes.
func (s *Store[T]) Update(ctx context.Context, id int, patch json.RawMessage) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}

	// Merge by round-tripping the stored record through JSON and applying
	// the patch on top: absent fields stay untouched, explicit nulls clear
	// nullable fields.
	base, err := json.Marshal(existing)
	if err != nil {
		return zero, &domain.PersistenceError{Op: "replace", Kind: s.kind, Err: err}
	}
	merged := s.fresh()
	if err := json.Unmarshal(base, merged); err != nil {
		return zero, &domain.PersistenceError{Op: "replace", Kind: s.kind, Err: err}
	}
	if err := json.Unmarshal(patch, merged); err != nil {
		ve := domain.NewValidationError()
		ve.Add("_", "request body is not a valid record patch")
		return zero, ve
	}
	merged.SetID(id)

	if s.link != nil {
		if err := s.link(ctx, merged); err != nil {
			return zero, err
		}
	}
	if err := merged.Validate(); err != nil {
		return zero, err
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return zero, &domain.PersistenceError{Op: "replace", Kind: s.kind, Err: err}
	}
	stored, err := s.backend.Replace(ctx, s.kind, id, data)
	if err == persistence.ErrNotFound {
		return zero, &domain.NotFoundError{Kind: s.kind, ID: id}
	}
	if err != nil {
		return zero, &domain.PersistenceError{Op: "replace", Kind: s.kind, Err: err}
	}

	out := s.fresh()
	if err := json.Unmarshal(stored, out); err != nil {
		return zero, &domain.PersistenceError{Op: "replace", Kind: s.kind, Err: err}
	}
	s.logger.Debug("record updated",
		zap.String("kind", string(s.kind)),
		zap.Int("id", id),
	)
	return out, nil
}

// Delete removes and returns the record with the given id. Dependent
// records in other collections are left untouched; there is no cascade.
func (s *Store[T]) Delete(ctx context.Context, id int) (T, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	removed, err := s.backend.Remove(ctx, s.kind, id)
	if err != nil {
		return zero, &domain.PersistenceError{Op: "remove", Kind: s.kind, Err: err}
	}
	if !removed {
		return zero, &domain.NotFoundError{Kind: s.kind, ID: id}
	}
	s.logger.Debug("record deleted",
		zap.String("kind", string(s.kind)),
		zap.Int("id", id),
	)
	return existing, nil
}
