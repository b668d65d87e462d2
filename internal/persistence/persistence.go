// Package persistence defines the abstract record backend the stores are
// written against. Implementations are interchangeable: an in-memory
// fixture, a SQL database, or a hosted record API. Records cross the
// boundary as raw JSON so the backend stays entity-agnostic.
package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/teknova-erp/resource-api/internal/domain"
)

// ErrNotFound is returned by FetchOne and Replace when no record with the
// given id exists in the collection.
var ErrNotFound = errors.New("record not found")

// Backend is the persistence collaborator contract. All operations are
// idempotent-safe to retry on transient failure except Insert, which may
// create duplicates on blind retry.
type Backend interface {
	// FetchAll returns every record of a kind in insertion order.
	FetchAll(ctx context.Context, kind domain.Kind) ([]json.RawMessage, error)

	// FetchOne returns the record with the given id, or ErrNotFound.
	FetchOne(ctx context.Context, kind domain.Kind, id int) (json.RawMessage, error)

	// Insert stores a new record and returns the stored form. The backend
	// may assign or override the id embedded in the record.
	Insert(ctx context.Context, kind domain.Kind, record json.RawMessage) (json.RawMessage, error)

	// Replace overwrites the record with the given id and returns the
	// stored form, or ErrNotFound.
	Replace(ctx context.Context, kind domain.Kind, id int, record json.RawMessage) (json.RawMessage, error)

	// Remove deletes the record with the given id. It reports whether a
	// record was removed; a missing id is not an error.
	Remove(ctx context.Context, kind domain.Kind, id int) (bool, error)
}

// recordID extracts the integer id from a raw record.
func recordID(record json.RawMessage) (int, error) {
	var probe struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(record, &probe); err != nil {
		return 0, err
	}
	return probe.ID, nil
}
