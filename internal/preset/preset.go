// Package preset persists named snapshots of query parameters. Parameters
// are encoded into an opaque versioned envelope so the stored blob stays
// forward-compatible if the parameter shape ever changes.
package preset

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/query"
	"github.com/teknova-erp/resource-api/internal/store"
	"go.uber.org/zap"
)

// envelopeVersion is the current blob format version.
const envelopeVersion = 1

type envelope struct {
	Version int          `json:"version"`
	Params  query.Params `json:"params"`
}

// Encode serializes query parameters into the opaque preset blob.
func Encode(params query.Params) (string, error) {
	data, err := json.Marshal(envelope{Version: envelopeVersion, Params: params})
	if err != nil {
		return "", fmt.Errorf("failed to encode filter parameters: %w", err)
	}
	return string(data), nil
}

// Decode parses a preset blob back into query parameters. The error is
// non-nil for malformed JSON and for versions this build does not know.
func Decode(blob string) (query.Params, error) {
	var env envelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil {
		return query.Params{}, fmt.Errorf("blob does not decode: %w", err)
	}
	if env.Version < 1 || env.Version > envelopeVersion {
		return query.Params{}, fmt.Errorf("unsupported blob version %d", env.Version)
	}
	return env.Params, nil
}

// Store persists filter presets through the generic entity store.
type Store struct {
	records *store.Store[*domain.FilterPreset]
	logger  *zap.Logger
}

// NewStore creates the preset store on top of a persistence backend.
func NewStore(backend persistence.Backend, logger *zap.Logger) *Store {
	records := store.New(domain.KindFilterPreset, backend,
		func() *domain.FilterPreset { return &domain.FilterPreset{} },
		nil, logger)
	return &Store{records: records, logger: logger}
}

// Save encodes the parameters and stores them under the given name.
func (s *Store) Save(ctx context.Context, name string, params query.Params) (*domain.FilterPreset, error) {
	if strings.TrimSpace(name) == "" {
		ve := domain.NewValidationError()
		ve.Add("name", "name is required")
		return nil, ve
	}
	blob, err := Encode(params)
	if err != nil {
		return nil, err
	}
	partial, err := json.Marshal(&domain.FilterPreset{Name: name, FilterData: blob})
	if err != nil {
		return nil, err
	}
	saved, err := s.records.Create(ctx, partial)
	if err != nil {
		return nil, err
	}
	s.logger.Info("filter preset saved",
		zap.Int("id", saved.ID),
		zap.String("name", saved.Name),
	)
	return saved, nil
}

// Load returns the decoded parameters of a preset. The result is a
// complete parameter set; callers replace their current parameters with
// it wholesale, never merge. A blob that does not decode is reported as a
// CorruptPresetError, distinct from the preset being absent.
func (s *Store) Load(ctx context.Context, id int) (query.Params, error) {
	stored, err := s.records.GetByID(ctx, id)
	if err != nil {
		return query.Params{}, err
	}
	params, err := Decode(stored.FilterData)
	if err != nil {
		return query.Params{}, &domain.CorruptPresetError{ID: id, Err: err}
	}
	return params, nil
}

// List returns all saved presets in insertion order.
func (s *Store) List(ctx context.Context) ([]*domain.FilterPreset, error) {
	return s.records.List(ctx)
}

// Get returns a stored preset without decoding its blob.
func (s *Store) Get(ctx context.Context, id int) (*domain.FilterPreset, error) {
	return s.records.GetByID(ctx, id)
}

// Delete removes a preset.
func (s *Store) Delete(ctx context.Context, id int) (*domain.FilterPreset, error) {
	return s.records.Delete(ctx, id)
}
