package service

import (
	"context"

	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/preset"
	"github.com/teknova-erp/resource-api/internal/query"
	"go.uber.org/zap"
)

// FilterService manages saved filter presets.
type FilterService struct {
	presets *preset.Store
	logger  *zap.Logger
}

func NewFilterService(backend persistence.Backend, logger *zap.Logger) *FilterService {
	return &FilterService{presets: preset.NewStore(backend, logger), logger: logger}
}

func (s *FilterService) List(ctx context.Context) ([]*domain.FilterPreset, error) {
	return s.presets.List(ctx)
}

func (s *FilterService) Get(ctx context.Context, id int) (*domain.FilterPreset, error) {
	return s.presets.Get(ctx, id)
}

func (s *FilterService) Save(ctx context.Context, name string, params query.Params) (*domain.FilterPreset, error) {
	return s.presets.Save(ctx, name, params)
}

// Load returns the full parameter set stored under the preset. Callers
// replace their current parameters with the result.
func (s *FilterService) Load(ctx context.Context, id int) (query.Params, error) {
	return s.presets.Load(ctx, id)
}

func (s *FilterService) Delete(ctx context.Context, id int) (*domain.FilterPreset, error) {
	return s.presets.Delete(ctx, id)
}
