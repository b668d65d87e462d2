package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/linker"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/query"
	"github.com/teknova-erp/resource-api/internal/store"
	"go.uber.org/zap"
)

var projectQuery = query.Config[*domain.Project]{
	SearchFields: []func(*domain.Project) string{
		func(p *domain.Project) string { return p.Name },
		func(p *domain.Project) string { return p.Code },
	},
	Facets: map[string]func(*domain.Project) string{
		"type":         func(p *domain.Project) string { return string(p.Type) },
		"workplace":    func(p *domain.Project) string { return p.Workplace },
		"profitCenter": func(p *domain.Project) string { return p.ProfitCenter },
		"active":       func(p *domain.Project) string { return strconv.FormatBool(p.Active()) },
	},
	Sorts: map[string]func(a, b *domain.Project) int{
		"name":      func(a, b *domain.Project) int { return query.CompareStrings(a.Name, b.Name) },
		"code":      func(a, b *domain.Project) int { return query.CompareStrings(a.Code, b.Code) },
		"startDate": func(a, b *domain.Project) int { return a.StartDate.Compare(b.StartDate) },
	},
}

type ProjectService struct {
	store  *store.Store[*domain.Project]
	logger *zap.Logger
}

// NewProjectService wires the project store with a link step that derives
// the customer from the referenced contract on every write.
func NewProjectService(backend persistence.Backend, contracts *store.Store[*domain.Contract], logger *zap.Logger) *ProjectService {
	link := func(ctx context.Context, p *domain.Project) error {
		if p.ContractID == 0 {
			return nil
		}
		patch, ok, err := linker.ProjectFromContract(ctx, p.ContractID, contracts)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.ReferenceError{Field: "contractId", Kind: domain.KindContract, ID: p.ContractID}
		}
		patch.Apply(p)
		return nil
	}
	projects := store.New(domain.KindProject, backend,
		func() *domain.Project { return &domain.Project{} },
		link, logger)
	return &ProjectService{store: projects, logger: logger}
}

// Store exposes the underlying entity store so dependent services can
// resolve project references.
func (s *ProjectService) Store() *store.Store[*domain.Project] { return s.store }

func (s *ProjectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.store.List(ctx)
}

func (s *ProjectService) Query(ctx context.Context, params query.Params) ([]*domain.Project, error) {
	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(projectQuery, projects, params), nil
}

func (s *ProjectService) GetByID(ctx context.Context, id int) (*domain.Project, error) {
	return s.store.GetByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, body json.RawMessage) (*domain.Project, error) {
	return s.store.Create(ctx, body)
}

func (s *ProjectService) Update(ctx context.Context, id int, patch json.RawMessage) (*domain.Project, error) {
	return s.store.Update(ctx, id, patch)
}

// Delete removes a project without touching personnel that reference it.
func (s *ProjectService) Delete(ctx context.Context, id int) (*domain.Project, error) {
	return s.store.Delete(ctx, id)
}
