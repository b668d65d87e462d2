package service

import (
	"context"
	"encoding/json"

	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/linker"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/query"
	"github.com/teknova-erp/resource-api/internal/store"
	"go.uber.org/zap"
)

var personnelQuery = query.Config[*domain.Personnel]{
	SearchFields: []func(*domain.Personnel) string{
		func(p *domain.Personnel) string { return p.FullName() },
		func(p *domain.Personnel) string { return p.TCKN },
	},
	Facets: map[string]func(*domain.Personnel) string{
		"type":      func(p *domain.Personnel) string { return string(p.Type) },
		"workplace": func(p *domain.Personnel) string { return p.Workplace },
	},
	Sorts: map[string]func(a, b *domain.Personnel) int{
		"firstName": func(a, b *domain.Personnel) int { return query.CompareStrings(a.FirstName, b.FirstName) },
		"lastName":  func(a, b *domain.Personnel) int { return query.CompareStrings(a.LastName, b.LastName) },
		"startDate": func(a, b *domain.Personnel) int { return a.StartDate.Compare(b.StartDate) },
	},
}

type PersonnelService struct {
	store  *store.Store[*domain.Personnel]
	logger *zap.Logger
}

// NewPersonnelService wires the personnel store with a link step that
// mirrors workplace, profit center and contract from the referenced
// project on every write.
func NewPersonnelService(backend persistence.Backend, projects *store.Store[*domain.Project], logger *zap.Logger) *PersonnelService {
	link := func(ctx context.Context, p *domain.Personnel) error {
		if p.ProjectID == 0 {
			return nil
		}
		patch, ok, err := linker.PersonnelFromProject(ctx, p.ProjectID, projects)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.ReferenceError{Field: "projectId", Kind: domain.KindProject, ID: p.ProjectID}
		}
		patch.Apply(p)
		return nil
	}
	personnel := store.New(domain.KindPersonnel, backend,
		func() *domain.Personnel { return &domain.Personnel{} },
		link, logger)
	return &PersonnelService{store: personnel, logger: logger}
}

func (s *PersonnelService) List(ctx context.Context) ([]*domain.Personnel, error) {
	return s.store.List(ctx)
}

// Query applies filter, search and sort parameters. When the params carry
// a period selection, records are first narrowed to that period.
func (s *PersonnelService) Query(ctx context.Context, params query.Params) ([]*domain.Personnel, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if params.Year != 0 && params.Month != 0 {
		idx := BuildPeriodIndex(records)
		records = idx.Get(domain.Period{Year: params.Year, Month: params.Month})
	}
	return query.Apply(personnelQuery, records, params), nil
}

// ListByPeriod returns the records for one (year, month) period.
func (s *PersonnelService) ListByPeriod(ctx context.Context, year, month int) ([]*domain.Personnel, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		ve := domain.NewValidationError()
		if year < 2000 || year > 2100 {
			ve.Add("year", "year must be between 2000 and 2100")
		}
		if month < 1 || month > 12 {
			ve.Add("month", "month must be between 1 and 12")
		}
		return nil, ve
	}
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildPeriodIndex(records).Get(domain.Period{Year: year, Month: month}), nil
}

// Periods returns every period with at least one record, oldest first.
func (s *PersonnelService) Periods(ctx context.Context) ([]domain.Period, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildPeriodIndex(records).Periods(), nil
}

func (s *PersonnelService) GetByID(ctx context.Context, id int) (*domain.Personnel, error) {
	return s.store.GetByID(ctx, id)
}

func (s *PersonnelService) Create(ctx context.Context, body json.RawMessage) (*domain.Personnel, error) {
	return s.store.Create(ctx, body)
}

func (s *PersonnelService) Update(ctx context.Context, id int, patch json.RawMessage) (*domain.Personnel, error) {
	return s.store.Update(ctx, id, patch)
}

func (s *PersonnelService) Delete(ctx context.Context, id int) (*domain.Personnel, error) {
	return s.store.Delete(ctx, id)
}
