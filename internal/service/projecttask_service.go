package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/query"
	"github.com/teknova-erp/resource-api/internal/store"
	"go.uber.org/zap"
)

var projectTaskQuery = query.Config[*domain.ProjectTask]{
	SearchFields: []func(*domain.ProjectTask) string{
		func(t *domain.ProjectTask) string { return t.ProjectName },
		func(t *domain.ProjectTask) string { return t.ProjectDescription },
		func(t *domain.ProjectTask) string { return t.AssignedTo },
	},
	Facets: map[string]func(*domain.ProjectTask) string{
		"priority": func(t *domain.ProjectTask) string { return string(t.ProjectPriority) },
		"status":   func(t *domain.ProjectTask) string { return string(t.Status) },
		"currency": func(t *domain.ProjectTask) string { return string(t.AllocatedBudgetCurrency) },
		"approved": func(t *domain.ProjectTask) string { return strconv.FormatBool(t.IsApproved) },
	},
	Sorts: map[string]func(a, b *domain.ProjectTask) int{
		"projectName": func(a, b *domain.ProjectTask) int { return query.CompareStrings(a.ProjectName, b.ProjectName) },
		"deadline":    func(a, b *domain.ProjectTask) int { return a.Deadline.Compare(b.Deadline) },
		"progress":    func(a, b *domain.ProjectTask) int { return query.CompareInts(a.ProgressRange, b.ProgressRange) },
		"budget": func(a, b *domain.ProjectTask) int {
			return query.CompareFloats(a.EstimatedBudget, b.EstimatedBudget)
		},
	},
}

type ProjectTaskService struct {
	store  *store.Store[*domain.ProjectTask]
	logger *zap.Logger
}

// NewProjectTaskService creates the task service. Tasks reference no other
// collection, so there is no link step.
func NewProjectTaskService(backend persistence.Backend, logger *zap.Logger) *ProjectTaskService {
	tasks := store.New(domain.KindProjectTask, backend,
		func() *domain.ProjectTask { return &domain.ProjectTask{} },
		nil, logger)
	return &ProjectTaskService{store: tasks, logger: logger}
}

func (s *ProjectTaskService) List(ctx context.Context) ([]*domain.ProjectTask, error) {
	return s.store.List(ctx)
}

func (s *ProjectTaskService) Query(ctx context.Context, params query.Params) ([]*domain.ProjectTask, error) {
	tasks, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(projectTaskQuery, tasks, params), nil
}

func (s *ProjectTaskService) GetByID(ctx context.Context, id int) (*domain.ProjectTask, error) {
	return s.store.GetByID(ctx, id)
}

func (s *ProjectTaskService) Create(ctx context.Context, body json.RawMessage) (*domain.ProjectTask, error) {
	return s.store.Create(ctx, body)
}

func (s *ProjectTaskService) Update(ctx context.Context, id int, patch json.RawMessage) (*domain.ProjectTask, error) {
	return s.store.Update(ctx, id, patch)
}

func (s *ProjectTaskService) Delete(ctx context.Context, id int) (*domain.ProjectTask, error) {
	return s.store.Delete(ctx, id)
}
