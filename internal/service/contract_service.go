package service

import (
	"context"
	"encoding/json"

	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/query"
	"github.com/teknova-erp/resource-api/internal/store"
	"go.uber.org/zap"
)

var contractQuery = query.Config[*domain.Contract]{
	SearchFields: []func(*domain.Contract) string{
		func(c *domain.Contract) string { return c.Title },
		func(c *domain.Contract) string { return c.Category },
		func(c *domain.Contract) string { return c.ProfitCenter },
	},
	Facets: map[string]func(*domain.Contract) string{
		"category":     func(c *domain.Contract) string { return c.Category },
		"type":         func(c *domain.Contract) string { return c.Type },
		"profitCenter": func(c *domain.Contract) string { return c.ProfitCenter },
	},
	Sorts: map[string]func(a, b *domain.Contract) int{
		"title":     func(a, b *domain.Contract) int { return query.CompareStrings(a.Title, b.Title) },
		"startDate": func(a, b *domain.Contract) int { return a.StartDate.Compare(b.StartDate) },
		"endDate":   func(a, b *domain.Contract) int { return a.EndDate.Compare(b.EndDate) },
		"riskScore": func(a, b *domain.Contract) int { return query.CompareInts(a.RiskScore, b.RiskScore) },
	},
}

type ContractService struct {
	store  *store.Store[*domain.Contract]
	logger *zap.Logger
}

// NewContractService wires the contract store with a link step that
// verifies the referenced customer exists on every write.
func NewContractService(backend persistence.Backend, customers *store.Store[*domain.Customer], logger *zap.Logger) *ContractService {
	link := func(ctx context.Context, c *domain.Contract) error {
		if c.CustomerID == 0 {
			// Left to validation, which reports the missing field.
			return nil
		}
		if _, err := customers.GetByID(ctx, c.CustomerID); err != nil {
			if domain.IsNotFound(err) {
				return &domain.ReferenceError{Field: "customerId", Kind: domain.KindCustomer, ID: c.CustomerID}
			}
			return err
		}
		return nil
	}
	contracts := store.New(domain.KindContract, backend,
		func() *domain.Contract { return &domain.Contract{} },
		link, logger)
	return &ContractService{store: contracts, logger: logger}
}

// Store exposes the underlying entity store so dependent services can
// resolve contract references.
func (s *ContractService) Store() *store.Store[*domain.Contract] { return s.store }

func (s *ContractService) List(ctx context.Context) ([]*domain.Contract, error) {
	return s.store.List(ctx)
}

func (s *ContractService) Query(ctx context.Context, params query.Params) ([]*domain.Contract, error) {
	contracts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(contractQuery, contracts, params), nil
}

func (s *ContractService) GetByID(ctx context.Context, id int) (*domain.Contract, error) {
	return s.store.GetByID(ctx, id)
}

func (s *ContractService) Create(ctx context.Context, body json.RawMessage) (*domain.Contract, error) {
	return s.store.Create(ctx, body)
}

func (s *ContractService) Update(ctx context.Context, id int, patch json.RawMessage) (*domain.Contract, error) {
	return s.store.Update(ctx, id, patch)
}

// Delete removes a contract without touching projects that reference it.
func (s *ContractService) Delete(ctx context.Context, id int) (*domain.Contract, error) {
	return s.store.Delete(ctx, id)
}
