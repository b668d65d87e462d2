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

// customerQuery describes how the query engine reads customers.
var customerQuery = query.Config[*domain.Customer]{
	SearchFields: []func(*domain.Customer) string{
		func(c *domain.Customer) string { return c.Name },
		func(c *domain.Customer) string { return c.ParentCompany },
	},
	Facets: map[string]func(*domain.Customer) string{
		"group": func(c *domain.Customer) string { return c.Group() },
	},
	Sorts: map[string]func(a, b *domain.Customer) int{
		"name": func(a, b *domain.Customer) int { return query.CompareStrings(a.Name, b.Name) },
		"id":   func(a, b *domain.Customer) int { return query.CompareInts(a.ID, b.ID) },
	},
}

type CustomerService struct {
	store  *store.Store[*domain.Customer]
	logger *zap.Logger
}

func NewCustomerService(backend persistence.Backend, logger *zap.Logger) *CustomerService {
	customers := store.New(domain.KindCustomer, backend,
		func() *domain.Customer { return &domain.Customer{} },
		nil, logger)
	return &CustomerService{store: customers, logger: logger}
}

// Store exposes the underlying entity store so dependent services can
// resolve customer references.
func (s *CustomerService) Store() *store.Store[*domain.Customer] { return s.store }

func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.store.List(ctx)
}

// Query applies filter, search and sort parameters over all customers.
func (s *CustomerService) Query(ctx context.Context, params query.Params) ([]*domain.Customer, error) {
	customers, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(customerQuery, customers, params), nil
}

// GroupedByParent partitions customers by parent company. Customers
// without one land in the Independent bucket.
func (s *CustomerService) GroupedByParent(ctx context.Context) (map[string][]*domain.Customer, error) {
	customers, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]*domain.Customer)
	for _, c := range customers {
		groups[c.Group()] = append(groups[c.Group()], c)
	}
	return groups, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id int) (*domain.Customer, error) {
	return s.store.GetByID(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, body json.RawMessage) (*domain.Customer, error) {
	return s.store.Create(ctx, body)
}

func (s *CustomerService) Update(ctx context.Context, id int, patch json.RawMessage) (*domain.Customer, error) {
	return s.store.Update(ctx, id, patch)
}

// Delete removes a customer. Contracts referencing it are left in place;
// their customerId becomes a dangling reference until reassigned.
func (s *CustomerService) Delete(ctx context.Context, id int) (*domain.Customer, error) {
	return s.store.Delete(ctx, id)
}
