package store_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/store"
	"go.uber.org/zap"
)

func newCustomerStore() *store.Store[*domain.Customer] {
	return store.New(domain.KindCustomer, persistence.NewMemoryBackend(),
		func() *domain.Customer { return &domain.Customer{} },
		nil, zap.NewNop())
}

func newProjectStore(backend persistence.Backend, link store.LinkFunc[*domain.Project]) *store.Store[*domain.Project] {
	return store.New(domain.KindProject, backend,
		func() *domain.Project { return &domain.Project{} },
		link, zap.NewNop())
}

func validProjectJSON(name string) string {
	return fmt.Sprintf(`{
		"name": %q,
		"code": "PRJ-1",
		"type": "Product",
		"workplace": "Ankara",
		"profitCenter": "PC-100",
		"startDate": "2025-01-01T00:00:00Z",
		"estimatedEndDate": "2025-12-31T00:00:00Z",
		"rdQuota": 2,
		"supportQuota": 1,
		"contractId": 1
	}`, name)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	customers := newCustomerStore()
	ctx := context.Background()

	first, err := customers.Create(ctx, json.RawMessage(`{"name":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	second, err := customers.Create(ctx, json.RawMessage(`{"name":"Globex"}`))
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
}

func TestConcurrentCreatesAssignUniqueIDs(t *testing.T) {
	customers := newCustomerStore()
	ctx := context.Background()

	const workers = 50
	ids := make(chan int, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			created, err := customers.Create(ctx, json.RawMessage(fmt.Sprintf(`{"name":"customer-%d"}`, n)))
			assert.NoError(t, err)
			ids <- created.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, workers)
	for id := range ids {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestCreateIgnoresCallerSuppliedID(t *testing.T) {
	customers := newCustomerStore()
	ctx := context.Background()

	created, err := customers.Create(ctx, json.RawMessage(`{"id":99,"name":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
}

func TestCreateValidationFailure(t *testing.T) {
	customers := newCustomerStore()

	_, err := customers.Create(context.Background(), json.RawMessage(`{"parentCompany":"Holding"}`))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")

	// Nothing was persisted.
	all, err := customers.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateAfterDeleteReusesHighestID(t *testing.T) {
	customers := newCustomerStore()
	ctx := context.Background()

	_, err := customers.Create(ctx, json.RawMessage(`{"name":"Acme"}`))
	require.NoError(t, err)
	second, err := customers.Create(ctx, json.RawMessage(`{"name":"Globex"}`))
	require.NoError(t, err)

	_, err = customers.Delete(ctx, second.ID)
	require.NoError(t, err)

	third, err := customers.Create(ctx, json.RawMessage(`{"name":"Initech"}`))
	require.NoError(t, err)
	assert.Equal(t, 2, third.ID)
}

func TestGetByIDNotFound(t *testing.T) {
	customers := newCustomerStore()

	_, err := customers.GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdatePreservesOmittedFields(t *testing.T) {
	customers := newCustomerStore()
	ctx := context.Background()

	created, err := customers.Create(ctx, json.RawMessage(`{"name":"Acme","parentCompany":"Holding"}`))
	require.NoError(t, err)

	updated, err := customers.Update(ctx, created.ID, json.RawMessage(`{"name":"Acme Ltd"}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, "Holding", updated.ParentCompany)
}

func TestUpdateKeepsIDImmutable(t *testing.T) {
	customers := newCustomerStore()
	ctx := context.Background()

	created, err := customers.Create(ctx, json.RawMessage(`{"name":"Acme"}`))
	require.NoError(t, err)

	updated, err := customers.Update(ctx, created.ID, json.RawMessage(`{"id":77,"name":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
}

func TestUpdateExplicitNullClearsNullableField(t *testing.T) {
	backend := persistence.NewMemoryBackend()
	projects := newProjectStore(backend, nil)
	ctx := context.Background()

	created, err := projects.Create(ctx, json.RawMessage(validProjectJSON("ERP Core")))
	require.NoError(t, err)
	assert.True(t, created.Active())

	closed, err := projects.Update(ctx, created.ID, json.RawMessage(`{"actualEndDate":"2025-06-30T00:00:00Z"}`))
	require.NoError(t, err)
	assert.False(t, closed.Active())

	reopened, err := projects.Update(ctx, created.ID, json.RawMessage(`{"actualEndDate":null}`))
	require.NoError(t, err)
	assert.True(t, reopened.Active())
	assert.Nil(t, reopened.ActualEndDate)
}

func TestUpdateNotFound(t *testing.T) {
	customers := newCustomerStore()

	_, err := customers.Update(context.Background(), 9, json.RawMessage(`{"name":"Ghost"}`))
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteReturnsRemovedRecord(t *testing.T) {
	customers := newCustomerStore()
	ctx := context.Background()

	created, err := customers.Create(ctx, json.RawMessage(`{"name":"Acme"}`))
	require.NoError(t, err)

	removed, err := customers.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", removed.Name)

	_, err = customers.GetByID(ctx, created.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteNotFound(t *testing.T) {
	customers := newCustomerStore()

	_, err := customers.Delete(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestLinkRunsOnEveryWrite(t *testing.T) {
	backend := persistence.NewMemoryBackend()
	calls := 0
	link := func(ctx context.Context, p *domain.Project) error {
		calls++
		p.CustomerID = 5
		return nil
	}
	projects := newProjectStore(backend, link)
	ctx := context.Background()

	// Caller-supplied derived value is overwritten by the link step.
	created, err := projects.Create(ctx, json.RawMessage(validProjectJSON("ERP Core")))
	require.NoError(t, err)
	assert.Equal(t, 5, created.CustomerID)
	assert.Equal(t, 1, calls)

	// The link step runs again even when the foreign key is untouched.
	updated, err := projects.Update(ctx, created.ID, json.RawMessage(`{"name":"ERP Core v2","customerId":99}`))
	require.NoError(t, err)
	assert.Equal(t, 5, updated.CustomerID)
	assert.Equal(t, 2, calls)
}

func TestLinkErrorAbortsWrite(t *testing.T) {
	backend := persistence.NewMemoryBackend()
	link := func(ctx context.Context, p *domain.Project) error {
		return &domain.ReferenceError{Field: "contractId", Kind: domain.KindContract, ID: p.ContractID}
	}
	projects := newProjectStore(backend, link)

	_, err := projects.Create(context.Background(), json.RawMessage(validProjectJSON("ERP Core")))
	require.Error(t, err)
	assert.True(t, domain.IsReference(err))

	all, err := projects.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCancelledContextAbortsCreate(t *testing.T) {
	customers := newCustomerStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := customers.Create(ctx, json.RawMessage(`{"name":"Acme"}`))
	require.Error(t, err)

	all, listErr := customers.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all)
}

func TestDeleteDoesNotCascade(t *testing.T) {
	backend := persistence.NewMemoryBackend()
	customers := store.New(domain.KindCustomer, backend,
		func() *domain.Customer { return &domain.Customer{} },
		nil, zap.NewNop())
	projects := newProjectStore(backend, nil)
	ctx := context.Background()

	customer, err := customers.Create(ctx, json.RawMessage(`{"name":"Acme"}`))
	require.NoError(t, err)

	project, err := projects.Create(ctx, json.RawMessage(validProjectJSON("ERP Core")))
	require.NoError(t, err)

	_, err = customers.Delete(ctx, customer.ID)
	require.NoError(t, err)

	// The dependent project survives with its reference intact.
	still, err := projects.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ContractID, still.ContractID)
}
