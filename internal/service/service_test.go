package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/query"
	"github.com/teknova-erp/resource-api/internal/service"
	"go.uber.org/zap"
)

type testServices struct {
	customers *service.CustomerService
	contracts *service.ContractService
	projects  *service.ProjectService
	personnel *service.PersonnelService
	tasks     *service.ProjectTaskService
	filters   *service.FilterService
}

func setupServices() *testServices {
	backend := persistence.NewMemoryBackend()
	log := zap.NewNop()

	customers := service.NewCustomerService(backend, log)
	contracts := service.NewContractService(backend, customers.Store(), log)
	projects := service.NewProjectService(backend, contracts.Store(), log)
	personnel := service.NewPersonnelService(backend, projects.Store(), log)

	return &testServices{
		customers: customers,
		contracts: contracts,
		projects:  projects,
		personnel: personnel,
		tasks:     service.NewProjectTaskService(backend, log),
		filters:   service.NewFilterService(backend, log),
	}
}

func (s *testServices) createCustomer(t *testing.T, ctx context.Context, name string) *domain.Customer {
	t.Helper()
	customer, err := s.customers.Create(ctx, json.RawMessage(fmt.Sprintf(`{"name":%q}`, name)))
	require.NoError(t, err)
	return customer
}

func (s *testServices) createContract(t *testing.T, ctx context.Context, customerID int) *domain.Contract {
	t.Helper()
	contract, err := s.contracts.Create(ctx, json.RawMessage(fmt.Sprintf(`{
		"title": "Maintenance 2025",
		"category": "Service",
		"type": "Fixed",
		"customerId": %d,
		"profitCenter": "PC-100",
		"startDate": "2025-01-01T00:00:00Z",
		"endDate": "2025-12-31T00:00:00Z",
		"riskScore": 4
	}`, customerID)))
	require.NoError(t, err)
	return contract
}

func (s *testServices) createProject(t *testing.T, ctx context.Context, contractID int, workplace string) *domain.Project {
	t.Helper()
	project, err := s.projects.Create(ctx, json.RawMessage(fmt.Sprintf(`{
		"name": "ERP Rollout",
		"code": "ERP-01",
		"type": "Order",
		"workplace": %q,
		"profitCenter": "PC-100",
		"startDate": "2025-01-15T00:00:00Z",
		"estimatedEndDate": "2025-11-30T00:00:00Z",
		"rdQuota": 3,
		"supportQuota": 2,
		"contractId": %d
	}`, workplace, contractID)))
	require.NoError(t, err)
	return project
}

func (s *testServices) createPersonnel(t *testing.T, ctx context.Context, projectID, year, month int, firstName string) *domain.Personnel {
	t.Helper()
	record, err := s.personnel.Create(ctx, json.RawMessage(fmt.Sprintf(`{
		"tckn": "12345678901",
		"firstName": %q,
		"lastName": "Yilmaz",
		"type": "SoftwareDeveloper",
		"projectId": %d,
		"startDate": "2025-01-01T00:00:00Z",
		"year": %d,
		"month": %d,
		"timesheetDays": 20
	}`, firstName, projectID, year, month)))
	require.NoError(t, err)
	return record
}

func TestContractRequiresExistingCustomer(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	_, err := s.contracts.Create(ctx, json.RawMessage(`{
		"title": "Orphan",
		"category": "Service",
		"type": "Fixed",
		"customerId": 42,
		"startDate": "2025-01-01T00:00:00Z",
		"endDate": "2025-12-31T00:00:00Z",
		"riskScore": 2
	}`))
	require.Error(t, err)
	assert.True(t, domain.IsReference(err))

	var re *domain.ReferenceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "customerId", re.Field)
	assert.Equal(t, 42, re.ID)
}

func TestProjectDerivesCustomerFromContract(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	customer := s.createCustomer(t, ctx, "Acme")
	contract := s.createContract(t, ctx, customer.ID)

	project := s.createProject(t, ctx, contract.ID, "Ankara")
	assert.Equal(t, customer.ID, project.CustomerID)
}

func TestProjectRederivesCustomerOnUpdate(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	first := s.createCustomer(t, ctx, "Acme")
	second := s.createCustomer(t, ctx, "Globex")
	contract := s.createContract(t, ctx, first.ID)
	project := s.createProject(t, ctx, contract.ID, "Ankara")
	require.Equal(t, first.ID, project.CustomerID)

	// Reassign the contract to another customer, then touch the project.
	// The derived customer follows the contract on the next write.
	_, err := s.contracts.Update(ctx, contract.ID,
		json.RawMessage(fmt.Sprintf(`{"customerId":%d}`, second.ID)))
	require.NoError(t, err)

	updated, err := s.projects.Update(ctx, project.ID, json.RawMessage(`{"name":"ERP Rollout II"}`))
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.CustomerID)
}

func TestProjectRejectsUnresolvedContract(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	_, err := s.projects.Create(ctx, json.RawMessage(`{
		"name": "Orphan",
		"code": "X-1",
		"type": "Product",
		"workplace": "Ankara",
		"profitCenter": "PC-1",
		"startDate": "2025-01-01T00:00:00Z",
		"estimatedEndDate": "2025-06-01T00:00:00Z",
		"rdQuota": 1,
		"supportQuota": 1,
		"contractId": 7
	}`))
	require.Error(t, err)

	var re *domain.ReferenceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "contractId", re.Field)
}

func TestPersonnelMirrorsProjectFields(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	customer := s.createCustomer(t, ctx, "Acme")
	contract := s.createContract(t, ctx, customer.ID)
	project := s.createProject(t, ctx, contract.ID, "Istanbul")

	record := s.createPersonnel(t, ctx, project.ID, 2025, 3, "Ayse")
	assert.Equal(t, "Istanbul", record.Workplace)
	assert.Equal(t, "PC-100", record.ProfitCenter)
	assert.Equal(t, contract.ID, record.ContractID)
}

func TestPersonnelDerivedFieldsAreNotWritable(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	customer := s.createCustomer(t, ctx, "Acme")
	contract := s.createContract(t, ctx, customer.ID)
	project := s.createProject(t, ctx, contract.ID, "Istanbul")
	record := s.createPersonnel(t, ctx, project.ID, 2025, 3, "Ayse")

	updated, err := s.personnel.Update(ctx, record.ID,
		json.RawMessage(`{"workplace":"Elsewhere","profitCenter":"PC-999"}`))
	require.NoError(t, err)
	assert.Equal(t, "Istanbul", updated.Workplace)
	assert.Equal(t, "PC-100", updated.ProfitCenter)
}

func TestPersonnelListByPeriod(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	customer := s.createCustomer(t, ctx, "Acme")
	contract := s.createContract(t, ctx, customer.ID)
	project := s.createProject(t, ctx, contract.ID, "Ankara")

	s.createPersonnel(t, ctx, project.ID, 2025, 3, "Ayse")
	s.createPersonnel(t, ctx, project.ID, 2025, 3, "Mehmet")
	s.createPersonnel(t, ctx, project.ID, 2025, 4, "Fatma")

	march, err := s.personnel.ListByPeriod(ctx, 2025, 3)
	require.NoError(t, err)
	assert.Len(t, march, 2)

	april, err := s.personnel.ListByPeriod(ctx, 2025, 4)
	require.NoError(t, err)
	assert.Len(t, april, 1)
	assert.Equal(t, "Fatma", april[0].FirstName)

	empty, err := s.personnel.ListByPeriod(ctx, 2024, 12)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPersonnelListByPeriodValidatesBounds(t *testing.T) {
	s := setupServices()

	_, err := s.personnel.ListByPeriod(context.Background(), 2025, 13)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	_, err = s.personnel.ListByPeriod(context.Background(), 1800, 5)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestPersonnelQueryWithPeriodAndFacets(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	customer := s.createCustomer(t, ctx, "Acme")
	contract := s.createContract(t, ctx, customer.ID)
	ankara := s.createProject(t, ctx, contract.ID, "Ankara")

	s.createPersonnel(t, ctx, ankara.ID, 2025, 3, "Ayse")
	s.createPersonnel(t, ctx, ankara.ID, 2025, 4, "Mehmet")

	params := query.Params{Year: 2025, Month: 3}.WithFacet("workplace", []string{"Ankara"})
	out, err := s.personnel.Query(ctx, params)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ayse", out[0].FirstName)
}

func TestCustomersGroupedByParent(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	_, err := s.customers.Create(ctx, json.RawMessage(`{"name":"Acme","parentCompany":"Holding"}`))
	require.NoError(t, err)
	_, err = s.customers.Create(ctx, json.RawMessage(`{"name":"Globex","parentCompany":"Holding"}`))
	require.NoError(t, err)
	_, err = s.customers.Create(ctx, json.RawMessage(`{"name":"Initech"}`))
	require.NoError(t, err)

	groups, err := s.customers.GroupedByParent(ctx)
	require.NoError(t, err)
	assert.Len(t, groups["Holding"], 2)
	require.Len(t, groups[domain.IndependentGroup], 1)
	assert.Equal(t, "Initech", groups[domain.IndependentGroup][0].Name)
}

func TestProjectTaskQueryByPriorityAndDeadline(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	createTask := func(name, priority, deadline string) {
		_, err := s.tasks.Create(ctx, json.RawMessage(fmt.Sprintf(`{
			"projectName": %q,
			"projectDescription": "desc",
			"estimatedBudget": 1000,
			"projectPriority": %q,
			"departmentsInvolved": ["IT"],
			"progressRange": 10,
			"startDate": "2025-01-01T00:00:00Z",
			"numberOfTeamMembers": 3,
			"projectManagerEmail": "pm@teknova.example",
			"deadline": %q,
			"assignedTo": "Ayse Yilmaz",
			"allocatedBudgetCurrency": "EUR",
			"status": "In Progress",
			"stakeholderSatisfaction": 4
		}`, name, priority, deadline)))
		require.NoError(t, err)
	}

	createTask("Later", "High", "2025-09-01T00:00:00Z")
	createTask("Sooner", "High", "2025-03-01T00:00:00Z")
	createTask("Low prio", "Low", "2025-02-01T00:00:00Z")

	params := query.Params{SortField: "deadline"}.WithFacet("priority", []string{"High"})
	out, err := s.tasks.Query(ctx, params)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Sooner", out[0].ProjectName)
	assert.Equal(t, "Later", out[1].ProjectName)
}

func TestFilterServiceRoundTrip(t *testing.T) {
	s := setupServices()
	ctx := context.Background()

	params := query.Params{Search: "dev", Year: 2025, Month: 3}.
		WithFacet("type", []string{"SoftwareDeveloper"})

	saved, err := s.filters.Save(ctx, "march devs", params)
	require.NoError(t, err)

	loaded, err := s.filters.Load(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, params, loaded)
}
