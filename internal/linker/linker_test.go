package linker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teknova-erp/resource-api/internal/domain"
	"github.com/teknova-erp/resource-api/internal/linker"
)

type fakeContracts struct {
	contracts map[int]*domain.Contract
	err       error
}

func (f *fakeContracts) GetByID(ctx context.Context, id int) (*domain.Contract, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.contracts[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: domain.KindContract, ID: id}
	}
	return c, nil
}

type fakeProjects struct {
	projects map[int]*domain.Project
	err      error
}

func (f *fakeProjects) GetByID(ctx context.Context, id int) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.projects[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: domain.KindProject, ID: id}
	}
	return p, nil
}

func TestProjectFromContractDerivesCustomer(t *testing.T) {
	contracts := &fakeContracts{contracts: map[int]*domain.Contract{
		3: {ID: 3, CustomerID: 12},
	}}

	patch, ok, err := linker.ProjectFromContract(context.Background(), 3, contracts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12, patch.CustomerID)

	project := &domain.Project{CustomerID: 99}
	patch.Apply(project)
	assert.Equal(t, 12, project.CustomerID)
}

func TestProjectFromContractUnresolved(t *testing.T) {
	contracts := &fakeContracts{contracts: map[int]*domain.Contract{}}

	_, ok, err := linker.ProjectFromContract(context.Background(), 8, contracts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProjectFromContractPropagatesPersistenceError(t *testing.T) {
	boom := errors.New("connection refused")
	contracts := &fakeContracts{err: &domain.PersistenceError{Op: "fetchOne", Kind: domain.KindContract, Err: boom}}

	_, ok, err := linker.ProjectFromContract(context.Background(), 8, contracts)
	require.Error(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestPersonnelFromProjectDerivesFields(t *testing.T) {
	projects := &fakeProjects{projects: map[int]*domain.Project{
		5: {ID: 5, Workplace: "Istanbul", ProfitCenter: "PC-200", ContractID: 7},
	}}

	patch, ok, err := linker.PersonnelFromProject(context.Background(), 5, projects)
	require.NoError(t, err)
	require.True(t, ok)

	person := &domain.Personnel{Workplace: "stale", ProfitCenter: "stale", ContractID: 1}
	patch.Apply(person)
	assert.Equal(t, "Istanbul", person.Workplace)
	assert.Equal(t, "PC-200", person.ProfitCenter)
	assert.Equal(t, 7, person.ContractID)
}

func TestPersonnelFromProjectUnresolved(t *testing.T) {
	projects := &fakeProjects{projects: map[int]*domain.Project{}}

	_, ok, err := linker.PersonnelFromProject(context.Background(), 5, projects)
	require.NoError(t, err)
	assert.False(t, ok)
}
