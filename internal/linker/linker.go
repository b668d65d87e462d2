// Package linker computes the dependent-field values copied from a
// referenced entity when a foreign key changes. The functions are pure
// with respect to their inputs: they read through a getter and return a
// patch, leaving it to the caller to decide whether an unresolved foreign
// key is an error. The entity stores treat it as one; a view layer
// previewing a selection may not.
package linker

import (
	"context"

	"github.com/teknova-erp/resource-api/internal/domain"
)

// ContractGetter reads contracts by id. *store.Store[*domain.Contract]
// satisfies it.
type ContractGetter interface {
	GetByID(ctx context.Context, id int) (*domain.Contract, error)
}

// ProjectGetter reads projects by id.
type ProjectGetter interface {
	GetByID(ctx context.Context, id int) (*domain.Project, error)
}

// ProjectPatch holds the fields a project derives from its contract.
type ProjectPatch struct {
	CustomerID int
}

// Apply overwrites the derived fields on the project. Caller-supplied
// values for these fields never survive: the foreign key wins.
func (p ProjectPatch) Apply(project *domain.Project) {
	project.CustomerID = p.CustomerID
}

// PersonnelPatch holds the fields a personnel record derives from its
// project.
type PersonnelPatch struct {
	Workplace    string
	ProfitCenter string
	ContractID   int
}

// Apply overwrites the derived fields on the personnel record.
func (p PersonnelPatch) Apply(personnel *domain.Personnel) {
	personnel.Workplace = p.Workplace
	personnel.ProfitCenter = p.ProfitCenter
	personnel.ContractID = p.ContractID
}

// ProjectFromContract derives a project's customer from its contract.
// ok is false when the contract id does not resolve; err reports a
// persistence failure, never an unresolved reference.
func ProjectFromContract(ctx context.Context, contractID int, contracts ContractGetter) (ProjectPatch, bool, error) {
	contract, err := contracts.GetByID(ctx, contractID)
	if err != nil {
		if domain.IsNotFound(err) {
			return ProjectPatch{}, false, nil
		}
		return ProjectPatch{}, false, err
	}
	return ProjectPatch{CustomerID: contract.CustomerID}, true, nil
}

// PersonnelFromProject derives a personnel record's workplace, profit
// center and contract from its project.
func PersonnelFromProject(ctx context.Context, projectID int, projects ProjectGetter) (PersonnelPatch, bool, error) {
	project, err := projects.GetByID(ctx, projectID)
	if err != nil {
		if domain.IsNotFound(err) {
			return PersonnelPatch{}, false, nil
		}
		return PersonnelPatch{}, false, err
	}
	return PersonnelPatch{
		Workplace:    project.Workplace,
		ProfitCenter: project.ProfitCenter,
		ContractID:   project.ContractID,
	}, true, nil
}
