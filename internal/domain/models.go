package domain

import (
	"time"
)

// Kind identifies an entity collection in the persistence backend.
type Kind string

const (
	KindCustomer     Kind = "customer"
	KindContract     Kind = "contract"
	KindProject      Kind = "project"
	KindPersonnel    Kind = "personnel"
	KindProjectTask  Kind = "project_task"
	KindFilterPreset Kind = "filter_preset"
)

// IndependentGroup is the grouping bucket for customers without a parent company.
const IndependentGroup = "Independent"

// Customer represents a client organization. Customers without a parent
// company group under IndependentGroup.
type Customer struct {
	ID            int    `json:"id"`
	Name          string `json:"name" validate:"required"`
	ParentCompany string `json:"parentCompany,omitempty"`
}

func (c *Customer) GetID() int       { return c.ID }
func (c *Customer) SetID(id int)     { c.ID = id }
func (c *Customer) RecordKind() Kind { return KindCustomer }

// Group returns the grouping key for the customer.
func (c *Customer) Group() string {
	if c.ParentCompany == "" {
		return IndependentGroup
	}
	return c.ParentCompany
}

// Contract represents a signed agreement with a customer.
type Contract struct {
	ID                 int       `json:"id"`
	Title              string    `json:"title" validate:"required"`
	Category           string    `json:"category" validate:"required"`
	Type               string    `json:"type" validate:"required"`
	CustomerID         int       `json:"customerId" validate:"required,gt=0"`
	ProfitCenter       string    `json:"profitCenter"`
	SignatureDate      time.Time `json:"signatureDate"`
	StartDate          time.Time `json:"startDate" validate:"required"`
	EndDate            time.Time `json:"endDate" validate:"required"`
	ResponsibleParties []string  `json:"responsibleParties"`
	Penalties          string    `json:"penalties,omitempty"`
	ImportantClauses   string    `json:"importantClauses,omitempty"`
	RiskScore          int       `json:"riskScore" validate:"required,gte=1,lte=10"`
}

func (c *Contract) GetID() int       { return c.ID }
func (c *Contract) SetID(id int)     { c.ID = id }
func (c *Contract) RecordKind() Kind { return KindContract }

// ProjectType classifies a project as product development or customer order work.
type ProjectType string

const (
	ProjectTypeProduct ProjectType = "Product"
	ProjectTypeOrder   ProjectType = "Order"
)

func (pt ProjectType) IsValid() bool {
	switch pt {
	case ProjectTypeProduct, ProjectTypeOrder:
		return true
	}
	return false
}

// Project represents work performed under a contract. CustomerID is derived
// from the contract and is never independently writable.
type Project struct {
	ID               int         `json:"id"`
	Name             string      `json:"name" validate:"required"`
	Code             string      `json:"code" validate:"required"`
	Type             ProjectType `json:"type" validate:"required"`
	Workplace        string      `json:"workplace" validate:"required"`
	ProfitCenter     string      `json:"profitCenter" validate:"required"`
	StartDate        time.Time   `json:"startDate" validate:"required"`
	EstimatedEndDate time.Time   `json:"estimatedEndDate" validate:"required"`
	ActualEndDate    *time.Time  `json:"actualEndDate,omitempty"`
	RdQuota          int         `json:"rdQuota" validate:"required,gte=1"`
	SupportQuota     int         `json:"supportQuota" validate:"required,gte=1"`
	ContractID       int         `json:"contractId" validate:"required,gt=0"`
	CustomerID       int         `json:"customerId"`
}

func (p *Project) GetID() int       { return p.ID }
func (p *Project) SetID(id int)     { p.ID = id }
func (p *Project) RecordKind() Kind { return KindProject }

// Active reports whether the project is still running. This is a projection
// of ActualEndDate and is recomputed on every read, never stored.
func (p *Project) Active() bool { return p.ActualEndDate == nil }

// PersonnelType classifies a personnel record.
type PersonnelType string

const (
	PersonnelTypeSoftwareDeveloper PersonnelType = "SoftwareDeveloper"
	PersonnelTypeResearchPersonnel PersonnelType = "ResearchPersonnel"
	PersonnelTypeSupportPersonnel  PersonnelType = "SupportPersonnel"
)

func (pt PersonnelType) IsValid() bool {
	switch pt {
	case PersonnelTypeSoftwareDeveloper, PersonnelTypeResearchPersonnel, PersonnelTypeSupportPersonnel:
		return true
	}
	return false
}

// Period is the (year, month) partition key used by personnel records.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Before reports whether p sorts before other in calendar order.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Personnel represents one person's record for a given (year, month) period.
// Workplace, ProfitCenter and ContractID mirror the referenced project and
// are never independently writable.
type Personnel struct {
	ID            int           `json:"id"`
	TCKN          string        `json:"tckn" validate:"required,len=11,numeric"`
	FirstName     string        `json:"firstName" validate:"required"`
	LastName      string        `json:"lastName" validate:"required"`
	Type          PersonnelType `json:"type" validate:"required"`
	Workplace     string        `json:"workplace"`
	ProfitCenter  string        `json:"profitCenter"`
	ContractID    int           `json:"contractId"`
	ProjectID     int           `json:"projectId" validate:"required,gt=0"`
	StartDate     time.Time     `json:"startDate" validate:"required"`
	EndDate       *time.Time    `json:"endDate,omitempty"`
	Year          int           `json:"year" validate:"required,gte=2000,lte=2100"`
	Month         int           `json:"month" validate:"required,gte=1,lte=12"`
	AnnualLeave   int           `json:"annualLeave" validate:"gte=0,lte=31"`
	UnpaidLeave   int           `json:"unpaidLeave" validate:"gte=0,lte=31"`
	SickDays      int           `json:"sickDays" validate:"gte=0,lte=31"`
	TimesheetDays int           `json:"timesheetDays" validate:"gte=0,lte=31"`
}

func (p *Personnel) GetID() int       { return p.ID }
func (p *Personnel) SetID(id int)     { p.ID = id }
func (p *Personnel) RecordKind() Kind { return KindPersonnel }

// Active reports whether the person is still employed. Presence of an end
// date means the person has left; recomputed on every read.
func (p *Personnel) Active() bool { return p.EndDate == nil }

// Period returns the partition key for this record.
func (p *Personnel) Period() Period { return Period{Year: p.Year, Month: p.Month} }

// FullName returns the person's full name.
func (p *Personnel) FullName() string { return p.FirstName + " " + p.LastName }

// TaskPriority represents the urgency of a project task.
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityLow    TaskPriority = "Low"
)

func (tp TaskPriority) IsValid() bool {
	switch tp {
	case TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow:
		return true
	}
	return false
}

// TaskStatus represents the lifecycle state of a project task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "Not Started"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Department represents an organizational unit involved in a task.
type Department string

const (
	DepartmentHR        Department = "HR"
	DepartmentIT        Department = "IT"
	DepartmentFinance   Department = "Finance"
	DepartmentAcademics Department = "Academics"
)

func (d Department) IsValid() bool {
	switch d {
	case DepartmentHR, DepartmentIT, DepartmentFinance, DepartmentAcademics:
		return true
	}
	return false
}

// Currency represents the currency of an allocated budget.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyINR Currency = "INR"
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyINR:
		return true
	}
	return false
}

// ProjectTask is an independent tracking entity. It is not FK-linked to
// projects or contracts at the storage level.
type ProjectTask struct {
	ID                      int          `json:"id"`
	ProjectName             string       `json:"projectName" validate:"required"`
	ProjectDescription      string       `json:"projectDescription" validate:"required"`
	EstimatedBudget         float64      `json:"estimatedBudget" validate:"required,gt=0"`
	ProjectPriority         TaskPriority `json:"projectPriority" validate:"required"`
	DepartmentsInvolved     []Department `json:"departmentsInvolved" validate:"required,min=1"`
	ProgressRange           int          `json:"progressRange" validate:"gte=0,lte=100"`
	StartDate               time.Time    `json:"startDate" validate:"required"`
	NumberOfTeamMembers     int          `json:"numberOfTeamMembers" validate:"required,gte=1"`
	IsApproved              bool         `json:"isApproved"`
	ProjectManagerEmail     string       `json:"projectManagerEmail" validate:"required,email"`
	Deadline                time.Time    `json:"deadline" validate:"required"`
	ProjectTags             []string     `json:"projectTags,omitempty"`
	AssignedTo              string       `json:"assignedTo" validate:"required"`
	AllocatedBudget         float64      `json:"allocatedBudget" validate:"gte=0"`
	AllocatedBudgetCurrency Currency     `json:"allocatedBudgetCurrency" validate:"required"`
	IncludeRiskAssessment   bool         `json:"includeRiskAssessment"`
	Status                  TaskStatus   `json:"status" validate:"required"`
	ContactPhone            string       `json:"contactPhone,omitempty"`
	ProjectWebsite          string       `json:"projectWebsite,omitempty"`
	StakeholderSatisfaction int          `json:"stakeholderSatisfaction" validate:"required,gte=1,lte=5"`
}

func (t *ProjectTask) GetID() int       { return t.ID }
func (t *ProjectTask) SetID(id int)     { t.ID = id }
func (t *ProjectTask) RecordKind() Kind { return KindProjectTask }

// FilterPreset is a named, persisted snapshot of query parameters. The
// FilterData blob is an opaque versioned envelope owned by the preset store.
type FilterPreset struct {
	ID         int    `json:"id"`
	Name       string `json:"name" validate:"required"`
	FilterData string `json:"filterData"`
}

func (f *FilterPreset) GetID() int       { return f.ID }
func (f *FilterPreset) SetID(id int)     { f.ID = id }
func (f *FilterPreset) RecordKind() Kind { return KindFilterPreset }
