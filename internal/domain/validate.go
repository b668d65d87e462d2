package domain

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator builds the shared validator. Field names in error output
// come from the json tag so violations are keyed the way clients sent them.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

var (
	phonePattern   = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	websitePattern = regexp.MustCompile(`^https?://.+\..+`)
)

// checkStruct runs the declarative tag rules of a model and collects the
// violations into a ValidationError keyed by JSON field name.
func checkStruct(rec interface{}) *ValidationError {
	ve := NewValidationError()
	if err := validate.Struct(rec); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				ve.Add(fe.Field(), formatFieldError(fe))
			}
		} else {
			ve.Add("_", err.Error())
		}
	}
	return ve
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must have at least %s entries", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "numeric":
		return "Must contain only digits"
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s", fe.Param())
	default:
		return "Validation failed: " + fe.Tag()
	}
}

func (c *Customer) Validate() error {
	if ve := checkStruct(c); !ve.Empty() {
		return ve
	}
	return nil
}

func (c *Contract) Validate() error {
	ve := checkStruct(c)
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && !c.StartDate.Before(c.EndDate) {
		ve.Add("endDate", "End date must be after start date")
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}

func (p *Project) Validate() error {
	ve := checkStruct(p)
	if p.Type != "" && !p.Type.IsValid() {
		ve.Add("type", "Must be one of: Product, Order")
	}
	if !p.StartDate.IsZero() && !p.EstimatedEndDate.IsZero() && !p.StartDate.Before(p.EstimatedEndDate) {
		ve.Add("estimatedEndDate", "Estimated end date must be after start date")
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}

func (p *Personnel) Validate() error {
	ve := checkStruct(p)
	if p.Type != "" && !p.Type.IsValid() {
		ve.Add("type", "Must be one of: SoftwareDeveloper, ResearchPersonnel, SupportPersonnel")
	}
	if p.EndDate != nil && !p.StartDate.IsZero() && p.EndDate.Before(p.StartDate) {
		ve.Add("endDate", "End date must not be before start date")
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}

func (t *ProjectTask) Validate() error {
	ve := checkStruct(t)
	if t.ProjectPriority != "" && !t.ProjectPriority.IsValid() {
		ve.Add("projectPriority", "Must be one of: High, Medium, Low")
	}
	if t.Status != "" && !t.Status.IsValid() {
		ve.Add("status", "Must be one of: Not Started, In Progress, Completed")
	}
	if t.AllocatedBudgetCurrency != "" && !t.AllocatedBudgetCurrency.IsValid() {
		ve.Add("allocatedBudgetCurrency", "Must be one of: USD, EUR, INR")
	}
	for _, dept := range t.DepartmentsInvolved {
		if !dept.IsValid() {
			ve.Add("departmentsInvolved", fmt.Sprintf("Unknown department %q", dept))
			break
		}
	}
	if t.ContactPhone != "" && !phonePattern.MatchString(t.ContactPhone) {
		ve.Add("contactPhone", "Must be a valid phone number")
	}
	if t.ProjectWebsite != "" && !websitePattern.MatchString(t.ProjectWebsite) {
		ve.Add("projectWebsite", "Must be a valid website URL")
	}
	if !ve.Empty() {
		return ve
	}
	t.ProjectTags = dedupeTags(t.ProjectTags)
	return nil
}

func (f *FilterPreset) Validate() error {
	ve := checkStruct(f)
	if strings.TrimSpace(f.Name) == "" {
		ve.Add("name", "name is required")
	}
	if !ve.Empty() {
		return ve
	}
	return nil
}

// dedupeTags removes duplicate tags preserving first-seen order.
func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0]
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
