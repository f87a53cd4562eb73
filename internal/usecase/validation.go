package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xavierca1/lynkupro-api/internal/entity"
)

const (
	maxNameLength    = 100
	maxCompanyLength = 100
	maxNoteLength    = 2000
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateLead checks every constrained field of a lead about to be stored.
func ValidateLead(l *entity.Lead) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(l.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if utf8.RuneCountInString(l.Name) > maxNameLength {
		errors = append(errors, ValidationError{"name", "must not exceed 100 characters"})
	}

	if strings.TrimSpace(l.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(l.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(l.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	}

	if utf8.RuneCountInString(l.Company) > maxCompanyLength {
		errors = append(errors, ValidationError{"company", "must not exceed 100 characters"})
	}

	if !l.Source.Valid() {
		errors = append(errors, ValidationError{"source", "is invalid"})
	}

	if l.Value < 0 {
		errors = append(errors, ValidationError{"value", "must not be negative"})
	}

	if l.Probability < 0 || l.Probability > 100 {
		errors = append(errors, ValidationError{"probability", "must be between 0 and 100"})
	}

	if l.ProjectType != "" && !l.ProjectType.Valid() {
		errors = append(errors, ValidationError{"projectType", "is invalid"})
	}

	if l.Budget.Min != nil && *l.Budget.Min < 0 {
		errors = append(errors, ValidationError{"budget.min", "must not be negative"})
	}
	if l.Budget.Max != nil && *l.Budget.Max < 0 {
		errors = append(errors, ValidationError{"budget.max", "must not be negative"})
	}
	if l.Budget.Min != nil && l.Budget.Max != nil && *l.Budget.Min > *l.Budget.Max {
		errors = append(errors, ValidationError{"budget", "min must not exceed max"})
	}

	for k := range l.CustomFields {
		if k == "" || strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			errors = append(errors, ValidationError{"customFields", fmt.Sprintf("invalid key %q", k)})
		}
	}

	return errors
}

// patchOnlyFields maps body keys that the general update refuses to the
// endpoint that owns them.
var patchOnlyFields = map[string]string{
	"status":     "PUT /leads/{id}/status",
	"assignedTo": "PUT /leads/{id}/assign",
	"notes":      "POST /leads/{id}/notes",
	"createdBy":  "",
	"createdAt":  "",
	"updatedAt":  "",
	"id":         "",
	"_id":        "",
}

// ValidatePatchFields rejects update bodies that try to set fields owned by
// a dedicated endpoint or by the system.
func ValidatePatchFields(keys []string) []ValidationError {
	var errors []ValidationError
	for _, k := range keys {
		endpoint, blocked := patchOnlyFields[k]
		if !blocked {
			continue
		}
		if endpoint == "" {
			errors = append(errors, ValidationError{k, "cannot be changed"})
		} else {
			errors = append(errors, ValidationError{k, "must be changed through " + endpoint})
		}
	}
	return errors
}

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
