package ports

import (
	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
)

// Validator is the external validation engine behind the personal info form.
// A nil or empty result means every field is valid.
type Validator interface {
	Validate(values entities.PersonalInfoRecord) entities.FieldErrors
}
