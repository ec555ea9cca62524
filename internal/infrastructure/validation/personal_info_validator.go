package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)

// personalInfoRules carries the rule table as validator tags.
type personalInfoRules struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,phone"`
	City      string `json:"city" validate:"required,min=2"`
	Country   string `json:"country" validate:"required,min=2"`
}

var labels = map[string]string{
	entities.FieldFirstName: "First name",
	entities.FieldLastName:  "Last name",
	entities.FieldEmail:     "Email",
	entities.FieldPhone:     "Phone number",
	entities.FieldCity:      "City",
	entities.FieldCountry:   "Country",
}

type PersonalInfoValidator struct {
	validate *validator.Validate
	logger   logger.Logger
}

func NewPersonalInfoValidator(log logger.Logger) *PersonalInfoValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := registerPhoneRule(v, "phone"); err != nil {
		panic(fmt.Sprintf("validation: register phone rule: %v", err))
	}

	return &PersonalInfoValidator{
		validate: v,
		logger:   logger.Component(log, "personal_info_validator"),
	}
}

// registerPhoneRule installs the phone pattern under tag. Emptiness is left to
// required.
func registerPhoneRule(v *validator.Validate, tag string) error {
	return v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}

func (p *PersonalInfoValidator) Validate(values entities.PersonalInfoRecord) entities.FieldErrors {
	err := p.validate.Struct(personalInfoRules(values))
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		p.logger.Errorf("Unexpected validation failure: %v", err)
		return entities.FieldErrors{"": err.Error()}
	}

	fieldErrs := make(entities.FieldErrors, len(validationErrs))
	for _, fe := range validationErrs {
		if fieldErrs.Has(fe.Field()) {
			continue
		}
		fieldErrs[fe.Field()] = message(fe)
	}
	return fieldErrs
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return label + " must be at least " + fe.Param() + " characters"
	case "email":
		return "Invalid email address"
	case "phone":
		return "Invalid phone number"
	}
	return label + " is invalid"
}
