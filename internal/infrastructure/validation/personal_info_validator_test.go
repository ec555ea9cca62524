package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/k-shtanenko/weather-dashboard/internal/domain/entities"
	"github.com/k-shtanenko/weather-dashboard/internal/domain/ports"
	"github.com/k-shtanenko/weather-dashboard/internal/pkg/logger"
)

func validRecord() entities.PersonalInfoRecord {
	return entities.PersonalInfoRecord{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+44 (20) 7946-0958",
		City:      "London",
		Country:   "United Kingdom",
	}
}

func TestPersonalInfoValidator_Valid(t *testing.T) {
	v := NewPersonalInfoValidator(logger.Discard())

	assert.Empty(t, v.Validate(validRecord()))
}

func TestPersonalInfoValidator_EmptyRecord(t *testing.T) {
	v := NewPersonalInfoValidator(logger.Discard())

	errs := v.Validate(entities.PersonalInfoRecord{})

	assert.Equal(t, entities.FieldErrors{
		entities.FieldFirstName: "First name is required",
		entities.FieldLastName:  "Last name is required",
		entities.FieldEmail:     "Email is required",
		entities.FieldPhone:     "Phone number is required",
		entities.FieldCity:      "City is required",
		entities.FieldCountry:   "Country is required",
	}, errs)
}

func TestPersonalInfoValidator_InvalidPhoneOnly(t *testing.T) {
	v := NewPersonalInfoValidator(logger.Discard())

	record := validRecord()
	record.Phone = "abc"

	errs := v.Validate(record)

	assert.Equal(t, entities.FieldErrors{entities.FieldPhone: "Invalid phone number"}, errs)
}

func TestPersonalInfoValidator_Rules(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(r *entities.PersonalInfoRecord)
		field   string
		message string
	}{
		{"short first name", func(r *entities.PersonalInfoRecord) { r.FirstName = "A" }, entities.FieldFirstName, "First name must be at least 2 characters"},
		{"short last name", func(r *entities.PersonalInfoRecord) { r.LastName = "L" }, entities.FieldLastName, "Last name must be at least 2 characters"},
		{"short city", func(r *entities.PersonalInfoRecord) { r.City = "X" }, entities.FieldCity, "City must be at least 2 characters"},
		{"short country", func(r *entities.PersonalInfoRecord) { r.Country = "U" }, entities.FieldCountry, "Country must be at least 2 characters"},
		{"bad email", func(r *entities.PersonalInfoRecord) { r.Email = "not-an-email" }, entities.FieldEmail, "Invalid email address"},
		{"phone with letters", func(r *entities.PersonalInfoRecord) { r.Phone = "555-CALL" }, entities.FieldPhone, "Invalid phone number"},
		{"phone with dot", func(r *entities.PersonalInfoRecord) { r.Phone = "555.1234" }, entities.FieldPhone, "Invalid phone number"},
	}

	v := NewPersonalInfoValidator(logger.Discard())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := validRecord()
			tc.mutate(&record)

			errs := v.Validate(record)

			assert.Len(t, errs, 1)
			assert.Equal(t, tc.message, errs[tc.field])
		})
	}
}

func TestPersonalInfoValidator_PhoneCharacterClass(t *testing.T) {
	v := NewPersonalInfoValidator(logger.Discard())

	for _, phone := range []string{"0123456789", "+1 555 0100", "(020) 7946-0958", "---", "  "} {
		record := validRecord()
		record.Phone = phone
		assert.False(t, v.Validate(record).Has(entities.FieldPhone), "phone %q", phone)
	}
}

func TestPersonalInfoValidator_InterfaceImplementation(t *testing.T) {
	var _ ports.Validator = (*PersonalInfoValidator)(nil)
}

func TestRegisterPhoneRule(t *testing.T) {
	assert.NoError(t, registerPhoneRule(validator.New(), "phone"))
	assert.Error(t, registerPhoneRule(validator.New(), ""), "an empty tag is rejected by the engine")
	assert.NotPanics(t, func() { NewPersonalInfoValidator(logger.Discard()) })
}
