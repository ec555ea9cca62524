package entities

import "strings"

const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldCity      = "city"
	FieldCountry   = "country"
)

// PersonalInfoFields lists the form fields in display order.
var PersonalInfoFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldCity,
	FieldCountry,
}

type PersonalInfoRecord struct {
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Email     string `json:"email" form:"email"`
	Phone     string `json:"phone" form:"phone"`
	City      string `json:"city" form:"city"`
	Country   string `json:"country" form:"country"`
}

func (r PersonalInfoRecord) IsEmpty() bool {
	return r == PersonalInfoRecord{}
}

// FieldErrors maps a field name to its message. A valid field has no key.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for _, field := range PersonalInfoFields {
		if _, ok := e[field]; ok {
			fields = append(fields, field)
		}
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}
