package suppliers

import (
	"strings"

	"github.com/Spok95/warehouse-ops/internal/validate"
)

func rating(in Input) int64 {
	if in.Rating == nil {
		return 0
	}
	return *in.Rating
}

var inputRules = validate.New(
	validate.Required("company_name", func(in Input) string { return in.CompanyName }),
	validate.Required("contact_person", func(in Input) string { return in.ContactPerson }),
	validate.Required("email", func(in Input) string { return in.Email }),
	validate.Required("phone", func(in Input) string { return in.Phone }),
	validate.Required("address", func(in Input) string { return in.Address }),
	validate.Required("city", func(in Input) string { return in.City }),
	validate.Required("country", func(in Input) string { return in.Country }),
	validate.Email("email", func(in Input) string { return strings.TrimSpace(in.Email) }, "Invalid email format"),
	validate.Between("rating", rating, 0, 5, "Rating must be between 0 and 5"),
	validate.OneOf("status", func(in Input) Status { return in.Status },
		StatusActive, StatusInactive, StatusPending),
)

// Validate прогоняет правила формы без обращения к базе.
func Validate(in Input) error { return inputRules.Validate(in) }

func (in Input) normalized() Input {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	if in.Status == "" {
		in.Status = StatusActive
	}
	return in
}

func (in Input) apply(s *Supplier) {
	s.CompanyName = in.CompanyName
	s.ContactPerson = in.ContactPerson
	s.Email = in.Email
	s.Phone = in.Phone
	s.Address = in.Address
	s.City = in.City
	s.State = in.State
	s.ZipCode = in.ZipCode
	s.Country = in.Country
	s.TaxID = in.TaxID
	s.PaymentTerms = in.PaymentTerms
	s.Rating = rating(in)
	s.Status = in.Status
}
