// Package checkout validates the checkout form and normalizes it into the
// customer payload posted to the order gateway. It performs no I/O.
package checkout

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"storefront/internal/domain"
)

// DefaultCountry is used when the form leaves the country empty; the storefront ships to one country.
const DefaultCountry = "Pakistan"

// Form carries the raw checkout fields as submitted.
type Form struct {
	FirstName    string `json:"firstName" validate:"required,max=100"`
	LastName     string `json:"lastName" validate:"required,max=100"`
	AddressLine1 string `json:"addressLine1" validate:"required,max=200"`
	AddressLine2 string `json:"addressLine2" validate:"max=200"`
	AddressLine3 string `json:"addressLine3" validate:"max=200"`
	PostalCode   string `json:"postalCode" validate:"required,max=20"`
	Locality     string `json:"locality" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	Country      string `json:"country" validate:"max=100"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phoneNumber" validate:"required,min=7,max=20"`
	PAN          string `json:"pan" validate:"required,max=20"`
}

// CustomerInput is the normalized customer payload.
type CustomerInput struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	TaxID   string         `json:"pan"`
	Address domain.Address `json:"address"`
}

// FieldErrors maps a form field (JSON name) to a human readable message.
type FieldErrors map[string]string

var labels = map[string]string{
	"firstName":    "First name",
	"lastName":     "Last name",
	"addressLine1": "Address line 1",
	"addressLine2": "Address line 2",
	"addressLine3": "Address line 3",
	"postalCode":   "Postal code",
	"locality":     "Locality",
	"state":        "State",
	"country":      "Country",
	"email":        "Email",
	"phoneNumber":  "Phone number",
	"pan":          "PAN",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate trims every field, checks the form and returns either the
// normalized customer input or the per-field errors. Exactly one of the two
// results is meaningful: errs is nil on success.
func Validate(form Form) (CustomerInput, FieldErrors) {
	f := trimmed(form)
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return CustomerInput{}, FieldErrors{"form": err.Error()}
		}
		out := make(FieldErrors, len(verrs))
		for _, fe := range verrs {
			if _, seen := out[fe.Field()]; !seen {
				out[fe.Field()] = message(fe)
			}
		}
		return CustomerInput{}, out
	}

	country := f.Country
	if country == "" {
		country = DefaultCountry
	}
	return CustomerInput{
		Name:  f.FirstName + " " + f.LastName,
		Email: strings.ToLower(f.Email),
		Phone: f.PhoneNumber,
		TaxID: f.PAN,
		Address: domain.Address{
			AddressLine1: f.AddressLine1,
			AddressLine2: f.AddressLine2,
			AddressLine3: f.AddressLine3,
			PostalCode:   f.PostalCode,
			Locality:     f.Locality,
			State:        f.State,
			Country:      country,
		},
	}, nil
}

// AsError converts field errors into a domain validation error, or nil.
func (e FieldErrors) AsError() error {
	if len(e) == 0 {
		return nil
	}
	return &domain.ValidationError{Message: "invalid checkout form", Fields: e}
}

func message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return label + " must be at least " + fe.Param() + " characters"
	case "max":
		return label + " must be at most " + fe.Param() + " characters"
	default:
		return label + " is invalid"
	}
}

func trimmed(f Form) Form {
	return Form{
		FirstName:    strings.TrimSpace(f.FirstName),
		LastName:     strings.TrimSpace(f.LastName),
		AddressLine1: strings.TrimSpace(f.AddressLine1),
		AddressLine2: strings.TrimSpace(f.AddressLine2),
		AddressLine3: strings.TrimSpace(f.AddressLine3),
		PostalCode:   strings.TrimSpace(f.PostalCode),
		Locality:     strings.TrimSpace(f.Locality),
		State:        strings.TrimSpace(f.State),
		Country:      strings.TrimSpace(f.Country),
		Email:        strings.TrimSpace(f.Email),
		PhoneNumber:  strings.TrimSpace(f.PhoneNumber),
		PAN:          strings.TrimSpace(f.PAN),
	}
}
