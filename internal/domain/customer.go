package domain

import "time"

// Address is the shipping address captured at checkout.
type Address struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	AddressLine3 string `json:"addressLine3,omitempty"`
	PostalCode   string `json:"postalCode"`
	Locality     string `json:"locality"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

// Customer is created on first checkout and keyed by a digest of the normalized email.
type Customer struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	TaxID     string    `json:"pan"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}
