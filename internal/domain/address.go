package domain

import "time"

// Address represents a customer's service address
type Address struct {
	ID         int64
	OwnerID    int64
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullAddress returns the formatted single-line address
func (a *Address) FullAddress() string {
	return a.Street + ", " + a.City + ", " + a.State + " - " + a.PostalCode + ", " + a.Country
}
