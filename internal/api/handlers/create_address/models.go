package create_address

import (
	"github.com/buildmate-lk/BookingService/internal/service/addresses/models"
)

// CreateAddressRequest HTTP request model
type CreateAddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"isDefault"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateAddressRequest) ToServiceRequest() *models.CreateAddressRequest {
	return &models.CreateAddressRequest{
		Fields: models.AddressFields{
			Street:     r.Street,
			City:       r.City,
			State:      r.State,
			PostalCode: r.PostalCode,
			Country:    r.Country,
		},
		IsDefault: r.IsDefault,
	}
}
