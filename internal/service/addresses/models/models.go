package models

import (
	"strings"

	"github.com/buildmate-lk/BookingService/internal/domain"
)

// Request модели

// AddressFields поля адреса для создания и обновления
type AddressFields struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Normalize обрезает пробелы и подставляет страну по умолчанию
func (f *AddressFields) Normalize() {
	f.Street = strings.TrimSpace(f.Street)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Country = strings.TrimSpace(f.Country)
	if f.Country == "" {
		f.Country = domain.DefaultCountry
	}
}

// CreateAddressRequest запрос на создание адреса
type CreateAddressRequest struct {
	Fields    AddressFields `json:"fields"`
	IsDefault bool          `json:"isDefault"`
}

// UpdateAddressRequest запрос на обновление адреса
type UpdateAddressRequest struct {
	Fields    AddressFields `json:"fields"`
	IsDefault bool          `json:"isDefault"`
}

// Response модели

// AddressResponse ответ с данными адреса
type AddressResponse struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"ownerId"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	Country     string `json:"country"`
	IsDefault   bool   `json:"isDefault"`
	FullAddress string `json:"fullAddress"`
}

// AddressListResponse ответ со списком адресов
type AddressListResponse struct {
	Addresses []AddressResponse `json:"addresses"`
}

// FromDomainAddress конвертирует domain модель в DTO
func FromDomainAddress(a *domain.Address) *AddressResponse {
	if a == nil {
		return nil
	}

	return &AddressResponse{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Country:     a.Country,
		IsDefault:   a.IsDefault,
		FullAddress: a.FullAddress(),
	}
}

// FromDomainAddressList конвертирует список domain моделей в DTO
func FromDomainAddressList(addresses []*domain.Address) *AddressListResponse {
	resp := &AddressListResponse{
		Addresses: make([]AddressResponse, 0, len(addresses)),
	}

	for _, addr := range addresses {
		if dto := FromDomainAddress(addr); dto != nil {
			resp.Addresses = append(resp.Addresses, *dto)
		}
	}

	return resp
}
