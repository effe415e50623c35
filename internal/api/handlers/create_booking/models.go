package create_booking

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/buildmate-lk/BookingService/internal/usecase/create_booking"
)

// ReferenceImage опциональное референс-изображение в теле запроса
type ReferenceImage struct {
	FileName string `json:"fileName"`
	Data     string `json:"data"` // base64
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID      int64     `json:"serviceId"`
	AddressID      int64     `json:"addressId"`
	Quantity       int       `json:"quantity"`
	Description    string    `json:"description"`
	PreferredStart time.Time `json:"preferredStart"`
	PreferredEnd   time.Time `json:"preferredEnd"`

	ReferenceImage *ReferenceImage `json:"referenceImage,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*create_booking.Request, error) {
	req := &create_booking.Request{
		CustomerID:     customerID,
		ServiceID:      r.ServiceID,
		AddressID:      r.AddressID,
		Quantity:       r.Quantity,
		Description:    r.Description,
		PreferredStart: r.PreferredStart,
		PreferredEnd:   r.PreferredEnd,
	}

	if r.ReferenceImage != nil {
		data, err := base64.StdEncoding.DecodeString(r.ReferenceImage.Data)
		if err != nil {
			return nil, fmt.Errorf("decode reference image: %w", err)
		}
		req.ReferenceImageName = r.ReferenceImage.FileName
		req.ReferenceImageData = data
	}

	return req, nil
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	ID             int64     `json:"id"`
	CustomerID     int64     `json:"customerId"`
	ServiceID      int64     `json:"serviceId"`
	AddressID      int64     `json:"addressId"`
	Status         string    `json:"status"`
	Description    string    `json:"description"`
	Quantity       int       `json:"quantity"`
	PreferredStart time.Time `json:"preferredStart"`
	PreferredEnd   time.Time `json:"preferredEnd"`
	BookingDate    time.Time `json:"bookingDate"`
	TotalAmount    float64   `json:"totalAmount"`

	ServiceName            string  `json:"serviceName"`
	FixedRate              float64 `json:"fixedRate"`
	EstimatedDurationHours int     `json:"estimatedDurationHours"`
	ReferenceImage         *string `json:"referenceImage,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *create_booking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:             resp.ID,
		CustomerID:     resp.CustomerID,
		ServiceID:      resp.ServiceID,
		AddressID:      resp.AddressID,
		Status:         resp.Status,
		Description:    resp.Description,
		Quantity:       resp.Quantity,
		PreferredStart: resp.PreferredStart,
		PreferredEnd:   resp.PreferredEnd,
		BookingDate:    resp.BookingDate,
		TotalAmount:    resp.TotalAmount,

		ServiceName:            resp.ServiceName,
		FixedRate:              resp.FixedRate,
		EstimatedDurationHours: resp.EstimatedDurationHours,
		ReferenceImage:         resp.ReferenceImage,

		CreatedAt: resp.CreatedAt,
		UpdatedAt: resp.UpdatedAt,
	}
}
