package models

import (
	"errors"
	"time"

	"github.com/buildmate-lk/BookingService/internal/domain"
	"github.com/buildmate-lk/BookingService/pkg/ptr"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Actor  domain.Actor
	Status string
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              domain.Actor
	CancellationReason *string
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID           int64  `json:"id"`
	CustomerID   int64  `json:"customerId"`
	TechnicianID *int64 `json:"technicianId,omitempty"`
	ServiceID    int64  `json:"serviceId"`
	AddressID    int64  `json:"addressId"`
	Status       string `json:"status"`

	Description    string    `json:"description"`
	Quantity       int       `json:"quantity"`
	PreferredStart time.Time `json:"preferredStart"`
	PreferredEnd   time.Time `json:"preferredEnd"`
	BookingDate    time.Time `json:"bookingDate"`
	TotalAmount    float64   `json:"totalAmount"`

	// Денормализованные данные услуги
	ServiceName            string  `json:"serviceName"`
	FixedRate              float64 `json:"fixedRate"`
	EstimatedDurationHours int     `json:"estimatedDurationHours"`
	ReferenceImage         *string `json:"referenceImage,omitempty"`

	// Обогащение из директории пользователей (best effort)
	CustomerName   string `json:"customerName,omitempty"`
	TechnicianName string `json:"technicianName,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`        // ISO 8601
	WorkCompletionTime *string `json:"workCompletionTime,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                     b.ID,
		CustomerID:             b.CustomerID,
		TechnicianID:           b.TechnicianID,
		ServiceID:              b.ServiceID,
		AddressID:              b.AddressID,
		Status:                 string(b.Status),
		Description:            b.Description,
		Quantity:               b.Quantity,
		PreferredStart:         b.PreferredStart,
		PreferredEnd:           b.PreferredEnd,
		BookingDate:            b.BookingDate,
		TotalAmount:            b.TotalAmount,
		ServiceName:            b.ServiceName,
		FixedRate:              b.FixedRate,
		EstimatedDurationHours: b.EstimatedDurationHours,
		ReferenceImage:         b.ReferenceImage,
		CancellationReason:     b.CancellationReason,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(b.CancelledAt.Format(time.RFC3339))
	}
	if b.WorkCompletionTime != nil {
		resp.WorkCompletionTime = ptr.Ptr(b.WorkCompletionTime.Format(time.RFC3339))
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if dto := FromDomainBooking(b); dto != nil {
			resp.Bookings = append(resp.Bookings, *dto)
		}
	}
	resp.Total = len(resp.Bookings)

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !domain.ValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
