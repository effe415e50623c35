package cancel_booking

import (
	"github.com/buildmate-lk/BookingService/internal/domain"
	"github.com/buildmate-lk/BookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(actor domain.Actor) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Actor:              actor,
		CancellationReason: r.CancellationReason,
	}
}
