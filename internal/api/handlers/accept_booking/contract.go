package accept_booking

import (
	"context"

	"github.com/buildmate-lk/BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Accept(ctx context.Context, technicianID, bookingID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
