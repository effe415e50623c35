package get_available_bookings

import (
	"context"

	"github.com/buildmate-lk/BookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListAvailable(ctx context.Context, technicianID int64) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
