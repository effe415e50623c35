package get_default_address

import (
	"context"

	"github.com/buildmate-lk/BookingService/internal/service/addresses/models"
)

type AddressService interface {
	GetDefault(ctx context.Context, ownerID int64) (*models.AddressResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
