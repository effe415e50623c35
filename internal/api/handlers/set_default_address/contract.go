package set_default_address

import (
	"context"

	"github.com/buildmate-lk/BookingService/internal/service/addresses/models"
)

type AddressService interface {
	SetDefault(ctx context.Context, id, ownerID int64) (*models.AddressResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
