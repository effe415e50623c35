package create_address

import (
	"context"

	"github.com/buildmate-lk/BookingService/internal/service/addresses/models"
)

type AddressService interface {
	Create(ctx context.Context, ownerID int64, req *models.CreateAddressRequest) (*models.AddressResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
