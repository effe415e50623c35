package update_address

import (
	"context"

	"github.com/buildmate-lk/BookingService/internal/service/addresses/models"
)

type AddressService interface {
	Update(ctx context.Context, id, ownerID int64, req *models.UpdateAddressRequest) (*models.AddressResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
