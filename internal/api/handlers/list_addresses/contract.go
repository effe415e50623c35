package list_addresses

import (
	"context"

	"github.com/buildmate-lk/BookingService/internal/service/addresses/models"
)

type AddressService interface {
	List(ctx context.Context, ownerID int64) (*models.AddressListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
