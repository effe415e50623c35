package delete_address

import "context"

type AddressService interface {
	Delete(ctx context.Context, id, ownerID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
