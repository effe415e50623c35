package bookings

import (
	"context"

	"github.com/buildmate-lk/BookingService/internal/domain"
	"github.com/buildmate-lk/BookingService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListPending(ctx context.Context) ([]*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Booking, error)
	ListByTechnician(ctx context.Context, technicianID int64) ([]*domain.Booking, error)
	AssignTechnician(ctx context.Context, id, technicianID int64) error
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	Complete(ctx context.Context, id int64, from domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason *string) error
}

// UserServiceClient интерфейс клиента директории пользователей.
// Используется только для обогащения read-проекций именами.
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
