package addresses

import (
	"context"

	"github.com/buildmate-lk/BookingService/internal/domain"
)

// AddressRepository интерфейс репозитория адресов
type AddressRepository interface {
	LockOwner(ctx context.Context, ownerID int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Address, error)
	GetByID(ctx context.Context, id, ownerID int64) (*domain.Address, error)
	GetDefault(ctx context.Context, ownerID int64) (*domain.Address, error)
	GetFirstByOwner(ctx context.Context, ownerID int64) (*domain.Address, error)
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
	ClearDefault(ctx context.Context, ownerID int64) error
	Create(ctx context.Context, addr *domain.Address) (*domain.Address, error)
	Update(ctx context.Context, addr *domain.Address) error
	SetDefault(ctx context.Context, id, ownerID int64) error
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
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
