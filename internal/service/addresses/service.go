package addresses

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildmate-lk/BookingService/internal/domain"
	addressRepo "github.com/buildmate-lk/BookingService/internal/infra/storage/address"
	"github.com/buildmate-lk/BookingService/internal/service/addresses/models"
)

// Service сервис адресов клиента. Поддерживает инвариант единственного
// default-адреса: у владельца с хотя бы одним адресом ровно один помечен
// default. Все мутации одного владельца сериализуются через сериализуемую
// транзакцию и блокировку строк владельца (LockOwner).
type Service struct {
	addressRepo AddressRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса адресов
func NewService(
	addressRepo AddressRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		addressRepo: addressRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// List возвращает адреса владельца: default первым, остальные по возрастанию id
func (s *Service) List(ctx context.Context, ownerID int64) (*models.AddressListResponse, error) {
	s.logger.Info("List: fetching addresses for owner=%d", ownerID)

	addresses, err := s.addressRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("List: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAddressList(addresses), nil
}

// GetDefault возвращает default-адрес владельца.
// Если флаг default ни на ком не стоит (транзиентное состояние), возвращает
// адрес с наименьшим id. Если адресов нет вовсе - ErrAddressNotFound.
func (s *Service) GetDefault(ctx context.Context, ownerID int64) (*models.AddressResponse, error) {
	s.logger.Info("GetDefault: fetching default address for owner=%d", ownerID)

	addr, err := s.addressRepo.GetDefault(ctx, ownerID)
	if errors.Is(err, addressRepo.ErrNoDefaultAddress) {
		addr, err = s.addressRepo.GetFirstByOwner(ctx, ownerID)
	}

	if err != nil {
		if errors.Is(err, addressRepo.ErrAddressNotFound) {
			s.logger.Warn("GetDefault: owner=%d has no addresses", ownerID)
			return nil, ErrAddressNotFound
		}
		s.logger.Error("GetDefault: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: GetDefault - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAddress(addr), nil
}

// Create создает адрес владельца.
// Если запрошен default, снимает флаг с остальных адресов в той же транзакции.
// Первый адрес владельца всегда становится default независимо от запроса.
func (s *Service) Create(ctx context.Context, ownerID int64, req *models.CreateAddressRequest) (*models.AddressResponse, error) {
	s.logger.Info("Create: creating address for owner=%d, wantDefault=%t", ownerID, req.IsDefault)

	req.Fields.Normalize()
	if err := validateFields(&req.Fields); err != nil {
		s.logger.Warn("Create: validation failed for owner=%d: %v", ownerID, err)
		return nil, err
	}

	var created *domain.Address

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.addressRepo.LockOwner(txCtx, ownerID); err != nil {
			return fmt.Errorf("%w: Create - lock owner: %v", ErrInternal, err)
		}

		count, err := s.addressRepo.CountByOwner(txCtx, ownerID)
		if err != nil {
			return fmt.Errorf("%w: Create - count addresses: %v", ErrInternal, err)
		}

		// Первый адрес владельца обязан быть default
		isDefault := req.IsDefault || count == 0

		if isDefault && count > 0 {
			if err := s.addressRepo.ClearDefault(txCtx, ownerID); err != nil {
				return fmt.Errorf("%w: Create - clear defaults: %v", ErrInternal, err)
			}
		}

		addr := &domain.Address{
			OwnerID:    ownerID,
			Street:     req.Fields.Street,
			City:       req.Fields.City,
			State:      req.Fields.State,
			PostalCode: req.Fields.PostalCode,
			Country:    req.Fields.Country,
			IsDefault:  isDefault,
		}

		created, err = s.addressRepo.Create(txCtx, addr)
		if err != nil {
			return fmt.Errorf("%w: Create - insert address: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Create: failed for owner=%d: %v", ownerID, err)
		return nil, err
	}

	s.logger.Info("Create: successfully created address id=%d for owner=%d, default=%t",
		created.ID, ownerID, created.IsDefault)
	return models.FromDomainAddress(created), nil
}

// Update обновляет поля адреса с проверкой владельца.
// Запрошенный default применяется по схеме clear-then-set внутри одной
// транзакции. Снять флаг с текущего default-адреса через Update нельзя:
// владелец с адресами не может остаться без default.
func (s *Service) Update(ctx context.Context, id, ownerID int64, req *models.UpdateAddressRequest) (*models.AddressResponse, error) {
	s.logger.Info("Update: updating address id=%d for owner=%d, wantDefault=%t", id, ownerID, req.IsDefault)

	req.Fields.Normalize()
	if err := validateFields(&req.Fields); err != nil {
		s.logger.Warn("Update: validation failed for address id=%d: %v", id, err)
		return nil, err
	}

	var updated *domain.Address

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.addressRepo.LockOwner(txCtx, ownerID); err != nil {
			return fmt.Errorf("%w: Update - lock owner: %v", ErrInternal, err)
		}

		addr, err := s.addressRepo.GetByID(txCtx, id, ownerID)
		if err != nil {
			if errors.Is(err, addressRepo.ErrAddressNotFound) {
				return ErrAddressNotFound
			}
			return fmt.Errorf("%w: Update - get address: %v", ErrInternal, err)
		}

		if req.IsDefault && !addr.IsDefault {
			if err := s.addressRepo.ClearDefault(txCtx, ownerID); err != nil {
				return fmt.Errorf("%w: Update - clear defaults: %v", ErrInternal, err)
			}
		}

		addr.Street = req.Fields.Street
		addr.City = req.Fields.City
		addr.State = req.Fields.State
		addr.PostalCode = req.Fields.PostalCode
		addr.Country = req.Fields.Country
		// Демоушен запрещён: false на текущем default игнорируется
		addr.IsDefault = addr.IsDefault || req.IsDefault

		if err := s.addressRepo.Update(txCtx, addr); err != nil {
			if errors.Is(err, addressRepo.ErrAddressNotFound) {
				return ErrAddressNotFound
			}
			return fmt.Errorf("%w: Update - update address: %v", ErrInternal, err)
		}

		updated = addr
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			s.logger.Warn("Update: address id=%d not found for owner=%d", id, ownerID)
		} else {
			s.logger.Error("Update: failed for address id=%d: %v", id, err)
		}
		return nil, err
	}

	s.logger.Info("Update: successfully updated address id=%d for owner=%d", id, ownerID)
	return models.FromDomainAddress(updated), nil
}

// SetDefault делает адрес default-адресом владельца.
// Идемпотентна: повторный вызов оставляет состояние неизменным.
func (s *Service) SetDefault(ctx context.Context, id, ownerID int64) (*models.AddressResponse, error) {
	s.logger.Info("SetDefault: setting default address id=%d for owner=%d", id, ownerID)

	var result *domain.Address

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.addressRepo.LockOwner(txCtx, ownerID); err != nil {
			return fmt.Errorf("%w: SetDefault - lock owner: %v", ErrInternal, err)
		}

		addr, err := s.addressRepo.GetByID(txCtx, id, ownerID)
		if err != nil {
			if errors.Is(err, addressRepo.ErrAddressNotFound) {
				return ErrAddressNotFound
			}
			return fmt.Errorf("%w: SetDefault - get address: %v", ErrInternal, err)
		}

		if addr.IsDefault {
			// Уже default, делать нечего
			result = addr
			return nil
		}

		if err := s.addressRepo.ClearDefault(txCtx, ownerID); err != nil {
			return fmt.Errorf("%w: SetDefault - clear defaults: %v", ErrInternal, err)
		}

		if err := s.addressRepo.SetDefault(txCtx, id, ownerID); err != nil {
			if errors.Is(err, addressRepo.ErrAddressNotFound) {
				return ErrAddressNotFound
			}
			return fmt.Errorf("%w: SetDefault - set default: %v", ErrInternal, err)
		}

		addr.IsDefault = true
		result = addr
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			s.logger.Warn("SetDefault: address id=%d not found for owner=%d", id, ownerID)
		} else {
			s.logger.Error("SetDefault: failed for address id=%d: %v", id, err)
		}
		return nil, err
	}

	s.logger.Info("SetDefault: address id=%d is now default for owner=%d", id, ownerID)
	return models.FromDomainAddress(result), nil
}

// Delete удаляет адрес с проверкой владельца.
// Если удалён default-адрес и адреса ещё остались, адрес с наименьшим id
// становится default в той же транзакции: другим транзакциям состояние
// "есть адреса, нет default" не видно.
func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	s.logger.Info("Delete: deleting address id=%d for owner=%d", id, ownerID)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.addressRepo.LockOwner(txCtx, ownerID); err != nil {
			return fmt.Errorf("%w: Delete - lock owner: %v", ErrInternal, err)
		}

		wasDefault, err := s.addressRepo.Delete(txCtx, id, ownerID)
		if err != nil {
			if errors.Is(err, addressRepo.ErrAddressNotFound) {
				return ErrAddressNotFound
			}
			return fmt.Errorf("%w: Delete - delete address: %v", ErrInternal, err)
		}

		if !wasDefault {
			return nil
		}

		next, err := s.addressRepo.GetFirstByOwner(txCtx, ownerID)
		if err != nil {
			if errors.Is(err, addressRepo.ErrAddressNotFound) {
				// Адресов не осталось, промоушен не нужен
				return nil
			}
			return fmt.Errorf("%w: Delete - get promotion candidate: %v", ErrInternal, err)
		}

		if err := s.addressRepo.SetDefault(txCtx, next.ID, ownerID); err != nil {
			return fmt.Errorf("%w: Delete - promote new default: %v", ErrInternal, err)
		}

		s.logger.Info("Delete: promoted address id=%d to default for owner=%d", next.ID, ownerID)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			s.logger.Warn("Delete: address id=%d not found for owner=%d", id, ownerID)
		} else {
			s.logger.Error("Delete: failed for address id=%d: %v", id, err)
		}
		return err
	}

	s.logger.Info("Delete: successfully deleted address id=%d for owner=%d", id, ownerID)
	return nil
}

// CheckOwnership проверяет, что адрес принадлежит владельцу.
// Используется при создании бронирования; адрес не мутируется.
func (s *Service) CheckOwnership(ctx context.Context, id, ownerID int64) error {
	_, err := s.addressRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, addressRepo.ErrAddressNotFound) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("%w: CheckOwnership - repository error: %v", ErrInternal, err)
	}
	return nil
}

// validateFields проверяет обязательные поля адреса
func validateFields(f *models.AddressFields) error {
	if f.Street == "" {
		return fmt.Errorf("%w: street is required", ErrInvalidInput)
	}
	if f.City == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}
	if f.State == "" {
		return fmt.Errorf("%w: state is required", ErrInvalidInput)
	}
	if f.PostalCode == "" {
		return fmt.Errorf("%w: postal code is required", ErrInvalidInput)
	}

	if len(f.Street) > domain.MaxStreetLength {
		return fmt.Errorf("%w: street is too long", ErrInvalidInput)
	}
	if len(f.City) > domain.MaxCityLength {
		return fmt.Errorf("%w: city is too long", ErrInvalidInput)
	}
	if len(f.State) > domain.MaxStateLength {
		return fmt.Errorf("%w: state is too long", ErrInvalidInput)
	}
	if len(f.PostalCode) > domain.MaxPostalCodeLength {
		return fmt.Errorf("%w: postal code is too long", ErrInvalidInput)
	}
	if len(f.Country) > domain.MaxCountryLength {
		return fmt.Errorf("%w: country is too long", ErrInvalidInput)
	}

	return nil
}
