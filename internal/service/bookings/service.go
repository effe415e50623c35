package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildmate-lk/BookingService/internal/domain"
	bookingRepo "github.com/buildmate-lk/BookingService/internal/infra/storage/booking"
	"github.com/buildmate-lk/BookingService/internal/service/bookings/models"
)

// Service state machine жизненного цикла бронирования.
// Владеет всеми переходами статусов: назначение техника эксклюзивно и
// атомарно (первый успевший побеждает), переходы ограничены статической
// таблицей domain.transitions и правами актора.
type Service struct {
	bookingRepo BookingRepository
	userClient  UserServiceClient
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		userClient:  userClient,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID с проверкой доступа.
// Видимость: клиент-владелец, назначенный техник, администратор.
// Остальным бронирование неотличимо от несуществующего.
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d role=%s", id, actor.ID, actor.Role)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !s.canView(booking, actor) {
		s.logger.Warn("GetByID: actor=%d role=%s has no access to booking id=%d", actor.ID, actor.Role, id)
		return nil, ErrBookingNotFound
	}

	resp := models.FromDomainBooking(booking)
	s.enrich(ctx, resp)
	return resp, nil
}

// ListAvailable возвращает бронирования, доступные технику для принятия:
// все pending по возрастанию preferred_start (простая политика честности,
// не полноценный планировщик)
func (s *Service) ListAvailable(ctx context.Context, technicianID int64) (*models.BookingListResponse, error) {
	s.logger.Info("ListAvailable: fetching pending bookings for technician=%d", technicianID)

	bookings, err := s.bookingRepo.ListPending(ctx)
	if err != nil {
		s.logger.Error("ListAvailable: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAvailable - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAvailable: %d pending bookings for technician=%d", len(bookings), technicianID)
	return models.FromDomainBookingList(bookings), nil
}

// ListForCustomer возвращает историю бронирований клиента (новые первыми)
func (s *Service) ListForCustomer(ctx context.Context, customerID int64) (*models.BookingListResponse, error) {
	s.logger.Info("ListForCustomer: fetching bookings for customer=%d", customerID)

	bookings, err := s.bookingRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("ListForCustomer: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: ListForCustomer - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBookingList(bookings)
	s.enrichList(ctx, resp)
	return resp, nil
}

// ListForTechnician возвращает бронирования, назначенные технику (новые первыми)
func (s *Service) ListForTechnician(ctx context.Context, technicianID int64) (*models.BookingListResponse, error) {
	s.logger.Info("ListForTechnician: fetching bookings for technician=%d", technicianID)

	bookings, err := s.bookingRepo.ListByTechnician(ctx, technicianID)
	if err != nil {
		s.logger.Error("ListForTechnician: repository error for technician=%d: %v", technicianID, err)
		return nil, fmt.Errorf("%w: ListForTechnician - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBookingList(bookings)
	s.enrichList(ctx, resp)
	return resp, nil
}

// Accept атомарно назначает техника на pending-бронирование.
// Условное обновление в хранилище гарантирует, что из N конкурентных
// вызовов побеждает ровно один; проигравшие получают ErrAlreadyAssigned.
func (s *Service) Accept(ctx context.Context, technicianID, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("Accept: technician=%d accepting booking id=%d", technicianID, bookingID)

	err := s.bookingRepo.AssignTechnician(ctx, bookingID, technicianID)
	if err != nil {
		if !errors.Is(err, bookingRepo.ErrNoRowsUpdated) {
			s.logger.Error("Accept: repository error for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: Accept - repository error: %v", ErrInternal, err)
		}

		// Обновление не затронуло строк: различаем несуществующее
		// бронирование и проигрыш гонки
		booking, getErr := s.bookingRepo.GetByID(ctx, bookingID)
		if getErr != nil {
			if errors.Is(getErr, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Accept: booking id=%d not found", bookingID)
				return nil, ErrBookingNotFound
			}
			s.logger.Error("Accept: repository error for booking id=%d: %v", bookingID, getErr)
			return nil, fmt.Errorf("%w: Accept - repository error: %v", ErrInternal, getErr)
		}

		s.logger.Warn("Accept: booking id=%d lost race, status=%s", bookingID, booking.Status)
		return nil, ErrAlreadyAssigned
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("Accept: failed to reload booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Accept - reload booking: %v", ErrInternal, err)
	}

	s.logger.Info("Accept: booking id=%d accepted by technician=%d", bookingID, technicianID)
	return models.FromDomainBooking(booking), nil
}

// UpdateStatus выполняет переход статуса бронирования.
// Чтение, проверка таблицы переходов, проверка прав актора и условная запись
// выполняются в одной транзакции (SELECT FOR UPDATE + compare-and-set),
// чтобы конкурентная отмена не потерялась.
// Переход pending -> accepted выполняется только операцией Accept.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d -> %s by actor=%d role=%s",
		bookingID, req.Status, req.Actor.ID, req.Actor.Role)

	target, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if target == domain.StatusAccepted {
		// Назначение техника идёт только через Accept
		s.logger.Warn("UpdateStatus: accepted transition requested for booking id=%d, use Accept", bookingID)
		return nil, ErrInvalidTransition
	}

	return s.transition(ctx, bookingID, req.Actor, target, nil)
}

// Cancel отменяет бронирование с указанием причины.
// Решение по неоднозначности источника: клиент-владелец может отменить
// только pending-бронирование; после принятия отмена доступна только
// назначенному технику.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by actor=%d role=%s",
		bookingID, req.Actor.ID, req.Actor.Role)

	return s.transition(ctx, bookingID, req.Actor, domain.StatusCancelled, req.CancellationReason)
}

// transition общий путь всех переходов кроме accept
func (s *Service) transition(
	ctx context.Context,
	bookingID int64,
	actor domain.Actor,
	target domain.BookingStatus,
	cancelReason *string,
) (*models.BookingResponse, error) {
	var result *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: transition - get booking: %v", ErrInternal, err)
		}

		if !domain.TransitionDefined(booking.Status, target) {
			return ErrInvalidTransition
		}

		if !domain.TransitionAllowed(booking, actor, target) {
			return ErrAccessDenied
		}

		switch target {
		case domain.StatusCompleted:
			err = s.bookingRepo.Complete(txCtx, bookingID, booking.Status)
		case domain.StatusCancelled:
			err = s.bookingRepo.Cancel(txCtx, bookingID, booking.Status, cancelReason)
		default:
			err = s.bookingRepo.UpdateStatus(txCtx, bookingID, booking.Status, target)
		}

		if err != nil {
			// Строка под FOR UPDATE, проигрыш CAS здесь означает гонку
			// вне транзакционного пути
			if errors.Is(err, bookingRepo.ErrNoRowsUpdated) {
				return ErrInvalidTransition
			}
			return fmt.Errorf("%w: transition - conditional update: %v", ErrInternal, err)
		}

		result, err = s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: transition - reload booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			s.logger.Warn("transition: booking id=%d not found", bookingID)
		case errors.Is(err, ErrInvalidTransition):
			s.logger.Warn("transition: invalid transition to %s for booking id=%d", target, bookingID)
		case errors.Is(err, ErrAccessDenied):
			s.logger.Warn("transition: access denied for actor=%d role=%s on booking id=%d",
				actor.ID, actor.Role, bookingID)
		default:
			s.logger.Error("transition: failed for booking id=%d: %v", bookingID, err)
		}
		return nil, err
	}

	s.logger.Info("transition: booking id=%d moved to status=%s", bookingID, result.Status)
	return models.FromDomainBooking(result), nil
}

// canView проверяет видимость бронирования для актора
func (s *Service) canView(b *domain.Booking, actor domain.Actor) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCustomer:
		return b.CustomerID == actor.ID
	case domain.RoleTechnician:
		return b.IsAssignedTo(actor.ID) || b.Status == domain.StatusPending
	default:
		return false
	}
}

// enrich дополняет ответ отображаемыми именами из директории пользователей.
// Обогащение best effort: ошибки директории не ломают чтение.
func (s *Service) enrich(ctx context.Context, resp *models.BookingResponse) {
	if resp == nil {
		return
	}

	if user, err := s.userClient.GetUser(ctx, resp.CustomerID); err == nil {
		resp.CustomerName = user.DisplayName
	}
	if resp.TechnicianID != nil {
		if user, err := s.userClient.GetUser(ctx, *resp.TechnicianID); err == nil {
			resp.TechnicianName = user.DisplayName
		}
	}
}

// enrichList обогащает список, кэшируя имена в рамках одного вызова
func (s *Service) enrichList(ctx context.Context, resp *models.BookingListResponse) {
	if resp == nil {
		return
	}

	names := make(map[int64]string)

	lookup := func(userID int64) string {
		if name, ok := names[userID]; ok {
			return name
		}
		name := ""
		if user, err := s.userClient.GetUser(ctx, userID); err == nil {
			name = user.DisplayName
		}
		names[userID] = name
		return name
	}

	for i := range resp.Bookings {
		b := &resp.Bookings[i]
		b.CustomerName = lookup(b.CustomerID)
		if b.TechnicianID != nil {
			b.TechnicianName = lookup(*b.TechnicianID)
		}
	}
}
