package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildmate-lk/BookingService/internal/domain"
	catalogClient "github.com/buildmate-lk/BookingService/internal/integrations/catalogservice"
	addressesService "github.com/buildmate-lk/BookingService/internal/service/addresses"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	addressService AddressService
	catalogClient  CatalogServiceClient
	mediaClient    MediaStoreClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	addressService AddressService,
	catalogClient CatalogServiceClient,
	mediaClient MediaStoreClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		addressService: addressService,
		catalogClient:  catalogClient,
		mediaClient:    mediaClient,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования.
// Валидация и проверки внешних коллабораторов выполняются до записи;
// сама запись идёт в сериализуемой транзакции. Бронирование создается
// в статусе pending без назначенного техника, totalAmount фиксируется
// в момент создания и позже не пересчитывается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, service=%d, address=%d, quantity=%d",
		req.CustomerID, req.ServiceID, req.AddressID, req.Quantity)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем принадлежность адреса клиенту.
	// Чужой адрес неотличим от несуществующего.
	if err := uc.addressService.CheckOwnership(ctx, req.AddressID, req.CustomerID); err != nil {
		if errors.Is(err, addressesService.ErrAddressNotFound) {
			uc.logger.Warn("CreateBooking: address id=%d not owned by customer=%d", req.AddressID, req.CustomerID)
			return nil, ErrAddressNotFound
		}
		uc.logger.Error("CreateBooking: failed to check address id=%d: %v", req.AddressID, err)
		return nil, fmt.Errorf("%w: failed to check address ownership: %v", ErrInternal, err)
	}

	// 3. Получаем услугу из каталога
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Загружаем референс-изображение (если передано).
	// Загрузка идёт до транзакции: её провал не оставляет частичных записей.
	var referenceImage *string
	if len(req.ReferenceImageData) > 0 {
		url, err := uc.mediaClient.Upload(ctx, req.ReferenceImageName, req.ReferenceImageData)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to upload reference image for customer=%d: %v",
				req.CustomerID, err)
			return nil, fmt.Errorf("%w: %v", ErrImageUploadFailed, err)
		}
		referenceImage = &url
	}

	// 5. Фиксируем стоимость: fixedRate x quantity
	totalAmount := service.FixedRate * float64(req.Quantity)
	now := uc.timeProvider.Now()

	var result *domain.Booking

	// 6. Создаем бронирование в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking := &domain.Booking{
			CustomerID:     req.CustomerID,
			TechnicianID:   nil, // назначается только операцией Accept
			ServiceID:      req.ServiceID,
			AddressID:      req.AddressID,
			Status:         domain.StatusPending,
			Description:    req.Description,
			Quantity:       req.Quantity,
			PreferredStart: req.PreferredStart,
			PreferredEnd:   req.PreferredEnd,
			BookingDate:    now,
			TotalAmount:    totalAmount,
			// Денормализация данных услуги для истории
			ServiceName:            service.Name,
			FixedRate:              service.FixedRate,
			EstimatedDurationHours: service.EstimatedDurationHours,
			ReferenceImage:         referenceImage,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, total=%.2f", result.ID, result.TotalAmount)

	return &Response{
		ID:                     result.ID,
		CustomerID:             result.CustomerID,
		ServiceID:              result.ServiceID,
		AddressID:              result.AddressID,
		Status:                 string(result.Status),
		Description:            result.Description,
		Quantity:               result.Quantity,
		PreferredStart:         result.PreferredStart,
		PreferredEnd:           result.PreferredEnd,
		BookingDate:            result.BookingDate,
		TotalAmount:            result.TotalAmount,
		ServiceName:            result.ServiceName,
		FixedRate:              result.FixedRate,
		EstimatedDurationHours: result.EstimatedDurationHours,
		ReferenceImage:         result.ReferenceImage,
		CreatedAt:              result.CreatedAt,
		UpdatedAt:              result.UpdatedAt,
	}, nil
}
