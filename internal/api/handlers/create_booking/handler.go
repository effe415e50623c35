package create_booking

import (
	"errors"
	"net/http"

	"github.com/buildmate-lk/BookingService/internal/api/handlers"
	"github.com/buildmate-lk/BookingService/internal/domain"
	"github.com/buildmate-lk/BookingService/internal/usecase/create_booking"
)

const (
	msgUnauthorized       = "идентичность запроса не разрешена"
	msgCustomerOnly       = "создание бронирований доступно только клиентам"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFields      = "некорректные поля бронирования"
	msgAddressNotFound    = "адрес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgImageUploadFailed  = "не удалось загрузить референс-изображение"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, err := handlers.ActorFromRequest(r)
	if err != nil {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if actor.Role != domain.RoleCustomer {
		h.logger.Warn("POST /bookings - Forbidden for role=%s, actor=%d", actor.Role, actor.ID)
		handlers.RespondForbidden(w, msgCustomerOnly)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(actor.ID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid reference image: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, create_booking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid fields: customer_id=%d, error=%v", actor.ID, err)
			handlers.RespondBadRequest(w, msgInvalidFields)
		case errors.Is(err, create_booking.ErrAddressNotFound):
			h.logger.Warn("POST /bookings - Address not found: customer_id=%d, address_id=%d", actor.ID, req.AddressID)
			handlers.RespondNotFound(w, msgAddressNotFound)
		case errors.Is(err, create_booking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: customer_id=%d, service_id=%d", actor.ID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, create_booking.ErrImageUploadFailed):
			h.logger.Error("POST /bookings - Image upload failed: customer_id=%d, error=%v", actor.ID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgImageUploadFailed)
		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, error=%v", actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, customer_id=%d, total=%.2f",
		result.ID, actor.ID, result.TotalAmount)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
