package accept_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/buildmate-lk/BookingService/internal/api/handlers"
	"github.com/buildmate-lk/BookingService/internal/domain"
	"github.com/buildmate-lk/BookingService/internal/service/bookings"
)

const (
	msgUnauthorized     = "идентичность запроса не разрешена"
	msgTechnicianOnly   = "принятие бронирований доступно только техникам"
	msgInvalidBookingID = "некорректный ID бронирования"
	msgBookingNotFound  = "бронирование не найдено"
	msgAlreadyAssigned  = "бронирование уже принято другим техником"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/accept
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, err := handlers.ActorFromRequest(r)
	if err != nil {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if actor.Role != domain.RoleTechnician {
		h.logger.Warn("POST /bookings/{id}/accept - Forbidden for role=%s, actor=%d", actor.Role, actor.ID)
		handlers.RespondForbidden(w, msgTechnicianOnly)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("POST /bookings/{id}/accept - Invalid booking ID: %q", vars["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.service.Accept(r.Context(), actor.ID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/accept - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, bookings.ErrAlreadyAssigned):
			h.logger.Warn("POST /bookings/{id}/accept - Already assigned: booking_id=%d, technician_id=%d", bookingID, actor.ID)
			handlers.RespondConflict(w, msgAlreadyAssigned)
		default:
			h.logger.Error("POST /bookings/{id}/accept - Failed to accept booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/accept - Booking accepted: booking_id=%d, technician_id=%d",
		result.ID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
