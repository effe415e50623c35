package get_customer_bookings

import (
	"net/http"

	"github.com/buildmate-lk/BookingService/internal/api/handlers"
	"github.com/buildmate-lk/BookingService/internal/domain"
)

const (
	msgUnauthorized = "идентичность запроса не разрешена"
	msgCustomerOnly = "история бронирований доступна только клиентам"
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

// Handle GET /api/v1/bookings/my
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, err := handlers.ActorFromRequest(r)
	if err != nil {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if actor.Role != domain.RoleCustomer {
		h.logger.Warn("GET /bookings/my - Forbidden for role=%s, actor=%d", actor.Role, actor.ID)
		handlers.RespondForbidden(w, msgCustomerOnly)
		return
	}

	result, err := h.service.ListForCustomer(r.Context(), actor.ID)
	if err != nil {
		h.logger.Error("GET /bookings/my - Failed to list bookings: customer_id=%d, error=%v", actor.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/my - %d bookings fetched: customer_id=%d", result.Total, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
