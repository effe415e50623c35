package get_technician_bookings

import (
	"net/http"

	"github.com/buildmate-lk/BookingService/internal/api/handlers"
	"github.com/buildmate-lk/BookingService/internal/domain"
)

const (
	msgUnauthorized   = "идентичность запроса не разрешена"
	msgTechnicianOnly = "список назначенных бронирований доступен только техникам"
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

// Handle GET /api/v1/bookings/technician/my
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, err := handlers.ActorFromRequest(r)
	if err != nil {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	if actor.Role != domain.RoleTechnician {
		h.logger.Warn("GET /bookings/technician/my - Forbidden for role=%s, actor=%d", actor.Role, actor.ID)
		handlers.RespondForbidden(w, msgTechnicianOnly)
		return
	}

	result, err := h.service.ListForTechnician(r.Context(), actor.ID)
	if err != nil {
		h.logger.Error("GET /bookings/technician/my - Failed to list bookings: technician_id=%d, error=%v", actor.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/technician/my - %d bookings fetched: technician_id=%d", result.Total, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
