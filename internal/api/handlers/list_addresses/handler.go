package list_addresses

import (
	"net/http"

	"github.com/buildmate-lk/BookingService/internal/api/handlers"
)

const msgUnauthorized = "идентичность запроса не разрешена"

type Handler struct {
	service AddressService
	logger  Logger
}

func NewHandler(service AddressService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/addresses/my
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, err := handlers.ActorFromRequest(r)
	if err != nil {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.List(r.Context(), actor.ID)
	if err != nil {
		h.logger.Error("GET /addresses/my - Failed to list addresses: owner_id=%d, error=%v", actor.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /addresses/my - Addresses retrieved: owner_id=%d, count=%d", actor.ID, len(result.Addresses))
	handlers.RespondJSON(w, http.StatusOK, result)
}
