package get_default_address

import (
	"errors"
	"net/http"

	"github.com/buildmate-lk/BookingService/internal/api/handlers"
	"github.com/buildmate-lk/BookingService/internal/service/addresses"
)

const (
	msgUnauthorized = "идентичность запроса не разрешена"
	msgNoAddresses  = "у клиента нет адресов"
)

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

// Handle GET /api/v1/addresses/my/default
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, err := handlers.ActorFromRequest(r)
	if err != nil {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.GetDefault(r.Context(), actor.ID)
	if err != nil {
		if errors.Is(err, addresses.ErrAddressNotFound) {
			h.logger.Warn("GET /addresses/my/default - No addresses: owner_id=%d", actor.ID)
			handlers.RespondNotFound(w, msgNoAddresses)
			return
		}
		h.logger.Error("GET /addresses/my/default - Failed to get default address: owner_id=%d, error=%v", actor.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /addresses/my/default - Default address retrieved: owner_id=%d, address_id=%d", actor.ID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
