package delete_address

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/buildmate-lk/BookingService/internal/api/handlers"
	"github.com/buildmate-lk/BookingService/internal/service/addresses"
)

const (
	msgUnauthorized     = "идентичность запроса не разрешена"
	msgInvalidAddressID = "некорректный ID адреса"
	msgAddressNotFound  = "адрес не найден"
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

// Handle DELETE /api/v1/addresses/{addressId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, err := handlers.ActorFromRequest(r)
	if err != nil {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	addressID, err := strconv.ParseInt(vars["addressId"], 10, 64)
	if err != nil || addressID <= 0 {
		h.logger.Warn("DELETE /addresses/{id} - Invalid address ID: %q", vars["addressId"])
		handlers.RespondBadRequest(w, msgInvalidAddressID)
		return
	}

	if err := h.service.Delete(r.Context(), addressID, actor.ID); err != nil {
		if errors.Is(err, addresses.ErrAddressNotFound) {
			h.logger.Warn("DELETE /addresses/{id} - Address not found: address_id=%d, owner_id=%d", addressID, actor.ID)
			handlers.RespondNotFound(w, msgAddressNotFound)
			return
		}
		h.logger.Error("DELETE /addresses/{id} - Failed to delete address: address_id=%d, error=%v", addressID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /addresses/{id} - Address deleted: address_id=%d, owner_id=%d", addressID, actor.ID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
