package update_address

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/buildmate-lk/BookingService/internal/api/handlers"
	"github.com/buildmate-lk/BookingService/internal/service/addresses"
)

const (
	msgUnauthorized       = "идентичность запроса не разрешена"
	msgInvalidAddressID   = "некорректный ID адреса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFields      = "некорректные поля адреса"
	msgAddressNotFound    = "адрес не найден"
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

// Handle PUT /api/v1/addresses/{addressId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, err := handlers.ActorFromRequest(r)
	if err != nil {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	addressID, err := strconv.ParseInt(vars["addressId"], 10, 64)
	if err != nil || addressID <= 0 {
		h.logger.Warn("PUT /addresses/{id} - Invalid address ID: %q", vars["addressId"])
		handlers.RespondBadRequest(w, msgInvalidAddressID)
		return
	}

	var req UpdateAddressRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /addresses/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), addressID, actor.ID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, addresses.ErrAddressNotFound):
			h.logger.Warn("PUT /addresses/{id} - Address not found: address_id=%d, owner_id=%d", addressID, actor.ID)
			handlers.RespondNotFound(w, msgAddressNotFound)
		case errors.Is(err, addresses.ErrInvalidInput):
			h.logger.Warn("PUT /addresses/{id} - Invalid fields: address_id=%d, error=%v", addressID, err)
			handlers.RespondBadRequest(w, msgInvalidFields)
		default:
			h.logger.Error("PUT /addresses/{id} - Failed to update address: address_id=%d, error=%v", addressID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /addresses/{id} - Address updated: address_id=%d, owner_id=%d, default=%t",
		result.ID, actor.ID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
