package create_address

import (
	"errors"
	"net/http"

	"github.com/buildmate-lk/BookingService/internal/api/handlers"
	"github.com/buildmate-lk/BookingService/internal/service/addresses"
)

const (
	msgUnauthorized       = "идентичность запроса не разрешена"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFields      = "некорректные поля адреса"
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

// Handle POST /api/v1/addresses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, err := handlers.ActorFromRequest(r)
	if err != nil {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAddressRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /addresses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), actor.ID, req.ToServiceRequest())
	if err != nil {
		if errors.Is(err, addresses.ErrInvalidInput) {
			h.logger.Warn("POST /addresses - Invalid fields: owner_id=%d, error=%v", actor.ID, err)
			handlers.RespondBadRequest(w, msgInvalidFields)
			return
		}
		h.logger.Error("POST /addresses - Failed to create address: owner_id=%d, error=%v", actor.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /addresses - Address created: address_id=%d, owner_id=%d, default=%t",
		result.ID, actor.ID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
