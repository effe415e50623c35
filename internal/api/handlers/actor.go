package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/buildmate-lk/BookingService/internal/domain"
)

// Заголовки, проставляемые резолвером идентичности (API gateway)
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// ErrUnauthorized возвращается, когда идентичность запроса не разрешена
var ErrUnauthorized = errors.New("handlers: identity not resolved")

// ActorFromRequest извлекает актора из заголовков запроса.
// Аутентификация выполнена выше по стеку; ядро доверяет этим значениям
// и передает актора явным аргументом во все операции.
func ActorFromRequest(r *http.Request) (domain.Actor, error) {
	idStr := r.Header.Get(HeaderUserID)
	if idStr == "" {
		return domain.Actor{}, ErrUnauthorized
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return domain.Actor{}, ErrUnauthorized
	}

	role := domain.Role(strings.ToLower(r.Header.Get(HeaderUserRole)))
	if !domain.ValidRole(role) {
		return domain.Actor{}, ErrUnauthorized
	}

	return domain.Actor{ID: id, Role: role}, nil
}
