package middleware

import (
	"net/http"

	"github.com/buildmate-lk/BookingService/internal/api/handlers"
)

const msgUnauthorized = "идентичность запроса не разрешена"

// Auth проверяет, что резолвер идентичности проставил корректные
// X-User-ID и X-User-Role. Ядро не выполняет собственной аутентификации.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := handlers.ActorFromRequest(r); err != nil {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
