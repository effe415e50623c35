package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// максимальный размер тела запроса (референс-изображения передаются в base64)
const maxBodySize = 10 << 20 // 10 MB

// DecodeJSON декодирует тело запроса в указанную структуру
func DecodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("handlers: failed to decode request body: %w", err)
	}

	return nil
}
