package create_booking

import (
	"fmt"
	"strings"

	"github.com/buildmate-lk/BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Все проверки выполняются до какой-либо записи в хранилище.
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.AddressID <= 0 {
		return fmt.Errorf("%w: addressID must be positive", ErrInvalidInput)
	}

	if req.Quantity < domain.MinQuantity || req.Quantity > domain.MaxQuantity {
		return fmt.Errorf("%w: quantity must be between %d and %d",
			ErrInvalidInput, domain.MinQuantity, domain.MaxQuantity)
	}

	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if len(req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description is too long", ErrInvalidInput)
	}

	if req.PreferredStart.IsZero() || req.PreferredEnd.IsZero() {
		return fmt.Errorf("%w: preferred window is required", ErrInvalidInput)
	}

	// Окно бронирования [start, end): начало строго раньше конца
	if !req.PreferredStart.Before(req.PreferredEnd) {
		return fmt.Errorf("%w: preferredStart must be before preferredEnd", ErrInvalidInput)
	}

	if len(req.ReferenceImageData) > 0 && strings.TrimSpace(req.ReferenceImageName) == "" {
		return fmt.Errorf("%w: reference image name is required when image data is provided", ErrInvalidInput)
	}

	return nil
}
