package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	// (в том числе preferredStart >= preferredEnd)
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrAddressNotFound возвращается, когда адрес не существует
	// или принадлежит другому клиенту
	ErrAddressNotFound = errors.New("create_booking: address not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrImageUploadFailed возвращается, когда не удалось загрузить референс-изображение
	ErrImageUploadFailed = errors.New("create_booking: failed to upload reference image")

	// ErrInternal возвращается при внутренних ошибках use case
	ErrInternal = errors.New("create_booking: internal error")
)
