package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	// либо скрыто от запрашивающего актора
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAlreadyAssigned возвращается, когда бронирование уже принято другим
	// техником или отменено: проигрыш гонки за accept
	ErrAlreadyAssigned = errors.New("booking already assigned or no longer pending")

	// ErrInvalidTransition возвращается, когда запрошенный статус недостижим
	// из текущего по таблице переходов
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAccessDenied возвращается, когда актор опознан, но не владеет
	// запрошенным переходом
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings service: internal error")
)
