package addresses

import "errors"

var (
	// ErrAddressNotFound возвращается, когда адрес не найден или принадлежит
	// другому владельцу (чужие адреса неотличимы от несуществующих)
	ErrAddressNotFound = errors.New("address not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("addresses service: internal error")
)
