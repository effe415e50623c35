package address

import "errors"

var (
	// ErrAddressNotFound возвращается, когда адрес не найден или принадлежит другому владельцу
	ErrAddressNotFound = errors.New("address.repository: address not found")

	// ErrNoDefaultAddress возвращается, когда у владельца нет адреса с флагом default
	ErrNoDefaultAddress = errors.New("address.repository: no default address")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("address.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("address.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("address.repository: failed to scan row")
)
