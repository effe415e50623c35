package mediastore

import "errors"

var (
	// ErrUploadFailed возвращается, когда хранилище отклонило загрузку
	ErrUploadFailed = errors.New("mediastore client: upload failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mediastore client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("mediastore client: invalid response")
)
