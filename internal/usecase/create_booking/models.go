package create_booking

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID     int64     // ID клиента (из резолвера идентичности)
	ServiceID      int64     // ID услуги из каталога
	AddressID      int64     // ID адреса клиента
	Quantity       int       // Количество единиц услуги
	Description    string    // Описание работ
	PreferredStart time.Time // Начало желаемого окна
	PreferredEnd   time.Time // Конец желаемого окна

	// Референс-изображение (опционально)
	ReferenceImageName string
	ReferenceImageData []byte
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID             int64     // ID созданного бронирования
	CustomerID     int64     // ID клиента
	ServiceID      int64     // ID услуги
	AddressID      int64     // ID адреса
	Status         string    // Статус (pending)
	Description    string    // Описание работ
	Quantity       int       // Количество единиц услуги
	PreferredStart time.Time // Начало желаемого окна
	PreferredEnd   time.Time // Конец желаемого окна
	BookingDate    time.Time // Момент создания бронирования
	TotalAmount    float64   // fixedRate x quantity, фиксируется при создании

	// Денормализованные данные услуги
	ServiceName            string
	FixedRate              float64
	EstimatedDurationHours int
	ReferenceImage         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
