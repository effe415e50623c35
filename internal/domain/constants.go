package domain

// Default values
const (
	DefaultCountry  = "Sri Lanka"
	DefaultQuantity = 1
)

// Business validation constants
const (
	MinQuantity                 = 1
	MaxQuantity                 = 100
	MaxDescriptionLength        = 1000
	MaxStreetLength             = 200
	MaxCityLength               = 100
	MaxStateLength              = 100
	MaxPostalCodeLength         = 20
	MaxCountryLength            = 100
	MaxCancellationReasonLength = 500
)

// ValidStatuses список всех допустимых статусов бронирования
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusAccepted,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// ValidStatus проверяет, что строка является допустимым статусом
func ValidStatus(s BookingStatus) bool {
	for _, valid := range ValidStatuses {
		if s == valid {
			return true
		}
	}
	return false
}
