package catalogservice

// Service модель услуги из каталога CatalogService
type Service struct {
	ID                     int64   `json:"id"`
	Name                   string  `json:"name"`
	FixedRate              float64 `json:"fixed_rate"`
	EstimatedDurationHours int     `json:"estimated_duration_hours"`
	IsActive               bool    `json:"is_active"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
