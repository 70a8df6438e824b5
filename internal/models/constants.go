package models

const (
	// DefaultPageSize размер страницы списков по умолчанию
	DefaultPageSize = 10

	// MaxPageSize верхняя граница размера страницы
	MaxPageSize = 100

	// ListingCacheTTL время жизни кэша списков вещей в секундах
	ListingCacheTTL = 5 * 60

	// ExportQueueSize размер очереди задач экспорта
	ExportQueueSize = 256

	// RateLimitRPS запросов в секунду на одного пользователя
	RateLimitRPS = 10

	// RateLimitBurst допустимый всплеск запросов
	RateLimitBurst = 20
)

// Page is an offset/limit window over an ordered listing.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) Valid() bool {
	return p.Offset >= 0 && p.Limit > 0
}
