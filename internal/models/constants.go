package models

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	// MaxTitleLength ограничение длины заголовка бронирования
	MaxTitleLength = 255

	// DefaultBookingHorizonDays максимальный горизонт бронирования по умолчанию
	DefaultBookingHorizonDays = 365

	// DefaultAvailabilityTTL время жизни кэша доступности в секундах
	DefaultAvailabilityTTL = 5 * 60

	// WorkerQueueSize размер очереди воркера уведомлений
	WorkerQueueSize = 128
)
