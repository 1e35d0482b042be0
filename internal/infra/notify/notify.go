package notify

import "context"

// Event уведомление об изменении в таблице бронирований.
// Намеренно без диффа: потребитель обязан перечитать состояние сам.
type Event struct {
	Table  string `json:"table"`
	RoomID int64  `json:"room_id"`
	UserID int64  `json:"user_id"`
}

// TableReservations имя таблицы в событиях изменения бронирований
const TableReservations = "reservations"

// Publisher публикует уведомления об изменениях бронирований
type Publisher interface {
	PublishReservationChange(ctx context.Context, event Event) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
