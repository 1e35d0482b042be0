package update_reservation

import "time"

// Request модель запроса на изменение интервала бронирования
type Request struct {
	ReservationID int64     // ID изменяемого бронирования
	UserID        int64     // ID пользователя (владелец)
	StartAt       time.Time // Новое начало интервала
	EndAt         time.Time // Новый конец интервала (исключительно)
}

// Response модель ответа с обновлённым бронированием.
// Новый токен при редактировании не выпускается.
type Response struct {
	ID      int64
	UserID  int64
	RoomID  int64
	StartAt time.Time
	EndAt   time.Time
	Status  string

	CreatedAt time.Time
	UpdatedAt time.Time
}
