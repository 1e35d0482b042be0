package create_reservation

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	UserID  int64     // ID пользователя
	RoomID  int64     // ID комнаты
	StartAt time.Time // Начало интервала
	EndAt   time.Time // Конец интервала (исключительно)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID      int64     // ID созданного бронирования
	UserID  int64     // ID пользователя
	RoomID  int64     // ID комнаты
	StartAt time.Time // Начало
	EndAt   time.Time // Конец
	Status  string    // Статус (confirmed)

	// Токен доступа и QR payload. При частичном сбое (бронирование
	// создано, токен не выпущен) Token пуст и TokenFailed = true -
	// бронирование остаётся действительным.
	Token       string
	QRPayload   string // URL-кодированный JSON {reservation_id, token}
	TokenFailed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
