package domain

import "time"

// Room represents a bookable meeting space
// Owned by the admin flow; read-only for the booking engine
type Room struct {
	ID        int64
	Name      string
	Capacity  *int     // nil = not specified
	Equipment []string // ordered list, may be empty
	Rules     *string  // freeform text, optional

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomAvailability комната с текущим и ближайшим бронированием
// Используется в листинге комнат для отображения занятости
type RoomAvailability struct {
	Room
	CurrentReservation *Reservation // идёт прямо сейчас, nil если свободна
	NextReservation    *Reservation // ближайшее будущее, nil если нет
}
