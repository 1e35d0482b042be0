package domain

import "time"

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusExpired   ReservationStatus = "expired"
)

// Reservation represents a room reservation in the system
// The interval [StartAt, EndAt) is half-open: EndAt is exclusive
type Reservation struct {
	ID      int64
	RoomID  int64
	UserID  int64
	StartAt time.Time
	EndAt   time.Time
	Status  ReservationStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation is confirmed
// Cancelled and expired are terminal states
func (r *Reservation) IsActive() bool {
	return r.Status == StatusConfirmed
}

// CanBeCancelled returns true if the reservation can be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusConfirmed
}

// CanBeUpdated returns true if the reservation interval can be changed
func (r *Reservation) CanBeUpdated() bool {
	return r.Status == StatusConfirmed
}

// Overlaps reports whether the reservation overlaps the half-open
// interval [start, end). Boundary-touching intervals do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartAt.Before(end) && r.EndAt.After(start)
}

// IsCurrent reports whether the reservation is in progress at the given moment
func (r *Reservation) IsCurrent(now time.Time) bool {
	return r.Status == StatusConfirmed && !r.StartAt.After(now) && r.EndAt.After(now)
}

// ReservationWithRoom бронирование с денормализованным названием комнаты
// Используется в списках бронирований пользователя
type ReservationWithRoom struct {
	Reservation
	RoomName string
}
