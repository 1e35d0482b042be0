package update_reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")

	// ErrAccessDenied возвращается при попытке изменить чужое бронирование
	ErrAccessDenied = errors.New("update_reservation: access denied")

	// ErrCannotUpdate возвращается, когда бронирование в терминальном статусе
	ErrCannotUpdate = errors.New("update_reservation: reservation cannot be updated")

	// ErrEndBeforeStart возвращается, когда конец интервала не позже начала
	ErrEndBeforeStart = errors.New("update_reservation: end must be after start")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)

// ConflictError возвращается, когда новый интервал пересекает чужие
// подтверждённые бронирования. Собственное бронирование из проверки
// исключено: оно не конфликтует само с собой.
type ConflictError struct {
	Conflicts []ConflictingInterval
}

// ConflictingInterval пересекающееся бронирование
type ConflictingInterval struct {
	ReservationID int64
	StartAt       time.Time
	EndAt         time.Time
}

// Error реализует интерфейс error
func (e *ConflictError) Error() string {
	return fmt.Sprintf("update_reservation: interval overlaps %d confirmed reservation(s)", len(e.Conflicts))
}
