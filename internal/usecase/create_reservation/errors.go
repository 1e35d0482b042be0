package create_reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRoomNotFound возвращается, когда комната не найдена
	ErrRoomNotFound = errors.New("create_reservation: room not found")

	// ErrEndBeforeStart возвращается, когда конец интервала не позже начала.
	// Проверяется до любого обращения к хранилищу.
	ErrEndBeforeStart = errors.New("create_reservation: end must be after start")

	// ErrIntervalInPast возвращается, когда интервал уже закончился
	ErrIntervalInPast = errors.New("create_reservation: interval ends in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// ConflictError возвращается, когда предложенный интервал пересекает
// существующие подтверждённые бронирования. Содержит список пересечений,
// запись при этом не выполняется.
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
	return fmt.Sprintf("create_reservation: interval overlaps %d confirmed reservation(s)", len(e.Conflicts))
}
