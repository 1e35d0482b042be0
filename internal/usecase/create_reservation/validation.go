package create_reservation

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса.
// Ошибки валидации возвращаются до любого обращения к хранилищу
// и не имеют побочных эффектов.
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return fmt.Errorf("%w: startAt and endAt are required", ErrInvalidInput)
	}

	// Полуоткрытый интервал [start, end) обязан быть непустым
	if !req.StartAt.Before(req.EndAt) {
		return ErrEndBeforeStart
	}

	return nil
}

// validateNotPast проверяет, что интервал ещё не закончился.
// Начало в прошлом допустимо: бронирование текущего часа легально.
func validateNotPast(endAt, now time.Time) error {
	if !endAt.After(now) {
		return ErrIntervalInPast
	}
	return nil
}
