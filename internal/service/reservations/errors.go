package reservations

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrTokenNotFound возвращается, когда у бронирования нет токена доступа
	ErrTokenNotFound = errors.New("access token not found")

	// ErrTokenExpired возвращается, когда срок действия токена истёк
	ErrTokenExpired = errors.New("access token expired")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование не может быть отменено
	ErrCannotCancel = errors.New("reservation cannot be cancelled")

	// ErrInvalidScope возвращается при некорректном значении scope
	ErrInvalidScope = errors.New("invalid scope")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
