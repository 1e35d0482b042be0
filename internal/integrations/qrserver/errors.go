package qrserver

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("qrserver client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("qrserver client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation:
	// внешний рендер недоступен, QR-код сгенерирован локально
	ErrServiceDegraded = errors.New("qrserver unavailable: rendered locally")
)
