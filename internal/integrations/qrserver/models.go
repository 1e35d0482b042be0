package qrserver

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Payload содержимое QR-кода: ссылка на бронирование и токен доступа.
// Сканируется на ресепшене для подтверждения доступа.
type Payload struct {
	ReservationID int64  `json:"reservation_id"`
	Token         string `json:"token"`
}

// JSON сериализует payload в JSON-строку
func (p Payload) JSON() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("qrserver: marshal payload: %w", err)
	}
	return string(data), nil
}

// Encode возвращает URL-кодированный JSON payload - формат, который
// внешний сервис рендеринга принимает в параметре data
func (p Payload) Encode() (string, error) {
	data, err := p.JSON()
	if err != nil {
		return "", err
	}
	return url.QueryEscape(data), nil
}

// DecodePayload разбирает URL-кодированный JSON payload
func DecodePayload(encoded string) (Payload, error) {
	data, err := url.QueryUnescape(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("qrserver: unescape payload: %w", err)
	}

	var p Payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Payload{}, fmt.Errorf("qrserver: unmarshal payload: %w", err)
	}

	return p, nil
}
