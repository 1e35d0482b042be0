package qrserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент внешнего сервиса рендеринга QR-кодов.
// Контракт сервиса: GET <baseURL>?size=NxN&data=<url-encoded JSON>,
// в ответе PNG-изображение.
type Client struct {
	baseURL    string
	size       int
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента QR-сервиса
func NewClient(baseURL string, timeout time.Duration, size int, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		size:    size,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Render запрашивает PNG с QR-кодом для payload у внешнего сервиса
func (c *Client) Render(ctx context.Context, payload Payload) ([]byte, error) {
	data, err := payload.JSON()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode payload: %v", ErrInternal, err)
	}

	query := url.Values{}
	query.Set("size", fmt.Sprintf("%dx%d", c.size, c.size))
	query.Set("data", data)

	reqURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	png, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrInvalidResponse, err)
	}

	return png, nil
}

// RenderWithGracefulDegradation рендерит QR-код с graceful degradation:
// при недоступности внешнего сервиса изображение генерируется локально,
// чтобы пользователь в любом случае получил свой QR-код.
func (c *Client) RenderWithGracefulDegradation(ctx context.Context, payload Payload) ([]byte, error) {
	png, err := c.Render(ctx, payload)
	if err == nil {
		return png, nil
	}

	c.log.Error("QR service unavailable, rendering locally for reservation_id=%d: %v", payload.ReservationID, err)

	data, jsonErr := payload.JSON()
	if jsonErr != nil {
		return nil, fmt.Errorf("%w: failed to encode payload: %v", ErrInternal, jsonErr)
	}

	local, encErr := qrcode.Encode(data, qrcode.Medium, c.size)
	if encErr != nil {
		return nil, fmt.Errorf("%w: local encode failed: %v", ErrInternal, encErr)
	}

	return local, fmt.Errorf("%w: reservation_id=%d, error=%v", ErrServiceDegraded, payload.ReservationID, err)
}
