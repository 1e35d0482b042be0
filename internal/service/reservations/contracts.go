package reservations

import (
	"context"
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
	"github.com/flexbook/FlexBook-BookingService/internal/integrations/qrserver"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.ReservationWithRoom, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
}

// TokenRepository интерфейс репозитория токенов доступа
type TokenRepository interface {
	GetByReservationID(ctx context.Context, reservationID int64) (*domain.AccessToken, error)
}

// QRClient интерфейс клиента рендеринга QR-кодов
type QRClient interface {
	RenderWithGracefulDegradation(ctx context.Context, payload qrserver.Payload) ([]byte, error)
}

// Notifier интерфейс публикации событий об изменениях бронирований
type Notifier interface {
	PublishReservationChange(ctx context.Context, event notify.Event) error
}

// ReminderScheduler интерфейс планировщика напоминаний
type ReminderScheduler interface {
	Cancel(reservationID int64)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// ResultRecorder фиксирует исходы коммитов бронирований в метриках
type ResultRecorder interface {
	ReservationResult(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
