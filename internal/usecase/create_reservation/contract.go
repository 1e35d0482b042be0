package create_reservation

import (
	"context"
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	FindOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID *int64) ([]*domain.Reservation, error)
}

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// TokenRepository интерфейс репозитория токенов доступа
type TokenRepository interface {
	Create(ctx context.Context, tok *domain.AccessToken) (*domain.AccessToken, error)
}

// Notifier публикует уведомления об изменениях бронирований
type Notifier interface {
	PublishReservationChange(ctx context.Context, event notify.Event) error
}

// ReminderScheduler планирует напоминания о начале бронирования
type ReminderScheduler interface {
	Schedule(res *domain.Reservation)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
