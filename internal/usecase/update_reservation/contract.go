package update_reservation

import (
	"context"
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	FindOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID *int64) ([]*domain.Reservation, error)
	UpdateInterval(ctx context.Context, id int64, start, end time.Time) (*domain.Reservation, error)
}

// Notifier публикует уведомления об изменениях бронирований
type Notifier interface {
	PublishReservationChange(ctx context.Context, event notify.Event) error
}

// ReminderScheduler планирует напоминания о начале бронирования
type ReminderScheduler interface {
	Schedule(res *domain.Reservation)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
