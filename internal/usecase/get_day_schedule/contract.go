package get_day_schedule

import (
	"context"
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// FindOverlapping получает подтверждённые бронирования комнаты,
	// пересекающие интервал [start, end)
	FindOverlapping(ctx context.Context, roomID int64, start, end time.Time, excludeID *int64) ([]*domain.Reservation, error)
}

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
