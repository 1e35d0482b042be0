package rooms

import (
	"context"
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
)

// RoomRepository интерфейс репозитория комнат
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) (*domain.Room, error)
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context) ([]*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) (*domain.Room, error)
	Delete(ctx context.Context, id int64) error
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListUpcoming(ctx context.Context, now time.Time) ([]*domain.Reservation, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
