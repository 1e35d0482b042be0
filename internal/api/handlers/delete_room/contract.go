package delete_room

import (
	"context"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
)

type RoomService interface {
	Delete(ctx context.Context, id int64, role domain.Role) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
