package update_room

import (
	"context"

	"github.com/flexbook/FlexBook-BookingService/internal/service/rooms/models"
)

type RoomService interface {
	Update(ctx context.Context, req *models.UpdateRoomRequest) (*models.RoomResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
