package get_reservation

import (
	"context"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/internal/service/reservations/models"
)

type ReservationService interface {
	GetByID(ctx context.Context, id int64, requesterID int64, role domain.Role) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
