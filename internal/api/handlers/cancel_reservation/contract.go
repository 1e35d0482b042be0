package cancel_reservation

import (
	"context"

	"github.com/flexbook/FlexBook-BookingService/internal/service/reservations/models"
)

type ReservationService interface {
	Cancel(ctx context.Context, req *models.CancelReservationRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
