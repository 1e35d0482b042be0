package get_reservation_qr

import (
	"context"

	"github.com/flexbook/FlexBook-BookingService/internal/service/reservations/models"
)

type ReservationService interface {
	GetQR(ctx context.Context, req *models.GetQRRequest) (*models.QRResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
