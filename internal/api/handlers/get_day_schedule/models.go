package get_day_schedule

import (
	"time"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	getDaySchedule "github.com/flexbook/FlexBook-BookingService/internal/usecase/get_day_schedule"
)

// SlotResponse слот сетки в HTTP ответе
type SlotResponse struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	StartAt  string `json:"startAt"`
	EndAt    string `json:"endAt"`
	Occupied bool   `json:"occupied"`
}

// DayScheduleResponse HTTP response model
type DayScheduleResponse struct {
	RoomID   int64          `json:"roomId"`
	RoomName string         `json:"roomName"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getDaySchedule.Response) *DayScheduleResponse {
	result := &DayScheduleResponse{
		RoomID:   resp.RoomID,
		RoomName: resp.RoomName,
		Date:     resp.Date.Format(domain.DateFormat),
		Slots:    make([]SlotResponse, len(resp.Slots)),
	}

	for i, s := range resp.Slots {
		result.Slots[i] = SlotResponse{
			Index:    s.Index,
			Label:    s.Label,
			StartAt:  s.StartAt.Format(time.RFC3339),
			EndAt:    s.EndAt.Format(time.RFC3339),
			Occupied: s.Occupied,
		}
	}

	return result
}
