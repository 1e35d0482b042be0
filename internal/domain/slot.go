package domain

import (
	"fmt"
	"time"
)

// Slot represents a fixed one-hour booking granule within the operating
// window. Slots are derived values: recomputed per request, never persisted.
type Slot struct {
	Index int       // позиция в сетке, 0-based
	Hour  int       // час начала (например, 8 для слота 08:00-09:00)
	Label string    // "08:00"
	Start time.Time // начало слота
	End   time.Time // конец слота (исключительно)
}

// Overlaps reports whether the half-open interval [start, end) intersects
// the slot. Boundary-touching intervals (end == slot start) do not count.
func (s Slot) Overlaps(start, end time.Time) bool {
	return start.Before(s.End) && end.After(s.Start)
}

// BuildDayGrid строит сетку слотов на день в указанной таймзоне.
// Возвращает ровно SlotEndHour-SlotStartHour слотов по одному часу,
// строго возрастающих и смежных. Чистая функция, ошибок нет.
func BuildDayGrid(date time.Time, loc *time.Location) []Slot {
	year, month, day := date.Date()

	grid := make([]Slot, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay; i++ {
		hour := SlotStartHour + i
		start := time.Date(year, month, day, hour, 0, 0, 0, loc)
		grid = append(grid, Slot{
			Index: i,
			Hour:  hour,
			Label: fmt.Sprintf("%02d:00", hour),
			Start: start,
			End:   start.Add(time.Hour),
		})
	}

	return grid
}

// ProjectOccupancy отмечает занятые слоты сетки по списку бронирований.
// Слот занят, если хотя бы одно подтверждённое бронирование пересекает
// его интервал (полуоткрытое пересечение: start < slotEnd AND end > slotStart).
func ProjectOccupancy(grid []Slot, reservations []*Reservation) map[int]bool {
	occupied := make(map[int]bool, len(grid))

	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}
		for _, slot := range grid {
			if slot.Overlaps(res.StartAt, res.EndAt) {
				occupied[slot.Index] = true
			}
		}
	}

	return occupied
}

// DayBounds возвращает границы календарного дня [start, end) в указанной
// таймзоне. Используется для выборки бронирований, пересекающих день.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	year, month, day := date.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
