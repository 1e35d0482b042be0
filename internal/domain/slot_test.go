package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDayGrid(t *testing.T) {
	loc := time.UTC
	date := time.Date(2025, 10, 15, 13, 37, 0, 0, loc)

	grid := BuildDayGrid(date, loc)

	require.Len(t, grid, SlotsPerDay)

	for i, slot := range grid {
		assert.Equal(t, i, slot.Index)
		assert.Equal(t, SlotStartHour+i, slot.Hour)
		assert.Equal(t, fmt.Sprintf("%02d:00", SlotStartHour+i), slot.Label)
		assert.Equal(t, time.Hour, slot.End.Sub(slot.Start))

		if i > 0 {
			assert.True(t, grid[i-1].End.Equal(slot.Start), "slots must be adjacent")
		}
	}

	first := grid[0]
	assert.Equal(t, SlotStartHour, first.Start.Hour())
	assert.Equal(t, 15, first.Start.Day(), "time of day in the input must be ignored")

	last := grid[len(grid)-1]
	assert.Equal(t, SlotEndHour, last.End.Hour())
}

func TestBuildDayGrid_Timezone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	grid := BuildDayGrid(date, loc)

	require.Len(t, grid, SlotsPerDay)
	assert.Equal(t, loc, grid[0].Start.Location())
	assert.Equal(t, SlotStartHour, grid[0].Start.Hour())
}

func TestSlotOverlaps(t *testing.T) {
	loc := time.UTC
	grid := BuildDayGrid(time.Date(2025, 10, 15, 0, 0, 0, 0, loc), loc)
	slot := grid[2] // 10:00-11:00

	at := func(hour, min int) time.Time {
		return time.Date(2025, 10, 15, hour, min, 0, 0, loc)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"fully inside", at(10, 15), at(10, 45), true},
		{"exact slot", at(10, 0), at(11, 0), true},
		{"spanning slot", at(9, 0), at(12, 0), true},
		{"overlaps start", at(9, 30), at(10, 30), true},
		{"overlaps end", at(10, 30), at(11, 30), true},
		{"ends at slot start", at(9, 0), at(10, 0), false},
		{"starts at slot end", at(11, 0), at(12, 0), false},
		{"before", at(8, 0), at(9, 0), false},
		{"after", at(12, 0), at(13, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slot.Overlaps(tt.start, tt.end))
		})
	}
}

func TestProjectOccupancy(t *testing.T) {
	loc := time.UTC
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, loc)
	grid := BuildDayGrid(date, loc)

	at := func(hour int) time.Time {
		return time.Date(2025, 10, 15, hour, 0, 0, 0, loc)
	}

	reservations := []*Reservation{
		{ID: 1, Status: StatusConfirmed, StartAt: at(9), EndAt: at(11)},   // слоты 1, 2
		{ID: 2, Status: StatusCancelled, StartAt: at(14), EndAt: at(16)},  // отменено, не считается
		{ID: 3, Status: StatusExpired, StartAt: at(8), EndAt: at(9)},      // истекло, не считается
		{ID: 4, Status: StatusConfirmed, StartAt: at(18), EndAt: at(20)},  // слоты 10, 11
	}

	occupied := ProjectOccupancy(grid, reservations)

	assert.Equal(t, map[int]bool{1: true, 2: true, 10: true, 11: true}, occupied)
}

func TestProjectOccupancy_AdjacentReservationsDoNotBleed(t *testing.T) {
	loc := time.UTC
	grid := BuildDayGrid(time.Date(2025, 10, 15, 0, 0, 0, 0, loc), loc)

	res := &Reservation{
		ID:      1,
		Status:  StatusConfirmed,
		StartAt: time.Date(2025, 10, 15, 10, 0, 0, 0, loc),
		EndAt:   time.Date(2025, 10, 15, 11, 0, 0, 0, loc),
	}

	occupied := ProjectOccupancy(grid, []*Reservation{res})

	assert.True(t, occupied[2], "10:00 slot is occupied")
	assert.False(t, occupied[1], "09:00 slot must stay free")
	assert.False(t, occupied[3], "11:00 slot must stay free")
}

func TestDayBounds(t *testing.T) {
	loc := time.UTC
	date := time.Date(2025, 10, 15, 17, 45, 0, 0, loc)

	start, end := DayBounds(date, loc)

	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 10, 16, 0, 0, 0, 0, loc), end)
}

func TestReservationOverlaps(t *testing.T) {
	loc := time.UTC
	at := func(hour int) time.Time {
		return time.Date(2025, 10, 15, hour, 0, 0, 0, loc)
	}

	res := &Reservation{StartAt: at(10), EndAt: at(12)}

	assert.True(t, res.Overlaps(at(11), at(13)))
	assert.True(t, res.Overlaps(at(9), at(11)))
	assert.False(t, res.Overlaps(at(12), at(14)), "back-to-back after is not a conflict")
	assert.False(t, res.Overlaps(at(8), at(10)), "back-to-back before is not a conflict")
}
