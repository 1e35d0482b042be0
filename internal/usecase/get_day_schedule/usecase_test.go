package get_day_schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	roomRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/room"
)

type mockReservationRepo struct {
	reservations []*domain.Reservation
	gotStart     time.Time
	gotEnd       time.Time
}

func (m *mockReservationRepo) FindOverlapping(_ context.Context, _ int64, start, end time.Time, _ *int64) ([]*domain.Reservation, error) {
	m.gotStart = start
	m.gotEnd = end
	return m.reservations, nil
}

type mockRoomRepo struct {
	err error
}

func (m *mockRoomRepo) GetByID(_ context.Context, id int64) (*domain.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Room{ID: id, Name: "Boardroom"}, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestGetDaySchedule_EmptyDay(t *testing.T) {
	repo := &mockReservationRepo{}
	uc := NewUseCase(repo, &mockRoomRepo{}, time.UTC, noopLogger{})

	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{RoomID: 3, Date: date})
	require.NoError(t, err)

	assert.Equal(t, "Boardroom", resp.RoomName)
	require.Len(t, resp.Slots, domain.SlotsPerDay)

	for i, slot := range resp.Slots {
		assert.Equal(t, i, slot.Index)
		assert.False(t, slot.Occupied)
	}
	assert.Equal(t, "08:00", resp.Slots[0].Label)

	// Выборка покрывает весь календарный день, а не только операционное окно
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), repo.gotStart)
	assert.Equal(t, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), repo.gotEnd)
}

func TestGetDaySchedule_OccupancyProjection(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2025, 10, 15, hour, 0, 0, 0, time.UTC)
	}
	repo := &mockReservationRepo{
		reservations: []*domain.Reservation{
			{ID: 1, Status: domain.StatusConfirmed, StartAt: at(9), EndAt: at(11)},
			{ID: 2, Status: domain.StatusCancelled, StartAt: at(14), EndAt: at(15)},
		},
	}
	uc := NewUseCase(repo, &mockRoomRepo{}, time.UTC, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{RoomID: 3, Date: at(0)})
	require.NoError(t, err)

	occ := resp.Occupancy()
	assert.Equal(t, map[int]bool{1: true, 2: true}, occ, "only the confirmed reservation marks slots")

	assert.False(t, resp.Slots[0].Occupied, "08:00 free")
	assert.True(t, resp.Slots[1].Occupied, "09:00 occupied")
	assert.True(t, resp.Slots[2].Occupied, "10:00 occupied")
	assert.False(t, resp.Slots[3].Occupied, "11:00 free, reservation ends at its start")
	assert.False(t, resp.Slots[6].Occupied, "14:00 free, reservation is cancelled")
}

func TestGetDaySchedule_RoomNotFound(t *testing.T) {
	uc := NewUseCase(&mockReservationRepo{}, &mockRoomRepo{err: roomRepo.ErrRoomNotFound}, time.UTC, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{RoomID: 3, Date: time.Now()})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetDaySchedule_Validation(t *testing.T) {
	uc := NewUseCase(&mockReservationRepo{}, &mockRoomRepo{}, time.UTC, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{RoomID: 0, Date: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{RoomID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
