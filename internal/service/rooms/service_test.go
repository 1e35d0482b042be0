package rooms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	roomRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/room"
	"github.com/flexbook/FlexBook-BookingService/internal/service/rooms/models"
)

var now = time.Date(2025, 10, 15, 12, 30, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type mockRoomRepo struct {
	rooms     []*domain.Room
	created   *domain.Room
	updated   *domain.Room
	deletedID int64
	err       error
}

func (m *mockRoomRepo) Create(_ context.Context, room *domain.Room) (*domain.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	created := *room
	created.ID = 5
	m.created = &created
	return &created, nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id int64) (*domain.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Room{ID: id, Name: "Boardroom"}, nil
}

func (m *mockRoomRepo) List(_ context.Context) ([]*domain.Room, error) {
	return m.rooms, m.err
}

func (m *mockRoomRepo) Update(_ context.Context, room *domain.Room) (*domain.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.updated = room
	return room, nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	m.deletedID = id
	return nil
}

type mockReservationRepo struct {
	upcoming []*domain.Reservation
}

func (m *mockReservationRepo) ListUpcoming(_ context.Context, _ time.Time) ([]*domain.Reservation, error) {
	return m.upcoming, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func at(hour int) time.Time {
	return time.Date(2025, 10, 15, hour, 0, 0, 0, time.UTC)
}

func TestList_AvailabilityAugmentation(t *testing.T) {
	rooms := []*domain.Room{
		{ID: 1, Name: "Aquarium"},
		{ID: 2, Name: "Boardroom"},
		{ID: 3, Name: "Attic"},
	}
	// ListUpcoming отдаёт подтверждённые бронирования по возрастанию start_at
	upcoming := []*domain.Reservation{
		{ID: 10, RoomID: 1, Status: domain.StatusConfirmed, StartAt: at(12), EndAt: at(13)}, // идёт сейчас (now=12:30)
		{ID: 11, RoomID: 1, Status: domain.StatusConfirmed, StartAt: at(15), EndAt: at(16)}, // ближайшее
		{ID: 12, RoomID: 2, Status: domain.StatusConfirmed, StartAt: at(14), EndAt: at(15)}, // только будущее
	}

	svc := NewService(&mockRoomRepo{rooms: rooms}, &mockReservationRepo{upcoming: upcoming}, fixedClock{}, noopLogger{})

	resp, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Rooms, 3)

	aquarium := resp.Rooms[0]
	require.NotNil(t, aquarium.CurrentReservation)
	assert.Equal(t, int64(10), aquarium.CurrentReservation.ID)
	require.NotNil(t, aquarium.NextReservation)
	assert.Equal(t, int64(11), aquarium.NextReservation.ID)

	boardroom := resp.Rooms[1]
	assert.Nil(t, boardroom.CurrentReservation)
	require.NotNil(t, boardroom.NextReservation)
	assert.Equal(t, int64(12), boardroom.NextReservation.ID)

	attic := resp.Rooms[2]
	assert.Nil(t, attic.CurrentReservation)
	assert.Nil(t, attic.NextReservation)
}

func TestCreate_AdminOnly(t *testing.T) {
	repo := &mockRoomRepo{}
	svc := NewService(repo, &mockReservationRepo{}, fixedClock{}, noopLogger{})

	_, err := svc.Create(context.Background(), &models.CreateRoomRequest{
		Role: domain.RoleUser,
		Name: "New room",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.created)

	resp, err := svc.Create(context.Background(), &models.CreateRoomRequest{
		Role: domain.RoleAdmin,
		Name: "New room",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(&mockRoomRepo{}, &mockReservationRepo{}, fixedClock{}, noopLogger{})

	longName := make([]byte, domain.MaxRoomNameLength+1)
	for i := range longName {
		longName[i] = 'x'
	}

	tests := []struct {
		name string
		req  *models.CreateRoomRequest
	}{
		{"empty name", &models.CreateRoomRequest{Role: domain.RoleAdmin}},
		{"name too long", &models.CreateRoomRequest{Role: domain.RoleAdmin, Name: string(longName)}},
		{"empty equipment item", &models.CreateRoomRequest{Role: domain.RoleAdmin, Name: "Room", Equipment: []string{""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateAndDelete_AdminOnly(t *testing.T) {
	repo := &mockRoomRepo{}
	svc := NewService(repo, &mockReservationRepo{}, fixedClock{}, noopLogger{})

	_, err := svc.Update(context.Background(), &models.UpdateRoomRequest{
		Role: domain.RoleUser, RoomID: 2, Name: "Renamed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = svc.Delete(context.Background(), 2, domain.RoleUser)
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = svc.Delete(context.Background(), 2, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), repo.deletedID)
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockRoomRepo{err: roomRepo.ErrRoomNotFound}
	svc := NewService(repo, &mockReservationRepo{}, fixedClock{}, noopLogger{})

	err := svc.Delete(context.Background(), 99, domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}
