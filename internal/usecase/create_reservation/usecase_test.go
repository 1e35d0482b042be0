package create_reservation

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
	roomRepo "github.com/flexbook/FlexBook-BookingService/internal/infra/storage/room"
	"github.com/flexbook/FlexBook-BookingService/internal/integrations/qrserver"
)

type mockReservationRepo struct {
	overlapping []*domain.Reservation
	findErr     error
	created     *domain.Reservation
	createErr   error
}

func (m *mockReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := *res
	created.ID = 42
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.created = &created
	return &created, nil
}

func (m *mockReservationRepo) FindOverlapping(_ context.Context, _ int64, _, _ time.Time, _ *int64) ([]*domain.Reservation, error) {
	return m.overlapping, m.findErr
}

type mockRoomRepo struct {
	err error
}

func (m *mockRoomRepo) GetByID(_ context.Context, id int64) (*domain.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Room{ID: id, Name: "Aquarium"}, nil
}

type mockTokenRepo struct {
	err     error
	created *domain.AccessToken
}

func (m *mockTokenRepo) Create(_ context.Context, tok *domain.AccessToken) (*domain.AccessToken, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = tok
	return tok, nil
}

type mockNotifier struct {
	events []notify.Event
	err    error
}

func (m *mockNotifier) PublishReservationChange(_ context.Context, event notify.Event) error {
	m.events = append(m.events, event)
	return m.err
}

type mockReminders struct {
	scheduled []*domain.Reservation
}

func (m *mockReminders) Schedule(res *domain.Reservation) {
	m.scheduled = append(m.scheduled, res)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type mockResults struct {
	recorded []string
}

func (m *mockResults) ReservationResult(result string) {
	m.recorded = append(m.recorded, result)
}

func validRequest() *Request {
	return &Request{
		UserID:  7,
		RoomID:  3,
		StartAt: time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC),
	}
}

func newTestUseCase(resRepo *mockReservationRepo, rooms *mockRoomRepo, tokens *mockTokenRepo, notifier *mockNotifier, reminders *mockReminders) *UseCase {
	uc := NewUseCase(resRepo, rooms, tokens, notifier, reminders, &mockResults{}, noopLogger{})
	uc.timeProvider = fixedClock{now: time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)}
	return uc
}

func TestCreateReservation_Success(t *testing.T) {
	resRepo := &mockReservationRepo{}
	tokens := &mockTokenRepo{}
	notifier := &mockNotifier{}
	reminders := &mockReminders{}
	uc := newTestUseCase(resRepo, &mockRoomRepo{}, tokens, notifier, reminders)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.False(t, resp.TokenFailed)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.QRPayload)

	require.NotNil(t, tokens.created)
	assert.Equal(t, int64(42), tokens.created.ReservationID)
	assert.True(t, tokens.created.ValidTo.Equal(resp.EndAt), "token expires with the reservation")

	require.Len(t, notifier.events, 1)
	assert.Equal(t, int64(3), notifier.events[0].RoomID)

	require.Len(t, reminders.scheduled, 1)
	assert.Equal(t, int64(42), reminders.scheduled[0].ID)
}

func TestCreateReservation_QRPayloadRoundTrip(t *testing.T) {
	uc := newTestUseCase(&mockReservationRepo{}, &mockRoomRepo{}, &mockTokenRepo{}, &mockNotifier{}, &mockReminders{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// Содержимое QR повторяет контракт точки контроля доступа:
	// URL-кодированный JSON с ID бронирования и токеном
	decoded, err := url.QueryUnescape(resp.QRPayload)
	require.NoError(t, err)
	assert.Contains(t, decoded, `"reservation_id":42`)

	payload, err := qrserver.DecodePayload(resp.QRPayload)
	require.NoError(t, err)
	assert.Equal(t, int64(42), payload.ReservationID)
	assert.Equal(t, resp.Token, payload.Token)
}

func TestCreateReservation_Conflict(t *testing.T) {
	existing := &domain.Reservation{
		ID:      11,
		Status:  domain.StatusConfirmed,
		StartAt: time.Date(2025, 10, 15, 11, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2025, 10, 15, 13, 0, 0, 0, time.UTC),
	}
	resRepo := &mockReservationRepo{overlapping: []*domain.Reservation{existing}}
	notifier := &mockNotifier{}
	uc := newTestUseCase(resRepo, &mockRoomRepo{}, &mockTokenRepo{}, notifier, &mockReminders{})

	_, err := uc.Execute(context.Background(), validRequest())

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, int64(11), conflictErr.Conflicts[0].ReservationID)
	assert.True(t, conflictErr.Conflicts[0].StartAt.Equal(existing.StartAt))

	assert.Nil(t, resRepo.created, "nothing must be written on conflict")
	assert.Empty(t, notifier.events)
}

func TestCreateReservation_TokenFailureIsDegradedSuccess(t *testing.T) {
	resRepo := &mockReservationRepo{}
	tokens := &mockTokenRepo{err: errors.New("token storage down")}
	notifier := &mockNotifier{}
	reminders := &mockReminders{}
	uc := newTestUseCase(resRepo, &mockRoomRepo{}, tokens, notifier, reminders)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err, "token failure must not fail the reservation")

	assert.True(t, resp.TokenFailed)
	assert.Empty(t, resp.Token)
	assert.Empty(t, resp.QRPayload)
	assert.NotNil(t, resRepo.created, "reservation stays created")

	require.Len(t, notifier.events, 1)
	require.Len(t, reminders.scheduled, 1)
}

func TestCreateReservation_NotifierFailureIsBestEffort(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("redis down")}
	uc := newTestUseCase(&mockReservationRepo{}, &mockRoomRepo{}, &mockTokenRepo{}, notifier, &mockReminders{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, resp.TokenFailed)
}

func TestCreateReservation_RoomNotFound(t *testing.T) {
	uc := newTestUseCase(&mockReservationRepo{}, &mockRoomRepo{err: roomRepo.ErrRoomNotFound}, &mockTokenRepo{}, &mockNotifier{}, &mockReminders{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCreateReservation_RecordsOutcomes(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		results := &mockResults{}
		uc := newTestUseCase(&mockReservationRepo{}, &mockRoomRepo{}, &mockTokenRepo{}, &mockNotifier{}, &mockReminders{})
		uc.results = results

		_, err := uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, []string{"created"}, results.recorded)
	})

	t.Run("conflict", func(t *testing.T) {
		results := &mockResults{}
		resRepo := &mockReservationRepo{overlapping: []*domain.Reservation{{ID: 11}}}
		uc := newTestUseCase(resRepo, &mockRoomRepo{}, &mockTokenRepo{}, &mockNotifier{}, &mockReminders{})
		uc.results = results

		_, err := uc.Execute(context.Background(), validRequest())
		require.Error(t, err)
		assert.Equal(t, []string{"conflict"}, results.recorded)
	})

	t.Run("token failed", func(t *testing.T) {
		results := &mockResults{}
		tokens := &mockTokenRepo{err: errors.New("token storage down")}
		uc := newTestUseCase(&mockReservationRepo{}, &mockRoomRepo{}, tokens, &mockNotifier{}, &mockReminders{})
		uc.results = results

		_, err := uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, []string{"created", "token_failed"}, results.recorded)
	})
}

func TestCreateReservation_Validation(t *testing.T) {
	uc := newTestUseCase(&mockReservationRepo{}, &mockRoomRepo{}, &mockTokenRepo{}, &mockNotifier{}, &mockReminders{})

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"zero user", func(r *Request) { r.UserID = 0 }, ErrInvalidInput},
		{"negative room", func(r *Request) { r.RoomID = -1 }, ErrInvalidInput},
		{"zero start", func(r *Request) { r.StartAt = time.Time{} }, ErrInvalidInput},
		{"end equals start", func(r *Request) { r.EndAt = r.StartAt }, ErrEndBeforeStart},
		{"end before start", func(r *Request) { r.EndAt = r.StartAt.Add(-time.Hour) }, ErrEndBeforeStart},
		{"interval already over", func(r *Request) {
			r.StartAt = time.Date(2025, 10, 15, 7, 0, 0, 0, time.UTC)
			r.EndAt = time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC)
		}, ErrIntervalInPast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
