package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexbook/FlexBook-BookingService/internal/domain"
	"github.com/flexbook/FlexBook-BookingService/internal/infra/notify"
)

type mockReservationRepo struct {
	expired []*domain.Reservation
	err     error
	calls   int
}

func (m *mockReservationRepo) ExpireOverdue(_ context.Context, _ time.Time) ([]*domain.Reservation, error) {
	m.calls++
	return m.expired, m.err
}

type passthroughTxManager struct {
	calls int
}

func (m *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockNotifier struct {
	events []notify.Event
}

func (m *mockNotifier) PublishReservationChange(_ context.Context, event notify.Event) error {
	m.events = append(m.events, event)
	return nil
}

type mockReminders struct {
	cancelled []int64
}

func (m *mockReminders) Cancel(id int64) {
	m.cancelled = append(m.cancelled, id)
}

type mockResults struct {
	recorded []string
}

func (m *mockResults) ReservationResult(result string) {
	m.recorded = append(m.recorded, result)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestSweep_ExpiresAndNotifies(t *testing.T) {
	expired := []*domain.Reservation{
		{ID: 1, RoomID: 3, UserID: 7, Status: domain.StatusExpired},
		{ID: 2, RoomID: 4, UserID: 8, Status: domain.StatusExpired},
	}
	repo := &mockReservationRepo{expired: expired}
	tx := &passthroughTxManager{}
	notifier := &mockNotifier{}
	reminders := &mockReminders{}
	results := &mockResults{}

	s := NewSweeper(repo, tx, notifier, reminders, results, time.Minute, noopLogger{})
	s.sweep(context.Background())

	assert.Equal(t, 1, tx.calls, "expiry runs inside a transaction")
	assert.Equal(t, 1, repo.calls)

	require.Len(t, notifier.events, 2)
	assert.Equal(t, int64(3), notifier.events[0].RoomID)
	assert.Equal(t, int64(4), notifier.events[1].RoomID)

	assert.Equal(t, []int64{1, 2}, reminders.cancelled)
	assert.Equal(t, []string{"expired", "expired"}, results.recorded)
}

func TestSweep_NothingToExpire(t *testing.T) {
	repo := &mockReservationRepo{}
	notifier := &mockNotifier{}

	s := NewSweeper(repo, &passthroughTxManager{}, notifier, &mockReminders{}, &mockResults{}, time.Minute, noopLogger{})
	s.sweep(context.Background())

	assert.Empty(t, notifier.events)
}

func TestSweep_RepositoryErrorIsContained(t *testing.T) {
	repo := &mockReservationRepo{err: errors.New("db down")}
	notifier := &mockNotifier{}

	s := NewSweeper(repo, &passthroughTxManager{}, notifier, &mockReminders{}, &mockResults{}, time.Minute, noopLogger{})
	s.sweep(context.Background())

	assert.Empty(t, notifier.events, "no events on a failed sweep")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &mockReservationRepo{}
	s := NewSweeper(repo, &passthroughTxManager{}, &mockNotifier{}, &mockReminders{}, &mockResults{}, 10*time.Millisecond, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}

	assert.GreaterOrEqual(t, repo.calls, 1)
}
