package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"coffeeshop/internal/core/application/usecases/commands"
	"coffeeshop/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPurgeHandler struct {
	mock.Mock
}

func (m *MockPurgeHandler) Handle(ctx context.Context, cmd commands.PurgeExpiredCartsCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}

type MockJob struct {
	mock.Mock
}

func (m *MockJob) Start() error {
	return m.Called().Error(0)
}

func (m *MockJob) Stop() {
	m.Called()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCartExpiryJob(t *testing.T) {
	t.Run("should purge with the configured ttl", func(t *testing.T) {
		handler := &MockPurgeHandler{}
		handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PurgeExpiredCartsCommand) bool {
			return cmd.TTL() == 24*time.Hour
		})).Return(int64(3), nil).Once()

		job := jobs.NewCartExpiryJob(handler, 24*time.Hour, "", time.Second, discardLogger())
		removed, err := job.RunOnce(t.Context())

		require.NoError(t, err)
		assert.Equal(t, int64(3), removed)
		handler.AssertExpectations(t)
	})

	t.Run("should report handler failures", func(t *testing.T) {
		handler := &MockPurgeHandler{}
		boom := errors.New("db down")
		handler.On("Handle", mock.Anything, mock.Anything).Return(int64(0), boom).Once()

		_, err := jobs.NewCartExpiryJob(handler, time.Hour, "", 0, discardLogger()).RunOnce(t.Context())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("should refuse to start with a bad schedule or ttl", func(t *testing.T) {
		handler := &MockPurgeHandler{}

		require.Error(t, jobs.NewCartExpiryJob(handler, time.Hour, "every tuesday", 0, discardLogger()).Start())
		require.Error(t, jobs.NewCartExpiryJob(handler, 0, "", 0, discardLogger()).Start())
		handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should run on schedule until stopped", func(t *testing.T) {
		handler := &MockPurgeHandler{}
		ran := make(chan struct{}, 10)
		handler.On("Handle", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { ran <- struct{}{} }).
			Return(int64(0), nil)

		job := jobs.NewCartExpiryJob(handler, time.Hour, "@every 1s", 0, discardLogger())
		require.NoError(t, job.Start())

		select {
		case <-ran:
		case <-time.After(3 * time.Second):
			t.Fatal("purge did not run")
		}
		job.Stop()
	})
}

func TestJobManager(t *testing.T) {
	t.Run("should start in order and stop in reverse", func(t *testing.T) {
		var calls []string
		first, second := &MockJob{}, &MockJob{}
		first.On("Start").Run(func(mock.Arguments) { calls = append(calls, "start 1") }).Return(nil)
		second.On("Start").Run(func(mock.Arguments) { calls = append(calls, "start 2") }).Return(nil)
		first.On("Stop").Run(func(mock.Arguments) { calls = append(calls, "stop 1") })
		second.On("Stop").Run(func(mock.Arguments) { calls = append(calls, "stop 2") })

		jm := jobs.NewJobManager(first, second)
		require.NoError(t, jm.StartAll())
		jm.StopAll()

		assert.Equal(t, []string{"start 1", "start 2", "stop 2", "stop 1"}, calls)
	})

	t.Run("should stop started jobs when a later one fails", func(t *testing.T) {
		first, second := &MockJob{}, &MockJob{}
		first.On("Start").Return(nil).Once()
		first.On("Stop").Once()
		second.On("Start").Return(errors.New("bad schedule")).Once()

		err := jobs.NewJobManager(first, second).StartAll()
		require.Error(t, err)
		first.AssertExpectations(t)
		second.AssertNotCalled(t, "Stop")
	})
}
