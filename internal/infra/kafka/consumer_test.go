package kafka

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"deeperweave/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "console", "stdout", ""); err != nil {
		panic(err)
	}
	handlerRetryBackoff = time.Millisecond
	os.Exit(m.Run())
}

func TestHandleWithRetryRecovers(t *testing.T) {
	calls := 0
	handler := func(event *ActivityEvent) error {
		calls++
		if calls < 3 {
			return errors.New("notification store unavailable")
		}
		return nil
	}

	err := handleWithRetry(context.Background(), handler, &ActivityEvent{Type: EventFollowCreated})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestHandleWithRetryGivesUp(t *testing.T) {
	calls := 0
	wantErr := errors.New("notification store unavailable")
	handler := func(event *ActivityEvent) error {
		calls++
		return wantErr
	}

	err := handleWithRetry(context.Background(), handler, &ActivityEvent{Type: EventReviewCreated})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, handlerMaxAttempts, calls)
}

func TestHandleWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	wantErr := errors.New("notification store unavailable")
	handler := func(event *ActivityEvent) error {
		calls++
		return wantErr
	}

	err := handleWithRetry(ctx, handler, &ActivityEvent{Type: EventReviewCreated})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}
