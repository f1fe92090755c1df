package optimistic

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFetchesAndCaches(t *testing.T) {
	s := NewStore()
	calls := 0
	fetch := func(ctx context.Context) (bool, error) {
		calls++
		return true, nil
	}

	v, err := s.Get(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.True(t, v)
	assert.Equal(t, 1, calls)

	// Second read must come from the local cache
	v, err = s.Get(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.True(t, v)
	assert.Equal(t, 1, calls)
}

func TestGetFetchError(t *testing.T) {
	s := NewStore()
	wantErr := errors.New("db down")

	_, err := s.Get(context.Background(), "k", func(ctx context.Context) (bool, error) {
		return false, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	_, state := s.Peek("k")
	assert.Equal(t, StateUnknown, state)
}

func TestToggleSuccess(t *testing.T) {
	s := NewStore()
	s.Seed("k", false)

	var mutatedTo bool
	v, err := s.Toggle(context.Background(), "k",
		func(ctx context.Context) (bool, error) { return false, nil },
		func(ctx context.Context, next bool) (bool, error) {
			mutatedTo = next
			return next, nil
		})
	require.NoError(t, err)
	assert.True(t, v)
	assert.True(t, mutatedTo)

	value, state := s.Peek("k")
	assert.True(t, value)
	assert.Equal(t, StateSettled, state)
}

func TestToggleRollbackOnFailure(t *testing.T) {
	s := NewStore()
	s.Seed("k", true)

	v, err := s.Toggle(context.Background(), "k",
		func(ctx context.Context) (bool, error) { return true, nil },
		func(ctx context.Context, next bool) (bool, error) {
			return false, errors.New("server rejected")
		})
	require.Error(t, err)

	// Failed mutation must roll back to the pre-flip value
	assert.True(t, v)
	value, state := s.Peek("k")
	assert.True(t, value)
	assert.Equal(t, StateSettled, state)
}

func TestToggleUnknownKeyFetchesFirst(t *testing.T) {
	s := NewStore()

	v, err := s.Toggle(context.Background(), "k",
		func(ctx context.Context) (bool, error) { return true, nil },
		func(ctx context.Context, next bool) (bool, error) { return next, nil })
	require.NoError(t, err)
	// Server state was true, so the toggle lands on false
	assert.False(t, v)
}

func TestToggleUnknownKeyFetchErrorClearsSlot(t *testing.T) {
	s := NewStore()
	wantErr := errors.New("fetch failed")

	_, err := s.Toggle(context.Background(), "k",
		func(ctx context.Context) (bool, error) { return false, wantErr },
		func(ctx context.Context, next bool) (bool, error) { return next, nil })
	assert.ErrorIs(t, err, wantErr)

	_, state := s.Peek("k")
	assert.Equal(t, StateUnknown, state)

	// The key must be usable again after the failed fetch
	v, err := s.Toggle(context.Background(), "k",
		func(ctx context.Context) (bool, error) { return false, nil },
		func(ctx context.Context, next bool) (bool, error) { return next, nil })
	require.NoError(t, err)
	assert.True(t, v)
}

func TestToggleRejectsSecondInFlightMutation(t *testing.T) {
	s := NewStore()
	s.Seed("k", false)

	started := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan struct{})

	go func() {
		defer close(firstDone)
		_, err := s.Toggle(context.Background(), "k",
			func(ctx context.Context) (bool, error) { return false, nil },
			func(ctx context.Context, next bool) (bool, error) {
				close(started)
				<-release
				return next, nil
			})
		assert.NoError(t, err)
	}()

	<-started
	_, err := s.Toggle(context.Background(), "k",
		func(ctx context.Context) (bool, error) { return false, nil },
		func(ctx context.Context, next bool) (bool, error) { return next, nil })
	assert.ErrorIs(t, err, ErrMutationInFlight)

	close(release)
	<-firstDone

	value, state := s.Peek("k")
	assert.True(t, value)
	assert.Equal(t, StateSettled, state)
}

func TestToggleRejectionRacesConfirmWrite(t *testing.T) {
	s := NewStore()
	s.Seed("k", false)

	started := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan struct{})

	go func() {
		defer close(firstDone)
		_, err := s.Toggle(context.Background(), "k",
			func(ctx context.Context) (bool, error) { return false, nil },
			func(ctx context.Context, next bool) (bool, error) {
				close(started)
				<-release
				return next, nil
			})
		assert.NoError(t, err)
	}()

	<-started
	// While the key is pending, every rejection must read the snapshot value
	// under the lock (race detector clean)
	v, err := s.Toggle(context.Background(), "k",
		func(ctx context.Context) (bool, error) { return false, nil },
		func(ctx context.Context, next bool) (bool, error) { return next, nil })
	require.ErrorIs(t, err, ErrMutationInFlight)
	assert.True(t, v)

	// Keep hammering the key across the confirm write of the first mutation
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = s.Toggle(context.Background(), "k",
					func(ctx context.Context) (bool, error) { return false, nil },
					func(ctx context.Context, next bool) (bool, error) { return next, nil })
			}
		}()
	}
	close(release)
	wg.Wait()
	<-firstDone

	_, state := s.Peek("k")
	assert.Equal(t, StateSettled, state)
}

func TestToggleConfirmedValueWins(t *testing.T) {
	s := NewStore()
	s.Seed("k", false)

	// Server reports the item was already present, toggle converges on truth
	v, err := s.Toggle(context.Background(), "k",
		func(ctx context.Context) (bool, error) { return false, nil },
		func(ctx context.Context, next bool) (bool, error) {
			return true, nil
		})
	require.NoError(t, err)
	assert.True(t, v)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	s := NewStore()
	s.Seed("k", true)
	s.Invalidate("k")

	calls := 0
	v, err := s.Get(context.Background(), "k", func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})
	require.NoError(t, err)
	assert.False(t, v)
	assert.Equal(t, 1, calls)
}

func TestConcurrentTogglesDifferentKeys(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%26))
			_, _ = s.Toggle(context.Background(), key,
				func(ctx context.Context) (bool, error) { return false, nil },
				func(ctx context.Context, next bool) (bool, error) { return next, nil })
		}(i)
	}
	wg.Wait()
}
