package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPurger struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (m *mockPurger) PurgeSoftDeleted(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs = append(m.cutoffs, olderThan)
	return 1, m.err
}

func (m *mockPurger) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cutoffs)
}

func (m *mockPurger) lastCutoff() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cutoffs[len(m.cutoffs)-1]
}

func TestNewSweeper_RejectsBadConfig(t *testing.T) {
	purger := &mockPurger{}

	_, err := NewSweeper(purger, SweeperConfig{Retention: 0, Interval: time.Minute})
	assert.Error(t, err)

	_, err = NewSweeper(purger, SweeperConfig{Retention: time.Hour, Interval: 0})
	assert.Error(t, err)
}

func TestSweeper_SweepsImmediatelyAndStops(t *testing.T) {
	purger := &mockPurger{}
	sweeper, err := NewSweeper(purger, SweeperConfig{
		Retention: 30 * 24 * time.Hour,
		Interval:  time.Hour,
	})
	require.NoError(t, err)

	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	sweeper.now = func() time.Time { return fixed }

	ctx, cancel := context.WithCancel(context.Background())
	go sweeper.Run(ctx)

	require.Eventually(t, func() bool { return purger.calls() >= 1 },
		time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-sweeper.Done():
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}

	assert.Equal(t, fixed.Add(-30*24*time.Hour), purger.lastCutoff())
}

func TestSweeper_SurvivesPurgeFailure(t *testing.T) {
	purger := &mockPurger{err: errors.New("database locked")}
	sweeper, err := NewSweeper(purger, SweeperConfig{
		Retention: time.Hour,
		Interval:  time.Hour,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go sweeper.Run(ctx)

	// The initial sweep retries three times before giving up.
	require.Eventually(t, func() bool { return purger.calls() >= 3 },
		5*time.Second, 10*time.Millisecond)

	cancel()
	<-sweeper.Done()
}
