package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nissyi-gh/planner/internal/model"
	"github.com/nissyi-gh/planner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newStoreAt(t *testing.T, now time.Time, descriptions ...string) *store.TaskStore {
	t.Helper()
	s := store.New(nil)
	for _, d := range descriptions {
		_, err := s.Add(d, model.DateOf(now), model.ClockOf(now), model.DefaultColor)
		require.NoError(t, err)
	}
	return s
}

func TestTickFiresOnePerCall(t *testing.T) {
	now := time.Date(2024, time.June, 1, 14, 30, 0, 0, time.Local)
	s := newStoreAt(t, now, "first", "second")
	sc := &Scanner{Store: s, Now: fixedClock(now)}

	task, at, ok := sc.Tick()
	require.True(t, ok)
	assert.Equal(t, "first", task.Description)
	assert.Equal(t, now, at)
	assert.Equal(t, 1, s.Len())

	task, _, ok = sc.Tick()
	require.True(t, ok)
	assert.Equal(t, "second", task.Description)

	_, _, ok = sc.Tick()
	assert.False(t, ok)
}

func TestTickSkippedMinute(t *testing.T) {
	now := time.Date(2024, time.June, 1, 14, 30, 0, 0, time.Local)
	s := newStoreAt(t, now, "missed")

	exact := &Scanner{Store: s, Now: fixedClock(now.Add(time.Minute))}
	_, _, ok := exact.Tick()
	assert.False(t, ok)

	catchUp := &Scanner{Store: s, CatchUp: true, Now: fixedClock(now.Add(time.Minute))}
	task, _, ok := catchUp.Tick()
	require.True(t, ok)
	assert.Equal(t, "missed", task.Description)
}

func TestRunNotifiesUntilCancelled(t *testing.T) {
	s := newStoreAt(t, time.Now(), "a", "b")
	sc := NewScanner(s, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired []string
	err := Run(ctx, sc, 5*time.Millisecond, func(task model.Task, _ time.Time) {
		fired = append(fired, task.Description)
		if len(fired) == 2 {
			cancel()
		}
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 0, s.Len())
}

func TestTickCmd(t *testing.T) {
	cmd := TickCmd(time.Millisecond)
	require.NotNil(t, cmd)
	_, ok := cmd().(TickMsg)
	assert.True(t, ok)
}
