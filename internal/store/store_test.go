package store

import (
	"errors"
	"testing"
	"time"

	"github.com/nissyi-gh/planner/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	june1   = model.Date{Year: 2024, Month: time.June, Day: 1}
	halfTwo = model.Clock{Hour: 14, Minute: 30}
)

func newTestStore(t *testing.T, descriptions ...string) *TaskStore {
	t.Helper()
	s := New(nil)
	for _, d := range descriptions {
		_, err := s.Add(d, june1, halfTwo, model.DefaultColor)
		require.NoError(t, err)
	}
	return s
}

func TestAdd(t *testing.T) {
	s := newTestStore(t, "first")

	id, err := s.Add("Buy milk", june1, halfTwo, "#3742FA")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	tasks := s.List()
	require.Len(t, tasks, 2)
	last := tasks[1]
	assert.Equal(t, id, last.ID)
	assert.Equal(t, "Buy milk", last.Description)
	assert.Equal(t, june1, last.Date)
	assert.Equal(t, halfTwo, last.Time)
	assert.Equal(t, "#3742fa", last.Color)
	assert.False(t, last.Completed)
}

func TestAddAllowsDuplicatesAndPastDates(t *testing.T) {
	s := New(nil)
	past := model.Date{Year: 1999, Month: time.January, Day: 1}
	for range 2 {
		_, err := s.Add("same", past, halfTwo, model.DefaultColor)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.Len())
}

func TestAddRejectsEmptyDescription(t *testing.T) {
	s := newTestStore(t, "keep")

	for _, d := range []string{"", "   "} {
		_, err := s.Add(d, june1, halfTwo, model.DefaultColor)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Equal(t, 1, s.Len())
}

func TestAddRejectsBadColor(t *testing.T) {
	s := New(nil)
	_, err := s.Add("task", june1, halfTwo, "blue")
	assert.ErrorIs(t, err, ErrFormat)
	assert.Equal(t, 0, s.Len())
}

func TestDelete(t *testing.T) {
	s := newTestStore(t, "a", "b", "c")

	require.NoError(t, s.Delete(1))
	tasks := s.List()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Description)
	assert.Equal(t, "c", tasks[1].Description)
}

func TestDeleteWithoutSelection(t *testing.T) {
	s := newTestStore(t, "a")

	assert.ErrorIs(t, s.Delete(NoSelection), ErrNotFound)
	assert.ErrorIs(t, s.Delete(5), ErrNotFound)
	assert.Equal(t, 1, s.Len())
}

func TestEditReturnsWholeRecord(t *testing.T) {
	s := newTestStore(t, "a")
	_, err := s.Add("b", model.Date{Year: 2025, Month: time.March, Day: 9}, model.Clock{Hour: 8}, "#ff0000")
	require.NoError(t, err)
	require.NoError(t, s.Complete(1))

	got, err := s.Edit(1)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Description)
	assert.Equal(t, model.Date{Year: 2025, Month: time.March, Day: 9}, got.Date)
	assert.Equal(t, model.Clock{Hour: 8}, got.Time)
	assert.Equal(t, "#ff0000", got.Color)
	assert.True(t, got.Completed)
	assert.Equal(t, 1, s.Len())

	_, err = s.Edit(NoSelection)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestore(t *testing.T) {
	s := newTestStore(t, "a", "b", "c")

	taken, err := s.Edit(1)
	require.NoError(t, err)
	require.NoError(t, s.Restore(1, taken))
	assert.Equal(t, []string{"a", "b", "c"}, descriptions(s.List()))

	require.NoError(t, s.Restore(99, model.Task{Description: "z", Color: model.DefaultColor}))
	require.NoError(t, s.Restore(-3, model.Task{Description: "y", Color: model.DefaultColor}))
	assert.Equal(t, []string{"y", "a", "b", "c", "z"}, descriptions(s.List()))

	assert.ErrorIs(t, s.Restore(0, model.Task{Color: model.DefaultColor}), ErrValidation)
}

func TestCompleteOnlyFlagsTask(t *testing.T) {
	s := newTestStore(t, "a")
	before := s.List()[0]

	require.NoError(t, s.Complete(0))
	after := s.List()[0]
	assert.True(t, after.Completed)
	assert.Equal(t, model.CompletedColor, after.DisplayColor())

	after.Completed = false
	assert.Equal(t, before, after)

	assert.ErrorIs(t, s.Complete(NoSelection), ErrNotFound)
}

func TestListIsACopy(t *testing.T) {
	s := newTestStore(t, "a")
	tasks := s.List()
	tasks[0].Description = "changed"
	assert.Equal(t, "a", s.List()[0].Description)
}

func TestDue(t *testing.T) {
	now := time.Date(2024, time.June, 1, 14, 30, 12, 0, time.Local)

	t.Run("fires one matching task per call", func(t *testing.T) {
		s := New(nil)
		_, _ = s.Add("later", june1, model.Clock{Hour: 15}, model.DefaultColor)
		_, _ = s.Add("first", june1, halfTwo, model.DefaultColor)
		_, _ = s.Add("second", june1, halfTwo, model.DefaultColor)

		got, ok := s.Due(now, false)
		require.True(t, ok)
		assert.Equal(t, "first", got.Description)
		assert.Equal(t, []string{"later", "second"}, descriptions(s.List()))

		got, ok = s.Due(now, false)
		require.True(t, ok)
		assert.Equal(t, "second", got.Description)

		_, ok = s.Due(now, false)
		assert.False(t, ok)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("exact minute only", func(t *testing.T) {
		s := newTestStore(t, "missed")
		_, ok := s.Due(now.Add(time.Minute), false)
		assert.False(t, ok)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("catch up fires missed minutes", func(t *testing.T) {
		s := newTestStore(t, "missed")
		got, ok := s.Due(now.Add(2*time.Hour), true)
		require.True(t, ok)
		assert.Equal(t, "missed", got.Description)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("catch up ignores future tasks", func(t *testing.T) {
		s := newTestStore(t, "future")
		_, ok := s.Due(now.Add(-time.Minute), true)
		assert.False(t, ok)
	})
}

func TestErrorKindsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrValidation, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrFormat))
}

func descriptions(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Description
	}
	return out
}
