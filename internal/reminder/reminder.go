// Package reminder drives the periodic scan for tasks that are due.
package reminder

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/planner/internal/model"
	"github.com/nissyi-gh/planner/internal/store"
)

// DefaultInterval is the period between two scans.
const DefaultInterval = time.Minute

// Scanner checks a store for due tasks.
type Scanner struct {
	Store   *store.TaskStore
	CatchUp bool
	Now     func() time.Time
}

// NewScanner returns a scanner using the wall clock.
func NewScanner(s *store.TaskStore, catchUp bool) *Scanner {
	return &Scanner{Store: s, CatchUp: catchUp, Now: time.Now}
}

// Tick runs one scan. It removes and returns at most one due task.
func (sc *Scanner) Tick() (model.Task, time.Time, bool) {
	now := sc.now()
	t, ok := sc.Store.Due(now, sc.CatchUp)
	return t, now, ok
}

func (sc *Scanner) now() time.Time {
	if sc.Now == nil {
		return time.Now()
	}
	return sc.Now()
}

// Run scans every interval until ctx is done, calling notify for each task
// that fires. Scans happen on the calling goroutine.
func Run(ctx context.Context, sc *Scanner, interval time.Duration, notify func(model.Task, time.Time)) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if t, at, ok := sc.Tick(); ok {
				notify(t, at)
			}
		}
	}
}

// TickMsg is delivered to a Bubble Tea program when a scan is due.
type TickMsg time.Time

// TickCmd schedules the next TickMsg.
func TickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
