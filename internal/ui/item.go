package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nissyi-gh/planner/internal/agenda"
	"github.com/nissyi-gh/planner/internal/model"
)

// TaskItem wraps model.Task to satisfy the list.Item interface.
type TaskItem struct {
	Task model.Task
}

func (i TaskItem) Title() string {
	check := "[ ]"
	if i.Task.Completed {
		check = "[x]"
	}
	return fmt.Sprintf("%s %s", check, agenda.Line(i.Task))
}

func (i TaskItem) FilterValue() string {
	return i.Task.Description
}

// taskDelegate renders each row in the task's own color.
type taskDelegate struct{}

func (taskDelegate) Height() int                             { return 1 }
func (taskDelegate) Spacing() int                            { return 0 }
func (taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ti.Task.DisplayColor()))
	cursor := "  "
	if index == m.Index() {
		cursor = "> "
		style = style.Bold(true)
	}
	fmt.Fprint(w, cursor+style.Render(ti.Title()))
}
