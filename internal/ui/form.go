package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nissyi-gh/planner/internal/model"
)

type formField int

const (
	fieldDescription formField = iota
	fieldDate
	fieldTime
	fieldColor
	fieldCount
)

var colorPalette = []string{"#3742fa", "#2ed573", "#ff4757", "#ffa502", "#1e90ff", "#a55eea", "#2f3542"}

var labelStyle = lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("241"))

// taskForm collects the fields of one task.
type taskForm struct {
	description textinput.Model
	date        segmentInput
	clock       segmentInput
	color       textinput.Model
	focus       formField
	completed   bool
}

func newTaskForm() taskForm {
	desc := textinput.New()
	desc.Placeholder = "Task description..."
	desc.CharLimit = 256

	color := textinput.New()
	color.Placeholder = "#rrggbb"
	color.CharLimit = 7
	color.Width = 8

	return taskForm{
		description: desc,
		date:        newDateField(),
		clock:       newClockField(),
		color:       color,
	}
}

// reset prepares the form for a new task.
func (f *taskForm) reset(now time.Time, color string) tea.Cmd {
	f.description.Reset()
	f.date.SetDate(model.DateOf(now))
	f.clock.SetClock(model.ClockOf(now))
	f.color.SetValue(color)
	f.completed = false
	return f.focusField(fieldDescription)
}

// load fills the form from an existing task.
func (f *taskForm) load(t model.Task) tea.Cmd {
	f.description.SetValue(t.Description)
	f.date.SetDate(t.Date)
	f.clock.SetClock(t.Time)
	f.color.SetValue(t.Color)
	f.completed = t.Completed
	return f.focusField(fieldDescription)
}

// task reads the form. Errors wrap model.ErrFormat.
func (f *taskForm) task() (model.Task, error) {
	date, err := f.date.Date()
	if err != nil {
		return model.Task{}, err
	}
	clock, err := f.clock.Clock()
	if err != nil {
		return model.Task{}, err
	}
	color, err := model.NormalizeColor(f.color.Value())
	if err != nil {
		return model.Task{}, err
	}
	return model.Task{
		Description: f.description.Value(),
		Date:        date,
		Time:        clock,
		Color:       color,
		Completed:   f.completed,
	}, nil
}

// nextColor cycles the color field through the palette.
func (f *taskForm) nextColor() {
	current, _ := model.NormalizeColor(f.color.Value())
	next := colorPalette[0]
	for i, c := range colorPalette {
		if c == current {
			next = colorPalette[(i+1)%len(colorPalette)]
			break
		}
	}
	f.color.SetValue(next)
}

// shiftDate moves the date field by days, starting from today if it is invalid.
func (f *taskForm) shiftDate(days int, today time.Time) {
	d, err := f.date.Date()
	base := today
	if err == nil {
		base = time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	}
	f.date.SetDate(model.DateOf(base.AddDate(0, 0, days)))
}

func (f *taskForm) focusField(field formField) tea.Cmd {
	f.focus = field
	f.description.Blur()
	f.date.Blur()
	f.clock.Blur()
	f.color.Blur()
	switch field {
	case fieldDate:
		return f.date.Focus()
	case fieldTime:
		return f.clock.Focus()
	case fieldColor:
		return f.color.Focus()
	default:
		return f.description.Focus()
	}
}

func (f taskForm) Update(msg tea.Msg, today time.Time) (taskForm, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab":
			cmd := f.focusField((f.focus + 1) % fieldCount)
			return f, cmd
		case "shift+tab":
			cmd := f.focusField((f.focus + fieldCount - 1) % fieldCount)
			return f, cmd
		case "ctrl+n":
			f.nextColor()
			return f, nil
		case "up":
			if f.focus == fieldDate {
				f.shiftDate(-1, today)
				return f, nil
			}
		case "down":
			if f.focus == fieldDate {
				f.shiftDate(1, today)
				return f, nil
			}
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	case fieldTime:
		f.clock, cmd = f.clock.Update(msg)
	case fieldColor:
		f.color, cmd = f.color.Update(msg)
	default:
		f.description, cmd = f.description.Update(msg)
	}
	return f, cmd
}

func (f taskForm) View(today time.Time) string {
	swatch := "  "
	if c, err := model.NormalizeColor(f.color.Value()); err == nil {
		swatch = lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("  ")
	}

	rows := []string{
		labelStyle.Render("Task") + f.description.View(),
		labelStyle.Render("Date") + f.date.View(),
		labelStyle.Render("Time") + f.clock.View(),
		labelStyle.Render("Color") + f.color.View() + " " + swatch,
	}
	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	selected, err := f.date.Date()
	if err != nil {
		selected = model.DateOf(today)
	}
	cal := detailStyle.Render(renderMonth(selected, model.DateOf(today)))
	return lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", cal)
}
