package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nissyi-gh/planner/internal/model"
)

// segmentInput is a row of short numeric fields, e.g. DD.MM.YYYY or HH:MM.
type segmentInput struct {
	fields []textinput.Model
	sep    string
	focus  int // 現在フォーカス中のフィールドインデックス
}

func newSegmentInput(sep string, placeholders []string, charLimits []int) segmentInput {
	fields := make([]textinput.Model, len(placeholders))
	for i := range placeholders {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = charLimits[i]
		ti.Width = charLimits[i] + 1
		ti.Validate = func(s string) error {
			for _, r := range s {
				if !unicode.IsDigit(r) {
					return fmt.Errorf("digits only")
				}
			}
			return nil
		}
		fields[i] = ti
	}
	return segmentInput{fields: fields, sep: sep}
}

func newDateField() segmentInput {
	return newSegmentInput(".", []string{"DD", "MM", "YYYY"}, []int{2, 2, 4})
}

func newClockField() segmentInput {
	return newSegmentInput(":", []string{"HH", "MM"}, []int{2, 2})
}

func (s *segmentInput) Focus() tea.Cmd {
	return s.focusField(0)
}

func (s *segmentInput) Blur() {
	for i := range s.fields {
		s.fields[i].Blur()
	}
}

func (s *segmentInput) setParts(parts ...string) {
	for i := range s.fields {
		if i < len(parts) {
			s.fields[i].SetValue(parts[i])
		} else {
			s.fields[i].SetValue("")
		}
	}
}

func (s *segmentInput) joined() (string, bool) {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		v := strings.TrimSpace(f.Value())
		if v == "" {
			return "", false
		}
		parts[i] = padLeft(v, s.fields[i].CharLimit)
	}
	return strings.Join(parts, s.sep), true
}

func (s *segmentInput) SetDate(d model.Date) {
	s.setParts(strings.Split(d.String(), ".")...)
}

func (s *segmentInput) Date() (model.Date, error) {
	v, ok := s.joined()
	if !ok {
		return model.Date{}, fmt.Errorf("%w: date is incomplete", model.ErrFormat)
	}
	return model.ParseDate(v)
}

func (s *segmentInput) SetClock(c model.Clock) {
	s.setParts(strings.Split(c.String(), ":")...)
}

func (s *segmentInput) Clock() (model.Clock, error) {
	v, ok := s.joined()
	if !ok {
		return model.Clock{}, fmt.Errorf("%w: time is incomplete", model.ErrFormat)
	}
	return model.ParseClock(v)
}

func padLeft(s string, length int) string {
	for len(s) < length {
		s = "0" + s
	}
	return s
}

func (s *segmentInput) focusField(idx int) tea.Cmd {
	s.focus = idx
	var cmds []tea.Cmd
	for i := range s.fields {
		if i == idx {
			cmds = append(cmds, s.fields[i].Focus())
		} else {
			s.fields[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

func (s segmentInput) Update(msg tea.Msg) (segmentInput, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "right", ".", ":":
			if s.focus < len(s.fields)-1 {
				cmd := s.focusField(s.focus + 1)
				return s, cmd
			}
			return s, nil
		case "left":
			if s.focus > 0 {
				cmd := s.focusField(s.focus - 1)
				return s, cmd
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s segmentInput) View() string {
	views := make([]string, len(s.fields))
	for i, f := range s.fields {
		views[i] = f.View()
	}
	return strings.Join(views, s.sep)
}
