package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Layouts used for display and for the task file.
const (
	DateLayout  = "02.01.2006"
	ClockLayout = "15:04"
)

const (
	DefaultColor   = "#3742fa"
	CompletedColor = "#95a5a6"
)

// ErrFormat reports a date, time or color that cannot be parsed.
var ErrFormat = errors.New("invalid format")

// Task represents a single scheduled task.
type Task struct {
	ID          string
	Description string
	Date        Date
	Time        Clock
	Color       string
	Completed   bool
}

// DisplayColor is the color the task is rendered with.
func (t Task) DisplayColor() string {
	if t.Completed {
		return CompletedColor
	}
	return t.Color
}

// At returns the scheduled moment in loc.
func (t Task) At(loc *time.Location) time.Time {
	return time.Date(t.Date.Year, t.Date.Month, t.Date.Day, t.Time.Hour, t.Time.Minute, 0, 0, loc)
}

// IsDueAt reports whether the task is scheduled for the same minute as now.
func (t Task) IsDueAt(now time.Time) bool {
	return t.Date == DateOf(now) && t.Time == ClockOf(now)
}

// IsPastAt reports whether the scheduled minute is at or before now.
func (t Task) IsPastAt(now time.Time) bool {
	return !t.At(now.Location()).After(now.Truncate(time.Minute))
}

// Date is a calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a dd.MM.yyyy date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q, want dd.MM.yyyy", ErrFormat, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Clock is a time of day at minute granularity.
type Clock struct {
	Hour   int
	Minute int
}

// ClockOf returns the hour and minute of t.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseClock parses an HH:mm time.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("%w: time %q, want HH:mm", ErrFormat, s)
	}
	return ClockOf(t), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// NormalizeColor validates a #rrggbb color and returns it in lowercase.
func NormalizeColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return "", fmt.Errorf("%w: color %q, want #rrggbb", ErrFormat, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w: color %q, want #rrggbb", ErrFormat, s)
	}
	return c.Hex(), nil
}
