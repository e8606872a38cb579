// Package agenda renders tasks as text lines, day agendas and iCalendar data.
package agenda

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nissyi-gh/planner/internal/model"
)

const (
	icsDateTimeLayout = "20060102T150405"
	eventLength       = 15 * time.Minute
)

// Line renders a task the way the list shows it: "dd.MM.yyyy HH:mm - text".
func Line(t model.Task) string {
	return fmt.Sprintf("%s %s - %s", t.Date, t.Time, t.Description)
}

// Text returns the tasks scheduled on day, ordered by time.
func Text(tasks []model.Task, day model.Date) string {
	var todays []model.Task
	for _, t := range tasks {
		if t.Date == day {
			todays = append(todays, t)
		}
	}
	sort.SliceStable(todays, func(i, j int) bool {
		a, b := todays[i].Time, todays[j].Time
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		return a.Minute < b.Minute
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Agenda for %s\n", day))
	if len(todays) == 0 {
		sb.WriteString("No tasks\n")
		return sb.String()
	}
	for _, t := range todays {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		sb.WriteString(fmt.Sprintf("%s %s - %s\n", check, t.Time, t.Description))
	}
	return sb.String()
}

// ICS builds an iCalendar document with one event per task. Times are
// written as floating local times.
func ICS(tasks []model.Task, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Planner//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format("20060102T150405Z")
	for i, t := range tasks {
		start := t.At(time.Local)
		uid := fmt.Sprintf("task-%s@planner", t.ID)
		if t.ID == "" {
			uid = fmt.Sprintf("task-export-%d-%d@planner", now.UnixNano(), i)
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText(uid),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(t.Description),
			"DTSTART:"+start.Format(icsDateTimeLayout),
			"DTEND:"+start.Add(eventLength).Format(icsDateTimeLayout),
			"END:VEVENT",
		)
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
