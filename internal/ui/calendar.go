package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/nissyi-gh/planner/internal/model"
)

var (
	calHeaderStyle   = lipgloss.NewStyle().Bold(true)
	calSelectedStyle = lipgloss.NewStyle().Reverse(true)
	calTodayStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("170"))
)

// renderMonth draws the month of selected as a Monday-first grid.
func renderMonth(selected, today model.Date) string {
	first := time.Date(selected.Year, selected.Month, 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()
	offset := (int(first.Weekday()) + 6) % 7

	var sb strings.Builder
	title := fmt.Sprintf("%s %d", selected.Month, selected.Year)
	sb.WriteString(calHeaderStyle.Render(fmt.Sprintf("%-20s", center(title, 20))))
	sb.WriteString("\nMo Tu We Th Fr Sa Su\n")

	col := 0
	for ; col < offset; col++ {
		sb.WriteString("   ")
	}
	for day := 1; day <= daysIn; day++ {
		cell := fmt.Sprintf("%2d", day)
		d := model.Date{Year: selected.Year, Month: selected.Month, Day: day}
		switch d {
		case selected:
			cell = calSelectedStyle.Render(cell)
		case today:
			cell = calTodayStyle.Render(cell)
		}
		sb.WriteString(cell)
		col++
		if col == 7 {
			sb.WriteString("\n")
			col = 0
		} else if day < daysIn {
			sb.WriteString(" ")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
