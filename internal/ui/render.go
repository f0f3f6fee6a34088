package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dori/worklog/internal/model"
	"github.com/dori/worklog/internal/period"
	"github.com/dori/worklog/internal/report"
	"github.com/dori/worklog/internal/session"
	"github.com/dori/worklog/internal/ui/theme"
)

// Placeholder shown in empty weekly cells
const emptyCell = "-"

func hours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

func money(r model.Project) string {
	if r.HourRate == nil {
		return "N/A"
	}
	return "$" + r.HourRate.StringFixed(2) + "/hour"
}

func newTable() *table.Table {
	s := theme.Current.Styles
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border)
}

// RenderProjects renders the project list
func RenderProjects(projects []model.Project) string {
	s := theme.Current.Styles
	if len(projects) == 0 {
		return s.Warning.Render("No projects found. Create one with 'work-log project-add <name>'")
	}

	t := newTable().Headers("ID", "Name", "Billing", "Rate")
	for _, p := range projects {
		t.Row(fmt.Sprint(p.ID), p.Name, p.BillingLabel(), money(p))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return s.Header
		case col == 0:
			return s.Muted.Padding(0, 1)
		case col == 1:
			return s.Project
		case col == 3:
			return s.Money.Padding(0, 1)
		default:
			return s.Cell
		}
	})

	return s.Title.Render("Projects") + "\n" + t.Render()
}

// RenderDaily renders a daily report: one table of entries per project,
// followed by the day's total.
func RenderDaily(rep *report.DailyReport) string {
	s := theme.Current.Styles
	if rep.IsEmpty() {
		return s.Warning.Render(fmt.Sprintf("No work entries for %s", rep.Day.Format(period.DayLayout)))
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Work Report for " + rep.Day.Format("Monday, January 02, 2006")))
	b.WriteString("\n\n")

	for _, p := range rep.Projects {
		line := s.Label.Render(p.Project.Name) + fmt.Sprintf(" - %s hours", hours(p.Hours()))
		if p.Billing != nil {
			line += s.Money.Render(fmt.Sprintf(" (%s at $%s/hour)", p.Billing, p.Billing.Rate.StringFixed(2)))
		}
		b.WriteString(line + "\n")
		b.WriteString(renderEntries(rep.Day, p) + "\n")
	}

	b.WriteString(s.Label.Render("Total Hours: " + hours(rep.TotalHours())))
	if total := rep.TotalBilling(); total != nil {
		b.WriteString(s.Money.Render("  Total Billed: $" + total.StringFixedBank(2)))
	}
	return b.String()
}

// clockOn formats t as a time of day, with the date when t falls outside day
func clockOn(day, t time.Time) string {
	if period.SameDay(day, t) {
		return t.Format("15:04")
	}
	return t.Format("Jan 02 15:04")
}

func renderEntries(day time.Time, p report.DailyProject) string {
	s := theme.Current.Styles
	t := newTable().Headers("Task", "Start", "End", "Hours")

	running := map[int]bool{}
	for i, e := range p.Entries {
		end, dur := "In progress", "N/A"
		if e.EndTime != nil {
			end = clockOn(day, *e.EndTime)
		}
		if h, ok := e.DurationHours(); ok {
			dur = hours(h)
		} else {
			running[i] = true
		}
		t.Row(e.Description, clockOn(day, e.StartTime), end, dur)
	}
	totalRow := len(p.Entries)
	t.Row("TOTAL", "", "", hours(p.Hours()))

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return s.Header
		case row == totalRow:
			return s.Total
		case running[row] && col >= 2:
			return s.Running
		case col == 1 || col == 2:
			return s.Time
		case col == 3:
			return s.Hours.Align(lipgloss.Right)
		default:
			return s.Cell
		}
	})
	return t.Render()
}

// RenderWeekly renders a weekly summary: projects by day, day totals,
// billing per project and the grand total.
func RenderWeekly(rep *report.WeeklyReport) string {
	s := theme.Current.Styles
	if rep.IsEmpty() {
		return s.Warning.Render(fmt.Sprintf("No work entries for week of %s to %s",
			rep.WeekStart.Format(period.DayLayout), rep.WeekEnd.Format(period.DayLayout)))
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("Weekly Work Report (%s - %s)",
		rep.WeekStart.Format("Jan 02"), rep.WeekEnd.Format("Jan 02, 2006"))))
	b.WriteString("\n")

	headers := []string{"Project"}
	for _, d := range rep.Days {
		headers = append(headers, d.Format("Mon 02"))
	}
	headers = append(headers, "Total")
	t := newTable().Headers(headers...)

	for _, p := range rep.Projects {
		name := p.Project.Name
		if p.InProgress() {
			name += " *"
		}
		row := []string{name}
		for _, bucket := range p.Days {
			if bucket.IsEmpty() {
				row = append(row, emptyCell)
			} else {
				row = append(row, hours(bucket.Hours()))
			}
		}
		row = append(row, hours(p.Hours()))
		t.Row(row...)
	}

	totals := []string{"TOTAL"}
	for i := range rep.DayTotals {
		if rep.DayTotals[i] > 0 {
			totals = append(totals, hours(rep.DayHours(i)))
		} else {
			totals = append(totals, emptyCell)
		}
	}
	totals = append(totals, hours(rep.TotalHours()))
	t.Row(totals...)

	totalRow := len(rep.Projects)
	lastCol := len(headers) - 1
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return s.Header
		case row == totalRow:
			return s.Total
		case col == 0:
			return s.Project
		case col == lastCol:
			return s.Hours.Bold(true)
		default:
			return s.Hours
		}
	})
	b.WriteString(t.Render() + "\n")

	var inProgress bool
	for _, p := range rep.Projects {
		if p.InProgress() {
			inProgress = true
		}
		if p.Billing == nil {
			continue
		}
		b.WriteString(s.Label.Render(p.Project.Name) + s.Money.Render(fmt.Sprintf(": %s hours × $%s/hour = %s",
			hours(p.Hours()), p.Billing.Rate.StringFixed(2), p.Billing)) + "\n")
	}
	if inProgress {
		b.WriteString(s.Running.UnsetPadding().Render("* has work in progress") + "\n")
	}

	b.WriteString(s.Label.Render("Total Hours: " + hours(rep.TotalHours())))
	return b.String()
}

// RenderStatus renders the current session state as a panel
func RenderStatus(st session.Status) string {
	s := theme.Current.Styles
	if st.State != session.Active || st.Entry == nil {
		return s.Warning.Render("No active work")
	}

	projectName := fmt.Sprintf("#%d (deleted)", st.Entry.ProjectID)
	if st.Project != nil {
		projectName = st.Project.Name
	}

	lines := []string{
		s.Label.Render("Currently working on: ") + s.Success.Bold(true).Render(st.Entry.Description),
		s.Label.Render("Project: ") + s.Time.UnsetPadding().Render(projectName),
		s.Label.Render("Started at: ") + s.Money.Render(st.Entry.StartTime.Format("15:04:05")),
		s.Label.Render("Elapsed time: ") + s.Error.Render(fmt.Sprintf("%s hours (%s)", hours(st.ElapsedHours()), clock(st.Elapsed))),
	}
	return s.PanelTitle.Render("Work Status") + "\n" + s.Panel.Render(strings.Join(lines, "\n"))
}

// clock formats a duration as H:MM:SS
func clock(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
}
