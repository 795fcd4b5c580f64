package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"clickclock/internal/history"
	"clickclock/internal/stopwatch"
	"clickclock/internal/timeinfo"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	buttonDangerStyle = buttonStyle.
				Background(lipgloss.Color("160"))

	buttonDisabledStyle = buttonStyle.
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("238"))

	statusErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func (m *Model) header() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(60).Render("click clock"))
	sb.WriteString("\n")

	tabs := make([]string, len(screenNames))
	for i, name := range screenNames {
		if Screen(i) == m.Screen {
			tabs[i] = tabActiveStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	sb.WriteString("\n\n")
	return sb.String()
}

func (m *Model) worldView() string {
	var sb strings.Builder
	sb.WriteString(m.header())
	sb.WriteString(boxStyle.Width(60).Render(m.Input.View()))
	sb.WriteString("\n\n")

	var result string
	switch {
	case m.Loading:
		result = inactiveStyle.Render("Fetching time...")
	case m.Result != nil:
		result = renderResult(*m.Result, m.feedback.Label())
	default:
		result = inactiveStyle.Render("Result Here")
	}
	sb.WriteString(boxStyle.Width(60).Render(result))
	sb.WriteString("\n")

	if m.Status != "" {
		sb.WriteString(statusErrStyle.Render(m.Status))
	}
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Fetch: Enter | Copy: Ctrl+Y | Switch: Tab | Quit: Esc"))
	return sb.String()
}

func renderResult(r timeinfo.Result, copyLabel string) string {
	var sb strings.Builder
	sb.WriteString(logHeaderStyle.Render(r.Heading() + ":"))
	sb.WriteString("\n")
	for _, l := range timeinfo.Format(r) {
		sb.WriteString(l.String())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(buttonStyle.Render(copyLabel))
	return sb.String()
}

func (m *Model) stopwatchView() string {
	var sb strings.Builder
	sb.WriteString(m.header())

	elapsed := stopwatch.FormatElapsed(m.stopwatch.Elapsed())
	if m.stopwatch.Running() {
		elapsed = timerRunningStyle.Render(elapsed)
	} else {
		elapsed = timerDisplayStyle.Render(elapsed)
	}

	reset := buttonDisabledStyle.Render("Reset")
	if m.stopwatch.CanReset() {
		reset = buttonDangerStyle.Render("Reset")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		buttonStyle.Render(m.stopwatch.Label()),
		"  ",
		reset,
	)

	body := lipgloss.JoinVertical(lipgloss.Center, elapsed, "", buttons)
	sb.WriteString(boxStyle.Width(60).Align(lipgloss.Center).Render(body))
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Toggle: Space | Reset: r | Switch: Tab | Quit: q"))
	return sb.String()
}

func (m *Model) historyView() string {
	var sb strings.Builder
	sb.WriteString(m.header())

	var lines []string
	switch {
	case m.repo == nil:
		lines = append(lines, inactiveStyle.Render("History is disabled."))
	case m.HistoryErr != nil:
		lines = append(lines, statusErrStyle.Render(fmt.Sprintf("Could not load history: %v", m.HistoryErr)))
	case len(m.Lookups) == 0 && len(m.Sessions) == 0:
		lines = append(lines, inactiveStyle.Render("Nothing here yet."))
	default:
		lines = m.historyLines()
	}

	start := min(m.HistoryScroll, max(len(lines)-1, 0))
	end := min(start+15, len(lines))
	sb.WriteString(boxStyle.Width(60).Render(strings.Join(lines[start:end], "\n")))
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Scroll: Up/Down | Reload: R | Switch: Tab | Quit: q"))
	return sb.String()
}

func (m *Model) historyLines() []string {
	var lines []string
	if len(m.Lookups) > 0 {
		lines = append(lines, logHeaderStyle.Render("Recent Lookups"))
		for _, l := range m.Lookups {
			lines = append(lines, formatLookup(l))
		}
	}
	if len(m.Sessions) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, logHeaderStyle.Render("Stopwatch Sessions"))
		for _, s := range m.Sessions {
			lines = append(lines, formatSession(s))
		}
	}
	return lines
}

func formatLookup(l history.Lookup) string {
	at := logTimeStyle.Render(l.LookedUpAt.Local().Format("Jan 02 15:04"))
	return fmt.Sprintf("  %s  %s %s %s", at, logTagStyle.Render(l.Timezone), l.Time, l.UTCLabel)
}

func formatSession(s history.Session) string {
	at := logTimeStyle.Render(s.StoppedAt.Local().Format("Jan 02 15:04"))
	return fmt.Sprintf("  %s  %s", at, stopwatch.FormatElapsed(s.Elapsed))
}
