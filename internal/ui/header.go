package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := "  "

	parts := []string{styles.Logo.Render("vantage")}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, styles.DangerText.Render("PLATFORM UNREACHABLE"))
		parts = append(parts, styles.WarningText.Render("Retrying..."))
	case m.snapshot.LastError != nil:
		parts = append(parts, styles.WarningText.Render("poll error: "+truncate(m.snapshot.LastError.Error(), 48)))
	default:
		running := 0
		for _, pod := range m.snapshot.Pods {
			if strings.EqualFold(pod.Phase, "running") {
				running++
			}
		}
		problems := 0
		for _, target := range m.visibleAllTargets() {
			if isProblemStatus(target.Status) {
				problems++
			}
		}
		parts = append(parts, styles.Text.Render(fmt.Sprintf("%d pods", len(m.snapshot.Pods))))
		parts = append(parts, styles.Text.Render(fmt.Sprintf("%d jobs", len(m.snapshot.Jobs))))
		parts = append(parts, styles.SuccessText.Render(fmt.Sprintf("%d running", running)))
		if problems > 0 {
			parts = append(parts, styles.DangerText.Render(fmt.Sprintf("%d problems", problems)))
		}
	}

	if !m.lastUpdated.IsZero() {
		parts = append(parts, styles.MutedText.Render(m.lastUpdated.Format("15:04:05")))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Render(" " + strings.Join(parts, sep))
}

// visibleAllTargets lists every target regardless of the active filter.
func (m Model) visibleAllTargets() []Target {
	saved := m.filterMode
	m.filterMode = FilterAll
	targets := m.visibleTargets()
	m.filterMode = saved
	return targets
}

// renderCommandBar renders the key hints line.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	hints := []struct{ key, desc string }{
		{"enter", "logs"},
		{"f", "filter: " + m.filterLabel()},
		{"space", "follow"},
		{"/", "search"},
		{"T", "theme"},
		{"?", "help"},
		{"e", "exit"},
	}

	var parts []string
	for _, hint := range hints {
		parts = append(parts, styles.AccentText.Render("<"+hint.key+">")+" "+styles.MutedText.Render(hint.desc))
	}

	return " " + strings.Join(parts, styles.FaintText.Render("  "))
}
