package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// TargetKind separates pod streams from job-run streams.
type TargetKind int

const (
	KindPod TargetKind = iota
	KindJob
)

// Target is one tailable row in the targets table: a pod or a job run.
type Target struct {
	Kind       TargetKind
	Name       string
	Status     string
	GPUProfile string
	GPUCount   int
	Node       string
	Detail     string
}

func (t Target) kindLabel() string {
	if t.Kind == KindJob {
		return "job"
	}
	return "pod"
}

// problemStatuses marks target states worth surfacing under the Problems filter.
var problemStatuses = map[string]struct{}{
	"failed":           {},
	"error":            {},
	"crashloopbackoff": {},
	"imagepullbackoff": {},
	"evicted":          {},
}

func isProblemStatus(status string) bool {
	_, ok := problemStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

// visibleTargets flattens the snapshot into the filtered, sorted target list.
// Problems sort first, then running work, then the rest by name.
func (m Model) visibleTargets() []Target {
	var targets []Target

	if m.filterMode != FilterJobs {
		for _, pod := range m.snapshot.Pods {
			targets = append(targets, Target{
				Kind:       KindPod,
				Name:       pod.Name,
				Status:     pod.Phase,
				GPUProfile: pod.GPUProfile,
				GPUCount:   pod.GPUCount,
				Node:       pod.Node,
				Detail:     pod.JobName,
			})
		}
	}
	if m.filterMode != FilterPods {
		for _, job := range m.snapshot.Jobs {
			targets = append(targets, Target{
				Kind:       KindJob,
				Name:       job.Name,
				Status:     job.Status,
				GPUProfile: job.GPUProfile,
				GPUCount:   job.GPUCount,
				Node:       job.Node,
				Detail:     job.ErrorMessage,
			})
		}
	}

	if m.filterMode == FilterProblems {
		filtered := targets[:0]
		for _, t := range targets {
			if isProblemStatus(t.Status) {
				filtered = append(filtered, t)
			}
		}
		targets = filtered
	}

	sort.SliceStable(targets, func(i, j int) bool {
		pi, pj := statusRank(targets[i].Status), statusRank(targets[j].Status)
		if pi != pj {
			return pi < pj
		}
		if targets[i].Name != targets[j].Name {
			return targets[i].Name < targets[j].Name
		}
		return targets[i].Kind < targets[j].Kind
	})

	return targets
}

// statusRank orders statuses for display: problems, active, waiting, done.
func statusRank(status string) int {
	switch {
	case isProblemStatus(status):
		return 0
	case strings.EqualFold(status, "running"):
		return 1
	case strings.EqualFold(status, "pending"), strings.EqualFold(status, "scheduled"):
		return 2
	default:
		return 3
	}
}

// selectedTarget returns the highlighted target, or nil when the list is empty.
func (m Model) selectedTarget() *Target {
	targets := m.visibleTargets()
	if len(targets) == 0 {
		return nil
	}
	idx := m.selectedRow
	if idx < 0 {
		idx = 0
	}
	if idx >= len(targets) {
		idx = len(targets) - 1
	}
	target := targets[idx]
	return &target
}

// clampSelection keeps the cursor inside the current list after refreshes.
func (m *Model) clampSelection() {
	count := len(m.visibleTargets())
	if count == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// handleTargetsKey processes keyboard input for the targets view.
func (m Model) handleTargetsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.visibleTargets())
	if count == 0 {
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case "k", "up":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "g", "home":
		m.selectedRow = 0
	case "G", "end":
		m.selectedRow = count - 1
	}

	return m, nil
}

// renderTargets renders the targets table.
func (m Model) renderTargets() string {
	styles := m.theme.Styles()
	targets := m.visibleTargets()

	var b strings.Builder

	header := fmt.Sprintf("  %-5s %-32s %-12s %-14s %4s  %s",
		"KIND", "NAME", "STATUS", "GPU PROFILE", "GPUS", "NODE")
	b.WriteString(styles.MutedText.Bold(true).Render(header))
	b.WriteString("\n")

	if len(targets) == 0 {
		b.WriteString(styles.FaintText.Render("  Nothing to show for filter: " + m.filterLabel()))
		b.WriteString("\n")
		return b.String()
	}

	visibleRows := m.height - 4 // header, command bar, table header, status line
	if visibleRows < 1 {
		visibleRows = 1
	}
	first := 0
	if m.selectedRow >= visibleRows {
		first = m.selectedRow - visibleRows + 1
	}

	for i := first; i < len(targets) && i < first+visibleRows; i++ {
		target := targets[i]
		gpus := ""
		if target.GPUCount > 0 {
			gpus = fmt.Sprintf("%d", target.GPUCount)
		}
		row := fmt.Sprintf("  %-5s %-32s %-12s %-14s %4s  %s",
			target.kindLabel(),
			truncate(target.Name, 32),
			truncate(target.Status, 12),
			truncate(target.GPUProfile, 14),
			gpus,
			truncate(target.Node, 20),
		)

		if i == m.selectedRow {
			b.WriteString(styles.Selected.Render(row))
		} else {
			b.WriteString(styles.StatusStyle(target.Status).Render(row))
		}
		b.WriteString("\n")
	}

	return b.String()
}
