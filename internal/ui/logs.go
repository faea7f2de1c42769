package ui

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"vantage/internal/api"
	"vantage/internal/stream"
)

const tailMailboxSize = 8

// logState holds all log-related state.
type logState struct {
	target  *Target
	lines   []string
	follow  bool
	err     string
	seq     int
	session *tailSession

	// Search
	searchActive bool
	searchQuery  string
	searchRegex  *regexp.Regexp
	searchInput  textinput.Model

	// Content caching - skip re-render when unchanged
	contentVersion uint64
	lastRendered   uint64
}

// tailSession carries one live tail: the decoder handle plus the mailbox the
// decoder callbacks post into. The mailbox keeps only the newest window so a
// slow renderer never blocks the read loop.
type tailSession struct {
	seq    int
	cancel context.CancelFunc
	handle *stream.Handle
	msgs   chan tea.Msg
}

// push delivers a message, evicting the oldest queued one when full. Every
// lines message carries the complete current window, so dropping a stale one
// loses nothing.
func (s *tailSession) push(msg tea.Msg) {
	for {
		select {
		case s.msgs <- msg:
			return
		default:
			select {
			case <-s.msgs:
			default:
			}
		}
	}
}

func (s *tailSession) stop() {
	s.cancel()
	if s.handle != nil {
		s.handle.Cancel()
	}
}

// Messages

type tailStartedMsg struct {
	seq     int
	session *tailSession
}

type logLinesMsg struct {
	seq   int
	lines []string
}

type logErrMsg struct {
	seq int
	err error
}

type tailDoneMsg struct {
	seq int
}

// initLogState initializes the log state.
func (m *Model) initLogState() {
	m.logState = logState{follow: m.followDefault}
	m.logState.searchInput = newSearchInput()
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(m.width-2, m.height-4)
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	if m.logViewport.Width == 0 {
		m.initLogViewport()
	}
	m.logViewport.Width = m.width - 2
	m.logViewport.Height = m.height - 4

	if m.logState.lastRendered == 0 || m.logState.contentVersion != m.logState.lastRendered {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.lastRendered = m.logState.contentVersion
		if m.logState.lastRendered == 0 {
			m.logState.lastRendered = 1
		}
	}

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// startTail opens the log stream for the target and starts a decoder session.
// The handshake happens inside the command so the UI loop never blocks on the
// HTTP dial.
func (m *Model) startTail(target Target) tea.Cmd {
	m.stopTail()
	m.logState.seq++
	m.logState.target = &target
	m.logState.lines = nil
	m.logState.err = ""
	m.logState.follow = m.followDefault
	m.logState.contentVersion++

	seq := m.logState.seq
	maxLines := m.maxLines()
	ctx, cancel := context.WithCancel(m.ctx)
	client := m.client
	logger := m.logger

	return func() tea.Msg {
		query := api.LogStreamQuery{Follow: true, TailLines: maxLines}

		var (
			body io.ReadCloser
			err  error
		)
		switch target.Kind {
		case KindJob:
			body, err = client.OpenJobLogStream(ctx, target.Name, query)
		default:
			body, err = client.OpenPodLogStream(ctx, target.Name, query)
		}
		if err != nil {
			cancel()
			return logErrMsg{seq: seq, err: err}
		}

		session := &tailSession{
			seq:    seq,
			cancel: cancel,
			msgs:   make(chan tea.Msg, tailMailboxSize),
		}
		handle, err := stream.Start(body, maxLines,
			func(lines []string) { session.push(logLinesMsg{seq: seq, lines: lines}) },
			func(err error) { session.push(logErrMsg{seq: seq, err: err}) },
		)
		if err != nil {
			cancel()
			_ = body.Close()
			return logErrMsg{seq: seq, err: err}
		}
		session.handle = handle

		logger.Debug("tail started", "kind", target.kindLabel(), "name", target.Name)

		// Close the mailbox once the read loop exits so the listener stops.
		go func() {
			<-handle.Done()
			close(session.msgs)
		}()

		return tailStartedMsg{seq: seq, session: session}
	}
}

// stopTail cancels the active tail session, if any.
func (m *Model) stopTail() {
	if m.logState.session != nil {
		m.logState.session.stop()
		m.logState.session = nil
	}
	// Invalidate anything still in flight.
	m.logState.seq++
}

// listenTailCmd waits for the next message from the tail mailbox.
func listenTailCmd(session *tailSession) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-session.msgs
		if !ok {
			return tailDoneMsg{seq: session.seq}
		}
		return msg
	}
}

func (m Model) handleTailStarted(msg tailStartedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.logState.seq {
		// The user already moved on; shut the late session down.
		msg.session.stop()
		return m, nil
	}
	m.logState.session = msg.session
	return m, listenTailCmd(msg.session)
}

func (m Model) handleLogLines(msg logLinesMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.logState.seq {
		return m, nil
	}
	m.logState.lines = msg.lines
	m.logState.contentVersion++
	m.updateLogViewport()
	if m.logState.session == nil {
		return m, nil
	}
	return m, listenTailCmd(m.logState.session)
}

func (m Model) handleLogError(msg logErrMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.logState.seq {
		return m, nil
	}
	// Buffered lines stay visible; the error only replaces further updates.
	m.logState.err = msg.err.Error()
	m.logger.Warn("tail failed", "error", msg.err)
	if m.logState.session == nil {
		return m, nil
	}
	return m, listenTailCmd(m.logState.session)
}

func (m Model) handleTailDone(msg tailDoneMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.logState.seq {
		return m, nil
	}
	m.logState.session = nil
	return m, nil
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		m.logState.follow = !m.logState.follow
		m.updateLogViewport()
		return m, nil

	case "/":
		m.logState.searchActive = true
		m.logState.searchInput.SetValue(m.logState.searchQuery)
		m.logState.searchInput.Focus()
		return m, textinput.Blink

	case "c":
		// Clear search
		m.logState.searchQuery = ""
		m.logState.searchRegex = nil
		m.logState.contentVersion++
		m.updateLogViewport()
		return m, nil

	case "j", "down":
		m.logState.follow = false
		m.logViewport.ScrollDown(1)
		return m, nil
	case "k", "up":
		m.logState.follow = false
		m.logViewport.ScrollUp(1)
		return m, nil
	case "ctrl+d":
		m.logState.follow = false
		m.logViewport.HalfPageDown()
		return m, nil
	case "ctrl+u":
		m.logState.follow = false
		m.logViewport.HalfPageUp()
		return m, nil
	case "g":
		m.logState.follow = false
		m.logViewport.GotoTop()
		return m, nil
	case "G":
		m.logState.follow = true
		m.logViewport.GotoBottom()
		return m, nil
	}

	return m, nil
}

// handleSearchKey processes input while the search prompt is open.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := strings.TrimSpace(m.logState.searchInput.Value())
		m.logState.searchActive = false
		m.logState.searchQuery = query
		m.logState.searchRegex = nil
		if query != "" {
			re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
			if err == nil {
				m.logState.searchRegex = re
			}
		}
		m.logState.contentVersion++
		m.updateLogViewport()
		return m, nil

	case "esc":
		m.logState.searchActive = false
		return m, nil
	}

	var cmd tea.Cmd
	m.logState.searchInput, cmd = m.logState.searchInput.Update(msg)
	return m, cmd
}

// displayLines applies the search filter to the buffered window.
func (m Model) displayLines() []string {
	if m.logState.searchRegex == nil {
		return m.logState.lines
	}
	var filtered []string
	for _, line := range m.logState.lines {
		if m.logState.searchRegex.MatchString(line) {
			filtered = append(filtered, line)
		}
	}
	return filtered
}

// renderLogContent builds the viewport content.
func (m Model) renderLogContent() string {
	lines := m.displayLines()
	if len(lines) == 0 {
		if m.logState.searchRegex != nil {
			return "No lines match: " + m.logState.searchQuery
		}
		return "Waiting for log output..."
	}
	return strings.Join(lines, "\n")
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	title := "Logs"
	if m.logState.target != nil {
		title = fmt.Sprintf("Logs · %s/%s", m.logState.target.kindLabel(), m.logState.target.Name)
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(" " + title))
	b.WriteString("\n")
	b.WriteString(m.logViewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderLogStatus(styles))
	return b.String()
}

// renderLogStatus renders the line under the log viewport.
func (m Model) renderLogStatus(styles Styles) string {
	var parts []string

	if m.logState.searchActive {
		return " " + m.logState.searchInput.View()
	}

	if m.logState.err != "" {
		parts = append(parts, styles.DangerText.Render("stream error: "+m.logState.err))
	} else if m.logState.follow {
		parts = append(parts, styles.SuccessText.Render("following"))
	} else {
		parts = append(parts, styles.WarningText.Render("paused"))
	}

	parts = append(parts, styles.MutedText.Render(fmt.Sprintf("%d/%d lines", len(m.displayLines()), m.maxLines())))

	if m.logState.searchQuery != "" {
		parts = append(parts, styles.InfoText.Render("filter: "+m.logState.searchQuery))
	}

	return " " + strings.Join(parts, styles.FaintText.Render("  ·  "))
}

// maxLines returns the configured log window bound.
func (m Model) maxLines() int {
	if m.config != nil && m.config.MaxLines > 0 {
		return m.config.MaxLines
	}
	return 500
}
