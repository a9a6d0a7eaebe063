package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/clipforge/clipforge/internal/errors"
	"github.com/clipforge/clipforge/internal/event"
	"github.com/clipforge/clipforge/internal/recorder"
	"github.com/clipforge/clipforge/internal/tui/styles"
)

// refreshInterval drives view redraws between bus events.
const refreshInterval = 500 * time.Millisecond

// Options tunes the recording view.
type Options struct {
	// MaxDuration stops the recording automatically when reached. Zero
	// disables the limit.
	MaxDuration time.Duration
}

type tickMsg time.Time

// busMsg carries an orchestrator event into the update loop.
type busMsg struct {
	event event.Event
}

type startedMsg struct {
	snap recorder.Snapshot
	err  error
}

type stopDoneMsg struct {
	snap recorder.Snapshot
	err  error
}

// opFailedMsg reports a rejected pause or resume.
type opFailedMsg struct {
	err error
}

// Model is the interactive recording view. It starts the session on init
// and drives pause, resume, and stop from key presses.
type Model struct {
	orch *recorder.Orchestrator
	cfg  recorder.Config
	opts Options

	snap     recorder.Snapshot
	result   recorder.Snapshot
	err      error
	notice   string
	stopping bool
	done     bool
}

// NewModel creates the recording view model.
func NewModel(orch *recorder.Orchestrator, cfg recorder.Config, opts Options) Model {
	return Model{orch: orch, cfg: cfg, opts: opts}
}

// Init starts the recording session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.orch.Start(m.cfg)
		return startedMsg{snap: snap, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.orch.Stop(context.Background())
		return stopDoneMsg{snap: snap, err: err}
	}
}

func (m Model) pauseCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.orch.Pause(); err != nil {
			return opFailedMsg{err: err}
		}
		return nil
	}
}

func (m Model) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.orch.Resume(); err != nil {
			return opFailedMsg{err: err}
		}
		return nil
	}
}

// Update handles key presses, ticks, and orchestrator events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.done = true
			return m, tea.Quit
		}
		m.snap = msg.snap
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.snap = m.orch.State()
		if m.shouldAutoStop() {
			return m.requestStop()
		}
		return m, tick()

	case busMsg:
		return m.handleEvent(msg.event), nil

	case stopDoneMsg:
		m.done = true
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.result = msg.snap
		}
		return m, tea.Quit

	case opFailedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "p":
		return m, m.pauseCmd()
	case "r":
		return m, m.resumeCmd()
	case "s", "q", "ctrl+c":
		return m.requestStop()
	}
	return m, nil
}

func (m Model) requestStop() (tea.Model, tea.Cmd) {
	if m.stopping || m.done {
		return m, nil
	}
	m.stopping = true
	m.snap.Status = recorder.StatusStopping
	return m, m.stopCmd()
}

func (m Model) shouldAutoStop() bool {
	return m.opts.MaxDuration > 0 && !m.stopping &&
		m.snap.DurationSeconds >= m.opts.MaxDuration.Seconds()
}

func (m Model) handleEvent(e event.Event) Model {
	switch e := e.(type) {
	case event.DurationUpdateEvent:
		m.snap.DurationSeconds = e.DurationSeconds
	case event.RecordingFailedEvent:
		m.notice = e.Message
		if e.Suggestion != "" {
			m.notice += " (" + e.Suggestion + ")"
		}
	case event.DiskSpaceWarningEvent:
		m.notice = fmt.Sprintf("low disk space: %d MB left", e.AvailableMB)
	}
	return m
}

// Result returns the final snapshot after a successful stop.
func (m Model) Result() recorder.Snapshot {
	return m.result
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the recording panel.
func (m Model) View() string {
	if m.done {
		return m.finalView()
	}

	dot := lipgloss.NewStyle().Foreground(statusColor(m.snap.Status)).Render("●")
	status := fmt.Sprintf("%s %s", dot, statusLabel(m.snap.Status))
	timer := styles.Timer.Render(formatDuration(m.snap.DurationSeconds))

	body := fmt.Sprintf("%s\n\n%s  %s\n%s",
		styles.Title.Render("ClipForge"),
		status, timer,
		styles.Muted.Render(fmt.Sprintf("%dx%d @ %d fps, %s/%s",
			m.cfg.Width, m.cfg.Height, m.cfg.FPS, m.cfg.Format, m.cfg.Codec)))

	if m.notice != "" {
		body += "\n" + styles.Warning.Render(m.notice)
	}

	help := styles.HelpBar.Render("p pause · r resume · s stop and save")
	return styles.Panel.Render(body) + "\n" + help + "\n"
}

func (m Model) finalView() string {
	if m.err != nil {
		out := styles.Error.Render("Recording failed: "+m.err.Error()) + "\n"
		if suggestion := errors.RecoverySuggestion(m.err); suggestion != "" {
			out += styles.Muted.Render(suggestion) + "\n"
		}
		return out
	}
	if m.result.OutputPath == "" {
		return ""
	}
	return fmt.Sprintf("%s %s (%s)\n",
		styles.Secondary.Render("Saved"),
		m.result.OutputPath,
		formatDuration(m.result.DurationSeconds))
}

func statusColor(s recorder.Status) lipgloss.Color {
	switch s {
	case recorder.StatusRecording:
		return styles.StatusRecording
	case recorder.StatusPaused:
		return styles.StatusPaused
	case recorder.StatusStopping:
		return styles.StatusStopping
	case recorder.StatusError:
		return styles.StatusError
	default:
		return styles.StatusIdle
	}
}

func statusLabel(s recorder.Status) string {
	switch s {
	case recorder.StatusRecording:
		return "Recording"
	case recorder.StatusPaused:
		return "Paused"
	case recorder.StatusStopping:
		return "Stopping..."
	case recorder.StatusError:
		return "Error"
	default:
		return "Starting..."
	}
}

// formatDuration renders seconds as mm:ss, or h:mm:ss past an hour.
func formatDuration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	min := (total % 3600) / 60
	sec := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
	}
	return fmt.Sprintf("%02d:%02d", min, sec)
}
