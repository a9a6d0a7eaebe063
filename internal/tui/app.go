package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/clipforge/clipforge/internal/event"
	"github.com/clipforge/clipforge/internal/recorder"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	orch    *recorder.Orchestrator

	result recorder.Snapshot
	runErr error
}

// New creates the interactive recording application.
func New(orch *recorder.Orchestrator, cfg recorder.Config, opts Options) *App {
	return &App{
		model: NewModel(orch, cfg, opts),
		orch:  orch,
	}
}

// Run starts the recording view and blocks until the session ends.
func (a *App) Run() error {
	a.program = tea.NewProgram(a.model)

	// Forward orchestrator events into the update loop
	subID := a.orch.Bus().SubscribeAll(func(e event.Event) {
		a.program.Send(busMsg{event: e})
	})
	defer a.orch.Bus().Unsubscribe(subID)

	// Treat termination signals as a stop request so the encoder shuts
	// down cleanly and the file is finalized
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		for range sigChan {
			a.program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		}
	}()

	final, err := a.program.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(Model); ok {
		a.result = m.Result()
		a.runErr = m.Err()
	}
	return a.runErr
}

// Result returns the final snapshot of a successfully stopped recording.
func (a *App) Result() recorder.Snapshot {
	return a.result
}
