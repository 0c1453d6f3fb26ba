package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type taskDoneMsg struct{ err error }

// SpinnerModel shows a spinner next to a label until the task finishes
type SpinnerModel struct {
	spinner spinner.Model
	label   string
	done    bool
	err     error
}

// NewSpinnerModel creates a spinner for label
func NewSpinnerModel(label string) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = selectedStyle
	return SpinnerModel{spinner: s, label: label}
}

func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m SpinnerModel) View() string {
	switch {
	case m.done && m.err == nil:
		return Success(m.label) + "\n"
	case m.done:
		return Failure(fmt.Sprintf("%s: %v", m.label, m.err)) + "\n"
	default:
		return m.spinner.View() + " " + m.label + "...\n"
	}
}

// RunWithSpinner runs task while a spinner animates on stderr. In quiet
// mode the task simply runs. Ctrl+C cancels the task's context.
func RunWithSpinner(ctx context.Context, label string, quiet bool, task func(ctx context.Context) error) error {
	if quiet {
		return task(ctx)
	}
	return runWithSpinner(ctx, label, os.Stderr, task)
}

func runWithSpinner(ctx context.Context, label string, out io.Writer, task func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewSpinnerModel(label), tea.WithOutput(out), tea.WithContext(ctx))

	result := make(chan error, 1)
	go func() {
		err := task(ctx)
		result <- err
		p.Send(taskDoneMsg{err: err})
	}()

	final, runErr := p.Run()
	if m, ok := final.(SpinnerModel); ok && !m.done {
		// Interrupted before the task finished
		cancel()
	}

	err := <-result
	if err == nil && runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return err
}
