package tui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StepStatus represents the state of a progress step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepError
)

// ProgressStep represents a single step in the progress
type ProgressStep struct {
	Name    string
	Status  StepStatus
	Total   int64 // bytes, only for download steps
	Current int64
	Error   string
}

// ProgressDisplay renders multi-step progress on stderr
type ProgressDisplay struct {
	out        io.Writer
	steps      []ProgressStep
	spinnerIdx int
	quiet      bool
	mu         sync.Mutex
	lastRender time.Time
	rendered   bool
}

var spinnerFrames = spinner.MiniDot.Frames

// NewProgressDisplay creates a new progress display
func NewProgressDisplay(steps []string, quiet bool) *ProgressDisplay {
	return newProgressDisplay(os.Stderr, steps, quiet)
}

func newProgressDisplay(out io.Writer, steps []string, quiet bool) *ProgressDisplay {
	pd := &ProgressDisplay{
		out:   out,
		steps: make([]ProgressStep, len(steps)),
		quiet: quiet,
	}
	for i, name := range steps {
		pd.steps[i] = ProgressStep{Name: name, Status: StepPending}
	}
	return pd
}

func (p *ProgressDisplay) setStatus(index int, status StepStatus, errMsg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		p.steps[index].Status = status
		p.steps[index].Error = errMsg
		p.render()
	}
}

// StartStep marks a step as running
func (p *ProgressDisplay) StartStep(index int) { p.setStatus(index, StepRunning, "") }

// CompleteStep marks a step as complete
func (p *ProgressDisplay) CompleteStep(index int) { p.setStatus(index, StepComplete, "") }

// FailStep marks a step as failed
func (p *ProgressDisplay) FailStep(index int, err string) { p.setStatus(index, StepError, err) }

// UpdateProgress updates download progress for a step
func (p *ProgressDisplay) UpdateProgress(index int, current, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index >= 0 && index < len(p.steps) {
		p.steps[index].Current = current
		p.steps[index].Total = total
		// Throttle renders to avoid flickering
		if time.Since(p.lastRender) > 100*time.Millisecond {
			p.render()
		}
	}
}

// Tick advances the spinner animation
func (p *ProgressDisplay) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.spinnerIdx = (p.spinnerIdx + 1) % len(spinnerFrames)
	p.render()
}

func (p *ProgressDisplay) stepLine(i int) string {
	step := p.steps[i]
	prefix := Muted(fmt.Sprintf("[%d/%d]", i+1, len(p.steps)))

	switch step.Status {
	case StepRunning:
		if step.Total > 0 {
			pct := float64(step.Current) / float64(step.Total) * 100
			return fmt.Sprintf("%s %s... %.1f%% (%s / %s)", prefix, step.Name, pct,
				FormatSize(step.Current), FormatSize(step.Total))
		}
		return fmt.Sprintf("%s %s... %s", prefix, step.Name, spinnerFrames[p.spinnerIdx])
	case StepComplete:
		return fmt.Sprintf("%s %s", prefix, Success(step.Name))
	case StepError:
		return fmt.Sprintf("%s %s", prefix, Failure(step.Name+": "+step.Error))
	default:
		return fmt.Sprintf("%s %s", prefix, Muted(step.Name))
	}
}

func (p *ProgressDisplay) render() {
	if p.quiet {
		return
	}

	p.lastRender = time.Now()

	// Move up over the previous frame and clear it
	if p.rendered {
		fmt.Fprintf(p.out, "\033[%dA\033[J", len(p.steps))
	}

	for i := range p.steps {
		fmt.Fprintln(p.out, p.stepLine(i))
	}

	p.rendered = true
}

// Complete prints the final success message with labelled outputs
func (p *ProgressDisplay) Complete(outputs [][2]string) {
	if p.quiet {
		return
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, Success("Complete!"))
	for _, kv := range outputs {
		fmt.Fprintln(p.out, KeyValue(kv[0]+":", kv[1]))
	}
}

// StartSpinner starts a goroutine that ticks the spinner until the
// returned channel is closed
func (p *ProgressDisplay) StartSpinner() chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(spinner.MiniDot.FPS)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.Tick()
			}
		}
	}()
	return done
}
