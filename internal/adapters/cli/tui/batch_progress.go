package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// renderProgressBar creates a text progress bar like [=====>    ]
func renderProgressBar(current, total, width int) string {
	if total <= 0 || current <= 0 {
		return "[" + strings.Repeat(" ", width) + "]"
	}
	if current >= total {
		return "[" + strings.Repeat("=", width) + "]"
	}

	filled := current * width / total
	if filled > width-1 {
		filled = width - 1
	}
	return "[" + strings.Repeat("=", filled) + ">" + strings.Repeat(" ", width-filled-1) + "]"
}

// BatchResult represents the result of processing a single video
type BatchResult struct {
	VideoID  string
	Success  bool
	ErrMsg   string
	Duration time.Duration
	Cached   bool
}

// BatchProgress manages batch processing progress display
type BatchProgress struct {
	out       io.Writer
	total     int
	completed int
	results   []BatchResult
	failures  []BatchResult
	quiet     bool
	mu        sync.Mutex
	rendered  int
}

const visibleResults = 10

// NewBatchProgress creates a new batch progress display on stderr
func NewBatchProgress(total int, quiet bool) *BatchProgress {
	return newBatchProgress(os.Stderr, total, quiet)
}

func newBatchProgress(out io.Writer, total int, quiet bool) *BatchProgress {
	if total < 0 {
		total = 0
	}
	return &BatchProgress{out: out, total: total, quiet: quiet}
}

// AddResult records a finished video and redraws
func (bp *BatchProgress) AddResult(r BatchResult) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.results = append(bp.results, r)
	bp.completed++
	if !r.Success {
		bp.failures = append(bp.failures, r)
	}

	bp.render()
}

func resultLine(r BatchResult) string {
	if !r.Success {
		return Failure(fmt.Sprintf("%s: %s", r.VideoID, r.ErrMsg))
	}
	line := fmt.Sprintf("%s (%.1fs)", r.VideoID, r.Duration.Seconds())
	if r.Cached {
		line += Muted(" [cached]")
	}
	return Success(line)
}

func (bp *BatchProgress) render() {
	if bp.quiet {
		return
	}

	if bp.rendered > 0 {
		fmt.Fprintf(bp.out, "\033[%dA\033[J", bp.rendered)
	}

	percent := 0
	if bp.total > 0 {
		percent = bp.completed * 100 / bp.total
	}
	fmt.Fprintf(bp.out, "Batch processing %d/%d videos %s %d%%\n",
		bp.completed, bp.total, renderProgressBar(bp.completed, bp.total, 20), percent)

	start := max(0, len(bp.results)-visibleResults)
	for _, r := range bp.results[start:] {
		fmt.Fprintln(bp.out, resultLine(r))
	}

	bp.rendered = 1 + len(bp.results) - start
}

// Complete prints the final summary
func (bp *BatchProgress) Complete() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.quiet {
		return
	}

	fmt.Fprintln(bp.out)
	fmt.Fprintf(bp.out, "Batch complete: %d/%d succeeded\n", bp.completed-len(bp.failures), bp.total)

	if len(bp.failures) > 0 {
		fmt.Fprintln(bp.out, "\nFailures:")
		for _, f := range bp.failures {
			fmt.Fprintln(bp.out, "  "+resultLine(f))
		}
	}
}

// SuccessCount returns the number of successful results
func (bp *BatchProgress) SuccessCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.completed - len(bp.failures)
}

// FailureCount returns the number of failed results
func (bp *BatchProgress) FailureCount() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.failures)
}
