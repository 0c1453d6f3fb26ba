package tui

import (
	"errors"
	"strings"
	"testing"
)

func TestSpinnerModel_Done(t *testing.T) {
	m := NewSpinnerModel("Fetching")

	if v := m.View(); !strings.Contains(v, "Fetching...") {
		t.Errorf("running view = %q", v)
	}

	next, _ := m.Update(taskDoneMsg{})
	if v := next.View(); !strings.Contains(v, "✓") || !strings.Contains(v, "Fetching") {
		t.Errorf("done view = %q", v)
	}

	next, _ = m.Update(taskDoneMsg{err: errors.New("boom")})
	if v := next.View(); !strings.Contains(v, "✗") || !strings.Contains(v, "boom") {
		t.Errorf("failed view = %q", v)
	}
}
