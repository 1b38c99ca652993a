package ui

import (
	"bytes"
	"strings"
	"testing"
)

// TestTableAlignsColumns proves every row is padded to the widest cell
func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	tbl := w.NewTable("Item", "Amount")
	tbl.AddRow("Base blind", "$665")
	tbl.AddRow("SmartHub x 2", "$258")
	tbl.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Item         │ Amount") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "Base blind   │ $665") {
		t.Errorf("row = %q", lines[2])
	}
}

// TestNoColorStripsEscapes proves noColor output is plain text
func TestNoColorStripsEscapes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	w.Success("done %d", 1)
	w.Header("Kitchen")
	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("escape codes in no-color output: %q", buf.String())
	}
}

// TestQuoteSummaryListsProblems proves incomplete quotes say why
func TestQuoteSummaryListsProblems(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf, true).NewQuoteSummary()
	s.Total = "$349"
	s.Size = "0mm x 0mm"
	s.Problems = []string{"step.name: step name is incomplete"}
	s.Render()

	out := buf.String()
	for _, want := range []string{"Your Blind", "$349", "Not ready", "step.name"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

// TestProgressBar proves the bar reports the position
func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewWriter(&buf, true).NewProgressBar(7, "Step")
	bar.Update(3)
	if !strings.Contains(buf.String(), "3/7") {
		t.Errorf("progress = %q", buf.String())
	}
	buf.Reset()
	bar.Update(9)
	if !strings.Contains(buf.String(), "7/7") {
		t.Errorf("overflow not capped: %q", buf.String())
	}
}

// TestVerbosityGatesInfo proves quiet mode suppresses info lines
func TestVerbosityGatesInfo(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	w.SetVerbosity(0)
	w.Info("hidden")
	w.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("quiet writer printed %q", buf.String())
	}
}
