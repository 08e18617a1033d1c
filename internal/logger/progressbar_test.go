package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		width          int
		want           string
	}{
		{name: "empty", current: 0, total: 10, width: 10, want: "[          ] 0/10 (0%)"},
		{name: "half", current: 5, total: 10, width: 10, want: "[=====     ] 5/10 (50%)"},
		{name: "complete", current: 4, total: 4, width: 8, want: "[========] 4/4 (100%)"},
		{name: "zero total", current: 0, total: 0, width: 4, want: "[    ] 0/0 (0%)"},
		{name: "overshoot is capped", current: 12, total: 10, width: 5, want: "[=====] 12/10 (100%)"},
		{name: "invalid width", current: 1, total: 10, width: 0, want: "[=         ] 1/10 (10%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewProgressBar(nil, tt.width, false)
			pb.Update(tt.current, tt.total)
			if got := pb.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressBarGrowingTotal(t *testing.T) {
	pb := NewProgressBar(nil, 10, false)

	pb.Update(2, 2)
	if pb.Percentage() != 100 {
		t.Errorf("Percentage() = %d, want 100", pb.Percentage())
	}

	// Discovery added more work.
	pb.Update(2, 8)
	if pb.Percentage() != 25 {
		t.Errorf("Percentage() = %d, want 25", pb.Percentage())
	}
}

func TestProgressBarDrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	pb := NewProgressBar(&buf, 4, false)
	pb.SetPrefix("Analyzing ")

	pb.Update(1, 2)
	pb.Update(2, 2)
	pb.Finish()

	out := buf.String()
	if strings.Count(out, "\r") != 2 {
		t.Errorf("expected two redraws, got %q", out)
	}
	if !strings.HasSuffix(out, "\rAnalyzing [====] 2/2 (100%)\n") {
		t.Errorf("unexpected final line in %q", out)
	}
}

func TestProgressBarFinishWithoutUpdate(t *testing.T) {
	var buf bytes.Buffer
	pb := NewProgressBar(&buf, 4, false)
	pb.Finish()

	if buf.Len() != 0 {
		t.Errorf("Finish() without updates wrote %q", buf.String())
	}
}

func TestProgressBarColor(t *testing.T) {
	pb := NewProgressBar(nil, 4, true)
	pb.Update(1, 2)
	if !strings.Contains(pb.Render(), "\x1b[36m") {
		t.Errorf("expected cyan while running, got %q", pb.Render())
	}

	pb.Update(2, 2)
	if !strings.Contains(pb.Render(), "\x1b[32m") {
		t.Errorf("expected green when complete, got %q", pb.Render())
	}
}
