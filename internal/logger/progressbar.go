package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ProgressBar draws "[=====     ] 12/40 (30%)" on a single terminal line and
// redraws it in place on every update. The total may grow between updates.
type ProgressBar struct {
	mu       sync.Mutex
	writer   io.Writer
	current  int
	total    int
	width    int
	prefix   string
	drawn    bool
	running  *color.Color
	complete *color.Color
}

// NewProgressBar creates a progress bar writing to w. Color escapes are only
// emitted when enableColor is set.
func NewProgressBar(w io.Writer, width int, enableColor bool) *ProgressBar {
	if width < 1 {
		width = 10
	}
	pb := &ProgressBar{
		writer:   w,
		width:    width,
		running:  color.New(color.FgCyan),
		complete: color.New(color.FgGreen),
	}
	if enableColor {
		pb.running.EnableColor()
		pb.complete.EnableColor()
	} else {
		pb.running.DisableColor()
		pb.complete.DisableColor()
	}
	return pb
}

// SetPrefix sets a label drawn before the bar.
func (pb *ProgressBar) SetPrefix(prefix string) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.prefix = prefix
}

// Update records progress and redraws the bar.
func (pb *ProgressBar) Update(current, total int) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	pb.current = current
	pb.total = total
	if pb.writer == nil {
		return
	}
	fmt.Fprintf(pb.writer, "\r%s", pb.render())
	pb.drawn = true
}

// Finish ends the line the bar was drawn on, if it was drawn at all.
func (pb *ProgressBar) Finish() {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	if pb.drawn && pb.writer != nil {
		fmt.Fprintln(pb.writer)
	}
	pb.drawn = false
}

// Percentage returns the progress percentage (0-100)
func (pb *ProgressBar) Percentage() int {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.percentage()
}

// Render returns the bar without drawing it.
func (pb *ProgressBar) Render() string {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.render()
}

func (pb *ProgressBar) percentage() int {
	if pb.total <= 0 {
		return 0
	}
	return max(0, min(100, pb.current*100/pb.total))
}

func (pb *ProgressBar) render() string {
	perc := pb.percentage()
	filled := perc * pb.width / 100

	var b strings.Builder
	b.WriteString(pb.prefix)
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", pb.width-filled))
	b.WriteByte(']')
	fmt.Fprintf(&b, " %d/%d (%d%%)", pb.current, pb.total, perc)

	if perc == 100 {
		return pb.complete.Sprint(b.String())
	}
	return pb.running.Sprint(b.String())
}
