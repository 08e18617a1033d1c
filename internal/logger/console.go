// Package logger provides leveled logging for mii.
//
// Messages are written as "[HH:MM:SS] [LEVEL] message" lines. Implementations are
// safe for concurrent use. The console logger colors the level tag when it writes to
// a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level orders messages by severity. A logger shows messages at or above its level.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"trace", "debug", "info", "warn", "error"}

var levelColors = [...]color.Attribute{color.FgHiBlack, color.FgCyan, color.FgBlue, color.FgYellow, color.FgRed}

// String returns the lowercase level name used in config files and flags.
func (l Level) String() string {
	if l < LevelTrace || l > LevelError {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel looks up a level by name, ignoring case and surrounding space.
func ParseLevel(name string) (Level, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range levelNames {
		if n == name {
			return Level(i), true
		}
	}
	return LevelInfo, false
}

// ValidLevel reports whether level names one of the supported log levels.
func ValidLevel(level string) bool {
	_, ok := ParseLevel(level)
	return ok
}

// Logger is the logging surface consumed by the index, the analyzer and the CLI.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// ConsoleLogger writes timestamped lines to a writer.
type ConsoleLogger struct {
	mu     sync.Mutex
	writer io.Writer
	level  Level
	tags   [len(levelNames)]string
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	level, _ := ParseLevel(logLevel)
	cl := &ConsoleLogger{writer: writer, level: level}

	colorOutput := isTerminal(writer)
	for i, name := range levelNames {
		tag := strings.ToUpper(name)
		if colorOutput {
			tag = color.New(levelColors[i]).Sprint(tag)
		}
		cl.tags[i] = tag
	}
	return cl
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w != os.Stdout && w != os.Stderr {
		return false
	}
	// color.NoColor already accounts for NO_COLOR and non-TTY output
	return !color.NoColor
}

// Level returns the lowest level this logger writes.
func (cl *ConsoleLogger) Level() Level {
	return cl.level
}

func (cl *ConsoleLogger) LogTrace(message string) { cl.log(LevelTrace, message) }
func (cl *ConsoleLogger) LogDebug(message string) { cl.log(LevelDebug, message) }
func (cl *ConsoleLogger) LogInfo(message string)  { cl.log(LevelInfo, message) }
func (cl *ConsoleLogger) LogWarn(message string)  { cl.log(LevelWarn, message) }
func (cl *ConsoleLogger) LogError(message string) { cl.log(LevelError, message) }

func (cl *ConsoleLogger) log(level Level, message string) {
	if cl.writer == nil || level < cl.level {
		return
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", time.Now().Format("15:04:05"), cl.tags[level], message)
}

// NoOpLogger is a Logger implementation that discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string) {}
func (n *NoOpLogger) LogDebug(message string) {}
func (n *NoOpLogger) LogInfo(message string)  {}
func (n *NoOpLogger) LogWarn(message string)  {}
func (n *NoOpLogger) LogError(message string) {}
