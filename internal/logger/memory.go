package logger

import (
	"strings"
	"sync"
)

// Entry is a single message captured by MemoryLogger.
type Entry struct {
	Level   string
	Message string
}

// MemoryLogger keeps every message in memory. Tests use it to assert that
// recoverable failures were reported.
type MemoryLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryLogger creates an empty MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (m *MemoryLogger) LogTrace(message string) { m.add("trace", message) }
func (m *MemoryLogger) LogDebug(message string) { m.add("debug", message) }
func (m *MemoryLogger) LogInfo(message string)  { m.add("info", message) }
func (m *MemoryLogger) LogWarn(message string)  { m.add("warn", message) }
func (m *MemoryLogger) LogError(message string) { m.add("error", message) }

func (m *MemoryLogger) add(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Message: message})
}

// Entries returns a copy of the captured messages in order.
func (m *MemoryLogger) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Messages returns the captured messages at the given level.
func (m *MemoryLogger) Messages(level string) []string {
	var out []string
	for _, e := range m.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Contains reports whether any message at level contains substr.
func (m *MemoryLogger) Contains(level, substr string) bool {
	for _, msg := range m.Messages(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
