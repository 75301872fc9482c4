// Package diag carries human-readable status and error lines from the core
// packages to whoever is watching: a terminal, a log file, or the console
// pane of the player.
//
// Core packages take a [Sink] and never depend on one being present; pass nil
// and they fall back to [Discard].
package diag

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sink receives diagnostic lines.
type Sink interface {
	Printf(format string, args ...any)
}

type discard struct{}

func (discard) Printf(string, ...any) {}

// Discard drops every line.
var Discard Sink = discard{}

// Or returns s, or Discard when s is nil.
func Or(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Logger writes lines through the standard log package.
type Logger struct {
	l *log.Logger
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{l: log.New(w, "", log.LstdFlags)}
}

func (l *Logger) Printf(format string, args ...any) {
	l.l.Printf(format, args...)
}

// OpenLog tees log lines to stdout and dir/log.txt. The returned closer
// releases the file.
func OpenLog(dir string) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(filepath.Join(dir, "log.txt"))
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(io.MultiWriter(os.Stdout, f)), f, nil
}

// Buffer keeps the most recent lines in memory, for the console pane.
type Buffer struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func NewBuffer(max int) *Buffer {
	if max < 1 {
		max = 1
	}
	return &Buffer{max: max, lines: make([]string, 0, max)}
}

func (b *Buffer) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range strings.Split(msg, "\n") {
		if len(b.lines) == b.max {
			copy(b.lines, b.lines[1:])
			b.lines = b.lines[:b.max-1]
		}
		b.lines = append(b.lines, line)
	}
}

// Lines returns a copy of the buffered lines, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Tail returns at most n of the newest lines.
func (b *Buffer) Tail(n int) []string {
	lines := b.Lines()
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

type multi []Sink

func (m multi) Printf(format string, args ...any) {
	for _, s := range m {
		s.Printf(format, args...)
	}
}

// Multi fans every line out to all non-nil sinks.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
