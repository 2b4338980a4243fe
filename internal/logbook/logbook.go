// Package logbook keeps the wizard journey: one line per step transition,
// submission and outcome, readable from the shell's log panel.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level tags an entry's severity.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Entry is one journey line.
type Entry struct {
	At      time.Time
	Level   Level
	Message string
}

// String renders the on-disk form: RFC3339 UTC time, padded level, message.
func (e Entry) String() string {
	return fmt.Sprintf("%s %-5s %s", e.At.UTC().Format(time.RFC3339), string(e.Level), e.Message)
}

// parseEntry reverses String. Lines written by hand or by an older format
// come back whole as the message with LevelInfo.
func parseEntry(line string) Entry {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) == 2 {
		if at, err := time.Parse(time.RFC3339, fields[0]); err == nil {
			rest := strings.TrimLeft(fields[1], " ")
			level, msg, _ := strings.Cut(rest, " ")
			switch Level(level) {
			case LevelInfo, LevelWarn, LevelError:
				return Entry{At: at, Level: Level(level), Message: strings.TrimLeft(msg, " ")}
			}
		}
	}
	return Entry{Level: LevelInfo, Message: line}
}

// Logbook appends entries to a text file. A nil *Logbook drops everything,
// so views can log without checking whether a journey file exists.
type Logbook struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// New opens a journey file at path, creating its directory.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure dir: %w", err)
	}
	return &Logbook{path: path, now: time.Now}, nil
}

// Path is the journey file, empty for a nil logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Write formats and records one entry. Whitespace runs, newlines included,
// collapse to single spaces so every entry stays on one line.
func (l *Logbook) Write(level Level, format string, args ...any) {
	if l == nil {
		return
	}
	entry := Entry{
		At:      l.now(),
		Level:   level,
		Message: strings.Join(strings.Fields(fmt.Sprintf(format, args...)), " "),
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = fmt.Fprintln(f, entry.String())
}

func (l *Logbook) Info(format string, args ...any)  { l.Write(LevelInfo, format, args...) }
func (l *Logbook) Warn(format string, args ...any)  { l.Write(LevelWarn, format, args...) }
func (l *Logbook) Error(format string, args ...any) { l.Write(LevelError, format, args...) }

// Tail returns the last n entries, oldest first, plus how many entries the
// file holds in total.
func (l *Logbook) Tail(n int) ([]Entry, int) {
	if l == nil || n <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer f.Close()

	ring := make([]string, 0, n)
	total := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		total++
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if len(ring) == 0 {
		return nil, total
	}
	entries := make([]Entry, len(ring))
	for i, line := range ring {
		entries[i] = parseEntry(line)
	}
	return entries, total
}
