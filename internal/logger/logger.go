// Package logger keeps a bounded, central log of tagged diagnostic entries.
//
// Entries are short "tag: detail" lines, the same shape as the bracketed
// debug lines printed by the emulator components. Consecutive identical
// entries are folded into one with a repeat count.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// MaxEntries is the number of entries retained by the central log.
const MaxEntries = 256

// Entry is a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	s := fmt.Sprintf("%s: %s", e.Tag, e.Detail)
	if e.Repeated > 0 {
		s = fmt.Sprintf("%s (repeat x%d)", s, e.Repeated+1)
	}
	return s
}

// Permission implementations decide whether a log request creates an entry.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool { return true }

// Allow always permits logging.
var Allow Permission = allow{}

// Flag is a Permission backed by a plain bool. Handy for wiring a config
// switch straight into a component.
type Flag bool

// AllowLogging implements Permission.
func (f Flag) AllowLogging() bool { return bool(f) }

type log struct {
	mu      sync.Mutex
	max     int
	entries []Entry
	echo    io.Writer
}

func newLog(max int) *log {
	return &log{max: max}
}

func (l *log) add(tag, detail string) {
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		l.entries[n-1].Repeated++
		l.entries[n-1].Timestamp = now
	} else {
		l.entries = append(l.entries, Entry{Timestamp: now, Tag: tag, Detail: detail})
		if len(l.entries) > l.max {
			l.entries = l.entries[len(l.entries)-l.max:]
		}
	}

	if l.echo != nil {
		io.WriteString(l.echo, l.entries[len(l.entries)-1].String()+"\n")
	}
}

func (l *log) snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := make([]Entry, len(l.entries))
	copy(c, l.entries)
	return c
}

var central = newLog(MaxEntries)

// Log adds an entry to the central log if perm allows it.
func Log(perm Permission, tag, detail string) {
	if perm == nil || !perm.AllowLogging() {
		return
	}
	central.add(tag, detail)
}

// Logf is Log with fmt formatting of the detail string.
func Logf(perm Permission, tag, detail string, args ...interface{}) {
	if perm == nil || !perm.AllowLogging() {
		return
	}
	central.add(tag, fmt.Sprintf(detail, args...))
}

// SetEcho mirrors every new entry to w. A nil writer stops echoing.
func SetEcho(w io.Writer) {
	central.mu.Lock()
	central.echo = w
	central.mu.Unlock()
}

// Clear removes all entries.
func Clear() {
	central.mu.Lock()
	central.entries = central.entries[:0]
	central.mu.Unlock()
}

// Entries returns a copy of the current log.
func Entries() []Entry {
	return central.snapshot()
}

// Write writes every entry to w, one per line.
func Write(w io.Writer) {
	for _, e := range central.snapshot() {
		io.WriteString(w, e.String()+"\n")
	}
}

// Tail writes the last n entries to w.
func Tail(w io.Writer, n int) {
	entries := central.snapshot()
	if n > len(entries) {
		n = len(entries)
	}
	for _, e := range entries[len(entries)-n:] {
		io.WriteString(w, e.String()+"\n")
	}
}
