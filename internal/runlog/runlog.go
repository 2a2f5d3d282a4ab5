// Package runlog captures the structured log stream of a sync run so it
// can be replayed after the fact, for example in the run summary or a
// persisted run record. It wraps another slog.Handler and records every
// entry it passes through.
package runlog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry is one recorded log line.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// buffer is the shared transcript. All recorders derived from one root
// via WithAttrs or WithGroup append to the same buffer.
type buffer struct {
	mu      sync.Mutex
	entries []Entry
}

func (b *buffer) append(e Entry) {
	b.mu.Lock()
	b.entries = append(b.entries, e)
	b.mu.Unlock()
}

// Recorder is a slog.Handler that tees records to an inner handler while
// keeping a copy in memory. Safe for concurrent use.
type Recorder struct {
	inner slog.Handler
	attrs []slog.Attr
	buf   *buffer
}

// NewRecorder wraps inner, recording everything it handles.
func NewRecorder(inner slog.Handler) *Recorder {
	return &Recorder{inner: inner, buf: &buffer{}}
}

// Enabled defers entirely to the inner handler: entries the inner
// handler would drop are not recorded either.
func (r *Recorder) Enabled(ctx context.Context, level slog.Level) bool {
	return r.inner.Enabled(ctx, level)
}

// Handle records the entry and forwards it.
func (r *Recorder) Handle(ctx context.Context, rec slog.Record) error {
	attrs := make(map[string]string, rec.NumAttrs()+len(r.attrs))

	for _, a := range r.attrs {
		attrs[a.Key] = a.Value.String()
	}

	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.String()
		return true
	})

	r.buf.append(Entry{
		Time:    rec.Time,
		Level:   rec.Level,
		Message: rec.Message,
		Attrs:   attrs,
	})

	return r.inner.Handle(ctx, rec)
}

// WithAttrs returns a recorder sharing this one's transcript, so child
// loggers still record into the same run log.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(r.attrs)+len(attrs))
	merged = append(merged, r.attrs...)
	merged = append(merged, attrs...)

	return &Recorder{
		inner: r.inner.WithAttrs(attrs),
		attrs: merged,
		buf:   r.buf,
	}
}

// WithGroup only affects the inner handler. Recorded attrs stay flat;
// the run log is a transcript, not a structured document.
func (r *Recorder) WithGroup(name string) slog.Handler {
	return &Recorder{
		inner: r.inner.WithGroup(name),
		attrs: r.attrs,
		buf:   r.buf,
	}
}

// Entries returns a copy of everything recorded so far, in order.
func (r *Recorder) Entries() []Entry {
	r.buf.mu.Lock()
	defer r.buf.mu.Unlock()

	out := make([]Entry, len(r.buf.entries))
	copy(out, r.buf.entries)

	return out
}

// Text renders the recorded run as plain text, one line per entry.
func (r *Recorder) Text() string {
	var b strings.Builder

	for _, e := range r.Entries() {
		fmt.Fprintf(&b, "%s %s %s", e.Time.Format(time.RFC3339), e.Level, e.Message)

		keys := make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%s", k, e.Attrs[k])
		}

		b.WriteByte('\n')
	}

	return b.String()
}
