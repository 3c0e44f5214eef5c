// Package report accumulates per-file failures of a build so the build can
// finish and present every problem at once.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	foundation "git.home.luguber.info/inful/chloroplast/internal/foundation/errors"
	"git.home.luguber.info/inful/chloroplast/internal/logfields"
)

const timeLayout = "2006-01-02 15:04:05"

// Entry is one recorded failure.
type Entry struct {
	Time     time.Time
	File     string
	Category foundation.ErrorCategory
	Message  string
	// Causes lists wrapped cause messages, outermost first.
	Causes []string
}

// ErrorReport is a concurrency-safe collector of Entries.
type ErrorReport struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// New creates an empty report.
func New() *ErrorReport {
	return &ErrorReport{now: time.Now}
}

// Add records err against file. Nil errors are ignored. Verbose
// compiler-style messages are reduced to their meaningful part.
func (r *ErrorReport) Add(file string, err error) {
	if err == nil {
		return
	}
	chain := foundation.Chain(err)
	msg := err.Error()
	var causes []string
	if len(chain) > 0 {
		msg = chain[0]
		causes = chain[1:]
	}
	if len(causes) > 0 {
		causes[len(causes)-1] = foundation.Summarize(causes[len(causes)-1])
	} else {
		msg = foundation.Summarize(msg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{
		Time:     r.now(),
		File:     file,
		Category: foundation.GetCategory(err),
		Message:  msg,
		Causes:   causes,
	})
}

// Len returns the number of entries.
func (r *ErrorReport) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// HasErrors reports whether anything was recorded.
func (r *ErrorReport) HasErrors() bool { return r.Len() > 0 }

// Entries returns a copy of the entries ordered by file then time, so output
// does not depend on task completion order.
func (r *ErrorReport) Entries() []Entry {
	r.mu.Lock()
	out := slices.Clone(r.entries)
	r.mu.Unlock()
	slices.SortStableFunc(out, func(a, b Entry) int {
		if c := strings.Compare(a.File, b.File); c != 0 {
			return c
		}
		return a.Time.Compare(b.Time)
	})
	return out
}

// WriteTo renders the report as plain text.
func (r *ErrorReport) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	entries := r.Entries()
	fmt.Fprintf(&buf, "%d error(s)\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&buf, "\n[%s] %s\n  %s: %s\n", e.Time.Format(timeLayout), e.File, e.Category, e.Message)
		for _, c := range e.Causes {
			fmt.Fprintf(&buf, "    caused by: %s\n", c)
		}
	}
	return buf.WriteTo(w)
}

// WriteFile renders the report into path on fsys, creating parent directories.
func (r *ErrorReport) WriteFile(fsys afero.Fs, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		return err
	}
	return afero.WriteFile(fsys, path, buf.Bytes(), 0o644)
}

// Log emits one structured record per entry.
func (r *ErrorReport) Log(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, e := range r.Entries() {
		attrs := []slog.Attr{
			logfields.Path(e.File),
			slog.String("category", string(e.Category)),
		}
		if len(e.Causes) > 0 {
			attrs = append(attrs, slog.String("cause", strings.Join(e.Causes, ": ")))
		}
		logger.LogAttrs(ctx, slog.LevelError, e.Message, attrs...)
	}
}
