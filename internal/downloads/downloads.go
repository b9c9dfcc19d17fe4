// Package downloads waits for and inspects files the browser saves to disk.
package downloads

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

var (
	// ErrTimeout is returned when no complete matching file appeared in time
	ErrTimeout = errors.New("download did not complete")
	// ErrNoMatch is returned when no file in the directory matches
	ErrNoMatch = errors.New("no matching file")
)

// partialSuffixes mark files a browser is still writing
var partialSuffixes = []string{".crdownload", ".part", ".tmp"}

// Matcher selects files by base name
type Matcher func(name string) bool

// InvoiceMatch accepts text files whose name mentions an invoice
func InvoiceMatch(name string) bool {
	return strings.Contains(strings.ToLower(name), "invoice") && strings.HasSuffix(name, ".txt")
}

// Options bounds Await
type Options struct {
	// Timeout is the longest Await waits in total
	Timeout time.Duration
	// StableFor is how long the file size must stay unchanged
	StableFor time.Duration
	// PollInterval is the fallback re-check interval between file events
	PollInterval time.Duration
	// NewerThan, when set, ignores files last modified before it
	NewerThan time.Time
}

// DefaultOptions suits a small text download over a local connection
var DefaultOptions = Options{
	Timeout:      30 * time.Second,
	StableFor:    500 * time.Millisecond,
	PollInterval: 250 * time.Millisecond,
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultOptions.Timeout
	}
	if o.StableFor <= 0 {
		o.StableFor = DefaultOptions.StableFor
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultOptions.PollInterval
	}
	return o
}

// Await waits for a file in dir accepted by match whose size stays the same
// for opts.StableFor, and returns its path. Partial downloads and empty files
// are never returned. Directory events wake the wait early; polling covers
// filesystems without change notification.
func Await(dir string, match Matcher, opts Options) (string, error) {
	opts = opts.withDefaults()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if watcher, err := fsnotify.NewWatcher(); err == nil {
		defer watcher.Close()
		if err := watcher.Add(dir); err == nil {
			events = watcher.Events
			watchErrs = watcher.Errors
		}
	}

	deadline := time.NewTimer(opts.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	var (
		candidate   string
		lastSize    int64 = -1
		stableSince time.Time
	)
	for {
		if path, size, ok := newest(dir, match, opts.NewerThan); ok && size > 0 {
			now := time.Now()
			switch {
			case path != candidate || size != lastSize:
				candidate, lastSize, stableSince = path, size, now
			case now.Sub(stableSince) >= opts.StableFor:
				return path, nil
			}
		}

		select {
		case <-deadline.C:
			if candidate != "" {
				return "", fmt.Errorf("%w: %s still changing after %s", ErrTimeout, candidate, opts.Timeout)
			}
			return "", fmt.Errorf("%w: nothing matching in %s after %s", ErrTimeout, dir, opts.Timeout)
		case <-ticker.C:
		case _, ok := <-events:
			if !ok {
				events = nil
			}
		case _, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
			}
		}
	}
}

// Latest returns the most recently modified file in dir accepted by match
func Latest(dir string, match Matcher) (string, error) {
	path, _, ok := newest(dir, match, time.Time{})
	if !ok {
		return "", fmt.Errorf("%w in %s", ErrNoMatch, dir)
	}
	return path, nil
}

// Cleanup removes every complete file in dir accepted by match and returns
// how many were removed. Errors are ignored.
func Cleanup(dir string, match Matcher) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || isPartial(e.Name()) || !match(e.Name()) {
			continue
		}
		if os.Remove(filepath.Join(dir, e.Name())) == nil {
			removed++
		}
	}
	return removed
}

func isPartial(name string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// newest finds the most recently modified complete match
func newest(dir string, match Matcher, newerThan time.Time) (string, int64, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", 0, false
	}

	var (
		best    string
		size    int64
		modTime time.Time
	)
	for _, e := range entries {
		if e.IsDir() || isPartial(e.Name()) || !match(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !newerThan.IsZero() && info.ModTime().Before(newerThan) {
			continue
		}
		if best == "" || info.ModTime().After(modTime) {
			best, size, modTime = filepath.Join(dir, e.Name()), info.Size(), info.ModTime()
		}
	}
	return best, size, best != ""
}
