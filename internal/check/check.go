// Package check records the outcome of each assertion in a flow. Hard checks
// stop the flow at the first failure; soft checks are collected and reported
// together when the flow finishes.
package check

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrAssertion is matched by both HardFailure and SoftFailures
var ErrAssertion = errors.New("assertion failed")

// Outcome is one recorded check
type Outcome struct {
	Step        string
	Description string
	Passed      bool
	Hard        bool
}

// HardFailure stops a flow at the step where it was raised. Soft holds the
// soft checks that had already failed by then.
type HardFailure struct {
	Flow        string
	Step        string
	Description string
	Err         error
	Soft        []Outcome
}

func (e *HardFailure) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Flow, e.Description)
	if e.Step != "" {
		msg = fmt.Sprintf("%s [%s]: %s", e.Flow, e.Step, e.Description)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *HardFailure) Unwrap() error {
	return e.Err
}

func (e *HardFailure) Is(target error) bool {
	return target == ErrAssertion
}

// SoftFailures aggregates every failed soft check of a flow
type SoftFailures struct {
	Flow     string
	Failures []Outcome
}

func (e *SoftFailures) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d soft assertion(s) failed", e.Flow, len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("\n\t")
		if f.Step != "" {
			fmt.Fprintf(&b, "[%s] ", f.Step)
		}
		b.WriteString(f.Description)
	}
	return b.String()
}

func (e *SoftFailures) Is(target error) bool {
	return target == ErrAssertion
}

// Descriptions returns the description of every failed check
func (e *SoftFailures) Descriptions() []string {
	out := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Description
	}
	return out
}

// Flow collects outcomes for a single flow run
type Flow struct {
	mu       sync.Mutex
	name     string
	logger   *zap.Logger
	step     string
	outcomes []Outcome
}

// New creates a collector for the named flow
func New(name string, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{name: name, logger: logger.With(zap.String("flow", name))}
}

// Name returns the flow name
func (f *Flow) Name() string {
	return f.name
}

// Step narrates the start of a step; later checks are attributed to it
func (f *Flow) Step(title string) {
	f.mu.Lock()
	f.step = title
	f.mu.Unlock()
	f.logger.Info("step", zap.String("step", title))
}

// Soft records a check and lets the flow continue either way
func (f *Flow) Soft(ok bool, description string) bool {
	f.record(ok, false, description)
	return ok
}

// Hard records a check and returns a *HardFailure when it did not hold
func (f *Flow) Hard(ok bool, description string) error {
	step := f.record(ok, true, description)
	if ok {
		return nil
	}
	return &HardFailure{Flow: f.name, Step: step, Description: description, Soft: f.failedSoft()}
}

// Must turns an action error into a hard failure
func (f *Flow) Must(err error, description string) error {
	step := f.record(err == nil, true, description)
	if err == nil {
		return nil
	}
	return &HardFailure{Flow: f.name, Step: step, Description: description, Err: err, Soft: f.failedSoft()}
}

// Done returns nil when every soft check passed, otherwise one *SoftFailures
// listing all of them
func (f *Flow) Done() error {
	failed := f.failedSoft()
	if len(failed) == 0 {
		return nil
	}
	return &SoftFailures{Flow: f.name, Failures: failed}
}

func (f *Flow) failedSoft() []Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	var failed []Outcome
	for _, o := range f.outcomes {
		if !o.Passed && !o.Hard {
			failed = append(failed, o)
		}
	}
	return failed
}

// Outcomes returns every recorded check in order
func (f *Flow) Outcomes() []Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Outcome(nil), f.outcomes...)
}

func (f *Flow) record(ok, hard bool, description string) string {
	f.mu.Lock()
	step := f.step
	f.outcomes = append(f.outcomes, Outcome{
		Step:        step,
		Description: description,
		Passed:      ok,
		Hard:        hard,
	})
	f.mu.Unlock()

	fields := []zap.Field{zap.String("check", description), zap.Bool("hard", hard)}
	if ok {
		f.logger.Info("check passed", fields...)
	} else {
		f.logger.Warn("check failed", fields...)
	}
	return step
}

// Failures extracts every failure description from an error returned by a
// flow. A hard failure lists the soft checks that failed before it first.
// A nil error yields nil.
func Failures(err error) []string {
	if err == nil {
		return nil
	}
	var soft *SoftFailures
	if errors.As(err, &soft) {
		return soft.Descriptions()
	}
	var hard *HardFailure
	if errors.As(err, &hard) {
		out := make([]string, 0, len(hard.Soft)+1)
		for _, o := range hard.Soft {
			out = append(out, o.Description)
		}
		return append(out, hard.Error())
	}
	return []string{err.Error()}
}
