package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents valid flow run states
type RunStatus string

// Run statuses
const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
	RunStatusSkipped RunStatus = "skipped"
)

// FlowRun is one execution of a flow against one browser
type FlowRun struct {
	ID         string
	Reference  string
	Flow       string
	Browser    string
	Status     RunStatus
	Failures   []string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Domain errors
var (
	ErrInvalidFlowName         = errors.New("flow name cannot be empty")
	ErrInvalidBrowser          = errors.New("browser cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid run status transition")
	ErrRunNotFound             = errors.New("run not found")
)

// NewFlowRun creates a running flow run with validation
func NewFlowRun(flow, browser string) (*FlowRun, error) {
	if flow == "" {
		return nil, ErrInvalidFlowName
	}
	if browser == "" {
		return nil, ErrInvalidBrowser
	}

	now := time.Now()
	return &FlowRun{
		ID:        uuid.New().String(),
		Reference: fmt.Sprintf("RUN-%s-%d", flow, now.UnixNano()),
		Flow:      flow,
		Browser:   browser,
		Status:    RunStatusRunning,
		StartedAt: now,
	}, nil
}

func (r *FlowRun) finish(status RunStatus, failures []string) error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: cannot mark %s run as %s", ErrInvalidStatusTransition, r.Status, status)
	}
	r.Status = status
	r.Failures = failures
	r.FinishedAt = time.Now()
	return nil
}

// Pass marks the run as passed
func (r *FlowRun) Pass() error {
	return r.finish(RunStatusPassed, nil)
}

// Fail marks the run as failed with the assertion descriptions that failed
func (r *FlowRun) Fail(failures []string) error {
	return r.finish(RunStatusFailed, failures)
}

// Skip marks the run as skipped. reasons say why it could not run.
func (r *FlowRun) Skip(reasons []string) error {
	return r.finish(RunStatusSkipped, reasons)
}

// Finish applies the transition named by status
func (r *FlowRun) Finish(status RunStatus, failures []string) error {
	switch status {
	case RunStatusPassed:
		return r.Pass()
	case RunStatusFailed:
		return r.Fail(failures)
	case RunStatusSkipped:
		return r.Skip(failures)
	default:
		return fmt.Errorf("%w: %q is not a final status", ErrInvalidStatusTransition, status)
	}
}

// IsRunning returns true while the run has not finished
func (r *FlowRun) IsRunning() bool {
	return r.Status == RunStatusRunning
}

// Duration returns how long the run took, or zero while it is running
func (r *FlowRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
