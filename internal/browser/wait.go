package browser

import (
	"errors"
	"fmt"
	"time"
)

// Timeout tiers
const (
	// DefaultTimeout covers elements that depend on navigation finishing
	DefaultTimeout = 5 * time.Second
	// ShortTimeout covers optional elements checked in passing
	ShortTimeout = 2 * time.Second
	// TransientTimeout covers toasts that may already have disappeared
	TransientTimeout = 1 * time.Second
	// PollInterval is how often a wait re-checks the page
	PollInterval = 250 * time.Millisecond
)

// ErrNotFound is matched by every wait that timed out
var ErrNotFound = errors.New("element not found")

// NotFoundError reports an element that never reached the required state
type NotFoundError struct {
	Locator   Locator
	Condition string
	Timeout   time.Duration
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not %s within %s", e.Locator, e.Condition, e.Timeout)
}

// Is makes errors.Is(err, ErrNotFound) match
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Condition is a predicate an element must satisfy before a wait returns it
type Condition struct {
	Name  string
	Check func(Element) (bool, error)
}

// Present matches any attached element
var Present = Condition{
	Name:  "present",
	Check: func(Element) (bool, error) { return true, nil },
}

// Visible matches displayed elements
var Visible = Condition{
	Name: "visible",
	Check: func(el Element) (bool, error) {
		return el.Displayed()
	},
}

// Clickable matches displayed, enabled elements nothing else is covering
var Clickable = Condition{
	Name: "clickable",
	Check: func(el Element) (bool, error) {
		if ok, err := el.Displayed(); err != nil || !ok {
			return false, err
		}
		if ok, err := el.Enabled(); err != nil || !ok {
			return false, err
		}
		obscured, err := el.Obscured()
		if err != nil {
			return false, err
		}
		return !obscured, nil
	},
}

// State is the outcome of a Query
type State int

// Query outcomes
const (
	Found State = iota
	NotFound
	Failed
)

func (s State) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not-found"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is the tri-state outcome of waiting for an element. Callers collapse
// it to a bool with Found; Err keeps the reason.
type Result struct {
	state   State
	element Element
	err     error
}

// State returns the outcome
func (r Result) State() State {
	return r.state
}

// Found reports whether the element reached the required state
func (r Result) Found() bool {
	return r.state == Found
}

// Element returns the matched element, nil unless Found
func (r Result) Element() Element {
	return r.element
}

// Err returns nil when Found, a *NotFoundError on timeout, or the session error
func (r Result) Err() error {
	return r.err
}

// Waiter polls a session until an element satisfies a condition
type Waiter struct {
	session  Session
	interval time.Duration
}

// NewWaiter creates a waiter polling at interval; zero means PollInterval
func NewWaiter(session Session, interval time.Duration) *Waiter {
	if interval <= 0 {
		interval = PollInterval
	}
	return &Waiter{
		session:  session,
		interval: interval,
	}
}

// UntilVisible blocks until loc is displayed or timeout elapses
func (w *Waiter) UntilVisible(loc Locator, timeout time.Duration) (Element, error) {
	return w.Until(loc, timeout, Visible)
}

// UntilClickable blocks until loc is displayed, enabled and unobscured or timeout elapses
func (w *Waiter) UntilClickable(loc Locator, timeout time.Duration) (Element, error) {
	return w.Until(loc, timeout, Clickable)
}

// Until blocks until an element matching loc satisfies cond or timeout elapses
func (w *Waiter) Until(loc Locator, timeout time.Duration, cond Condition) (Element, error) {
	r := w.Query(loc, timeout, cond)
	if !r.Found() {
		return nil, r.Err()
	}
	return r.Element(), nil
}

// Query waits like Until but reports the tri-state outcome instead of an error.
// The condition is evaluated at least once even with a zero timeout.
func (w *Waiter) Query(loc Locator, timeout time.Duration, cond Condition) Result {
	deadline := time.Now().Add(timeout)

	var lastErr error
	for {
		el, err := w.match(loc, cond)
		if el != nil {
			return Result{state: Found, element: el}
		}
		lastErr = err

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		time.Sleep(min(w.interval, remaining))
	}

	if lastErr != nil {
		return Result{state: Failed, err: fmt.Errorf("waiting for %s to be %s: %w", loc, cond.Name, lastErr)}
	}
	return Result{state: NotFound, err: &NotFoundError{Locator: loc, Condition: cond.Name, Timeout: timeout}}
}

// match returns the first element satisfying cond. Errors from individual
// elements (detached or stale handles) count as not yet satisfied; only a
// failure to search the page is returned.
func (w *Waiter) match(loc Locator, cond Condition) (Element, error) {
	elements, err := w.session.FindElements(loc)
	if err != nil {
		return nil, err
	}
	for _, el := range elements {
		ok, err := cond.Check(el)
		if err == nil && ok {
			return el, nil
		}
	}
	return nil, nil
}
