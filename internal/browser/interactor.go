package browser

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Interactor is the wait-then-act helper every screen is composed with
type Interactor struct {
	session Session
	waiter  *Waiter
	logger  *zap.Logger
	timeout time.Duration
	short   time.Duration
}

// Option configures an Interactor
type Option func(*Interactor)

// WithTimeouts overrides the default and short timeout tiers
func WithTimeouts(timeout, short time.Duration) Option {
	return func(i *Interactor) {
		i.timeout = timeout
		i.short = short
	}
}

// WithPollInterval overrides how often waits re-check the page
func WithPollInterval(interval time.Duration) Option {
	return func(i *Interactor) {
		i.waiter = NewWaiter(i.session, interval)
	}
}

// NewInteractor creates an Interactor over session
func NewInteractor(session Session, logger *zap.Logger, opts ...Option) *Interactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	i := &Interactor{
		session: session,
		waiter:  NewWaiter(session, PollInterval),
		logger:  logger,
		timeout: DefaultTimeout,
		short:   ShortTimeout,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// WithDefaultTimeout returns a copy of i whose default tier is timeout
func (i *Interactor) WithDefaultTimeout(timeout time.Duration) *Interactor {
	c := *i
	c.timeout = timeout
	return &c
}

// Session returns the underlying browser session
func (i *Interactor) Session() Session {
	return i.session
}

// Logger returns the narration logger
func (i *Interactor) Logger() *zap.Logger {
	return i.logger
}

// Timeout returns the default tier
func (i *Interactor) Timeout() time.Duration {
	return i.timeout
}

// ShortTimeout returns the short tier
func (i *Interactor) ShortTimeout() time.Duration {
	return i.short
}

// Click waits for loc to be clickable, then clicks it
func (i *Interactor) Click(loc Locator) error {
	el, err := i.waiter.UntilClickable(loc, i.timeout)
	if err != nil {
		return fmt.Errorf("click %s: %w", loc, err)
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("click %s: %w", loc, err)
	}
	return nil
}

// Type waits for loc to be visible, clears it and enters text
func (i *Interactor) Type(loc Locator, text string) error {
	el, err := i.waiter.UntilVisible(loc, i.timeout)
	if err != nil {
		return fmt.Errorf("type into %s: %w", loc, err)
	}
	if err := el.Clear(); err != nil {
		return fmt.Errorf("clear %s: %w", loc, err)
	}
	if err := el.SendKeys(text); err != nil {
		return fmt.Errorf("type into %s: %w", loc, err)
	}
	return nil
}

// SendKeys waits for loc to be visible and types text without clearing it
func (i *Interactor) SendKeys(loc Locator, text string) error {
	el, err := i.waiter.UntilVisible(loc, i.timeout)
	if err != nil {
		return fmt.Errorf("type into %s: %w", loc, err)
	}
	if err := el.SendKeys(text); err != nil {
		return fmt.Errorf("type into %s: %w", loc, err)
	}
	return nil
}

// Text waits for loc to be visible and returns its text
func (i *Interactor) Text(loc Locator) (string, error) {
	el, err := i.waiter.UntilVisible(loc, i.timeout)
	if err != nil {
		return "", fmt.Errorf("read text of %s: %w", loc, err)
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read text of %s: %w", loc, err)
	}
	return text, nil
}

// WaitVisible waits for loc to be visible on the default tier
func (i *Interactor) WaitVisible(loc Locator) (Element, error) {
	return i.waiter.UntilVisible(loc, i.timeout)
}

// WaitClickable waits for loc to be clickable on the default tier
func (i *Interactor) WaitClickable(loc Locator) (Element, error) {
	return i.waiter.UntilClickable(loc, i.timeout)
}

// Lookup waits up to timeout for loc to be visible and reports the outcome
func (i *Interactor) Lookup(loc Locator, timeout time.Duration) Result {
	return i.waiter.Query(loc, timeout, Visible)
}

// IsDisplayed reports whether loc becomes visible on the default tier. It
// never fails: a timeout or a session error both read as false.
func (i *Interactor) IsDisplayed(loc Locator) bool {
	return i.IsDisplayedWithin(loc, i.timeout)
}

// IsDisplayedWithin is IsDisplayed with an explicit timeout
func (i *Interactor) IsDisplayedWithin(loc Locator, timeout time.Duration) bool {
	r := i.Lookup(loc, timeout)
	if !r.Found() {
		i.logger.Debug("element not displayed",
			zap.Stringer("locator", loc),
			zap.Stringer("state", r.State()),
			zap.Error(r.Err()),
		)
	}
	return r.Found()
}

// IsPresent checks once, without waiting, whether loc is displayed
func (i *Interactor) IsPresent(loc Locator) bool {
	return i.waiter.Query(loc, 0, Visible).Found()
}

// ContainsText reports whether the text of loc contains expected, ignoring case
func (i *Interactor) ContainsText(loc Locator, expected string) bool {
	text, err := i.Text(loc)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(expected))
}

// ScrollTo waits for loc to be attached and scrolls it into view
func (i *Interactor) ScrollTo(loc Locator) error {
	el, err := i.waiter.Until(loc, i.timeout, Present)
	if err != nil {
		return fmt.Errorf("scroll to %s: %w", loc, err)
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll to %s: %w", loc, err)
	}
	return nil
}

// Elements returns every element currently matching loc, without waiting
func (i *Interactor) Elements(loc Locator) ([]Element, error) {
	return i.session.FindElements(loc)
}

// Count returns how many elements currently match loc
func (i *Interactor) Count(loc Locator) (int, error) {
	elements, err := i.session.FindElements(loc)
	if err != nil {
		return 0, err
	}
	return len(elements), nil
}

// Texts returns the trimmed, non-empty texts of every element matching loc
func (i *Interactor) Texts(loc Locator) ([]string, error) {
	elements, err := i.session.FindElements(loc)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(elements))
	for _, el := range elements {
		text, err := el.Text()
		if err != nil {
			return nil, fmt.Errorf("read text of %s: %w", loc, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// Execute runs a script for its side effects
func (i *Interactor) Execute(script string, args ...any) error {
	_, err := i.session.ExecuteScript(script, args...)
	return err
}

// ScrollToBottom scrolls the window to the end of the document
func (i *Interactor) ScrollToBottom() error {
	return i.Execute("window.scrollTo(0, document.body.scrollHeight);")
}

// ScrollToTop scrolls the window to the start of the document
func (i *Interactor) ScrollToTop() error {
	return i.Execute("window.scrollTo(0, 0);")
}

// Navigate loads url in the session
func (i *Interactor) Navigate(url string) error {
	i.logger.Info("navigating", zap.String("url", url))
	return i.session.Navigate(url)
}

// Back goes one step back in history
func (i *Interactor) Back() error {
	return i.session.Back()
}
