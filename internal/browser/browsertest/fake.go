// Package browsertest provides an in-memory browser session for exercising
// the wait policy, screens and flows without a real browser.
package browsertest

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adyen/shopflow/internal/browser"
)

// ErrDetached is returned by elements that were removed from the page
var ErrDetached = errors.New("stale element: detached from the page")

// Session is a scripted browser.Session. The zero value is not usable; call NewSession.
type Session struct {
	mu       sync.Mutex
	id       string
	elements map[browser.Locator][]*Element
	history  []string
	scripts  []string
	quit     bool

	// FindErr, when set, is returned from every FindElements call
	FindErr error
	// QuitErr is returned from Quit
	QuitErr error
	// ScriptResult is returned from ExecuteScript
	ScriptResult any
	// OnNavigate runs after every Navigate and Back with the new URL
	OnNavigate func(s *Session, url string)
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{
		id:       uuid.New().String(),
		elements: make(map[browser.Locator][]*Element),
	}
}

// Add places a new element matching loc on the page and returns it
func (s *Session) Add(loc browser.Locator, text string) *Element {
	el := &Element{
		session:   s,
		text:      text,
		displayed: true,
		enabled:   true,
	}
	s.mu.Lock()
	s.elements[loc] = append(s.elements[loc], el)
	s.mu.Unlock()
	return el
}

// Remove detaches every element matching loc
func (s *Session) Remove(loc browser.Locator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range s.elements[loc] {
		el.detached = true
	}
	delete(s.elements, loc)
}

// Clear detaches every element on the page
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, els := range s.elements {
		for _, el := range els {
			el.detached = true
		}
	}
	s.elements = make(map[browser.Locator][]*Element)
}

// Lookup returns the first element registered for loc, or nil
func (s *Session) Lookup(loc browser.Locator) *Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	if els := s.elements[loc]; len(els) > 0 {
		return els[0]
	}
	return nil
}

// ID implements browser.Session
func (s *Session) ID() string {
	return s.id
}

// FindElements implements browser.Session
func (s *Session) FindElements(loc browser.Locator) ([]browser.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quit {
		return nil, errors.New("session is closed")
	}
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	els := s.elements[loc]
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

// Navigate implements browser.Session
func (s *Session) Navigate(url string) error {
	s.mu.Lock()
	s.history = append(s.history, url)
	hook := s.OnNavigate
	s.mu.Unlock()
	if hook != nil {
		hook(s, url)
	}
	return nil
}

// Back implements browser.Session
func (s *Session) Back() error {
	s.mu.Lock()
	if len(s.history) > 1 {
		s.history = s.history[:len(s.history)-1]
	}
	url := ""
	if len(s.history) > 0 {
		url = s.history[len(s.history)-1]
	}
	hook := s.OnNavigate
	s.mu.Unlock()
	if hook != nil {
		hook(s, url)
	}
	return nil
}

// CurrentURL implements browser.Session
func (s *Session) CurrentURL() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return "about:blank", nil
	}
	return s.history[len(s.history)-1], nil
}

// ExecuteScript implements browser.Session and records the script
func (s *Session) ExecuteScript(script string, args ...any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, script)
	return s.ScriptResult, nil
}

// Quit implements browser.Session
func (s *Session) Quit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quit = true
	return s.QuitErr
}

// Closed reports whether Quit was called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quit
}

// History returns every URL navigated to, oldest first
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// Scripts returns every script executed, oldest first
func (s *Session) Scripts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scripts...)
}

// Element is a scripted browser.Element
type Element struct {
	session   *Session
	text      string
	value     string
	attrs     map[string]string
	displayed bool
	enabled   bool
	obscured  bool
	detached  bool
	showAt    time.Time
	clicks    int
	scrolled  int
	onClick   func()
}

// Hidden marks the element as attached but not displayed
func (e *Element) Hidden() *Element {
	e.session.mu.Lock()
	e.displayed = false
	e.session.mu.Unlock()
	return e
}

// Disabled marks the element as not enabled
func (e *Element) Disabled() *Element {
	e.session.mu.Lock()
	e.enabled = false
	e.session.mu.Unlock()
	return e
}

// Covered marks the element as obscured by another element
func (e *Element) Covered() *Element {
	e.session.mu.Lock()
	e.obscured = true
	e.session.mu.Unlock()
	return e
}

// ShowAfter keeps the element hidden until d has elapsed
func (e *Element) ShowAfter(d time.Duration) *Element {
	e.session.mu.Lock()
	e.showAt = time.Now().Add(d)
	e.session.mu.Unlock()
	return e
}

// WithAttribute sets an attribute returned by Attribute
func (e *Element) WithAttribute(name, value string) *Element {
	e.session.mu.Lock()
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
	e.session.mu.Unlock()
	return e
}

// OnClick registers a handler run after each click, outside the session lock
func (e *Element) OnClick(fn func()) *Element {
	e.session.mu.Lock()
	e.onClick = fn
	e.session.mu.Unlock()
	return e
}

// Value returns what was typed into the element
func (e *Element) Value() string {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	return e.value
}

// Clicks returns how many times the element was clicked
func (e *Element) Clicks() int {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	return e.clicks
}

// Scrolled returns how many times the element was scrolled into view
func (e *Element) Scrolled() int {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	return e.scrolled
}

// Displayed implements browser.Element
func (e *Element) Displayed() (bool, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	if e.detached {
		return false, ErrDetached
	}
	if !e.showAt.IsZero() && time.Now().Before(e.showAt) {
		return false, nil
	}
	return e.displayed, nil
}

// Enabled implements browser.Element
func (e *Element) Enabled() (bool, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	if e.detached {
		return false, ErrDetached
	}
	return e.enabled, nil
}

// Obscured implements browser.Element
func (e *Element) Obscured() (bool, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	if e.detached {
		return false, ErrDetached
	}
	return e.obscured, nil
}

// Text implements browser.Element
func (e *Element) Text() (string, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	if e.detached {
		return "", ErrDetached
	}
	return e.text, nil
}

// Attribute implements browser.Element
func (e *Element) Attribute(name string) (string, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	if e.detached {
		return "", ErrDetached
	}
	return e.attrs[name], nil
}

// Click implements browser.Element
func (e *Element) Click() error {
	e.session.mu.Lock()
	if e.detached {
		e.session.mu.Unlock()
		return ErrDetached
	}
	e.clicks++
	fn := e.onClick
	e.session.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

// Clear implements browser.Element
func (e *Element) Clear() error {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	if e.detached {
		return ErrDetached
	}
	e.value = ""
	return nil
}

// SendKeys implements browser.Element
func (e *Element) SendKeys(text string) error {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	if e.detached {
		return ErrDetached
	}
	e.value += text
	return nil
}

// ScrollIntoView implements browser.Element
func (e *Element) ScrollIntoView() error {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	if e.detached {
		return ErrDetached
	}
	e.scrolled++
	return nil
}
