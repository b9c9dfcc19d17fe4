// Package driver owns the lifecycle of the single live browser session.
package driver

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/browser"
	"github.com/adyen/shopflow/internal/config"
)

// Launcher starts a browser session with the standing configuration applied
type Launcher interface {
	Launch(cfg *config.BrowserConfig) (browser.Session, error)
}

// LauncherFunc adapts a function to Launcher
type LauncherFunc func(cfg *config.BrowserConfig) (browser.Session, error)

// Launch implements Launcher
func (f LauncherFunc) Launch(cfg *config.BrowserConfig) (browser.Session, error) {
	return f(cfg)
}

// Manager holds zero or one live session
type Manager struct {
	mu       sync.Mutex
	cfg      *config.BrowserConfig
	launcher Launcher
	logger   *zap.Logger
	session  browser.Session
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithLauncher replaces the backend selected from configuration
func WithLauncher(l Launcher) ManagerOption {
	return func(m *Manager) {
		m.launcher = l
	}
}

// NewManager creates a manager for cfg. The backend named by cfg.Backend is
// used unless WithLauncher is given.
func NewManager(cfg *config.BrowserConfig, logger *zap.Logger, opts ...ManagerOption) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		cfg:    cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.launcher == nil {
		switch cfg.Backend {
		case config.BackendPlaywright:
			m.launcher = NewPlaywrightLauncher(logger)
		case config.BackendWebDriver:
			m.launcher = NewWebDriverLauncher(logger)
		default:
			return nil, &config.Error{Key: "BROWSER_BACKEND", Value: cfg.Backend, Err: config.ErrUnsupportedBackend}
		}
	}

	return m, nil
}

// Acquire returns the live session, launching one if none exists
func (m *Manager) Acquire() (browser.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return m.session, nil
	}

	// Checked here as well as at load time so a hand-built config cannot
	// start an unsupported browser.
	if err := config.ValidateBrowser(m.cfg.Name); err != nil {
		return nil, err
	}

	session, err := m.launcher.Launch(m.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s via %s: %w", m.cfg.Name, m.cfg.Backend, err)
	}

	m.session = session
	m.logger.Info("browser session started",
		zap.String("session", session.ID()),
		zap.String("browser", m.cfg.Name),
		zap.String("backend", m.cfg.Backend),
	)
	return session, nil
}

// Current returns the live session or nil
func (m *Manager) Current() browser.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Release quits the live session if there is one. Quit errors are logged and
// swallowed so teardown never changes a test's outcome.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return
	}

	id := m.session.ID()
	defer func() {
		m.session = nil
	}()

	if err := m.session.Quit(); err != nil {
		m.logger.Warn("error quitting browser session", zap.String("session", id), zap.Error(err))
		return
	}
	m.logger.Info("browser session closed", zap.String("session", id))
}
