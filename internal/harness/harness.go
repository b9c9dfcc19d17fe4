// Package harness wires configuration, the driver manager and the run journal
// around test execution: one fresh browser session per test, released when the
// test finishes whatever its outcome.
package harness

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/browser"
	"github.com/adyen/shopflow/internal/check"
	"github.com/adyen/shopflow/internal/config"
	"github.com/adyen/shopflow/internal/driver"
	"github.com/adyen/shopflow/internal/flows"
)

// DefaultTestDataDir receives files written by flows when TEST_DATA_DIR is unset
const DefaultTestDataDir = "testdata"

// Status is the outcome of one test
type Status string

// Test outcomes
const (
	StatusPassed  Status = "PASSED"
	StatusFailed  Status = "FAILED"
	StatusSkipped Status = "SKIPPED"
)

// ErrNoRecordedTest is returned by TearDownTest without a matching SetupTest
var ErrNoRecordedTest = errors.New("no test in progress")

// Result is the outcome of Run
type Result struct {
	Flow     string
	Status   Status
	Err      error
	Failures []string
	Duration time.Duration
}

// Harness runs tests against one browser configuration
type Harness struct {
	cfg      *config.Values
	browser  *config.BrowserConfig
	manager  *driver.Manager
	logger   *zap.Logger
	recorder Recorder

	uiOptions       []browser.Option
	downloadTimeout time.Duration

	mu      sync.Mutex
	current *testRun
}

type testRun struct {
	name      string
	reference string
	started   time.Time
}

type options struct {
	recorder        Recorder
	managerOptions  []driver.ManagerOption
	uiOptions       []browser.Option
	downloadTimeout time.Duration
}

// Option configures a Harness
type Option func(*options)

// WithRecorder sets where test outcomes are recorded
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithLauncher replaces the browser backend chosen by configuration
func WithLauncher(l driver.Launcher) Option {
	return func(o *options) {
		o.managerOptions = append(o.managerOptions, driver.WithLauncher(l))
	}
}

// WithUIOptions tunes the Interactor handed to flows
func WithUIOptions(opts ...browser.Option) Option {
	return func(o *options) {
		o.uiOptions = append(o.uiOptions, opts...)
	}
}

// WithDownloadTimeout bounds how long flows wait for downloaded files
func WithDownloadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.downloadTimeout = d
	}
}

// New validates the browser configuration and creates a harness. A bad
// BROWSER or backend is reported here, before any test starts.
func New(cfg *config.Values, logger *zap.Logger, opts ...Option) (*Harness, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &options{recorder: NopRecorder{}}
	for _, opt := range opts {
		opt(o)
	}

	browserCfg, err := config.LoadBrowserConfig(cfg)
	if err != nil {
		return nil, err
	}
	manager, err := driver.NewManager(browserCfg, logger, o.managerOptions...)
	if err != nil {
		return nil, err
	}

	return &Harness{
		cfg:             cfg,
		browser:         browserCfg,
		manager:         manager,
		logger:          logger,
		recorder:        o.recorder,
		uiOptions:       o.uiOptions,
		downloadTimeout: o.downloadTimeout,
	}, nil
}

// Config returns the loaded configuration
func (h *Harness) Config() *config.Values {
	return h.cfg
}

// Browser returns the validated browser configuration
func (h *Harness) Browser() *config.BrowserConfig {
	return h.browser
}

// Manager returns the driver manager owning the live session
func (h *Harness) Manager() *driver.Manager {
	return h.manager
}

// SetupSuite announces the start of a suite
func (h *Harness) SetupSuite(name string) {
	h.logger.Info("starting suite",
		zap.String("suite", name),
		zap.String("browser", h.browser.Name),
		zap.String("backend", h.browser.Backend),
		zap.String("config", h.cfg.Source()),
	)
}

// SetupTest starts a test: the outcome is recorded as running, a fresh
// session is acquired and navigated to startURL when it is not empty.
func (h *Harness) SetupTest(name, startURL string) (*flows.Env, error) {
	h.logger.Info("starting test", zap.String("test", name))

	reference, err := h.recorder.Started(name, h.browser.Name)
	if err != nil {
		h.logger.Warn("failed to record test start", zap.String("test", name), zap.Error(err))
	}
	h.mu.Lock()
	h.current = &testRun{name: name, reference: reference, started: time.Now()}
	h.mu.Unlock()

	session, err := h.manager.Acquire()
	if err != nil {
		return nil, err
	}
	if startURL != "" {
		if err := session.Navigate(startURL); err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", startURL, err)
		}
	}

	return &flows.Env{
		Session:         session,
		Config:          h.cfg,
		Logger:          h.logger,
		Downloads:       h.browser.DownloadDir,
		TestDataDir:     h.cfg.GetOr("TEST_DATA_DIR", DefaultTestDataDir),
		DownloadTimeout: h.downloadTimeout,
		UIOptions:       h.uiOptions,
	}, nil
}

// TearDownTest logs and records the outcome of the running test, then
// releases the browser session. The session is released even when recording
// fails.
func (h *Harness) TearDownTest(name string, status Status, failures []string) error {
	defer h.manager.Release()

	h.mu.Lock()
	current := h.current
	h.current = nil
	h.mu.Unlock()

	fields := []zap.Field{zap.String("test", name), zap.String("status", string(status))}
	if current != nil {
		fields = append(fields, zap.Duration("duration", time.Since(current.started)))
	}
	switch status {
	case StatusFailed:
		h.logger.Error("test "+string(status), append(fields, zap.Strings("failures", failures))...)
	case StatusSkipped:
		h.logger.Warn("test "+string(status), append(fields, zap.Strings("reasons", failures))...)
	default:
		h.logger.Info("test "+string(status), fields...)
	}

	if current == nil || current.name != name {
		return fmt.Errorf("%w: %s", ErrNoRecordedTest, name)
	}
	if current.reference == "" {
		return nil
	}
	if err := h.recorder.Finished(current.reference, status, failures); err != nil {
		h.logger.Warn("failed to record test outcome", zap.String("test", name), zap.Error(err))
		return err
	}
	return nil
}

// TearDownSuite releases anything a test left behind
func (h *Harness) TearDownSuite(name string) {
	h.manager.Release()
	h.logger.Info("finished suite", zap.String("suite", name))
}

// Run executes one flow between SetupTest and TearDownTest. Flows whose
// required configuration is missing are skipped without launching a browser.
func (h *Harness) Run(flow flows.Flow) (result Result) {
	start := time.Now()
	result = Result{Flow: flow.Name}
	defer func() {
		result.Duration = time.Since(start)
	}()

	if missing := flow.Missing(h.cfg); len(missing) > 0 {
		reasons := make([]string, 0, len(missing))
		for _, key := range missing {
			reasons = append(reasons, "missing configuration key "+key)
		}
		h.skip(flow.Name, reasons)
		result.Status = StatusSkipped
		result.Failures = reasons
		return result
	}

	startURL, err := flow.StartURL(h.cfg)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		result.Failures = []string{err.Error()}
		h.logger.Error("cannot start test", zap.String("test", flow.Name), zap.Error(err))
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			result.Status = StatusFailed
			result.Err = fmt.Errorf("flow %s panicked: %v", flow.Name, r)
			result.Failures = []string{result.Err.Error()}
		}
		_ = h.TearDownTest(flow.Name, result.Status, result.Failures)
	}()

	env, err := h.SetupTest(flow.Name, startURL)
	if err == nil {
		err = flow.Run(env)
	}
	result.Err = err
	result.Failures = check.Failures(err)
	if err != nil {
		result.Status = StatusFailed
	} else {
		result.Status = StatusPassed
	}
	return result
}

func (h *Harness) skip(name string, reasons []string) {
	reference, err := h.recorder.Started(name, h.browser.Name)
	if err != nil {
		h.logger.Warn("failed to record test start", zap.String("test", name), zap.Error(err))
	}
	h.logger.Warn("test "+string(StatusSkipped), zap.String("test", name), zap.Strings("reasons", reasons))
	if reference == "" {
		return
	}
	if err := h.recorder.Finished(reference, StatusSkipped, reasons); err != nil {
		h.logger.Warn("failed to record test outcome", zap.String("test", name), zap.Error(err))
	}
}

// RunAll runs flows in order as one suite
func (h *Harness) RunAll(suite string, list []flows.Flow) []Result {
	h.SetupSuite(suite)
	defer h.TearDownSuite(suite)

	results := make([]Result, 0, len(list))
	for _, flow := range list {
		results = append(results, h.Run(flow))
	}
	return results
}

// Summary counts results by status
func Summary(results []Result) map[Status]int {
	counts := map[Status]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
