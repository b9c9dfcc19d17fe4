package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/browser"
	"github.com/adyen/shopflow/internal/config"
)

// PlaywrightLauncher starts local browsers through the playwright driver
type PlaywrightLauncher struct {
	logger *zap.Logger
}

// NewPlaywrightLauncher creates a launcher for the playwright backend
func NewPlaywrightLauncher(logger *zap.Logger) *PlaywrightLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlaywrightLauncher{logger: logger}
}

// Launch implements Launcher
func (l *PlaywrightLauncher) Launch(cfg *config.BrowserConfig) (browser.Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	bt, err := browserType(pw, cfg.Name)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}

	b, err := bt.Launch(launchOptions(cfg))
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	s := &playwrightSession{
		id:          uuid.New().String(),
		pw:          pw,
		browser:     b,
		downloadDir: cfg.DownloadDir,
		logger:      l.logger,
	}

	if err := s.open(cfg); err != nil {
		_ = s.Quit()
		return nil, err
	}
	return s, nil
}

// InstallPlaywright downloads the playwright driver and the browsers needed
// for the named browsers
func InstallPlaywright(names ...string) error {
	browsers, err := playwrightBrowsers(names)
	if err != nil {
		return err
	}
	if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
		return fmt.Errorf("could not install playwright: %w", err)
	}
	return nil
}

// playwrightBrowsers maps browser names to playwright install targets
func playwrightBrowsers(names []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, name := range names {
		var target string
		switch name {
		case config.BrowserChrome:
			target = "chromium"
		case config.BrowserEdge:
			target = "msedge"
		case config.BrowserFirefox:
			target = "firefox"
		default:
			return nil, config.ValidateBrowser(name)
		}
		if !seen[target] {
			seen[target] = true
			out = append(out, target)
		}
	}
	return out, nil
}

func browserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case config.BrowserChrome, config.BrowserEdge:
		return pw.Chromium, nil
	case config.BrowserFirefox:
		return pw.Firefox, nil
	}
	return nil, config.ValidateBrowser(name)
}

func launchOptions(cfg *config.BrowserConfig) playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
	switch cfg.Name {
	case config.BrowserChrome, config.BrowserEdge:
		// headless mode is driven by the Headless option, not a switch
		opts.Args = chromiumArgs(false, nil)
		if cfg.Name == config.BrowserEdge {
			opts.Channel = playwright.String("msedge")
		}
	case config.BrowserFirefox:
		opts.FirefoxUserPrefs = map[string]interface{}{
			"dom.webnotifications.enabled": false,
			"dom.disable_open_during_load": false,
		}
	}
	return opts
}

func contextOptions(cfg *config.BrowserConfig) playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
	}
	if cfg.Headless {
		opts.Viewport = &playwright.Size{Width: 1920, Height: 1080}
	} else {
		// let the maximized window decide the viewport
		opts.NoViewport = playwright.Bool(true)
	}
	return opts
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}

type playwrightSession struct {
	id          string
	pw          *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	page        playwright.Page
	downloadDir string
	logger      *zap.Logger

	downloads downloadTracker
}

// downloadTracker counts in-flight download saves. Once closed it refuses new
// saves, so Add never races with Wait.
type downloadTracker struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// begin reserves a slot for one save; false once the session is quitting
func (t *downloadTracker) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.wg.Add(1)
	return true
}

func (t *downloadTracker) done() {
	t.wg.Done()
}

// close refuses further saves; wait blocks until reserved ones finish
func (t *downloadTracker) close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

func (t *downloadTracker) wait() {
	t.wg.Wait()
}

// open creates the browser context and page with the standing configuration
func (s *playwrightSession) open(cfg *config.BrowserConfig) error {
	ctx, err := s.browser.NewContext(contextOptions(cfg))
	if err != nil {
		return fmt.Errorf("could not create browser context: %w", err)
	}
	s.context = ctx

	if err := ctx.ClearCookies(); err != nil {
		return fmt.Errorf("could not clear cookies: %w", err)
	}
	ctx.SetDefaultTimeout(millis(cfg.ImplicitWait))
	ctx.SetDefaultNavigationTimeout(millis(cfg.PageLoadTimeout))

	if pattern := blockedURLPattern(cfg.BlockedDomains); pattern != nil {
		err := ctx.Route(pattern, func(route playwright.Route) {
			_ = route.Abort()
		})
		if err != nil {
			return fmt.Errorf("could not install ad blocking: %w", err)
		}
	}

	page, err := ctx.NewPage()
	if err != nil {
		return fmt.Errorf("could not open page: %w", err)
	}
	s.page = page
	page.OnDownload(s.saveDownload)
	return nil
}

// saveDownload copies a finished download into the configured directory
// under its suggested name
func (s *playwrightSession) saveDownload(d playwright.Download) {
	if !s.downloads.begin() {
		s.logger.Warn("download ignored, session is closing", zap.String("file", d.SuggestedFilename()))
		return
	}
	go func() {
		defer s.downloads.done()
		if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
			s.logger.Warn("could not create download directory", zap.String("dir", s.downloadDir), zap.Error(err))
			return
		}
		path := filepath.Join(s.downloadDir, filepath.Base(d.SuggestedFilename()))
		if err := d.SaveAs(path); err != nil {
			s.logger.Warn("could not save download", zap.String("path", path), zap.Error(err))
			return
		}
		s.logger.Debug("download saved", zap.String("path", path))
	}()
}

func (s *playwrightSession) ID() string {
	return s.id
}

func (s *playwrightSession) FindElements(loc browser.Locator) ([]browser.Element, error) {
	handles, err := s.page.QuerySelectorAll(selectorFor(loc))
	if err != nil {
		return nil, err
	}
	out := make([]browser.Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, &playwrightElement{handle: h})
	}
	return out, nil
}

func (s *playwrightSession) Navigate(url string) error {
	_, err := s.page.Goto(url)
	return err
}

func (s *playwrightSession) Back() error {
	_, err := s.page.GoBack()
	return err
}

func (s *playwrightSession) CurrentURL() (string, error) {
	return s.page.URL(), nil
}

func (s *playwrightSession) ExecuteScript(script string, args ...any) (any, error) {
	converted := make([]interface{}, len(args))
	for i, a := range args {
		if el, ok := a.(*playwrightElement); ok {
			converted[i] = el.handle
			continue
		}
		converted[i] = a
	}
	return s.page.Evaluate(functionBody(script), converted)
}

// Quit closes the context, the browser and the driver process. Downloads
// reported after Quit starts are ignored; saves already running are awaited.
func (s *playwrightSession) Quit() error {
	var errs []error
	s.downloads.close()
	if s.context != nil {
		errs = append(errs, s.context.Close())
	}
	s.downloads.wait()
	if s.browser != nil {
		errs = append(errs, s.browser.Close())
	}
	if s.pw != nil {
		errs = append(errs, s.pw.Stop())
	}
	return errors.Join(errs...)
}

func selectorFor(loc browser.Locator) string {
	switch loc.Strategy {
	case browser.ByXPath:
		return "xpath=" + loc.Selector
	case browser.ByID:
		return "id=" + loc.Selector
	case browser.ByName:
		return `css=[name="` + loc.Selector + `"]`
	default:
		return "css=" + loc.Selector
	}
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e *playwrightElement) Displayed() (bool, error) {
	return e.handle.IsVisible()
}

func (e *playwrightElement) Enabled() (bool, error) {
	return e.handle.IsEnabled()
}

func (e *playwrightElement) Obscured() (bool, error) {
	v, err := e.handle.Evaluate(elementFunction(obscuredScript))
	if err != nil {
		return false, err
	}
	covered, _ := v.(bool)
	return covered, nil
}

func (e *playwrightElement) Text() (string, error) {
	return e.handle.InnerText()
}

func (e *playwrightElement) Attribute(name string) (string, error) {
	return e.handle.GetAttribute(name)
}

func (e *playwrightElement) Click() error {
	return e.handle.Click()
}

func (e *playwrightElement) Clear() error {
	return e.handle.Fill("")
}

func (e *playwrightElement) SendKeys(text string) error {
	return e.handle.Type(text)
}

func (e *playwrightElement) ScrollIntoView() error {
	return e.handle.ScrollIntoViewIfNeeded()
}
