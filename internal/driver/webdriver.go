package driver

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/browser"
	"github.com/adyen/shopflow/internal/config"
)

// WebDriverLauncher opens sessions on a remote WebDriver endpoint such as a
// selenium grid or a standalone chromedriver
type WebDriverLauncher struct {
	logger *zap.Logger
}

// NewWebDriverLauncher creates a launcher for the webdriver backend
func NewWebDriverLauncher(logger *zap.Logger) *WebDriverLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebDriverLauncher{logger: logger}
}

// Launch implements Launcher
func (l *WebDriverLauncher) Launch(cfg *config.BrowserConfig) (browser.Session, error) {
	caps, err := webDriverCapabilities(cfg)
	if err != nil {
		return nil, err
	}

	wd, err := selenium.NewRemote(caps, cfg.WebDriverURL)
	if err != nil {
		return nil, fmt.Errorf("could not open webdriver session at %s: %w", cfg.WebDriverURL, err)
	}

	if err := configureWebDriver(wd, cfg); err != nil {
		if qerr := wd.Quit(); qerr != nil {
			l.logger.Warn("error quitting half-configured session", zap.Error(qerr))
		}
		return nil, err
	}

	return &webDriverSession{id: uuid.New().String(), wd: wd}, nil
}

func configureWebDriver(wd selenium.WebDriver, cfg *config.BrowserConfig) error {
	if err := wd.MaximizeWindow(""); err != nil {
		return fmt.Errorf("could not maximize window: %w", err)
	}
	if err := wd.DeleteAllCookies(); err != nil {
		return fmt.Errorf("could not clear cookies: %w", err)
	}
	if err := wd.SetPageLoadTimeout(cfg.PageLoadTimeout); err != nil {
		return fmt.Errorf("could not set page load timeout: %w", err)
	}
	// element waits are polled explicitly; an implicit wait would stretch
	// every empty lookup to the full implicit timeout. IMPLICIT_WAIT only
	// sets the playwright default action timeout.
	if err := wd.SetImplicitWaitTimeout(0); err != nil {
		return fmt.Errorf("could not set implicit wait: %w", err)
	}
	return nil
}

func webDriverCapabilities(cfg *config.BrowserConfig) (selenium.Capabilities, error) {
	switch cfg.Name {
	case config.BrowserChrome:
		caps := selenium.Capabilities{"browserName": "chrome"}
		caps.AddChrome(chrome.Capabilities{
			Args:  chromiumArgs(cfg.Headless, cfg.BlockedDomains),
			Prefs: downloadPrefs(cfg.DownloadDir),
			W3C:   true,
		})
		return caps, nil
	case config.BrowserEdge:
		caps := selenium.Capabilities{"browserName": "MicrosoftEdge"}
		caps["ms:edgeOptions"] = map[string]interface{}{
			"args":  chromiumArgs(cfg.Headless, cfg.BlockedDomains),
			"prefs": downloadPrefs(cfg.DownloadDir),
		}
		return caps, nil
	case config.BrowserFirefox:
		caps := selenium.Capabilities{"browserName": "firefox"}
		var args []string
		if cfg.Headless {
			args = append(args, "-headless")
		}
		caps.AddFirefox(firefox.Capabilities{
			Args: args,
			Prefs: map[string]interface{}{
				"browser.download.folderList":               2,
				"browser.download.dir":                      cfg.DownloadDir,
				"browser.download.useDownloadDir":           true,
				"browser.helperApps.neverAsk.saveToDisk":    "application/octet-stream,text/plain,application/pdf",
				"pdfjs.disabled":                            true,
				"dom.webnotifications.enabled":              false,
				"dom.disable_open_during_load":              false,
				"browser.download.manager.showWhenStarting": false,
			},
		})
		return caps, nil
	}
	return nil, config.ValidateBrowser(cfg.Name)
}

func webDriverBy(loc browser.Locator) string {
	switch loc.Strategy {
	case browser.ByXPath:
		return selenium.ByXPATH
	case browser.ByID:
		return selenium.ByID
	case browser.ByName:
		return selenium.ByName
	default:
		return selenium.ByCSSSelector
	}
}

type webDriverSession struct {
	id string
	wd selenium.WebDriver
}

func (s *webDriverSession) ID() string {
	return s.id
}

func (s *webDriverSession) FindElements(loc browser.Locator) ([]browser.Element, error) {
	found, err := s.wd.FindElements(webDriverBy(loc), loc.Selector)
	if err != nil {
		return nil, err
	}
	out := make([]browser.Element, 0, len(found))
	for _, el := range found {
		out = append(out, &webDriverElement{wd: s.wd, el: el})
	}
	return out, nil
}

func (s *webDriverSession) Navigate(url string) error {
	return s.wd.Get(url)
}

func (s *webDriverSession) Back() error {
	return s.wd.Back()
}

func (s *webDriverSession) CurrentURL() (string, error) {
	return s.wd.CurrentURL()
}

func (s *webDriverSession) ExecuteScript(script string, args ...any) (any, error) {
	converted := make([]interface{}, len(args))
	for i, a := range args {
		if el, ok := a.(*webDriverElement); ok {
			converted[i] = el.el
			continue
		}
		converted[i] = a
	}
	return s.wd.ExecuteScript(script, converted)
}

func (s *webDriverSession) Quit() error {
	return s.wd.Quit()
}

type webDriverElement struct {
	wd selenium.WebDriver
	el selenium.WebElement
}

func (e *webDriverElement) Displayed() (bool, error) {
	return e.el.IsDisplayed()
}

func (e *webDriverElement) Enabled() (bool, error) {
	return e.el.IsEnabled()
}

func (e *webDriverElement) Obscured() (bool, error) {
	v, err := e.wd.ExecuteScript(obscuredScript, []interface{}{e.el})
	if err != nil {
		return false, err
	}
	covered, _ := v.(bool)
	return covered, nil
}

func (e *webDriverElement) Text() (string, error) {
	return e.el.Text()
}

func (e *webDriverElement) Attribute(name string) (string, error) {
	return e.el.GetAttribute(name)
}

func (e *webDriverElement) Click() error {
	return e.el.Click()
}

func (e *webDriverElement) Clear() error {
	return e.el.Clear()
}

func (e *webDriverElement) SendKeys(text string) error {
	return e.el.SendKeys(text)
}

func (e *webDriverElement) ScrollIntoView() error {
	_, err := e.wd.ExecuteScript(scrollIntoViewScript, []interface{}{e.el})
	return err
}
