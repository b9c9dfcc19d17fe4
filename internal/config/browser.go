package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Browser names accepted in BROWSER
const (
	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"
	BrowserEdge    = "edge"
)

// Backends accepted in BROWSER_BACKEND
const (
	BackendPlaywright = "playwright"
	BackendWebDriver  = "webdriver"
)

var supportedBrowsers = map[string]bool{
	BrowserChrome:  true,
	BrowserFirefox: true,
	BrowserEdge:    true,
}

// DefaultBlockedDomains are the ad networks dropped at the network layer
var DefaultBlockedDomains = []string{
	"doubleclick.net",
	"adservice.google.com",
	"googlesyndication.com",
	"googleadservices.com",
	"adroll.com",
	"taboola.com",
}

// BrowserConfig holds the standing configuration applied to every session
type BrowserConfig struct {
	Name            string
	Backend         string
	WebDriverURL    string
	Headless        bool
	ImplicitWait    time.Duration
	PageLoadTimeout time.Duration
	DownloadDir     string
	BlockedDomains  []string
}

// SupportedBrowsers returns the accepted browser names in sorted order
func SupportedBrowsers() []string {
	names := make([]string, 0, len(supportedBrowsers))
	for name := range supportedBrowsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateBrowser reports whether name is a supported browser
func ValidateBrowser(name string) error {
	if !supportedBrowsers[name] {
		return &Error{Key: "BROWSER", Value: name, Err: ErrUnsupportedBrowser}
	}
	return nil
}

// LoadBrowserConfig loads and validates browser configuration
func LoadBrowserConfig(v *Values) (*BrowserConfig, error) {
	config := &BrowserConfig{
		Name:         strings.ToLower(v.GetOr("BROWSER", BrowserChrome)),
		Backend:      strings.ToLower(v.GetOr("BROWSER_BACKEND", BackendPlaywright)),
		WebDriverURL: v.GetOr("WEBDRIVER_URL", ""),
		DownloadDir:  v.GetOr("DOWNLOAD_DIR", defaultDownloadDir()),
	}

	// Validate required fields
	if err := ValidateBrowser(config.Name); err != nil {
		return nil, err
	}
	switch config.Backend {
	case BackendPlaywright:
	case BackendWebDriver:
		if config.WebDriverURL == "" {
			return nil, &Error{Key: "WEBDRIVER_URL", Err: ErrMissingKey}
		}
	default:
		return nil, &Error{Key: "BROWSER_BACKEND", Value: config.Backend, Err: ErrUnsupportedBackend}
	}

	var err error
	if config.Headless, err = v.Bool("HEADLESS", true); err != nil {
		return nil, err
	}
	if config.ImplicitWait, err = v.Duration("IMPLICIT_WAIT", 5*time.Second); err != nil {
		return nil, err
	}
	if config.PageLoadTimeout, err = v.Duration("PAGE_LOAD_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	blockAds, err := v.Bool("BLOCK_ADS", true)
	if err != nil {
		return nil, err
	}
	if blockAds {
		config.BlockedDomains = append([]string(nil), DefaultBlockedDomains...)
	}

	return config, nil
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "downloads"
	}
	return filepath.Join(home, "Downloads")
}
