// Package flows holds the end-to-end scripts. Each flow drives screens from
// the pages package and records hard and soft checks with package check.
package flows

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/browser"
	"github.com/adyen/shopflow/internal/config"
)

// ErrUnknownFlow is returned by Lookup callers for names not registered
var ErrUnknownFlow = errors.New("unknown flow")

// DefaultGmailURL is used when GMAIL_URL is not configured
const DefaultGmailURL = "https://mail.google.com"

// Env is everything a flow needs from its surroundings
type Env struct {
	Session     browser.Session
	Config      *config.Values
	Logger      *zap.Logger
	Downloads   string
	TestDataDir string

	// DownloadTimeout bounds the wait for downloaded files; zero uses the
	// downloads package default
	DownloadTimeout time.Duration
	// UIOptions tune the Interactor shared by the flow's screens
	UIOptions []browser.Option

	once sync.Once
	ui   *browser.Interactor
}

// UI returns the Interactor over the env's session
func (e *Env) UI() *browser.Interactor {
	e.once.Do(func() {
		e.ui = browser.NewInteractor(e.Session, e.logger(), e.UIOptions...)
	})
	return e.ui
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// credentials reads a required email / password pair
func (e *Env) credentials(emailKey, passwordKey string) (string, string, error) {
	email, err := e.Config.Get(emailKey)
	if err != nil {
		return "", "", err
	}
	password, err := e.Config.Get(passwordKey)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

// Flow is a registered end-to-end script
type Flow struct {
	Name        string
	Description string
	Run         func(*Env) error

	// Requires lists configuration keys the flow cannot run without
	Requires []string

	startURL func(*config.Values) (string, error)
}

// Missing returns the required keys absent from cfg
func (f Flow) Missing(cfg *config.Values) []string {
	var missing []string
	for _, key := range f.Requires {
		if _, err := cfg.Get(key); err != nil {
			missing = append(missing, key)
		}
	}
	return missing
}

// StartURL is where the session is navigated before Run. Flows built outside
// this package start on a blank page.
func (f Flow) StartURL(cfg *config.Values) (string, error) {
	if f.startURL == nil {
		return "", nil
	}
	return f.startURL(cfg)
}

func baseURL(cfg *config.Values) (string, error) {
	return cfg.Get("BASE_URL")
}

func gmailURL(cfg *config.Values) (string, error) {
	return cfg.GetOr("GMAIL_URL", DefaultGmailURL), nil
}

var registry = map[string]Flow{}

func register(f Flow, start func(*config.Values) (string, error)) {
	f.startURL = start
	registry[f.Name] = f
}

var (
	account      = []string{"EMAIL", "PASSWORD"}
	gmailAccount = []string{"GMAIL_EMAIL", "GMAIL_PASSWORD"}
)

func init() {
	register(Flow{Name: "login", Description: "Log in from the home page",
		Run: Login, Requires: account}, baseURL)
	register(Flow{Name: "product-order", Description: "Search, add to cart, checkout, pay and verify the invoice",
		Run: ProductOrder, Requires: account}, baseURL)
	register(Flow{Name: "product-review", Description: "Write a review on a product",
		Run: ProductReview, Requires: []string{"EMAIL"}}, baseURL)
	register(Flow{Name: "brand-products", Description: "Browse Polo and H&M brand products",
		Run: BrandProducts}, baseURL)
	register(Flow{Name: "scroll", Description: "Scroll down to the subscription and back up with the arrow",
		Run: ScrollUpDown}, baseURL)
	register(Flow{Name: "export-test-cases", Description: "Write the site's test cases to a file, then log out",
		Run: ExportTestCases, Requires: account}, baseURL)
	register(Flow{Name: "gmail-login", Description: "Log in to Gmail",
		Run: GmailLogin, Requires: gmailAccount}, gmailURL)
	register(Flow{Name: "gmail-compose", Description: "Compose and send an email from Gmail",
		Run: GmailCompose, Requires: append([]string{"EMAIL"}, gmailAccount...)}, gmailURL)
}

// All returns every registered flow sorted by name
func All() []Flow {
	out := make([]Flow, 0, len(registry))
	for _, f := range registry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a flow by name
func Lookup(name string) (Flow, error) {
	f, ok := registry[name]
	if !ok {
		return Flow{}, fmt.Errorf("%w: %s", ErrUnknownFlow, name)
	}
	return f, nil
}
