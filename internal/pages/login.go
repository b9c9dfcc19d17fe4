package pages

import (
	"fmt"

	"github.com/adyen/shopflow/internal/browser"
)

var (
	loginEmailInput    = browser.CSS("input[data-qa='login-email']")
	loginPasswordInput = browser.CSS("input[data-qa='login-password']")
	loginButton        = browser.CSS("button[data-qa='login-button']")
	loggedInAs         = browser.XPath("//a[contains(text(),'Logged in as')]")
	loginAccountTitle  = browser.XPath("//h2[contains(text(),'Login to your account')]")
)

// LoginPage is the signup / login form
type LoginPage struct {
	ui *browser.Interactor
}

// NewLoginPage creates a LoginPage
func NewLoginPage(ui *browser.Interactor) *LoginPage {
	return &LoginPage{ui: ui}
}

// Login submits the login form. Whether it worked is checked separately
// with IsUserLoggedIn.
func (p *LoginPage) Login(email, password string) error {
	if _, err := p.ui.WaitVisible(loginEmailInput); err != nil {
		return fmt.Errorf("login form: %w", err)
	}
	if err := p.ui.Type(loginEmailInput, email); err != nil {
		return err
	}
	if err := p.ui.Type(loginPasswordInput, password); err != nil {
		return err
	}
	return p.ui.Click(loginButton)
}

// IsUserLoggedIn reports whether the header shows "Logged in as"
func (p *LoginPage) IsUserLoggedIn() bool {
	return p.ui.IsDisplayed(loggedInAs)
}

// IsUserLoggedOut reports whether the login form heading is shown again
func (p *LoginPage) IsUserLoggedOut() bool {
	return p.ui.IsDisplayed(loginAccountTitle)
}

// GoToCart opens the cart from the header
func (p *LoginPage) GoToCart() (*CartPage, error) {
	if err := p.ui.Click(cartLink); err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	return NewCartPage(p.ui), nil
}
