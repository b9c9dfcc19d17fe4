package pages

import (
	"fmt"

	"github.com/adyen/shopflow/internal/browser"
)

var (
	homeIcon          = browser.CSS("a[href='/'] i.fa-home")
	productsLink      = browser.CSS("a[href='/products']")
	testCasesLink     = browser.XPath("//a[@href='/test_cases']")
	logoutLink        = browser.XPath("//a[@href='/logout']")
	signupLoginLink   = browser.XPath("//a[@href='/login' and contains(.,'Signup')]")
	subscriptionTitle = browser.XPath("//h2[text()='Subscription']")
	scrollUpButton    = browser.ID("scrollUp")
	fullFledgedText   = browser.XPath("//div[contains(@class,'item') and contains(@class,'active')]//h2[contains(text(),'Full-Fledged practice website')]")
)

// HomePage is the storefront landing page
type HomePage struct {
	ui *browser.Interactor
}

// NewHomePage creates a HomePage
func NewHomePage(ui *browser.Interactor) *HomePage {
	return &HomePage{ui: ui}
}

// IsVisible reports whether the header home icon is shown
func (p *HomePage) IsVisible() bool {
	return p.ui.IsDisplayed(homeIcon)
}

// ClickProducts opens the product listing
func (p *HomePage) ClickProducts() (*ProductsPage, error) {
	if err := p.ui.Click(productsLink); err != nil {
		return nil, fmt.Errorf("open products: %w", err)
	}
	return NewProductsPage(p.ui), nil
}

// ClickCart opens the cart
func (p *HomePage) ClickCart() (*CartPage, error) {
	if err := p.ui.Click(cartLink); err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	return NewCartPage(p.ui), nil
}

// ClickTestCases opens the test case listing
func (p *HomePage) ClickTestCases() (*TestCasesPage, error) {
	if err := p.ui.Click(testCasesLink); err != nil {
		return nil, fmt.Errorf("open test cases: %w", err)
	}
	return NewTestCasesPage(p.ui), nil
}

// ClickSignupLogin opens the login form
func (p *HomePage) ClickSignupLogin() (*LoginPage, error) {
	if err := p.ui.Click(signupLoginLink); err != nil {
		return nil, fmt.Errorf("open signup/login: %w", err)
	}
	return NewLoginPage(p.ui), nil
}

// ClickLogout logs out and lands on the login form
func (p *HomePage) ClickLogout() (*LoginPage, error) {
	if err := p.ui.Click(logoutLink); err != nil {
		return nil, fmt.Errorf("logout: %w", err)
	}
	return NewLoginPage(p.ui), nil
}

// ScrollToBottom scrolls to the page footer
func (p *HomePage) ScrollToBottom() error {
	return p.ui.ScrollToBottom()
}

// IsSubscriptionVisible reports whether the footer subscription heading is shown
func (p *HomePage) IsSubscriptionVisible() bool {
	return p.ui.IsDisplayed(subscriptionTitle)
}

// ClickScrollUp clicks the floating arrow and makes sure the window is back
// at the top even if the arrow's animation is still running
func (p *HomePage) ClickScrollUp() error {
	if err := p.ui.Click(scrollUpButton); err != nil {
		return fmt.Errorf("scroll up: %w", err)
	}
	return p.ui.ScrollToTop()
}

// IsFullFledgedTextVisible reports whether the active carousel slide heading is shown
func (p *HomePage) IsFullFledgedTextVisible() bool {
	if err := p.ui.ScrollTo(fullFledgedText); err != nil {
		return false
	}
	return p.ui.IsDisplayed(fullFledgedText)
}

// IsUserLoggedIn checks the header once for the logout link
func (p *HomePage) IsUserLoggedIn() bool {
	return p.ui.IsPresent(logoutLink)
}
