package pages

import (
	"fmt"

	"github.com/adyen/shopflow/internal/browser"
)

var (
	proceedToCheckoutButton = browser.XPath("//a[contains(@class,'check_out') and contains(text(),'Proceed To Checkout')]")
	registerLoginLink       = browser.XPath("//u[contains(text(),'Register / Login')]")
	cartRows                = browser.CSS("tr[id^='product-']")
)

// CartPage is the shopping cart
type CartPage struct {
	ui *browser.Interactor
}

// NewCartPage creates a CartPage
func NewCartPage(ui *browser.Interactor) *CartPage {
	return &CartPage{ui: ui}
}

// HasProducts reports whether at least one product row is shown
func (p *CartPage) HasProducts() bool {
	return p.ui.IsDisplayed(cartRows)
}

// ProceedToCheckoutClick scrolls to and clicks Proceed To Checkout
func (p *CartPage) ProceedToCheckoutClick() error {
	if err := p.ui.ScrollTo(proceedToCheckoutButton); err != nil {
		return err
	}
	return p.ui.Click(proceedToCheckoutButton)
}

// GoToLoginForCheckout starts checkout as a guest and follows the
// Register / Login prompt when it appears
func (p *CartPage) GoToLoginForCheckout() (*LoginPage, error) {
	if err := p.ProceedToCheckoutClick(); err != nil {
		return nil, fmt.Errorf("proceed to checkout: %w", err)
	}
	if p.ui.IsDisplayedWithin(registerLoginLink, p.ui.ShortTimeout()) {
		if err := p.ui.Click(registerLoginLink); err != nil {
			return nil, fmt.Errorf("register / login: %w", err)
		}
	}
	return NewLoginPage(p.ui), nil
}

// ProceedToCheckout continues to the address review as a logged in user
func (p *CartPage) ProceedToCheckout() (*CheckoutPage, error) {
	if err := p.ProceedToCheckoutClick(); err != nil {
		return nil, fmt.Errorf("proceed to checkout: %w", err)
	}
	return NewCheckoutPage(p.ui), nil
}
