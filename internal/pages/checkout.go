package pages

import (
	"fmt"

	"github.com/adyen/shopflow/internal/browser"
)

var (
	deliveryAddress  = browser.XPath("//h3[text()='Your delivery address']")
	billingAddress   = browser.CSS("ul.address.invoice")
	placeOrderButton = browser.XPath("//a[contains(@href,'/payment') and contains(text(),'Place Order')]")
)

// CheckoutPage reviews addresses and the order before payment
type CheckoutPage struct {
	ui *browser.Interactor
}

// NewCheckoutPage creates a CheckoutPage
func NewCheckoutPage(ui *browser.Interactor) *CheckoutPage {
	return &CheckoutPage{ui: ui}
}

// IsDeliveryAddressVisible reports whether the delivery address block is shown
func (p *CheckoutPage) IsDeliveryAddressVisible() bool {
	return p.ui.IsDisplayed(deliveryAddress)
}

// IsBillingAddressVisible reports whether the billing address block is shown
func (p *CheckoutPage) IsBillingAddressVisible() bool {
	return p.ui.IsDisplayed(billingAddress)
}

// PlaceOrder moves on to payment. A leftover Proceed To Checkout button from
// the cart is clicked first when it is still showing.
func (p *CheckoutPage) PlaceOrder() (*PaymentPage, error) {
	if p.ui.IsDisplayedWithin(proceedToCheckoutButton, p.ui.ShortTimeout()) {
		_ = p.ui.Click(proceedToCheckoutButton)
	}
	if err := p.ui.ScrollTo(placeOrderButton); err != nil {
		return nil, err
	}
	if err := p.ui.Click(placeOrderButton); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return NewPaymentPage(p.ui), nil
}
