package pages

import (
	"fmt"

	"github.com/adyen/shopflow/internal/browser"
)

var (
	nameOnCardInput       = browser.CSS("input[name='name_on_card'][data-qa='name-on-card']")
	cardNumberInput       = browser.CSS("input[name='card_number'][data-qa='card-number']")
	cvcInput              = browser.CSS("input[name='cvc'][data-qa='cvc']")
	expiryMonthInput      = browser.CSS("input[name='expiry_month'][data-qa='expiry-month']")
	expiryYearInput       = browser.CSS("input[name='expiry_year'][data-qa='expiry-year']")
	payButton             = browser.CSS("button[data-qa='pay-button']")
	orderConfirmedMessage = browser.XPath("//p[contains(text(),'Congratulations! Your order has been confirmed!')]")
	downloadInvoiceLink   = browser.XPath("//a[contains(@href,'/download_invoice') and contains(text(),'Download Invoice')]")
)

// Card holds payment card details
type Card struct {
	NameOnCard  string
	Number      string
	CVC         string
	ExpiryMonth string
	ExpiryYear  string
}

// TestCard is accepted by the storefront's test payment form
var TestCard = Card{
	NameOnCard:  "Tester",
	Number:      "4111111111111111",
	CVC:         "123",
	ExpiryMonth: "12",
	ExpiryYear:  "2026",
}

// PaymentPage is the card form and, after paying, the order confirmation
type PaymentPage struct {
	ui *browser.Interactor
}

// NewPaymentPage creates a PaymentPage
func NewPaymentPage(ui *browser.Interactor) *PaymentPage {
	return &PaymentPage{ui: ui}
}

// EnterCard fills the card form
func (p *PaymentPage) EnterCard(c Card) error {
	if _, err := p.ui.WaitVisible(nameOnCardInput); err != nil {
		return fmt.Errorf("payment form: %w", err)
	}
	fields := []struct {
		loc   browser.Locator
		value string
	}{
		{nameOnCardInput, c.NameOnCard},
		{cardNumberInput, c.Number},
		{cvcInput, c.CVC},
		{expiryMonthInput, c.ExpiryMonth},
		{expiryYearInput, c.ExpiryYear},
	}
	for _, f := range fields {
		if err := p.ui.Type(f.loc, f.value); err != nil {
			return err
		}
	}
	return nil
}

// PayAndConfirm submits the card form
func (p *PaymentPage) PayAndConfirm() error {
	if err := p.ui.ScrollTo(payButton); err != nil {
		return err
	}
	return p.ui.Click(payButton)
}

// Pay enters the card and confirms the order
func (p *PaymentPage) Pay(c Card) error {
	if err := p.EnterCard(c); err != nil {
		return err
	}
	return p.PayAndConfirm()
}

// IsOrderConfirmed reports whether the order confirmation message is shown
func (p *PaymentPage) IsOrderConfirmed() bool {
	return p.ui.IsDisplayed(orderConfirmedMessage)
}

// IsDownloadInvoiceVisible reports whether the Download Invoice link is shown
func (p *PaymentPage) IsDownloadInvoiceVisible() bool {
	return p.ui.IsDisplayed(downloadInvoiceLink)
}

// OrderMessage returns the confirmation text
func (p *PaymentPage) OrderMessage() (string, error) {
	return p.ui.Text(orderConfirmedMessage)
}

// Invoice returns the invoice actions of the confirmation screen
func (p *PaymentPage) Invoice() *InvoicePage {
	return NewInvoicePage(p.ui)
}
