package pages

import (
	"fmt"

	"github.com/adyen/shopflow/internal/browser"
)

var (
	gmailEmailInput    = browser.ID("identifierId")
	gmailEmailNext     = browser.ID("identifierNext")
	gmailPasswordInput = browser.XPath("//input[@name='Passwd']")
	gmailPasswordNext  = browser.ID("passwordNext")
	gmailComposeButton = browser.CSS(".T-I.T-I-KE.L3")
	gmailFirstSubject  = browser.CSS("tr.zA:first-child span.bog")
	gmailToField       = browser.Name("to")
	gmailSubjectField  = browser.Name("subjectbox")
	gmailBodyField     = browser.CSS("div[aria-label='Message Body']")
	gmailSendButton    = browser.CSS("div[aria-label*='Send']")
)

// GmailLoginPage is the two-step Google sign-in form
type GmailLoginPage struct {
	ui *browser.Interactor
}

// NewGmailLoginPage creates a GmailLoginPage on the mail client tier
func NewGmailLoginPage(ui *browser.Interactor) *GmailLoginPage {
	return &GmailLoginPage{ui: ui.WithDefaultTimeout(GmailTimeout)}
}

// Login enters the account and password on consecutive screens
func (p *GmailLoginPage) Login(email, password string) (*GmailInboxPage, error) {
	if err := p.ui.SendKeys(gmailEmailInput, email); err != nil {
		return nil, fmt.Errorf("gmail email: %w", err)
	}
	if err := p.ui.Click(gmailEmailNext); err != nil {
		return nil, err
	}
	if err := p.ui.SendKeys(gmailPasswordInput, password); err != nil {
		return nil, fmt.Errorf("gmail password: %w", err)
	}
	if err := p.ui.Click(gmailPasswordNext); err != nil {
		return nil, err
	}
	return &GmailInboxPage{ui: p.ui}, nil
}

// GmailInboxPage is the mailbox list
type GmailInboxPage struct {
	ui *browser.Interactor
}

// NewGmailInboxPage creates a GmailInboxPage on the mail client tier
func NewGmailInboxPage(ui *browser.Interactor) *GmailInboxPage {
	return &GmailInboxPage{ui: ui.WithDefaultTimeout(GmailTimeout)}
}

// IsLoaded reports whether the Compose button is shown
func (p *GmailInboxPage) IsLoaded() bool {
	return p.ui.IsDisplayed(gmailComposeButton)
}

// FirstSubject returns the subject of the newest message
func (p *GmailInboxPage) FirstSubject() (string, error) {
	return p.ui.Text(gmailFirstSubject)
}

// Compose opens a new message
func (p *GmailInboxPage) Compose() (*GmailComposePage, error) {
	if err := p.ui.Click(gmailComposeButton); err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	return &GmailComposePage{ui: p.ui}, nil
}

// GmailComposePage is the new message dialog
type GmailComposePage struct {
	ui *browser.Interactor
}

// Fill types the recipient, subject and body
func (p *GmailComposePage) Fill(to, subject, body string) error {
	if err := p.ui.SendKeys(gmailToField, to); err != nil {
		return fmt.Errorf("recipient: %w", err)
	}
	if err := p.ui.SendKeys(gmailSubjectField, subject); err != nil {
		return fmt.Errorf("subject: %w", err)
	}
	if err := p.ui.SendKeys(gmailBodyField, body); err != nil {
		return fmt.Errorf("body: %w", err)
	}
	return nil
}

// Send sends the message
func (p *GmailComposePage) Send() error {
	return p.ui.Click(gmailSendButton)
}
