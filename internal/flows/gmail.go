package flows

import (
	"github.com/adyen/shopflow/internal/check"
	"github.com/adyen/shopflow/internal/pages"
)

// GmailLogin signs in to the mail client
func GmailLogin(env *Env) error {
	c := check.New("gmail-login", env.Logger)
	if _, err := gmailInbox(env, c); err != nil {
		return err
	}
	return c.Done()
}

// GmailCompose signs in and sends a message to the storefront account
func GmailCompose(env *Env) error {
	c := check.New("gmail-compose", env.Logger)
	inbox, err := gmailInbox(env, c)
	if err != nil {
		return err
	}

	c.Step("Compose email")
	recipient, err := env.Config.Get("EMAIL")
	if err := c.Must(err, "read recipient"); err != nil {
		return err
	}
	compose, err := inbox.Compose()
	if err := c.Must(err, "open compose dialog"); err != nil {
		return err
	}
	if err := c.Must(compose.Fill(recipient, "Test Subject", "Hello, this is a test email!"), "fill message"); err != nil {
		return err
	}

	c.Step("Send email")
	if err := c.Must(compose.Send(), "send message"); err != nil {
		return err
	}
	return c.Done()
}

func gmailInbox(env *Env, c *check.Flow) (*pages.GmailInboxPage, error) {
	c.Step("Log in to Gmail")
	email, password, err := env.credentials("GMAIL_EMAIL", "GMAIL_PASSWORD")
	if err := c.Must(err, "read Gmail credentials"); err != nil {
		return nil, err
	}
	inbox, err := pages.NewGmailLoginPage(env.UI()).Login(email, password)
	if err := c.Must(err, "submit Gmail login"); err != nil {
		return nil, err
	}
	if err := c.Hard(inbox.IsLoaded(), "inbox is loaded after login"); err != nil {
		return nil, err
	}
	return inbox, nil
}
