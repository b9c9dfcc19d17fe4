//go:build e2e
// +build e2e

package e2e

// Feature: Gmail
//
// Both scenarios run against the live mail client and are skipped unless
// GMAIL_EMAIL and GMAIL_PASSWORD are configured.
func (s *FlowSuite) TestGmailLogin() {
	// Scenario: Sign in
	//   When I enter my Gmail credentials
	//   Then the inbox is loaded
	s.run("gmail-login")
}

func (s *FlowSuite) TestGmailCompose() {
	// Scenario: Send a message to the shop account
	//   Given I am signed in to Gmail
	//   When I compose and send a message to EMAIL
	//   Then the message is sent
	s.run("gmail-compose")
}
