// Package pages models each screen of the storefront and the mail client as
// a struct composed with a browser.Interactor. Actions wait for their target
// before acting; boolean queries never return an error.
package pages

import (
	"strings"
	"time"

	"github.com/adyen/shopflow/internal/browser"
)

// GmailTimeout is the default tier for the mail client screens
const GmailTimeout = 15 * time.Second

// header links shared by every storefront screen
var (
	cartLink = browser.CSS("a[href='/view_cart']")
)

// xpathLiteral quotes s for use inside an XPath expression
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(quoted, `, "'", `) + ")"
}
