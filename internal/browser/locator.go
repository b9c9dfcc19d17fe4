// Package browser defines the capability set the suite needs from a browser
// automation backend, and the wait policy every screen interaction goes
// through.
package browser

import "fmt"

// Strategy is how a Locator finds elements
type Strategy string

// Locator strategies understood by every backend
const (
	ByCSS   Strategy = "css"
	ByXPath Strategy = "xpath"
	ByID    Strategy = "id"
	ByName  Strategy = "name"
)

// Locator identifies DOM elements by strategy and selector
type Locator struct {
	Strategy Strategy
	Selector string
}

// CSS returns a CSS selector locator
func CSS(selector string) Locator {
	return Locator{Strategy: ByCSS, Selector: selector}
}

// XPath returns an XPath locator
func XPath(selector string) Locator {
	return Locator{Strategy: ByXPath, Selector: selector}
}

// ID returns a locator matching the element id attribute
func ID(id string) Locator {
	return Locator{Strategy: ByID, Selector: id}
}

// Name returns a locator matching the element name attribute
func Name(name string) Locator {
	return Locator{Strategy: ByName, Selector: name}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Selector)
}
