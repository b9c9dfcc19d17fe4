package browser

// Element is a handle to one DOM element
type Element interface {
	// Displayed reports whether the element is attached and has a non-zero rendered size
	Displayed() (bool, error)
	Enabled() (bool, error)
	// Obscured reports whether another element covers the element's center point
	Obscured() (bool, error)
	Text() (string, error)
	// Attribute returns the named attribute, or "" when it is not set
	Attribute(name string) (string, error)
	Click() error
	Clear() error
	SendKeys(text string) error
	ScrollIntoView() error
}

// Session is one live browser automation connection
type Session interface {
	ID() string
	// FindElements returns every element matching loc. No match is an empty
	// slice, not an error.
	FindElements(loc Locator) ([]Element, error)
	Navigate(url string) error
	Back() error
	CurrentURL() (string, error)
	// ExecuteScript runs script as a function body; arguments are available
	// through the arguments object and a return statement yields the result.
	ExecuteScript(script string, args ...any) (any, error)
	Quit() error
}
