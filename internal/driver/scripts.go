package driver

import (
	"regexp"
	"strings"
)

// obscuredScript returns true when something other than arguments[0] (or one
// of its descendants) sits on top of the element's center point. Elements
// outside the viewport are not reported as obscured; clicking scrolls them.
const obscuredScript = `
var el = arguments[0];
var r = el.getBoundingClientRect();
var top = document.elementFromPoint(r.left + r.width / 2, r.top + r.height / 2);
return top !== null && top !== el && !el.contains(top);
`

const scrollIntoViewScript = `arguments[0].scrollIntoView(true);`

// functionBody turns a WebDriver-style script body into a playwright
// expression taking the argument list as its single parameter
func functionBody(script string) string {
	return "(args) => (function() {\n" + script + "\n}).apply(null, args)"
}

// elementFunction turns a WebDriver-style script body into a playwright
// expression evaluated against one element handle
func elementFunction(script string) string {
	return "(el) => (function() {\n" + script + "\n}).apply(null, [el])"
}

// chromiumArgs are the switches applied to chrome and edge on every backend
func chromiumArgs(headless bool, blocked []string) []string {
	args := []string{
		"--start-maximized",
		"--disable-notifications",
		"--disable-popup-blocking",
		"--disable-dev-shm-usage",
		"--no-sandbox",
		"--disable-gpu",
	}
	if headless {
		args = append(args, "--headless=new")
	}
	if rules := hostResolverRules(blocked); rules != "" {
		args = append(args, "--host-resolver-rules="+rules)
	}
	return args
}

// hostResolverRules maps each blocked domain and its subdomains to an
// unresolvable address
func hostResolverRules(domains []string) string {
	if len(domains) == 0 {
		return ""
	}
	rules := make([]string, 0, len(domains)*2)
	for _, d := range domains {
		rules = append(rules, "MAP "+d+" ~NOTFOUND", "MAP *."+d+" ~NOTFOUND")
	}
	return strings.Join(rules, ", ")
}

// blockedURLPattern matches http(s) URLs on any of the domains or their subdomains
func blockedURLPattern(domains []string) *regexp.Regexp {
	if len(domains) == 0 {
		return nil
	}
	quoted := make([]string, len(domains))
	for i, d := range domains {
		quoted[i] = regexp.QuoteMeta(d)
	}
	return regexp.MustCompile(`^https?://([^/]*\.)?(` + strings.Join(quoted, "|") + `)(:\d+)?(/|$)`)
}

// downloadPrefs redirects chromium downloads into dir without prompting
func downloadPrefs(dir string) map[string]interface{} {
	return map[string]interface{}{
		"download.default_directory":         dir,
		"download.prompt_for_download":       false,
		"plugins.always_open_pdf_externally": true,
		"profile.default_content_setting_values.notifications": 2,
	}
}
