package pages

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/browser"
)

var (
	testCasesTitle = browser.XPath("//b[contains(text(),'Test Cases')]")
	testCasePanels = browser.XPath("//div[@class='panel-heading']//a")
)

const exportRule = "==================================================="

// TestCasesPage lists the site's documented test cases as collapsible panels
type TestCasesPage struct {
	ui  *browser.Interactor
	now func() time.Time
}

// NewTestCasesPage creates a TestCasesPage
func NewTestCasesPage(ui *browser.Interactor) *TestCasesPage {
	return &TestCasesPage{ui: ui, now: time.Now}
}

// IsDisplayed reports whether the Test Cases heading is shown
func (p *TestCasesPage) IsDisplayed() bool {
	return p.ui.IsDisplayed(testCasesTitle)
}

// Titles returns the non-empty panel titles in page order
func (p *TestCasesPage) Titles() ([]string, error) {
	return p.ui.Texts(testCasePanels)
}

// Export expands every test case in turn and writes its numbered title
// followed by the steps of that case's own panel. Panels opened earlier may
// stay expanded, so steps are read from the panel the heading points at.
func (p *TestCasesPage) Export(w io.Writer) error {
	cases, err := p.headings()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== AUTOMATION EXERCISE TEST CASES ===")
	fmt.Fprintf(w, "Extracted on: %s\n", p.now().Format(time.RFC3339))
	fmt.Fprintf(w, "%s\n\n", exportRule)

	for n, tc := range cases {
		fmt.Fprintf(w, "%d. %s\n", n+1, tc.title)

		if err := p.ui.Click(testCaseLink(tc.href)); err != nil {
			return fmt.Errorf("expand test case %q: %w", tc.title, err)
		}
		rows := testCaseSteps(strings.TrimPrefix(tc.href, "#"))
		if _, err := p.ui.WaitVisible(rows); err != nil {
			return fmt.Errorf("steps of test case %q: %w", tc.title, err)
		}
		steps, err := p.visibleSteps(rows)
		if err != nil {
			return err
		}
		for _, step := range steps {
			fmt.Fprintf(w, "   - %s\n", step)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, exportRule)
	_, err = fmt.Fprintln(w, "End of Test Cases")
	return err
}

type testCaseHeading struct {
	title string
	href  string
}

// headings reads every titled panel heading and the collapse target it toggles
func (p *TestCasesPage) headings() ([]testCaseHeading, error) {
	panels, err := p.ui.Elements(testCasePanels)
	if err != nil {
		return nil, fmt.Errorf("list test cases: %w", err)
	}
	var out []testCaseHeading
	for _, panel := range panels {
		title, err := panel.Text()
		if err != nil {
			return nil, fmt.Errorf("read test case title: %w", err)
		}
		if title = strings.TrimSpace(title); title == "" {
			continue
		}
		href, err := panel.Attribute("href")
		if err != nil {
			return nil, fmt.Errorf("read target of test case %q: %w", title, err)
		}
		if href = strings.TrimSpace(href); !strings.HasPrefix(href, "#") || len(href) == 1 {
			return nil, fmt.Errorf("test case %q has no collapse target (href %q)", title, href)
		}
		out = append(out, testCaseHeading{title: title, href: href})
	}
	return out, nil
}

// testCaseLink is the heading link toggling the panel with the given href
func testCaseLink(href string) browser.Locator {
	return browser.XPath(fmt.Sprintf("//div[@class='panel-heading']//a[@href='%s']", href))
}

// testCaseSteps matches the step rows inside one collapse panel
func testCaseSteps(panelID string) browser.Locator {
	return browser.XPath(fmt.Sprintf("//div[@id='%s']//li[@class='list-group-item']", panelID))
}

// visibleSteps returns the displayed, non-empty rows matching rows
func (p *TestCasesPage) visibleSteps(rows browser.Locator) ([]string, error) {
	elements, err := p.ui.Elements(rows)
	if err != nil {
		return nil, err
	}
	var steps []string
	for _, row := range elements {
		if shown, err := row.Displayed(); err != nil || !shown {
			continue
		}
		text, err := row.Text()
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			steps = append(steps, text)
		}
	}
	return steps, nil
}

// ExportToFile writes Export's output to dir/filename, creating dir when
// needed, and returns the file's path. The file only appears once the export
// is complete.
func (p *TestCasesPage) ExportToFile(dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, filename)
	f, err := os.CreateTemp(dir, "."+filename+".*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	defer os.Remove(tmp)
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := p.Export(w); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	p.ui.Logger().Info("test cases written", zap.String("path", path))
	return path, nil
}
