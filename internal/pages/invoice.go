package pages

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/browser"
)

// InvoiceTotalText appears in every invoice
const InvoiceTotalText = "Your total purchase amount"

// InvoicePage is the invoice download on the order confirmation screen
type InvoicePage struct {
	ui *browser.Interactor
}

// NewInvoicePage creates an InvoicePage
func NewInvoicePage(ui *browser.Interactor) *InvoicePage {
	return &InvoicePage{ui: ui}
}

// IsDownloadAvailable reports whether the Download Invoice link is shown
func (p *InvoicePage) IsDownloadAvailable() bool {
	return p.ui.IsDisplayed(downloadInvoiceLink)
}

// Download starts the invoice download; the file is awaited separately
func (p *InvoicePage) Download() error {
	return p.ui.Click(downloadInvoiceLink)
}

// Verify reports whether the invoice at path names the customer and carries
// the total line
func (p *InvoicePage) Verify(path, name string) bool {
	return VerifyInvoice(p.ui.Logger(), path, name, InvoiceTotalText)
}

// VerifyInvoice checks that the file at path contains name (case-sensitive)
// and text (case-insensitive). Line breaks are read as spaces.
func VerifyInvoice(logger *zap.Logger, path, name, text string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("could not read invoice", zap.String("path", path), zap.Error(err))
		return false
	}
	content := strings.Join(strings.Fields(string(data)), " ")
	logger.Debug("invoice content", zap.String("content", content))

	return strings.Contains(content, name) &&
		strings.Contains(strings.ToLower(content), strings.ToLower(text))
}
