package pages

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/browser"
)

var (
	writeReviewLink     = browser.XPath("//a[@href='#reviews' and contains(text(),'Write Your Review')]")
	reviewNameInput     = browser.ID("name")
	reviewEmailInput    = browser.ID("email")
	reviewTextArea      = browser.ID("review")
	submitReviewButton  = browser.ID("button-review")
	reviewSuccessToast  = browser.XPath("//span[contains(text(),'Thank you for your review.')]")
	productBrandCaption = browser.XPath("//p[starts-with(normalize-space(.),'Brand:')]")
)

// Review is what a shopper writes about a product
type Review struct {
	Name  string
	Email string
	Text  string
}

// ProductDetailPage shows one product with its brand and review form
type ProductDetailPage struct {
	ui *browser.Interactor
}

// NewProductDetailPage creates a ProductDetailPage
func NewProductDetailPage(ui *browser.Interactor) *ProductDetailPage {
	return &ProductDetailPage{ui: ui}
}

// IsWriteReviewVisible reports whether the review form is shown
func (p *ProductDetailPage) IsWriteReviewVisible() bool {
	if err := p.ui.ScrollTo(writeReviewLink); err != nil {
		return false
	}
	return p.ui.IsDisplayed(writeReviewLink)
}

// SubmitReview fills and submits the review form. The returned bool reports
// whether the success toast was seen; it disappears quickly, so missing it
// is not an error.
func (p *ProductDetailPage) SubmitReview(r Review) (bool, error) {
	if err := p.ui.ScrollTo(writeReviewLink); err != nil {
		return false, err
	}
	if err := p.ui.Type(reviewNameInput, r.Name); err != nil {
		return false, err
	}
	if err := p.ui.Type(reviewEmailInput, r.Email); err != nil {
		return false, err
	}
	if err := p.ui.Type(reviewTextArea, r.Text); err != nil {
		return false, err
	}
	if err := p.ui.Click(submitReviewButton); err != nil {
		return false, fmt.Errorf("submit review: %w", err)
	}

	seen := p.ui.IsDisplayedWithin(reviewSuccessToast, browser.TransientTimeout)
	if seen {
		p.ui.Logger().Info("review submitted", zap.String("reviewer", r.Name))
	} else {
		p.ui.Logger().Info("review success message did not appear", zap.String("reviewer", r.Name))
	}
	return seen, nil
}

// BrandName returns the brand from the "Brand: X" caption
func (p *ProductDetailPage) BrandName() (string, error) {
	text, err := p.ui.Text(productBrandCaption)
	if err != nil {
		return "", err
	}
	if _, brand, ok := strings.Cut(text, ":"); ok {
		return strings.TrimSpace(brand), nil
	}
	return strings.TrimSpace(text), nil
}

// HasBrand compares the product's brand with expected, ignoring case
func (p *ProductDetailPage) HasBrand(expected string) bool {
	brand, err := p.BrandName()
	if err != nil {
		return false
	}
	return strings.EqualFold(brand, expected)
}
