package pages

import (
	"fmt"

	"github.com/adyen/shopflow/internal/browser"
)

var brandProductImage = browser.XPath("//img[contains(@src,'/get_product_picture/')]")

func brandTitle(brand string) browser.Locator {
	return browser.XPath(fmt.Sprintf("//h2[@class='title text-center' and text()=%s]",
		xpathLiteral("Brand - "+brand+" Products")))
}

// BrandPage lists the products of a single brand
type BrandPage struct {
	ui *browser.Interactor
}

// NewBrandPage creates a BrandPage
func NewBrandPage(ui *browser.Interactor) *BrandPage {
	return &BrandPage{ui: ui}
}

// IsBrandPageDisplayed reports whether the "Brand - <brand> Products" heading is shown
func (p *BrandPage) IsBrandPageDisplayed(brand string) bool {
	return p.ui.IsDisplayed(brandTitle(brand))
}

// AreProductsDisplayed reports whether at least one product card is listed
func (p *BrandPage) AreProductsDisplayed() bool {
	return p.ui.IsDisplayed(brandProductImage)
}

// ViewFirstProduct opens the first listed product
func (p *BrandPage) ViewFirstProduct() (*ProductDetailPage, error) {
	if err := p.ui.ScrollTo(firstViewProduct); err != nil {
		return nil, err
	}
	if err := p.ui.Click(firstViewProduct); err != nil {
		return nil, fmt.Errorf("view product: %w", err)
	}
	return NewProductDetailPage(p.ui), nil
}
