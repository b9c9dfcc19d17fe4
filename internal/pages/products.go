package pages

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/browser"
)

// Products added by the order flow
const (
	FirstProductID  = "3"
	SecondProductID = "19"
)

var (
	allProductsTitle      = browser.XPath("//h2[contains(@class,'title') and contains(text(),'All Products')]")
	searchInput           = browser.ID("search_product")
	searchButton          = browser.ID("submit_search")
	searchedProductsTitle = browser.XPath("//h2[contains(text(),'Searched Products')]")
	continueShopping      = browser.XPath("//button[contains(text(),'Continue Shopping')]")
	viewCartModalLink     = browser.XPath("//u[contains(text(),'View Cart')]")
	firstViewProduct      = browser.XPath("(//a[contains(text(),'View Product')])[1]")
	brandsTitle           = browser.XPath("//h2[text()='Brands']")
)

func addToCartButton(productID string) browser.Locator {
	return browser.CSS(fmt.Sprintf("a[data-product-id='%s']", productID))
}

func productText(term string) browser.Locator {
	return browser.XPath(fmt.Sprintf("//*[contains(text(),%s)]", xpathLiteral(term)))
}

func brandLink(brand string) browser.Locator {
	return browser.XPath(fmt.Sprintf("//a[@href=%s]", xpathLiteral("/brand_products/"+brand)))
}

// ProductsPage lists products with search, brand filters and add-to-cart
type ProductsPage struct {
	ui *browser.Interactor
}

// NewProductsPage creates a ProductsPage
func NewProductsPage(ui *browser.Interactor) *ProductsPage {
	return &ProductsPage{ui: ui}
}

// IsAllProductsVisible reports whether the All Products heading is shown
func (p *ProductsPage) IsAllProductsVisible() bool {
	return p.ui.IsDisplayed(allProductsTitle)
}

// Search submits term in the product search box
func (p *ProductsPage) Search(term string) error {
	if err := p.ui.Type(searchInput, term); err != nil {
		return fmt.Errorf("search %q: %w", term, err)
	}
	return p.ui.Click(searchButton)
}

// IsSearchedProductsVisible reports whether the Searched Products heading is shown
func (p *ProductsPage) IsSearchedProductsVisible() bool {
	return p.ui.IsDisplayed(searchedProductsTitle)
}

// IsProductInResults reports whether any result mentions term, ignoring case
func (p *ProductsPage) IsProductInResults(term string) bool {
	return p.ui.ContainsText(productText(term), term)
}

// AddProductToCart adds one product and waits for the confirmation modal
func (p *ProductsPage) AddProductToCart(productID string) error {
	btn := addToCartButton(productID)
	if err := p.ui.ScrollTo(btn); err != nil {
		return err
	}
	if err := p.ui.Click(btn); err != nil {
		return fmt.Errorf("add product %s: %w", productID, err)
	}
	if _, err := p.ui.WaitVisible(continueShopping); err != nil {
		return fmt.Errorf("add product %s: confirmation modal: %w", productID, err)
	}
	p.ui.Logger().Info("added product to cart", zap.String("product", productID))
	return nil
}

// ContinueShopping closes the added-to-cart modal
func (p *ProductsPage) ContinueShopping() error {
	return p.ui.Click(continueShopping)
}

// GoToCart follows the modal's View Cart link when it is showing and the
// header cart link otherwise
func (p *ProductsPage) GoToCart() (*CartPage, error) {
	if p.ui.IsDisplayedWithin(viewCartModalLink, p.ui.ShortTimeout()) {
		if err := p.ui.Click(viewCartModalLink); err == nil {
			return NewCartPage(p.ui), nil
		}
	}
	if err := p.ui.Click(cartLink); err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	return NewCartPage(p.ui), nil
}

// AddProductsAndGoToCart adds each product, dismissing the modal after each
// one, then opens the cart
func (p *ProductsPage) AddProductsAndGoToCart(productIDs ...string) (*CartPage, error) {
	for _, id := range productIDs {
		if err := p.AddProductToCart(id); err != nil {
			return nil, err
		}
		if err := p.ContinueShopping(); err != nil {
			return nil, err
		}
	}
	return p.GoToCart()
}

// ViewFirstProduct opens the first listed product
func (p *ProductsPage) ViewFirstProduct() (*ProductDetailPage, error) {
	if err := p.ui.ScrollTo(firstViewProduct); err != nil {
		return nil, err
	}
	if err := p.ui.Click(firstViewProduct); err != nil {
		return nil, fmt.Errorf("view product: %w", err)
	}
	return NewProductDetailPage(p.ui), nil
}

// IsBrandsSectionVisible reports whether the Brands sidebar is shown
func (p *ProductsPage) IsBrandsSectionVisible() bool {
	return p.ui.IsDisplayed(brandsTitle)
}

// ClickBrand opens the listing for brand
func (p *ProductsPage) ClickBrand(brand string) (*BrandPage, error) {
	link := brandLink(brand)
	if err := p.ui.ScrollTo(link); err != nil {
		return nil, err
	}
	if err := p.ui.Click(link); err != nil {
		return nil, fmt.Errorf("open brand %s: %w", brand, err)
	}
	return NewBrandPage(p.ui), nil
}
