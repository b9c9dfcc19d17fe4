package flows

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/check"
	"github.com/adyen/shopflow/internal/downloads"
	"github.com/adyen/shopflow/internal/pages"
)

// SearchTerm is the product the order flow searches for
const SearchTerm = "Sleeveless"

// openHome is the hard precondition every storefront flow starts with
func openHome(env *Env, c *check.Flow) (*pages.HomePage, error) {
	c.Step("Verify homepage")
	home := pages.NewHomePage(env.UI())
	if err := c.Hard(home.IsVisible(), "home page is visible"); err != nil {
		return nil, err
	}
	return home, nil
}

// Login signs in from the home page header
func Login(env *Env) error {
	c := check.New("login", env.Logger)
	home, err := openHome(env, c)
	if err != nil {
		return err
	}

	c.Step("Open Signup / Login")
	login, err := home.ClickSignupLogin()
	if err := c.Must(err, "open signup / login"); err != nil {
		return err
	}

	c.Step("Log in")
	email, password, err := env.credentials("EMAIL", "PASSWORD")
	if err := c.Must(err, "read account credentials"); err != nil {
		return err
	}
	if err := c.Must(login.Login(email, password), "submit login form"); err != nil {
		return err
	}
	if err := c.Hard(login.IsUserLoggedIn(), "user is logged in"); err != nil {
		return err
	}
	return c.Done()
}

// ProductOrder searches, fills the cart, logs in during checkout, pays and
// checks the downloaded invoice
func ProductOrder(env *Env) error {
	c := check.New("product-order", env.Logger)
	home, err := openHome(env, c)
	if err != nil {
		return err
	}

	c.Step("Navigate to products")
	products, err := home.ClickProducts()
	if err := c.Must(err, "open products"); err != nil {
		return err
	}
	c.Soft(products.IsAllProductsVisible(), "ALL PRODUCTS page is visible")

	c.Step("Search for " + SearchTerm)
	if err := c.Must(products.Search(SearchTerm), "search products"); err != nil {
		return err
	}
	c.Soft(products.IsSearchedProductsVisible(), "SEARCHED PRODUCTS section is visible")
	c.Soft(products.IsProductInResults(SearchTerm), "a product containing '"+SearchTerm+"' is in the results")

	c.Step("Add two products to cart")
	cart, err := products.AddProductsAndGoToCart(pages.FirstProductID, pages.SecondProductID)
	if err := c.Must(err, "add products and open cart"); err != nil {
		return err
	}
	c.Soft(cart.HasProducts(), "products are in the cart")

	c.Step("Proceed to checkout and log in")
	login, err := cart.GoToLoginForCheckout()
	if err := c.Must(err, "proceed to checkout as guest"); err != nil {
		return err
	}
	email, password, err := env.credentials("EMAIL", "PASSWORD")
	if err := c.Must(err, "read account credentials"); err != nil {
		return err
	}
	if err := c.Must(login.Login(email, password), "submit login form"); err != nil {
		return err
	}
	if err := c.Hard(login.IsUserLoggedIn(), "user is logged in"); err != nil {
		return err
	}

	c.Step("Proceed to checkout")
	cart, err = login.GoToCart()
	if err := c.Must(err, "return to cart"); err != nil {
		return err
	}
	checkout, err := cart.ProceedToCheckout()
	if err := c.Must(err, "proceed to checkout"); err != nil {
		return err
	}
	c.Soft(checkout.IsDeliveryAddressVisible(), "delivery address is visible")

	c.Step("Place order and pay")
	payment, err := checkout.PlaceOrder()
	if err := c.Must(err, "place order"); err != nil {
		return err
	}
	if err := c.Must(payment.Pay(pages.TestCard), "pay and confirm"); err != nil {
		return err
	}
	if err := c.Hard(payment.IsOrderConfirmed(), "order confirmation is displayed"); err != nil {
		return err
	}
	c.Soft(payment.IsDownloadInvoiceVisible(), "Download Invoice button is visible")

	c.Step("Download invoice")
	invoice := payment.Invoice()
	c.Soft(invoice.IsDownloadAvailable(), "invoice download is available")
	downloads.Cleanup(env.Downloads, downloads.InvoiceMatch)
	started := time.Now()
	if err := c.Must(invoice.Download(), "start invoice download"); err != nil {
		return err
	}

	c.Step("Verify invoice")
	path, err := downloads.Await(env.Downloads, downloads.InvoiceMatch, downloads.Options{
		Timeout: env.DownloadTimeout,
		// coarse filesystem timestamps can predate the click slightly
		NewerThan: started.Add(-2 * time.Second),
	})
	if c.Soft(err == nil, "invoice file was downloaded") {
		env.logger().Info("invoice downloaded", zap.String("path", path))
		c.Soft(invoice.Verify(path, pages.TestCard.NameOnCard),
			fmt.Sprintf("invoice contains %q and %q", pages.TestCard.NameOnCard, pages.InvoiceTotalText))
	} else {
		env.logger().Warn("invoice not downloaded", zap.Error(err))
	}

	return c.Done()
}

// ProductReview opens the first product and submits a review
func ProductReview(env *Env) error {
	c := check.New("product-review", env.Logger)
	home, err := openHome(env, c)
	if err != nil {
		return err
	}

	c.Step("Navigate to products")
	products, err := home.ClickProducts()
	if err := c.Must(err, "open products"); err != nil {
		return err
	}
	c.Soft(products.IsAllProductsVisible(), "ALL PRODUCTS page is visible")

	c.Step("View first product")
	detail, err := products.ViewFirstProduct()
	if err := c.Must(err, "open first product"); err != nil {
		return err
	}
	c.Soft(detail.IsWriteReviewVisible(), "Write Your Review section is visible")

	c.Step("Submit review")
	email, err := env.Config.Get("EMAIL")
	if err := c.Must(err, "read reviewer email"); err != nil {
		return err
	}
	_, err = detail.SubmitReview(pages.Review{Name: "Test Reviewer", Email: email, Text: "Good Product"})
	if err := c.Must(err, "submit review"); err != nil {
		return err
	}
	return c.Done()
}

// BrandProducts browses two brands and checks each product's brand caption
func BrandProducts(env *Env) error {
	c := check.New("brand-products", env.Logger)
	home, err := openHome(env, c)
	if err != nil {
		return err
	}

	c.Step("Navigate to products")
	products, err := home.ClickProducts()
	if err := c.Must(err, "open products"); err != nil {
		return err
	}
	c.Soft(products.IsAllProductsVisible(), "ALL PRODUCTS page is visible")
	c.Soft(products.IsBrandsSectionVisible(), "Brands section is visible")

	for i, brand := range []string{"Polo", "H&M"} {
		if i > 0 {
			// back from the product detail and the first brand's listing
			if err := c.Must(env.UI().Back(), "back to brand page"); err != nil {
				return err
			}
			if err := c.Must(env.UI().Back(), "back to products"); err != nil {
				return err
			}
		}

		c.Step("Navigate to " + brand + " brand")
		page, err := products.ClickBrand(brand)
		if err := c.Must(err, "open brand "+brand); err != nil {
			return err
		}
		c.Soft(page.IsBrandPageDisplayed(brand), brand+" brand page is displayed")
		c.Soft(page.AreProductsDisplayed(), brand+" brand products are displayed")

		c.Step("Verify " + brand + " product brand")
		detail, err := page.ViewFirstProduct()
		if err := c.Must(err, "view first "+brand+" product"); err != nil {
			return err
		}
		c.Soft(detail.HasBrand(brand), "product detail shows brand "+brand)
	}
	return c.Done()
}

// ScrollUpDown scrolls to the footer and back with the arrow button
func ScrollUpDown(env *Env) error {
	c := check.New("scroll", env.Logger)
	home, err := openHome(env, c)
	if err != nil {
		return err
	}

	c.Step("Scroll down to bottom")
	if err := c.Must(home.ScrollToBottom(), "scroll to bottom"); err != nil {
		return err
	}
	c.Soft(home.IsSubscriptionVisible(), "SUBSCRIPTION is visible at the bottom")

	c.Step("Scroll up with the arrow")
	if err := c.Must(home.ClickScrollUp(), "click scroll up arrow"); err != nil {
		return err
	}
	if err := c.Hard(home.IsFullFledgedTextVisible(), "Full-Fledged text is visible at the top"); err != nil {
		return err
	}
	return c.Done()
}

// ExportTestCases writes the test case listing to TestDataDir, then makes
// sure the user is logged in and logs out
func ExportTestCases(env *Env) error {
	c := check.New("export-test-cases", env.Logger)
	home, err := openHome(env, c)
	if err != nil {
		return err
	}

	c.Step("Navigate to test cases")
	testCases, err := home.ClickTestCases()
	if err := c.Must(err, "open test cases"); err != nil {
		return err
	}
	c.Soft(testCases.IsDisplayed(), "Test Cases page is displayed")

	c.Step("Write test cases to file")
	filename := fmt.Sprintf("TestCases_%d.txt", time.Now().UnixMilli())
	path, err := testCases.ExportToFile(env.TestDataDir, filename)
	if err := c.Must(err, "write test cases file"); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if c.Soft(err == nil, "test cases file exists at "+path) {
		env.logger().Info("test cases file written", zap.String("path", path), zap.Int64("bytes", info.Size()))
	}

	if !home.IsUserLoggedIn() {
		c.Step("Log in before logout")
		login, err := home.ClickSignupLogin()
		if err := c.Must(err, "open signup / login"); err != nil {
			return err
		}
		email, password, err := env.credentials("EMAIL", "PASSWORD")
		if err := c.Must(err, "read account credentials"); err != nil {
			return err
		}
		if err := c.Must(login.Login(email, password), "submit login form"); err != nil {
			return err
		}
		if err := c.Hard(login.IsUserLoggedIn(), "user is logged in before logout"); err != nil {
			return err
		}
	}

	c.Step("Log out")
	login, err := home.ClickLogout()
	if err := c.Must(err, "click logout"); err != nil {
		return err
	}
	if err := c.Hard(login.IsUserLoggedOut(), "user is logged out"); err != nil {
		return err
	}
	return c.Done()
}
