package pages

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/browser"
	"github.com/adyen/shopflow/internal/browser/browsertest"
)

func newUI(s *browsertest.Session) *browser.Interactor {
	return browser.NewInteractor(s, zap.NewNop(),
		browser.WithTimeouts(100*time.Millisecond, 40*time.Millisecond),
		browser.WithPollInterval(5*time.Millisecond),
	)
}

// loginScreen scripts a login form that accepts exactly one account
func loginScreen(email, password string) *browsertest.Session {
	s := browsertest.NewSession()
	_ = s.Navigate("https://example.test/login")
	emailInput := s.Add(loginEmailInput, "")
	passwordInput := s.Add(loginPasswordInput, "")
	s.Add(loginAccountTitle, "Login to your account")
	s.Add(loginButton, "Login").OnClick(func() {
		if emailInput.Value() == email && passwordInput.Value() == password {
			s.Remove(loginAccountTitle)
			s.Add(loggedInAs, "Logged in as Test User")
		}
	})
	return s
}

func TestLoginPage_Login(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		password     string
		wantLoggedIn bool
	}{
		{name: "correct credentials", email: "user@example.test", password: "secret", wantLoggedIn: true},
		{name: "empty password", email: "user@example.test", password: "", wantLoggedIn: false},
		{name: "wrong password", email: "user@example.test", password: "nope", wantLoggedIn: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given a login form for user@example.test / secret
			s := loginScreen("user@example.test", "secret")
			page := NewLoginPage(newUI(s))

			// When the user submits the form
			err := page.Login(tt.email, tt.password)

			// Then submitting never fails and the header reflects the outcome
			require.NoError(t, err)
			assert.Equal(t, tt.wantLoggedIn, page.IsUserLoggedIn())
			assert.Equal(t, !tt.wantLoggedIn, page.IsUserLoggedOut())
		})
	}
}

func TestLoginPage_LoginWithoutForm(t *testing.T) {
	page := NewLoginPage(newUI(browsertest.NewSession()))
	assert.ErrorIs(t, page.Login("a", "b"), browser.ErrNotFound)
}

func TestHomePage(t *testing.T) {
	s := browsertest.NewSession()
	s.Add(homeIcon, "")
	products := s.Add(productsLink, "Products")
	s.Add(subscriptionTitle, "Subscription")
	s.Add(fullFledgedText, "Full-Fledged practice website for Automation Engineers")
	up := s.Add(scrollUpButton, "")
	home := NewHomePage(newUI(s))

	assert.True(t, home.IsVisible())
	assert.False(t, home.IsUserLoggedIn())

	pp, err := home.ClickProducts()
	require.NoError(t, err)
	assert.NotNil(t, pp)
	assert.Equal(t, 1, products.Clicks())

	require.NoError(t, home.ScrollToBottom())
	assert.True(t, home.IsSubscriptionVisible())
	require.NoError(t, home.ClickScrollUp())
	assert.Equal(t, 1, up.Clicks())
	assert.True(t, home.IsFullFledgedTextVisible())
	assert.Equal(t, []string{
		"window.scrollTo(0, document.body.scrollHeight);",
		"window.scrollTo(0, 0);",
	}, s.Scripts())

	_, err = home.ClickLogout()
	assert.ErrorIs(t, err, browser.ErrNotFound)

	s.Add(logoutLink, "Logout")
	assert.True(t, home.IsUserLoggedIn())
}

func TestHomePage_NotLoaded(t *testing.T) {
	home := NewHomePage(newUI(browsertest.NewSession()))
	assert.False(t, home.IsVisible())
	assert.False(t, home.IsFullFledgedTextVisible())
	assert.False(t, home.IsSubscriptionVisible())
}

// productListing scripts the products grid with an add-to-cart modal
func productListing(ids ...string) *browsertest.Session {
	s := browsertest.NewSession()
	s.Add(allProductsTitle, "All Products")
	s.Add(cartLink, "Cart")
	for _, id := range ids {
		s.Add(addToCartButton(id), "Add to cart").OnClick(func() {
			s.Add(continueShopping, "Continue Shopping")
			s.Add(viewCartModalLink, "View Cart")
		})
	}
	return s
}

func TestProductsPage_AddProductToCart(t *testing.T) {
	s := productListing(FirstProductID)
	page := NewProductsPage(newUI(s))

	require.NoError(t, page.AddProductToCart(FirstProductID))
	btn := s.Lookup(addToCartButton(FirstProductID))
	assert.Equal(t, 1, btn.Scrolled())
	assert.Equal(t, 1, btn.Clicks())

	// no modal for an unknown product
	assert.ErrorIs(t, page.AddProductToCart("999"), browser.ErrNotFound)
}

func TestProductsPage_GoToCart(t *testing.T) {
	t.Run("modal link", func(t *testing.T) {
		s := productListing(FirstProductID)
		page := NewProductsPage(newUI(s))
		require.NoError(t, page.AddProductToCart(FirstProductID))

		_, err := page.GoToCart()
		require.NoError(t, err)
		assert.Equal(t, 1, s.Lookup(viewCartModalLink).Clicks())
		assert.Zero(t, s.Lookup(cartLink).Clicks())
	})

	t.Run("header fallback", func(t *testing.T) {
		s := productListing()
		page := NewProductsPage(newUI(s))

		_, err := page.GoToCart()
		require.NoError(t, err)
		assert.Equal(t, 1, s.Lookup(cartLink).Clicks())
	})
}

func TestProductsPage_AddProductsAndGoToCart(t *testing.T) {
	s := productListing(FirstProductID, SecondProductID)
	added := 0
	for _, id := range []string{FirstProductID, SecondProductID} {
		s.Lookup(addToCartButton(id)).OnClick(func() {
			added++
			s.Add(continueShopping, "Continue Shopping").OnClick(func() {
				s.Remove(continueShopping)
			})
		})
	}
	page := NewProductsPage(newUI(s))

	cart, err := page.AddProductsAndGoToCart(FirstProductID, SecondProductID)
	require.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, s.Lookup(cartLink).Clicks())
}

func TestProductsPage_Search(t *testing.T) {
	s := browsertest.NewSession()
	input := s.Add(searchInput, "")
	s.Add(searchButton, "").OnClick(func() {
		s.Add(searchedProductsTitle, "Searched Products")
		s.Add(productText("Sleeveless"), "Sleeveless Dress")
	})
	page := NewProductsPage(newUI(s))

	assert.False(t, page.IsSearchedProductsVisible())
	require.NoError(t, page.Search("Sleeveless"))
	assert.Equal(t, "Sleeveless", input.Value())
	assert.True(t, page.IsSearchedProductsVisible())
	assert.True(t, page.IsProductInResults("Sleeveless"))
	assert.False(t, page.IsProductInResults("Jeans"))
}

func TestProductsPage_Brands(t *testing.T) {
	s := browsertest.NewSession()
	s.Add(brandsTitle, "Brands")
	polo := s.Add(brandLink("Polo"), "Polo")
	page := NewProductsPage(newUI(s))

	assert.True(t, page.IsBrandsSectionVisible())
	bp, err := page.ClickBrand("Polo")
	require.NoError(t, err)
	assert.NotNil(t, bp)
	assert.Equal(t, 1, polo.Clicks())

	_, err = page.ClickBrand("H&M")
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestBrandPage(t *testing.T) {
	s := browsertest.NewSession()
	s.Add(brandTitle("H&M"), "Brand - H&M Products")
	s.Add(brandProductImage, "")
	view := s.Add(firstViewProduct, "View Product")
	page := NewBrandPage(newUI(s))

	assert.True(t, page.IsBrandPageDisplayed("H&M"))
	assert.False(t, page.IsBrandPageDisplayed("Polo"))
	assert.True(t, page.AreProductsDisplayed())

	_, err := page.ViewFirstProduct()
	require.NoError(t, err)
	assert.Equal(t, 1, view.Clicks())
}

func TestProductDetailPage_Brand(t *testing.T) {
	tests := []struct {
		caption string
		want    string
	}{
		{"Brand: Polo", "Polo"},
		{"Brand:   H&M  ", "H&M"},
		{"Polo", "Polo"},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			s := browsertest.NewSession()
			s.Add(productBrandCaption, tt.caption)
			page := NewProductDetailPage(newUI(s))

			got, err := page.BrandName()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, page.HasBrand(strings.ToLower(tt.want)))
		})
	}

	page := NewProductDetailPage(newUI(browsertest.NewSession()))
	assert.False(t, page.HasBrand("Polo"), "missing caption reads as no match")
}

func reviewForm(showToast bool) *browsertest.Session {
	s := browsertest.NewSession()
	s.Add(writeReviewLink, "Write Your Review")
	s.Add(reviewNameInput, "")
	s.Add(reviewEmailInput, "")
	s.Add(reviewTextArea, "")
	s.Add(submitReviewButton, "Submit").OnClick(func() {
		if showToast {
			s.Add(reviewSuccessToast, "Thank you for your review.")
		}
	})
	return s
}

func TestProductDetailPage_SubmitReview(t *testing.T) {
	review := Review{Name: "Test Reviewer", Email: "user@example.test", Text: "Good Product"}

	t.Run("toast seen", func(t *testing.T) {
		s := reviewForm(true)
		page := NewProductDetailPage(newUI(s))

		assert.True(t, page.IsWriteReviewVisible())
		seen, err := page.SubmitReview(review)
		require.NoError(t, err)
		assert.True(t, seen)
		assert.Equal(t, "Test Reviewer", s.Lookup(reviewNameInput).Value())
		assert.Equal(t, "Good Product", s.Lookup(reviewTextArea).Value())
	})

	t.Run("toast already gone", func(t *testing.T) {
		s := reviewForm(false)
		page := NewProductDetailPage(newUI(s))

		seen, err := page.SubmitReview(review)
		require.NoError(t, err, "a missed toast is not a failure")
		assert.False(t, seen)
		assert.Equal(t, 1, s.Lookup(submitReviewButton).Clicks())
	})
}

func TestCartPage(t *testing.T) {
	t.Run("guest is sent to login", func(t *testing.T) {
		s := browsertest.NewSession()
		s.Add(cartRows, "Blue Top")
		s.Add(proceedToCheckoutButton, "Proceed To Checkout").OnClick(func() {
			s.Add(registerLoginLink, "Register / Login")
		})
		cart := NewCartPage(newUI(s))

		assert.True(t, cart.HasProducts())
		lp, err := cart.GoToLoginForCheckout()
		require.NoError(t, err)
		assert.NotNil(t, lp)
		assert.Equal(t, 1, s.Lookup(registerLoginLink).Clicks())
	})

	t.Run("logged in user skips prompt", func(t *testing.T) {
		s := browsertest.NewSession()
		s.Add(proceedToCheckoutButton, "Proceed To Checkout")
		cart := NewCartPage(newUI(s))

		assert.False(t, cart.HasProducts())
		_, err := cart.GoToLoginForCheckout()
		require.NoError(t, err)

		co, err := cart.ProceedToCheckout()
		require.NoError(t, err)
		assert.NotNil(t, co)
		assert.Equal(t, 2, s.Lookup(proceedToCheckoutButton).Clicks())
	})
}

func TestCheckoutPage_PlaceOrder(t *testing.T) {
	s := browsertest.NewSession()
	s.Add(deliveryAddress, "Your delivery address")
	s.Add(billingAddress, "Mr. Tester")
	place := s.Add(placeOrderButton, "Place Order")
	page := NewCheckoutPage(newUI(s))

	assert.True(t, page.IsDeliveryAddressVisible())
	assert.True(t, page.IsBillingAddressVisible())

	pay, err := page.PlaceOrder()
	require.NoError(t, err)
	assert.NotNil(t, pay)
	assert.Equal(t, 1, place.Clicks())
}

func TestPaymentPage_Pay(t *testing.T) {
	s := browsertest.NewSession()
	for _, loc := range []browser.Locator{nameOnCardInput, cardNumberInput, cvcInput, expiryMonthInput, expiryYearInput} {
		s.Add(loc, "")
	}
	s.Add(payButton, "Pay and Confirm Order").OnClick(func() {
		s.Add(orderConfirmedMessage, "Congratulations! Your order has been confirmed!")
		s.Add(downloadInvoiceLink, "Download Invoice")
	})
	page := NewPaymentPage(newUI(s))

	assert.False(t, page.IsOrderConfirmed())
	require.NoError(t, page.Pay(TestCard))

	assert.Equal(t, "Tester", s.Lookup(nameOnCardInput).Value())
	assert.Equal(t, "4111111111111111", s.Lookup(cardNumberInput).Value())
	assert.Equal(t, "2026", s.Lookup(expiryYearInput).Value())
	assert.True(t, page.IsOrderConfirmed())
	assert.True(t, page.IsDownloadInvoiceVisible())

	msg, err := page.OrderMessage()
	require.NoError(t, err)
	assert.Equal(t, "Congratulations! Your order has been confirmed!", msg)

	invoice := page.Invoice()
	assert.True(t, invoice.IsDownloadAvailable())
	require.NoError(t, invoice.Download())
	assert.Equal(t, 1, s.Lookup(downloadInvoiceLink).Clicks())
}

func TestInvoicePage_Verify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invoice.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hi Tester,\nYour total purchase\namount is 1500. Thank you"), 0o644))

	page := NewInvoicePage(newUI(browsertest.NewSession()))
	assert.True(t, page.Verify(path, "Tester"))
	assert.False(t, page.Verify(path, "tester"), "name match is case-sensitive")
	assert.False(t, page.Verify(filepath.Join(dir, "missing.txt"), "Tester"))
	assert.True(t, VerifyInvoice(zap.NewNop(), path, "Tester", "YOUR TOTAL PURCHASE AMOUNT"))
}

type scriptedCase struct {
	title string
	steps []string
}

// testCasesScreen scripts independent collapse panels: expanding one shows
// its own steps and leaves panels opened earlier expanded
func testCasesScreen(cases ...scriptedCase) *browsertest.Session {
	s := browsertest.NewSession()
	s.Add(testCasesTitle, "Test Cases")
	for i, tc := range cases {
		href := fmt.Sprintf("#collapse%d", i)
		s.Add(testCasePanels, tc.title).WithAttribute("href", href)
		if strings.TrimSpace(tc.title) == "" {
			continue
		}
		rows := testCaseSteps(strings.TrimPrefix(href, "#"))
		s.Add(rows, "collapsed step").Hidden()
		steps := tc.steps
		s.Add(testCaseLink(href), tc.title).OnClick(func() {
			for _, step := range steps {
				s.Add(rows, step)
			}
		})
	}
	return s
}

func TestTestCasesPage_Export(t *testing.T) {
	s := testCasesScreen(
		scriptedCase{"Test Case 1: Register User", []string{"Launch browser", " Click on 'Signup / Login' "}},
		scriptedCase{"  ", nil},
		scriptedCase{"Test Case 2: Login User", []string{"Navigate to url"}},
	)

	page := NewTestCasesPage(newUI(s))
	page.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	assert.True(t, page.IsDisplayed())
	titles, err := page.Titles()
	require.NoError(t, err)
	assert.Equal(t, []string{"Test Case 1: Register User", "Test Case 2: Login User"}, titles)

	var buf bytes.Buffer
	require.NoError(t, page.Export(&buf))

	want := strings.Join([]string{
		"=== AUTOMATION EXERCISE TEST CASES ===",
		"Extracted on: 2026-01-02T03:04:05Z",
		exportRule,
		"",
		"1. Test Case 1: Register User",
		"   - Launch browser",
		"   - Click on 'Signup / Login'",
		"",
		"2. Test Case 2: Login User",
		"   - Navigate to url",
		"",
		exportRule,
		"End of Test Cases",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTestCasesPage_ExportKeepsEachCaseToItsOwnSteps(t *testing.T) {
	// GIVEN panels that stay expanded after being opened
	s := testCasesScreen(
		scriptedCase{"Test Case 1", []string{"tc1 step"}},
		scriptedCase{"Test Case 2", []string{"tc2 step"}},
	)

	// WHEN every case is exported
	var buf bytes.Buffer
	require.NoError(t, NewTestCasesPage(newUI(s)).Export(&buf))

	// THEN each step is written once, under its own case
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "tc1 step"))
	assert.Contains(t, out, "2. Test Case 2\n   - tc2 step\n\n")
	assert.Equal(t, 1, s.Lookup(testCaseLink("#collapse0")).Clicks())
	assert.Equal(t, 1, s.Lookup(testCaseLink("#collapse1")).Clicks())
}

func TestTestCasesPage_ExportWaitsForClickableHeading(t *testing.T) {
	s := testCasesScreen(scriptedCase{"Test Case 1", []string{"step"}})
	link := s.Lookup(testCaseLink("#collapse0")).Covered()

	err := NewTestCasesPage(newUI(s)).Export(&bytes.Buffer{})
	assert.ErrorIs(t, err, browser.ErrNotFound)
	assert.Zero(t, link.Clicks())
}

func TestTestCasesPage_ExportToFile(t *testing.T) {
	s := testCasesScreen(scriptedCase{"Test Case 1", []string{"step"}})
	page := NewTestCasesPage(newUI(s))

	dir := filepath.Join(t.TempDir(), "test-data")
	path, err := page.ExportToFile(dir, "TestCases.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "TestCases.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1. Test Case 1\n   - step\n")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTestCasesPage_FailedExportLeavesNoFile(t *testing.T) {
	s := testCasesScreen(
		scriptedCase{"Test Case 1", []string{"step"}},
		scriptedCase{"Test Case 2", nil},
	)
	dir := t.TempDir()

	_, err := NewTestCasesPage(newUI(s)).ExportToFile(dir, "TestCases.txt")
	require.ErrorIs(t, err, browser.ErrNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTestCasesPage_ExportWithoutSteps(t *testing.T) {
	s := testCasesScreen(scriptedCase{"Test Case 1", nil})

	err := NewTestCasesPage(newUI(s)).Export(&bytes.Buffer{})
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestTestCasesPage_ExportWithoutTarget(t *testing.T) {
	s := browsertest.NewSession()
	s.Add(testCasePanels, "Test Case 1")

	err := NewTestCasesPage(newUI(s)).Export(&bytes.Buffer{})
	assert.ErrorContains(t, err, "no collapse target")
}

func TestGmailPages(t *testing.T) {
	s := browsertest.NewSession()
	email := s.Add(gmailEmailInput, "")
	s.Add(gmailEmailNext, "Next")
	password := s.Add(gmailPasswordInput, "")
	s.Add(gmailPasswordNext, "Next").OnClick(func() {
		s.Add(gmailComposeButton, "Compose").OnClick(func() {
			s.Add(gmailToField, "")
			s.Add(gmailSubjectField, "")
			s.Add(gmailBodyField, "")
			s.Add(gmailSendButton, "Send")
		})
		s.Add(gmailFirstSubject, "Welcome")
	})

	login := NewGmailLoginPage(newUI(s))
	assert.Equal(t, GmailTimeout, login.ui.Timeout())

	inbox, err := login.Login("me@example.test", "pw")
	require.NoError(t, err)
	assert.Equal(t, "me@example.test", email.Value())
	assert.Equal(t, "pw", password.Value())
	assert.True(t, inbox.IsLoaded())

	subject, err := inbox.FirstSubject()
	require.NoError(t, err)
	assert.Equal(t, "Welcome", subject)

	compose, err := inbox.Compose()
	require.NoError(t, err)
	require.NoError(t, compose.Fill("user@example.test", "Test Subject", "Hello"))
	assert.Equal(t, "Test Subject", s.Lookup(gmailSubjectField).Value())
	require.NoError(t, compose.Send())
	assert.Equal(t, 1, s.Lookup(gmailSendButton).Clicks())

	assert.Equal(t, GmailTimeout, NewGmailInboxPage(newUI(s)).ui.Timeout())
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, "'Polo'", xpathLiteral("Polo"))
	assert.Equal(t, `"Levi's"`, xpathLiteral("Levi's"))
	assert.Equal(t, `concat('a', "'", 'b"c')`, xpathLiteral(`a'b"c`))
}
