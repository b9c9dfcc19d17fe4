package storefront

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// SessionCookie carries the shopper's session ID
const SessionCookie = "shopflow_session"

// Handler serves the storefront screens
type Handler struct {
	store     *Store
	testCases []TestCase
	templates *template.Template
	logger    *zap.Logger
	mux       *http.ServeMux
}

// NewHandler creates the storefront handler over store
func NewHandler(store *Store, testCases []TestCase, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	h := &Handler{
		store:     store,
		testCases: testCases,
		templates: tmpl,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.home)
	h.mux.HandleFunc("GET /products", h.products)
	h.mux.HandleFunc("GET /brand_products/{brand}", h.brandProducts)
	h.mux.HandleFunc("GET /product_details/{id}", h.productDetails)
	h.mux.HandleFunc("POST /product_details/{id}/review", h.review)
	h.mux.HandleFunc("GET /get_product_picture/{id}", h.productPicture)
	h.mux.HandleFunc("POST /add_to_cart/{id}", h.addToCart)
	h.mux.HandleFunc("GET /view_cart", h.viewCart)
	h.mux.HandleFunc("GET /checkout", h.checkout)
	h.mux.HandleFunc("GET /payment", h.payment)
	h.mux.HandleFunc("POST /payment", h.pay)
	h.mux.HandleFunc("GET /payment_done/{id}", h.paymentDone)
	h.mux.HandleFunc("GET /download_invoice/{id}", h.downloadInvoice)
	h.mux.HandleFunc("GET /login", h.loginForm)
	h.mux.HandleFunc("POST /login", h.login)
	h.mux.HandleFunc("GET /logout", h.logout)
	h.mux.HandleFunc("GET /test_cases", h.testCasesPage)
	return h, nil
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// page is the data every template receives
type page struct {
	Title       string
	LoggedIn    bool
	AccountName string

	Products      []Product
	Brands        []BrandCount
	Brand         string
	Search        string
	Product       *Product
	Reviewed      bool
	Lines         []CartLine
	Total         int
	CheckoutLogin bool
	Order         *Order
	TestCases     []TestCase
	Error         string
}

// Href is the brand's listing URL
func (b BrandCount) Href() template.URL {
	return template.URL("/brand_products/" + b.Name)
}

// session returns the request's session, issuing a cookie for new ones
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	sess := h.store.Session(id)
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: sess.ID, Path: "/", HttpOnly: true})
	}
	return sess
}

func (h *Handler) newPage(sess *Session, title string) page {
	p := page{Title: title, LoggedIn: sess.LoggedIn()}
	if p.LoggedIn {
		p.AccountName = h.store.AccountName(sess)
	}
	return p
}

func (h *Handler) render(w http.ResponseWriter, name string, data page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("error rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func (h *Handler) productFromPath(w http.ResponseWriter, r *http.Request) (Product, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return Product{}, false
	}
	p, err := h.store.Product(id)
	if err != nil {
		http.NotFound(w, r)
		return Product{}, false
	}
	return p, true
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	data := h.newPage(h.session(w, r), "Home")
	data.Products = h.store.Products()
	h.render(w, "home.html", data)
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	data := h.newPage(h.session(w, r), "All Products")
	data.Search = r.URL.Query().Get("search")
	data.Brands = h.store.Brands()
	if data.Search != "" {
		data.Products = h.store.Search(data.Search)
	} else {
		data.Products = h.store.Products()
	}
	h.render(w, "products.html", data)
}

func (h *Handler) brandProducts(w http.ResponseWriter, r *http.Request) {
	products := h.store.ByBrand(r.PathValue("brand"))
	if len(products) == 0 {
		http.NotFound(w, r)
		return
	}
	data := h.newPage(h.session(w, r), "Brand Products")
	data.Brand = products[0].Brand
	data.Products = products
	h.render(w, "brand.html", data)
}

func (h *Handler) productDetails(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromPath(w, r)
	if !ok {
		return
	}
	data := h.newPage(h.session(w, r), "Product Details")
	data.Product = &p
	data.Reviewed = r.URL.Query().Get("reviewed") == "1"
	h.render(w, "product_detail.html", data)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromPath(w, r)
	if !ok {
		return
	}
	rev := Review{
		ProductID: p.ID,
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Text:      r.FormValue("review"),
	}
	if rev.Name == "" || rev.Email == "" || rev.Text == "" {
		http.Redirect(w, r, fmt.Sprintf("/product_details/%d#reviews", p.ID), http.StatusSeeOther)
		return
	}
	if err := h.store.AddReview(rev); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Info("review submitted", zap.Int("product", p.ID), zap.String("reviewer", rev.Name))
	http.Redirect(w, r, fmt.Sprintf("/product_details/%d?reviewed=1#reviews", p.ID), http.StatusSeeOther)
}

const pictureSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="120" height="120"><rect width="120" height="120" fill="#ddd"/><text x="60" y="65" font-size="14" text-anchor="middle">%d</text></svg>`

func (h *Handler) productPicture(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromPath(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprintf(w, pictureSVG, p.ID)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromPath(w, r)
	if !ok {
		return
	}
	sess := h.session(w, r)
	if err := h.store.AddToCart(sess, p.ID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Debug("added to cart", zap.String("session", sess.ID), zap.Int("product", p.ID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) viewCart(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	data := h.newPage(sess, "Checkout")
	data.Lines = h.store.Cart(sess)
	data.CheckoutLogin = r.URL.Query().Get("checkout") == "login" && !sess.LoggedIn()
	h.render(w, "cart.html", data)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if !sess.LoggedIn() {
		http.Redirect(w, r, "/view_cart?checkout=login", http.StatusSeeOther)
		return
	}
	data := h.newPage(sess, "Checkout")
	data.Lines = h.store.Cart(sess)
	if len(data.Lines) == 0 {
		http.Redirect(w, r, "/view_cart", http.StatusSeeOther)
		return
	}
	for _, l := range data.Lines {
		data.Total += l.Total()
	}
	h.render(w, "checkout.html", data)
}

func (h *Handler) payment(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if !sess.LoggedIn() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.render(w, "payment.html", h.newPage(sess, "Payment"))
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if !sess.LoggedIn() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	order, err := h.store.PlaceOrder(sess,
		r.FormValue("name_on_card"),
		r.FormValue("card_number"),
		r.FormValue("cvc"),
		r.FormValue("expiry_month"),
		r.FormValue("expiry_year"),
	)
	if err != nil {
		data := h.newPage(sess, "Payment")
		data.Error = err.Error()
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.render(w, "payment.html", data)
		return
	}
	h.logger.Info("order placed", zap.String("order", order.ID), zap.Int("total", order.Total))
	http.Redirect(w, r, "/payment_done/"+order.ID, http.StatusSeeOther)
}

func (h *Handler) paymentDone(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.Order(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	data := h.newPage(h.session(w, r), "Order Placed")
	data.Order = order
	h.render(w, "payment_done.html", data)
}

func (h *Handler) downloadInvoice(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.Order(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice.txt"`)
	fmt.Fprint(w, Invoice(order))
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", h.newPage(h.session(w, r), "Signup / Login"))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	err := h.store.Login(sess, r.FormValue("email"), r.FormValue("password"))
	if errors.Is(err, ErrInvalidLogin) {
		data := h.newPage(sess, "Signup / Login")
		data.Error = "Your email or password is incorrect!"
		h.render(w, "login.html", data)
		return
	}
	h.logger.Info("shopper logged in", zap.String("session", sess.ID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.store.Logout(h.session(w, r))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) testCasesPage(w http.ResponseWriter, r *http.Request) {
	data := h.newPage(h.session(w, r), "Test Cases")
	data.TestCases = h.testCases
	h.render(w, "test_cases.html", data)
}
