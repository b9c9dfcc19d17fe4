// Package storefront is a small in-memory shop exposing the screens the
// flows drive. It lets the suite run without the public site.
package storefront

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store errors
var (
	ErrUnknownProduct   = errors.New("unknown product")
	ErrUnknownOrder     = errors.New("unknown order")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidLogin     = errors.New("your email or password is incorrect")
	ErrMissingCardField = errors.New("all card fields are required")
)

// Product is a catalogue item. Prices are whole rupees as on the public site.
type Product struct {
	ID       int
	Name     string
	Brand    string
	Category string
	Price    int
}

// Account is a registered shopper
type Account struct {
	Name     string
	Password string
}

// CartLine is one product in a cart
type CartLine struct {
	Product  Product
	Quantity int
}

// Total is the line price
func (l CartLine) Total() int {
	return l.Product.Price * l.Quantity
}

// Order is a paid cart
type Order struct {
	ID         string
	Email      string
	NameOnCard string
	Lines      []CartLine
	Total      int
	PlacedAt   time.Time
}

// Review is a submitted product review
type Review struct {
	ProductID int
	Name      string
	Email     string
	Text      string
}

// Session is one shopper's browser session
type Session struct {
	ID    string
	Email string
	cart  map[int]int
}

// LoggedIn reports whether the session has signed in
func (s *Session) LoggedIn() bool {
	return s.Email != ""
}

// DefaultCatalog mirrors the products and brands the flows look for
var DefaultCatalog = []Product{
	{ID: 1, Name: "Blue Top", Brand: "Polo", Category: "Women > Tops", Price: 500},
	{ID: 2, Name: "Men Tshirt", Brand: "H&M", Category: "Men > Tshirts", Price: 400},
	{ID: 3, Name: "Sleeveless Dress", Brand: "Madame", Category: "Women > Dress", Price: 1000},
	{ID: 4, Name: "Stylish Dress", Brand: "Madame", Category: "Women > Dress", Price: 1500},
	{ID: 5, Name: "Winter Top", Brand: "Mast & Harbour", Category: "Women > Tops", Price: 600},
	{ID: 6, Name: "Summer White Top", Brand: "H&M", Category: "Women > Tops", Price: 400},
	{ID: 7, Name: "Madame Top For Women", Brand: "Madame", Category: "Women > Tops", Price: 1000},
	{ID: 11, Name: "Fancy Green Top", Brand: "Polo", Category: "Women > Tops", Price: 700},
	{ID: 12, Name: "Sleeves Printed Top - White", Brand: "Polo", Category: "Women > Tops", Price: 499},
	{ID: 16, Name: "Sleeves Top and Short - Blue & Pink", Brand: "Babyhug", Category: "Kids > Tops & Shirts", Price: 478},
	{ID: 19, Name: "Sleeveless Unicorn Patch Gown - Pink", Brand: "Kookie Kids", Category: "Kids > Dress", Price: 1050},
	{ID: 21, Name: "Cotton Mull Embroidered Dress", Brand: "Biba", Category: "Women > Saree", Price: 1500},
	{ID: 28, Name: "Pure Cotton V-Neck T-Shirt", Brand: "H&M", Category: "Men > Tshirts", Price: 1299},
	{ID: 30, Name: "Premium Polo T-Shirts", Brand: "Polo", Category: "Men > Tshirts", Price: 1500},
}

// Store holds catalogue, accounts, sessions, orders and reviews
type Store struct {
	mu       sync.Mutex
	products map[int]Product
	order    []int
	accounts map[string]Account
	sessions map[string]*Session
	orders   map[string]*Order
	reviews  []Review
	now      func() time.Time
}

// NewStore creates a store selling catalog to the given accounts, keyed by email
func NewStore(catalog []Product, accounts map[string]Account) *Store {
	s := &Store{
		products: make(map[int]Product, len(catalog)),
		accounts: make(map[string]Account, len(accounts)),
		sessions: make(map[string]*Session),
		orders:   make(map[string]*Order),
		now:      time.Now,
	}
	for _, p := range catalog {
		if _, dup := s.products[p.ID]; !dup {
			s.order = append(s.order, p.ID)
		}
		s.products[p.ID] = p
	}
	for email, a := range accounts {
		s.accounts[strings.ToLower(email)] = a
	}
	return s
}

// Products returns the catalogue in listing order
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out
}

// Product finds a product by ID
func (s *Store) Product(id int) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrUnknownProduct, id)
	}
	return p, nil
}

// Search returns products whose name, brand or category contains term,
// ignoring case
func (s *Store) Search(term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []Product
	for _, p := range s.Products() {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out
}

// Brands returns every brand with its product count, sorted by name
func (s *Store) Brands() []BrandCount {
	counts := map[string]int{}
	for _, p := range s.Products() {
		counts[p.Brand]++
	}
	out := make([]BrandCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, BrandCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BrandCount is a brand in the sidebar
type BrandCount struct {
	Name  string
	Count int
}

// ByBrand returns the products of one brand, matching case-insensitively
func (s *Store) ByBrand(brand string) []Product {
	var out []Product
	for _, p := range s.Products() {
		if strings.EqualFold(p.Brand, brand) {
			out = append(out, p)
		}
	}
	return out
}

// Session returns the session with id, creating a new one when id is unknown
func (s *Store) Session(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess := &Session{ID: uuid.New().String(), cart: make(map[int]int)}
	s.sessions[sess.ID] = sess
	return sess
}

// Login signs the session in
func (s *Store) Login(sess *Session, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok || account.Password != password {
		return ErrInvalidLogin
	}
	sess.Email = strings.ToLower(strings.TrimSpace(email))
	return nil
}

// Logout signs the session out; the cart is kept
func (s *Store) Logout(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Email = ""
}

// AccountName returns the display name of the signed in shopper
func (s *Store) AccountName(sess *Session) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[sess.Email].Name
}

// AddToCart adds one unit of a product
func (s *Store) AddToCart(sess *Session, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}
	sess.cart[productID]++
	return nil
}

// Cart returns the session's cart lines in catalogue order
func (s *Store) Cart(sess *Session) []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLines(sess)
}

func (s *Store) cartLines(sess *Session) []CartLine {
	var lines []CartLine
	for _, id := range s.order {
		if n := sess.cart[id]; n > 0 {
			lines = append(lines, CartLine{Product: s.products[id], Quantity: n})
		}
	}
	return lines
}

// PlaceOrder pays for the session's cart and empties it
func (s *Store) PlaceOrder(sess *Session, nameOnCard, cardNumber, cvc, month, year string) (*Order, error) {
	for _, field := range []string{nameOnCard, cardNumber, cvc, month, year} {
		if strings.TrimSpace(field) == "" {
			return nil, ErrMissingCardField
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.cartLines(sess)
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	order := &Order{
		ID:         uuid.New().String(),
		Email:      sess.Email,
		NameOnCard: strings.TrimSpace(nameOnCard),
		Lines:      lines,
		PlacedAt:   s.now(),
	}
	for _, l := range lines {
		order.Total += l.Total()
	}
	s.orders[order.ID] = order
	sess.cart = make(map[int]int)
	return order, nil
}

// Order finds a placed order
func (s *Store) Order(id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOrder, id)
	}
	return o, nil
}

// AddReview stores a review for an existing product
func (s *Store) AddReview(r Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[r.ProductID]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProduct, r.ProductID)
	}
	s.reviews = append(s.reviews, r)
	return nil
}

// Reviews returns the reviews of one product
func (s *Store) Reviews(productID int) []Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Review
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out
}

// Invoice renders the downloadable invoice text for an order
func Invoice(o *Order) string {
	return fmt.Sprintf("Hi %s, Your total purchase amount is %d. Thank you", o.NameOnCard, o.Total)
}
