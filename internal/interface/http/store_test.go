package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domcart "example.com/shoppingcart/internal/domain/cart"
	domcustomer "example.com/shoppingcart/internal/domain/customer"
	domorder "example.com/shoppingcart/internal/domain/order"
	domproduct "example.com/shoppingcart/internal/domain/product"
	"example.com/shoppingcart/internal/infra/security"
	authuc "example.com/shoppingcart/internal/usecase/auth"
	cartuc "example.com/shoppingcart/internal/usecase/cart"
	customeruc "example.com/shoppingcart/internal/usecase/customer"
	orderuc "example.com/shoppingcart/internal/usecase/order"
	productuc "example.com/shoppingcart/internal/usecase/product"
)

const testSecret = "test-secret-with-at-least-32-bytes!"

type cartRow struct {
	id        int64
	productID int64
	quantity  int
}

// memStore backs every repository port with maps so handlers run against the
// real services.
type memStore struct {
	customers  map[string]*domcustomer.Customer
	products   map[int64]*domproduct.Product
	carts      map[int64][]cartRow
	orders     map[int64]*domorder.Order
	nextID     int64
	failOrders error
	failLookup error
}

func newMemStore() *memStore {
	return &memStore{
		customers: make(map[string]*domcustomer.Customer),
		products:  make(map[int64]*domproduct.Product),
		carts:     make(map[int64][]cartRow),
		orders:    make(map[int64]*domorder.Order),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type memCustomers struct{ *memStore }

func (m memCustomers) Save(ctx context.Context, c *domcustomer.Customer) (int64, error) {
	username := domcustomer.NormalizeUsername(c.Username)
	if _, ok := m.customers[username]; ok {
		return 0, domcustomer.ErrDuplicateUsername
	}
	stored := *c
	stored.ID = m.id()
	stored.Username = username
	m.customers[username] = &stored
	return stored.ID, nil
}

func (m memCustomers) FindIDByUsername(ctx context.Context, username string) (int64, error) {
	c, err := m.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (m memCustomers) FindByUsername(ctx context.Context, username string) (*domcustomer.Customer, error) {
	if m.failLookup != nil {
		return nil, m.failLookup
	}
	c, ok := m.customers[domcustomer.NormalizeUsername(username)]
	if !ok {
		return nil, domcustomer.ErrInvalidCustomer
	}
	cloned := *c
	return &cloned, nil
}

func (m memCustomers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, ok := m.customers[domcustomer.NormalizeUsername(username)]
	return ok, nil
}

func (m memCustomers) UpdatePassword(ctx context.Context, c *domcustomer.Customer) error {
	if stored, ok := m.customers[c.Username]; ok {
		stored.PasswordHash = c.PasswordHash
	}
	return nil
}

func (m memCustomers) UpdateInfo(ctx context.Context, c *domcustomer.Customer) error {
	if stored, ok := m.customers[c.Username]; ok {
		stored.Nickname = c.Nickname
		stored.Age = c.Age
	}
	return nil
}

func (m memCustomers) Delete(ctx context.Context, id int64) error {
	for username, c := range m.customers {
		if c.ID == id {
			delete(m.customers, username)
			delete(m.carts, id)
			return nil
		}
	}
	return domcustomer.ErrInvalidCustomer
}

type memProducts struct{ *memStore }

func (m memProducts) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	stored := *p
	stored.ID = m.id()
	m.products[stored.ID] = &stored
	cloned := stored
	return &cloned, nil
}

func (m memProducts) Delete(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return domproduct.ErrProductNotFound
	}
	delete(m.products, id)
	for customerID, rows := range m.carts {
		kept := rows[:0]
		for _, row := range rows {
			if row.productID != id {
				kept = append(kept, row)
			}
		}
		m.carts[customerID] = kept
	}
	return nil
}

func (m memProducts) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domproduct.ErrProductNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (m memProducts) List(ctx context.Context) ([]*domproduct.Product, error) {
	out := []*domproduct.Product{}
	for id := int64(1); id <= m.nextID; id++ {
		if p, ok := m.products[id]; ok {
			cloned := *p
			out = append(out, &cloned)
		}
	}
	return out, nil
}

type memCart struct{ *memStore }

func (m memCart) LoadItems(ctx context.Context, customerID int64) ([]domcart.Item, error) {
	items := []domcart.Item{}
	for _, row := range m.carts[customerID] {
		items = append(items, domcart.NewItem(*m.products[row.productID], row.quantity))
	}
	return items, nil
}

func (m memCart) AddItem(ctx context.Context, customerID, productID int64) (int64, error) {
	if _, ok := m.products[productID]; !ok {
		return 0, domproduct.ErrProductNotFound
	}
	row := cartRow{id: m.id(), productID: productID, quantity: domcart.DefaultQuantity}
	m.carts[customerID] = append(m.carts[customerID], row)
	return row.id, nil
}

func (m memCart) UpdateQuantity(ctx context.Context, customerID, productID int64, quantity int) error {
	for i, row := range m.carts[customerID] {
		if row.productID == productID {
			m.carts[customerID][i].quantity = quantity
		}
	}
	return nil
}

func (m memCart) DeleteItem(ctx context.Context, customerID, productID int64) error {
	return m.DeleteItems(ctx, customerID, []int64{productID})
}

func (m memCart) DeleteItems(ctx context.Context, customerID int64, productIDs []int64) error {
	drop := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}
	var kept []cartRow
	for _, row := range m.carts[customerID] {
		if !drop[row.productID] {
			kept = append(kept, row)
		}
	}
	m.carts[customerID] = kept
	return nil
}

func (m memCart) DeleteAllItems(ctx context.Context, customerID int64) error {
	delete(m.carts, customerID)
	return nil
}

type memOrders struct{ *memStore }

func (m memOrders) Create(ctx context.Context, customerID int64, items []domorder.OrderItem) (*domorder.Order, error) {
	if m.failOrders != nil {
		return nil, m.failOrders
	}
	o := &domorder.Order{
		ID:          m.id(),
		CustomerID:  customerID,
		TotalAmount: domorder.Total(items),
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	productIDs := make([]int64, 0, len(items))
	for _, item := range items {
		item.ID = m.id()
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
		productIDs = append(productIDs, item.ProductID)
	}
	m.orders[o.ID] = o
	return o, memCart(m).DeleteItems(ctx, customerID, productIDs)
}

func (m memOrders) ListByCustomer(ctx context.Context, customerID int64) ([]*domorder.Order, error) {
	out := []*domorder.Order{}
	for id := int64(1); id <= m.nextID; id++ {
		if o, ok := m.orders[id]; ok && o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m memOrders) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}

type testEnv struct {
	store    *memStore
	tokens   *security.JWTService
	registry *prometheus.Registry
	router   http.Handler
	ready    error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	customers := memCustomers{store}
	products := memProducts{store}
	carts := memCart{store}
	encoder := security.NewBcryptService(bcrypt.MinCost)
	tokens := security.NewJWTService(testSecret, time.Hour)

	env := &testEnv{
		store:    store,
		tokens:   tokens,
		registry: prometheus.NewRegistry(),
	}
	api := NewAPI(Dependencies{
		AuthService:     authuc.NewService(customers, encoder, tokens),
		CustomerService: customeruc.NewService(customers, encoder, nil),
		ProductService:  productuc.NewService(products),
		CartService:     cartuc.NewService(carts, customers, products, nil),
		OrderService:    orderuc.NewService(memOrders{store}, carts, customers, nil),
		TokenService:    tokens,
		Registry:        env.registry,
		ReadinessCheck:  func(context.Context) error { return env.ready },
	})
	env.router = api.Router()
	return env
}

func (e *testEnv) seedCustomer(t *testing.T, username, password string) *domcustomer.Customer {
	t.Helper()
	hash, err := security.NewBcryptService(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)

	c := &domcustomer.Customer{Username: username, PasswordHash: hash, Nickname: username, Age: 20}
	id, err := memCustomers{e.store}.Save(context.Background(), c)
	require.NoError(t, err)
	c.ID = id
	return c
}

func (e *testEnv) seedProduct(t *testing.T, name string, price int64) *domproduct.Product {
	t.Helper()
	p, err := memProducts{e.store}.Create(context.Background(), &domproduct.Product{
		Name:         name,
		Price:        price,
		ThumbnailURL: name + ".jpg",
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) seedCartItem(t *testing.T, c *domcustomer.Customer, p *domproduct.Product, quantity int) {
	t.Helper()
	_, err := memCart{e.store}.AddItem(context.Background(), c.ID, p.ID)
	require.NoError(t, err)
	require.NoError(t, memCart{e.store}.UpdateQuantity(context.Background(), c.ID, p.ID, quantity))
}

func (e *testEnv) tokenFor(t *testing.T, c *domcustomer.Customer) string {
	t.Helper()
	token, err := e.tokens.GenerateToken(c)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
