package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/pricing"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Cart storage ---

type memCartStorage struct {
	mu      sync.Mutex
	carts   map[string]models.Cart
	saves   int
	saveErr error
	getErr  error
}

func newMemCartStorage() *memCartStorage {
	return &memCartStorage{carts: make(map[string]models.Cart)}
}

func (m *memCartStorage) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	c.Items = append([]models.CartLineItem(nil), c.Items...)
	return &c, nil
}

func (m *memCartStorage) SaveCart(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	c := *cart
	c.Items = append([]models.CartLineItem(nil), cart.Items...)
	m.carts[cart.UserID] = c
	return nil
}

// UpdateCart holds the lock across fn, which is what the redis WATCH loop
// guarantees for a single key.
func (m *memCartStorage) UpdateCart(_ context.Context, userID string, fn func(*models.Cart) (*models.Cart, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	var current *models.Cart
	if c, ok := m.carts[userID]; ok {
		c.Items = append([]models.CartLineItem(nil), c.Items...)
		current = &c
	}
	next, err := fn(current)
	if err != nil || next == nil {
		return err
	}
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	c := *next
	c.Items = append([]models.CartLineItem(nil), next.Items...)
	m.carts[userID] = c
	return nil
}

func (m *memCartStorage) DeleteCart(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

func (m *memCartStorage) items(userID string) []models.CartLineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[userID].Items
}

// --- Catalog ---

type fakeCatalog struct {
	products []models.Product
	classes  []models.FitnessClass
}

func (f *fakeCatalog) Product(_ context.Context, id models.ItemID) (models.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (f *fakeCatalog) ClassPrices(_ context.Context) pricing.PriceMap {
	return pricing.ClassPrices(f.classes)
}

// --- Promo lookup ---

type mockPromoLookup struct {
	mock.Mock
}

func (m *mockPromoLookup) FindPromoCode(ctx context.Context, code string) (*models.PromoCode, error) {
	args := m.Called(ctx, code)
	promo, _ := args.Get(0).(*models.PromoCode)
	return promo, args.Error(1)
}

type mapPromoLookup map[string]*models.PromoCode

func (m mapPromoLookup) FindPromoCode(_ context.Context, code string) (*models.PromoCode, error) {
	p, ok := m[code]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// --- Promo sessions ---

type memPromoSessions struct {
	mu       sync.Mutex
	sessions map[string]*models.PromoCode
	err      error
}

func newMemPromoSessions() *memPromoSessions {
	return &memPromoSessions{sessions: make(map[string]*models.PromoCode)}
}

func (m *memPromoSessions) Get(_ context.Context, userID string) (*models.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sessions[userID], nil
}

func (m *memPromoSessions) Save(ctx context.Context, userID string, promo *models.PromoCode) error {
	if promo == nil {
		return m.Delete(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sessions[userID] = promo
	return nil
}

func (m *memPromoSessions) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.sessions, userID)
	return nil
}

// --- Promo repository ---

type memPromoRepo struct {
	promos map[string]*models.PromoCode
}

func newMemPromoRepo() *memPromoRepo {
	return &memPromoRepo{promos: make(map[string]*models.PromoCode)}
}

func (m *memPromoRepo) Create(_ context.Context, p *models.PromoCode) error {
	if _, exists := m.promos[p.Code]; exists {
		return errors.New("ERROR: duplicate key value violates unique constraint")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.promos[p.Code] = p
	return nil
}

func (m *memPromoRepo) FindByCode(_ context.Context, code string) (*models.PromoCode, error) {
	p, ok := m.promos[code]
	if !ok || !p.Active {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (m *memPromoRepo) Deactivate(_ context.Context, code string) error {
	p, ok := m.promos[code]
	if !ok {
		return repository.ErrNotFound
	}
	p.Active = false
	return nil
}

func (m *memPromoRepo) FindAll(_ context.Context, _, _ int) ([]models.PromoCode, int64, error) {
	var out []models.PromoCode
	for _, p := range m.promos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

// --- Orders ---

type memOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*models.Order
	createErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[string]*models.Order)}
}

func (m *memOrderRepo) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *o
	m.orders[o.Reference] = &cp
	return nil
}

func (m *memOrderRepo) FindByReference(_ context.Context, ref string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) UpdateStatus(_ context.Context, ref string, status models.OrderStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[ref]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	if status == models.OrderPaid {
		o.PaidAt = &at
	}
	return nil
}

func (m *memOrderRepo) FindByUser(_ context.Context, userID string, _ int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) all() []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out
}

// --- Payments ---

type fakePayments struct {
	mu        sync.Mutex
	requests  []models.PaymentRequest
	initErr   error
	declined  bool
	verified  bool
	verifyErr error
	block     chan struct{}
	started   chan struct{}
}

func (f *fakePayments) GatewayFor(c models.Currency) string {
	if c == models.CurrencyNaira {
		return "paystack"
	}
	return "paypal"
}

func (f *fakePayments) InitiatePayment(_ context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.initErr != nil {
		return nil, f.initErr
	}
	if f.declined {
		return &models.PaymentResult{Success: false, Message: "declined"}, nil
	}
	return &models.PaymentResult{
		Success:          true,
		AuthorizationURL: "https://pay.example/" + req.Reference,
		Reference:        "gw-" + req.Reference,
	}, nil
}

func (f *fakePayments) VerifyPayment(_ context.Context, _, _ string) (bool, error) {
	return f.verified, f.verifyErr
}

func (f *fakePayments) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// --- Booker ---

type fakeBooker struct {
	mu     sync.Mutex
	booked []models.ItemID
}

func (f *fakeBooker) SubscribeClass(_ context.Context, classID models.ItemID, userID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.booked = append(f.booked, classID)
	return &models.Booking{ID: "b-" + classID, ClassID: classID, UserID: userID, Status: "confirmed"}, nil
}

// --- Idempotency ---

type memIdempotency struct {
	mu    sync.Mutex
	store map[string]string
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{store: make(map[string]string)}
}

func (m *memIdempotency) Get(_ context.Context, userID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store[userID+":"+key], nil
}

func (m *memIdempotency) Set(_ context.Context, userID, key, response string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[userID+":"+key] = response
	return nil
}

// --- SNS ---

type mockSNSPublisher struct {
	mu        sync.Mutex
	published [][]byte
}

func (m *mockSNSPublisher) Publish(_ context.Context, _ string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, message)
	return nil
}

func (m *mockSNSPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.published)
}
