package controllers_test

import (
	"context"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/services"
)

// --- Mock CartService ---

type mockCartService struct {
	getFn      func(ctx context.Context, userID string) (*models.CartResponse, *services.ServiceError)
	addFn      func(ctx context.Context, userID string, req *models.AddCartItemRequest) (*models.CartResponse, *services.ServiceError)
	updateFn   func(ctx context.Context, userID string, id models.ItemID, quantity int) (*models.CartResponse, *services.ServiceError)
	removeFn   func(ctx context.Context, userID string, id models.ItemID) (*models.CartResponse, *services.ServiceError)
	currencyFn func(ctx context.Context, userID, code string) (*models.CartResponse, *services.ServiceError)
	clearFn    func(ctx context.Context, userID string) *services.ServiceError
}

func (m *mockCartService) GetCart(ctx context.Context, userID string) (*models.CartResponse, *services.ServiceError) {
	return m.getFn(ctx, userID)
}
func (m *mockCartService) AddItem(ctx context.Context, userID string, req *models.AddCartItemRequest) (*models.CartResponse, *services.ServiceError) {
	return m.addFn(ctx, userID, req)
}
func (m *mockCartService) UpdateQuantity(ctx context.Context, userID string, id models.ItemID, quantity int) (*models.CartResponse, *services.ServiceError) {
	return m.updateFn(ctx, userID, id, quantity)
}
func (m *mockCartService) RemoveItem(ctx context.Context, userID string, id models.ItemID) (*models.CartResponse, *services.ServiceError) {
	return m.removeFn(ctx, userID, id)
}
func (m *mockCartService) SetCurrency(ctx context.Context, userID, code string) (*models.CartResponse, *services.ServiceError) {
	return m.currencyFn(ctx, userID, code)
}
func (m *mockCartService) ClearCart(ctx context.Context, userID string) *services.ServiceError {
	return m.clearFn(ctx, userID)
}
func (m *mockCartService) OpenStore(context.Context, string) (*services.CartStore, error) {
	return nil, nil
}

// --- Mock PromoService ---

type mockPromoService struct {
	applyFn func(ctx context.Context, userID, raw string) (*models.PromoResponse, *services.ServiceError)
	clearFn func(ctx context.Context, userID string) *services.ServiceError
}

func (m *mockPromoService) ApplyCode(ctx context.Context, userID, raw string) (*models.PromoResponse, *services.ServiceError) {
	return m.applyFn(ctx, userID, raw)
}
func (m *mockPromoService) ClearCode(ctx context.Context, userID string) *services.ServiceError {
	return m.clearFn(ctx, userID)
}
func (m *mockPromoService) Resolver(context.Context, string) (*services.PromoResolver, error) {
	return nil, nil
}

// --- Mock PromoAdminService ---

type mockPromoAdminService struct {
	createFn func(ctx context.Context, req *models.CreatePromoRequest) (*models.PromoCode, *services.ServiceError)
	getFn    func(ctx context.Context, code string) (*models.PromoCode, *services.ServiceError)
	deactFn  func(ctx context.Context, code string) *services.ServiceError
	listFn   func(ctx context.Context, page, limit int) ([]models.PromoCode, int64, *services.ServiceError)
}

func (m *mockPromoAdminService) CreatePromo(ctx context.Context, req *models.CreatePromoRequest) (*models.PromoCode, *services.ServiceError) {
	return m.createFn(ctx, req)
}
func (m *mockPromoAdminService) GetPromo(ctx context.Context, code string) (*models.PromoCode, *services.ServiceError) {
	return m.getFn(ctx, code)
}
func (m *mockPromoAdminService) DeactivatePromo(ctx context.Context, code string) *services.ServiceError {
	return m.deactFn(ctx, code)
}
func (m *mockPromoAdminService) ListPromos(ctx context.Context, page, limit int) ([]models.PromoCode, int64, *services.ServiceError) {
	return m.listFn(ctx, page, limit)
}

// --- Mock CheckoutService ---

type mockCheckoutService struct {
	quoteClassesFn func(ctx context.Context, req *models.ClassQuoteRequest) (*models.BulkQuote, *services.ServiceError)
	quoteFn        func(ctx context.Context, userID string, req *models.CheckoutQuoteRequest) (*models.CheckoutTotals, *services.ServiceError)
	submitFn       func(ctx context.Context, userID, key string, req *models.CheckoutRequest) (*models.CheckoutResponse, *services.ServiceError)
	confirmFn      func(ctx context.Context, userID, reference string) (*models.Order, *services.ServiceError)
	ordersFn       func(ctx context.Context, userID string, limit int) ([]models.Order, *services.ServiceError)
	state          models.CheckoutState
}

func (m *mockCheckoutService) QuoteClasses(ctx context.Context, req *models.ClassQuoteRequest) (*models.BulkQuote, *services.ServiceError) {
	return m.quoteClassesFn(ctx, req)
}
func (m *mockCheckoutService) Quote(ctx context.Context, userID string, req *models.CheckoutQuoteRequest) (*models.CheckoutTotals, *services.ServiceError) {
	return m.quoteFn(ctx, userID, req)
}
func (m *mockCheckoutService) Submit(ctx context.Context, userID, key string, req *models.CheckoutRequest) (*models.CheckoutResponse, *services.ServiceError) {
	return m.submitFn(ctx, userID, key, req)
}
func (m *mockCheckoutService) Confirm(ctx context.Context, userID, reference string) (*models.Order, *services.ServiceError) {
	return m.confirmFn(ctx, userID, reference)
}
func (m *mockCheckoutService) Orders(ctx context.Context, userID string, limit int) ([]models.Order, *services.ServiceError) {
	return m.ordersFn(ctx, userID, limit)
}
func (m *mockCheckoutService) State(string) models.CheckoutState {
	return m.state
}

// --- Catalog ---

type stubCatalog struct {
	products []models.Product
	classes  []models.FitnessClass
}

func (s stubCatalog) Products(context.Context) []models.Product     { return s.products }
func (s stubCatalog) Classes(context.Context) []models.FitnessClass { return s.classes }
