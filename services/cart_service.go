package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/pricing"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/repository"
	"go.uber.org/zap"
)

// CartStorage loads and persists cart snapshots. UpdateCart runs fn as a
// read-modify-write that is retried when another writer gets in first.
type CartStorage interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	UpdateCart(ctx context.Context, userID string, fn func(*models.Cart) (*models.Cart, error)) error
	DeleteCart(ctx context.Context, userID string) error
}

// ProductCatalog resolves product ids to catalog entries.
type ProductCatalog interface {
	Product(ctx context.Context, id models.ItemID) (models.Product, bool)
}

// CartService defines the interface for cart operations.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.CartResponse, *ServiceError)
	AddItem(ctx context.Context, userID string, req *models.AddCartItemRequest) (*models.CartResponse, *ServiceError)
	UpdateQuantity(ctx context.Context, userID string, id models.ItemID, quantity int) (*models.CartResponse, *ServiceError)
	RemoveItem(ctx context.Context, userID string, id models.ItemID) (*models.CartResponse, *ServiceError)
	SetCurrency(ctx context.Context, userID, code string) (*models.CartResponse, *ServiceError)
	ClearCart(ctx context.Context, userID string) *ServiceError
	OpenStore(ctx context.Context, userID string) (*CartStore, error)
}

type cartServiceImpl struct {
	storage CartStorage
	catalog ProductCatalog
	logger  *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(storage CartStorage, catalog ProductCatalog, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		storage: storage,
		catalog: catalog,
		logger:  logger,
	}
}

// OpenStore loads the user's snapshot into a CartStore.
func (s *cartServiceImpl) OpenStore(ctx context.Context, userID string) (*CartStore, error) {
	cart, err := s.storage.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewCartStore(userID, cart, s.storage, s.logger), nil
}

func (s *cartServiceImpl) open(ctx context.Context, userID string) (*CartStore, *ServiceError) {
	store, err := s.OpenStore(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Cart is temporarily unavailable"}
	}
	return store, nil
}

// mutate applies fn to a fresh CartStore inside a storage update, so two
// requests for the same user never overwrite each other's lines.
func (s *cartServiceImpl) mutate(ctx context.Context, userID string, fn func(*CartStore) error) (*CartStore, *ServiceError) {
	var store *CartStore
	err := s.storage.UpdateCart(ctx, userID, func(cart *models.Cart) (*models.Cart, error) {
		store = NewCartStore(userID, cart, nil, s.logger)
		if err := fn(store); err != nil {
			return nil, err
		}
		snap := store.Snapshot()
		return &snap, nil
	})
	switch {
	case err == nil:
		return store, nil
	case errors.Is(err, ErrQuantityLimit):
		return nil, &ServiceError{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("Quantity cannot exceed %d per item", models.MaxLineQuantity),
		}
	case errors.Is(err, repository.ErrConflict):
		s.logger.Warn("Cart update lost to concurrent writers", zap.String("user_id", userID))
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Cart was updated elsewhere, please retry"}
	case store == nil:
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Cart is temporarily unavailable"}
	default:
		// The change applied in memory; persistence is best-effort.
		s.logger.Warn("Failed to save cart snapshot", zap.String("user_id", userID), zap.Error(err))
		return store, nil
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.CartResponse, *ServiceError) {
	store, svcErr := s.open(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	return cartResponse(store), nil
}

// AddItem resolves the product from the catalog so prices never come from the
// client. An omitted quantity means one.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req *models.AddCartItemRequest) (*models.CartResponse, *ServiceError) {
	product, ok := s.catalog.Product(ctx, req.ProductID)
	if !ok {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
	}
	if !product.InStock {
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Product is out of stock"}
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	store, svcErr := s.mutate(ctx, userID, func(store *CartStore) error {
		return store.AddItem(ctx, product, quantity)
	})
	if svcErr != nil {
		return nil, svcErr
	}

	s.logger.Info("Cart item added",
		zap.String("user_id", userID),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", quantity),
	)
	return cartResponse(store), nil
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID string, id models.ItemID, quantity int) (*models.CartResponse, *ServiceError) {
	store, svcErr := s.mutate(ctx, userID, func(store *CartStore) error {
		return store.UpdateQuantity(ctx, id, quantity)
	})
	if svcErr != nil {
		return nil, svcErr
	}
	return cartResponse(store), nil
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID string, id models.ItemID) (*models.CartResponse, *ServiceError) {
	store, svcErr := s.mutate(ctx, userID, func(store *CartStore) error {
		store.RemoveItem(ctx, id)
		return nil
	})
	if svcErr != nil {
		return nil, svcErr
	}
	return cartResponse(store), nil
}

func (s *cartServiceImpl) SetCurrency(ctx context.Context, userID, code string) (*models.CartResponse, *ServiceError) {
	currency, err := models.ParseCurrency(code)
	if err != nil {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Unsupported currency"}
	}

	store, svcErr := s.mutate(ctx, userID, func(store *CartStore) error {
		return store.SetCurrency(ctx, currency)
	})
	if svcErr != nil {
		return nil, svcErr
	}
	return cartResponse(store), nil
}

// ClearCart removes the user's cart entirely.
func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) *ServiceError {
	if err := s.storage.DeleteCart(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to clear cart"}
	}
	s.logger.Info("Cart cleared", zap.String("user_id", userID))
	return nil
}

func cartResponse(store *CartStore) *models.CartResponse {
	subtotal := store.TotalPrice()
	return &models.CartResponse{
		Cart:              store.Snapshot(),
		ItemCount:         store.ItemCount(),
		Subtotal:          subtotal.StringFixed(2),
		SubtotalFormatted: pricing.Format(subtotal, store.Currency()),
	}
}
