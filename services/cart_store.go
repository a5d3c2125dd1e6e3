package services

import (
	"context"
	"fmt"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrQuantityLimit is returned when a line would exceed models.MaxLineQuantity.
var ErrQuantityLimit = fmt.Errorf("line quantity exceeds %d", models.MaxLineQuantity)

// Snapshotter persists a cart after every mutation.
type Snapshotter interface {
	SaveCart(ctx context.Context, cart *models.Cart) error
}

// CartStore is one user's cart: an ordered list of line items unique by id,
// plus the active display currency. Mutations are snapshotted best-effort;
// a failed snapshot is logged and never returned.
type CartStore struct {
	cart   *models.Cart
	snap   Snapshotter
	logger *zap.Logger
}

// NewCartStore wraps cart, or starts an empty one for userID when cart is nil.
func NewCartStore(userID string, cart *models.Cart, snap Snapshotter, logger *zap.Logger) *CartStore {
	if cart == nil {
		cart = &models.Cart{UserID: userID}
	}
	if cart.UserID == "" {
		cart.UserID = userID
	}
	if !cart.Currency.Valid() {
		cart.Currency = models.DefaultCurrency
	}
	// Drop anything a stale snapshot may carry that the store would never produce.
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.Quantity > 0 && it.Quantity <= models.MaxLineQuantity {
			items = append(items, it)
		}
	}
	cart.Items = items

	return &CartStore{cart: cart, snap: snap, logger: logger}
}

// AddItem adds quantity of product, merging into an existing line with the
// same id. A quantity of zero or less is a no-op. The cart is left untouched
// and ErrQuantityLimit returned when the line would exceed MaxLineQuantity.
func (s *CartStore) AddItem(ctx context.Context, product models.Product, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	i := s.indexOf(product.ID)
	existing := 0
	if i >= 0 {
		existing = s.cart.Items[i].Quantity
	}
	if quantity > models.MaxLineQuantity-existing {
		return ErrQuantityLimit
	}
	if i >= 0 {
		s.cart.Items[i].Quantity += quantity
	} else {
		s.cart.Items = append(s.cart.Items, models.CartLineItem{
			ID:       product.ID,
			Name:     product.Name,
			Category: product.Category,
			Image:    product.Image,
			Price:    product.Price,
			Quantity: quantity,
		})
	}
	s.persist(ctx)
	return nil
}

// UpdateQuantity sets a line's quantity exactly. Zero or less removes the
// line; an unknown id is a no-op. Quantities above MaxLineQuantity are
// rejected with ErrQuantityLimit.
func (s *CartStore) UpdateQuantity(ctx context.Context, id models.ItemID, quantity int) error {
	if quantity <= 0 {
		s.RemoveItem(ctx, id)
		return nil
	}
	if quantity > models.MaxLineQuantity {
		return ErrQuantityLimit
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.cart.Items[i].Quantity = quantity
	s.persist(ctx)
	return nil
}

// RemoveItem drops the line with id, if present.
func (s *CartStore) RemoveItem(ctx context.Context, id models.ItemID) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
	s.persist(ctx)
}

// SetCurrency switches the display currency. Stored prices are untouched.
func (s *CartStore) SetCurrency(ctx context.Context, c models.Currency) error {
	if !c.Valid() {
		return fmt.Errorf("unsupported currency %q", c)
	}
	if s.cart.Currency == c {
		return nil
	}
	s.cart.Currency = c
	s.persist(ctx)
	return nil
}

// TotalPrice is the sum of price[currency] * quantity over every line.
func (s *CartStore) TotalPrice() decimal.Decimal {
	return s.TotalIn(s.cart.Currency)
}

// TotalIn is TotalPrice in currency c, without switching the cart.
func (s *CartStore) TotalIn(c models.Currency) decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.cart.Items {
		total = total.Add(it.Price.Amount(c).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Clear empties the cart. The currency is kept.
func (s *CartStore) Clear(ctx context.Context) {
	if len(s.cart.Items) == 0 {
		return
	}
	s.cart.Items = nil
	s.persist(ctx)
}

func (s *CartStore) Currency() models.Currency { return s.cart.Currency }

// ItemCount is the total quantity across lines.
func (s *CartStore) ItemCount() int {
	n := 0
	for _, it := range s.cart.Items {
		n += it.Quantity
	}
	return n
}

// Items returns a copy of the line items.
func (s *CartStore) Items() []models.CartLineItem {
	out := make([]models.CartLineItem, len(s.cart.Items))
	copy(out, s.cart.Items)
	return out
}

// Snapshot returns a copy of the underlying cart.
func (s *CartStore) Snapshot() models.Cart {
	c := *s.cart
	c.Items = s.Items()
	return c
}

func (s *CartStore) indexOf(id models.ItemID) int {
	for i, it := range s.cart.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *CartStore) persist(ctx context.Context) {
	if s.snap == nil {
		return
	}
	if err := s.snap.SaveCart(ctx, s.cart); err != nil {
		s.logger.Warn("Failed to save cart snapshot",
			zap.String("user_id", s.cart.UserID),
			zap.Error(err),
		)
	}
}
