package models

import "time"

// CartLineItem is one product entry in a cart. Quantity is always at least 1.
type CartLineItem struct {
	ID       ItemID `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Price    Price  `json:"price"`
	Quantity int    `json:"quantity"`
}

// Cart is the persisted snapshot of a user's cart.
type Cart struct {
	UserID    string         `json:"user_id"`
	Items     []CartLineItem `json:"items"`
	Currency  Currency       `json:"currency"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MaxLineQuantity is the largest quantity a single cart line may hold.
const MaxLineQuantity = 999

// AddCartItemRequest is the payload for adding a product to the cart.
type AddCartItemRequest struct {
	ProductID ItemID `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=999"`
}

// UpdateCartItemRequest sets a line item's quantity; zero or less removes it.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

// SetCurrencyRequest switches the cart's display currency.
type SetCurrencyRequest struct {
	Currency string `json:"currency" binding:"required,oneof=usd naira gbp USD NAIRA GBP"`
}

// CartResponse is a cart plus its derived subtotal.
type CartResponse struct {
	Cart
	ItemCount         int    `json:"item_count"`
	Subtotal          string `json:"subtotal"`
	SubtotalFormatted string `json:"subtotal_formatted"`
}
