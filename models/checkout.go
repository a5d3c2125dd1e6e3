package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutKind distinguishes a product-cart checkout from a class booking.
type CheckoutKind string

const (
	CheckoutProduct CheckoutKind = "product"
	CheckoutClass   CheckoutKind = "class"
)

// CheckoutTotals is derived from the checkout inputs every time they change.
type CheckoutTotals struct {
	Currency       Currency        `json:"currency"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	PromoDiscount  decimal.Decimal `json:"promo_discount"`
	BulkDiscount   decimal.Decimal `json:"bulk_discount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Tax            decimal.Decimal `json:"tax"`
	Shipping       decimal.Decimal `json:"shipping"`
	Total          decimal.Decimal `json:"total"`
	Display        TotalsDisplay   `json:"display"`
}

// TotalsDisplay holds the formatted counterparts of CheckoutTotals.
type TotalsDisplay struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

// BulkQuote is the result of pricing a class selection.
type BulkQuote struct {
	Currency Currency        `json:"currency"`
	ClassIDs []ItemID        `json:"class_ids"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Rate     decimal.Decimal `json:"rate"`
	Discount decimal.Decimal `json:"discount"`
	Final    decimal.Decimal `json:"final"`
}

// ClassQuoteRequest prices a class selection without checking out.
type ClassQuoteRequest struct {
	ClassIDs []ItemID `json:"class_ids" binding:"required"`
	Currency string   `json:"currency" binding:"omitempty,oneof=usd naira gbp USD NAIRA GBP"`
}

// CheckoutCustomer is the contact section of the checkout form.
type CheckoutCustomer struct {
	Name  string `json:"name" binding:"required,min=2,max=120"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,min=7,max=20"`
}

// CheckoutQuoteRequest asks for totals without submitting.
type CheckoutQuoteRequest struct {
	Kind     CheckoutKind `json:"kind" binding:"required,oneof=product class"`
	ClassIDs []ItemID     `json:"class_ids"`
	Currency string       `json:"currency" binding:"omitempty,oneof=usd naira gbp USD NAIRA GBP"`
}

// CheckoutRequest submits the checkout form.
type CheckoutRequest struct {
	CheckoutQuoteRequest
	Customer CheckoutCustomer `json:"customer" binding:"required"`
}

// CheckoutState is a step of the checkout flow.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutFormFilled CheckoutState = "form_filled"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutRedirected CheckoutState = "redirected"
	CheckoutFailed     CheckoutState = "failed"
)

// CheckoutResponse is returned after a successful submission.
type CheckoutResponse struct {
	State            CheckoutState  `json:"state"`
	Reference        string         `json:"reference"`
	Gateway          string         `json:"gateway"`
	AuthorizationURL string         `json:"authorization_url"`
	Totals           CheckoutTotals `json:"totals"`
}

// ConfirmCheckoutRequest confirms a payment after the gateway redirect.
type ConfirmCheckoutRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// PaymentRequest is handed to a payment initiator.
type PaymentRequest struct {
	Gateway     string            `json:"gateway"`
	Reference   string            `json:"reference"`
	Amount      decimal.Decimal   `json:"amount"`
	AmountMinor int64             `json:"amount_minor"`
	Currency    Currency          `json:"currency"`
	Email       string            `json:"email"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// PaymentResult is the initiator's answer.
type PaymentResult struct {
	Success          bool   `json:"success"`
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
	Message          string `json:"message,omitempty"`
}

// OrderStatus tracks the payment outcome of an order.
type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// Order is the persisted record of one checkout submission.
type Order struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Reference  string          `gorm:"type:varchar(128);uniqueIndex;not null" json:"reference"`
	UserID     string          `gorm:"type:varchar(128);index;not null" json:"user_id"`
	Kind       CheckoutKind    `gorm:"type:varchar(20);not null" json:"kind"`
	Gateway    string          `gorm:"type:varchar(20);not null" json:"gateway"`
	// GatewayRef is the gateway's own id for the payment, e.g. a Stripe session id.
	GatewayRef string          `gorm:"type:varchar(255)" json:"gateway_reference,omitempty"`
	Currency   Currency        `gorm:"type:varchar(10);not null" json:"currency"`
	Subtotal   decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"subtotal"`
	Discount   decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"discount"`
	Tax        decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"tax"`
	Total      decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"total"`
	PromoCode  string          `gorm:"type:varchar(64)" json:"promo_code,omitempty"`
	Items      []CartLineItem  `gorm:"serializer:json" json:"items,omitempty"`
	ClassIDs   []ItemID        `gorm:"serializer:json" json:"class_ids,omitempty"`
	Email      string          `gorm:"type:varchar(255)" json:"email"`
	Status     OrderStatus     `gorm:"type:varchar(20);not null" json:"status"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// CheckoutEvent is published to SNS when a checkout changes state.
type CheckoutEvent struct {
	EventType string          `json:"event_type"`
	Reference string          `json:"reference"`
	UserID    string          `json:"user_id"`
	Kind      CheckoutKind    `json:"kind"`
	Currency  Currency        `json:"currency"`
	Total     decimal.Decimal `json:"total"`
	ClassIDs  []ItemID        `json:"class_ids,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
