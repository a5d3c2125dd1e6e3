package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromoType is the discount strategy of a promo code.
type PromoType string

const (
	PromoPercentage PromoType = "percentage"
	PromoFixed      PromoType = "fixed"
)

// PromoTarget scopes which subtotal a promo code applies against.
type PromoTarget string

const (
	PromoTargetAll     PromoTarget = "all"
	PromoTargetClass   PromoTarget = "class"
	PromoTargetProduct PromoTarget = "product"
)

// PromoCode is a discount code. Codes are stored upper-case.
type PromoCode struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code         string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Discount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount"`
	Type         PromoType       `gorm:"type:varchar(20);not null" json:"type"`
	ApplicableTo PromoTarget     `gorm:"type:varchar(20);not null;default:all" json:"applicableTo"`
	Active       bool            `gorm:"not null;default:true" json:"active"`
	ExpiresAt    *time.Time      `json:"expiresAt,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Applies reports whether the code can discount a checkout of the given kind.
func (p PromoCode) Applies(kind CheckoutKind) bool {
	switch p.ApplicableTo {
	case "", PromoTargetAll:
		return true
	case PromoTargetClass:
		return kind == CheckoutClass
	case PromoTargetProduct:
		return kind == CheckoutProduct
	default:
		return false
	}
}

// Expired reports whether the code has passed its expiry at now.
func (p PromoCode) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// ValidatePromoRequest carries a user-entered code. An empty code clears the active promo.
type ValidatePromoRequest struct {
	Code string `json:"code" binding:"max=64"`
}

// PromoResponse reports the outcome of applying a code.
type PromoResponse struct {
	Valid   bool       `json:"valid"`
	Message string     `json:"message,omitempty"`
	Promo   *PromoCode `json:"promo,omitempty"`
}

// CreatePromoRequest is the admin payload for a new promo code.
type CreatePromoRequest struct {
	Code         string          `json:"code" binding:"required,min=3,max=64"`
	Type         PromoType       `json:"type" binding:"required,oneof=percentage fixed"`
	Discount     decimal.Decimal `json:"discount"`
	ApplicableTo PromoTarget     `json:"applicableTo" binding:"omitempty,oneof=all class product"`
	ExpiresAt    *time.Time      `json:"expiresAt"`
}
