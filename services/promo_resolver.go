package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvalidPromoMessage is the single failure message for promo validation.
// A missing code and a failed lookup are not told apart.
const InvalidPromoMessage = "invalid or expired promo code"

// ErrInvalidPromo is returned by ValidateCode for any failed validation.
var ErrInvalidPromo = errors.New(InvalidPromoMessage)

// PromoLookup finds a promo code. A missing code is (nil, nil); errors are
// reserved for lookup failures.
type PromoLookup interface {
	FindPromoCode(ctx context.Context, code string) (*models.PromoCode, error)
}

var hundred = decimal.NewFromInt(100)

// PromoResolver holds the active promo code of one checkout session.
type PromoResolver struct {
	lookup PromoLookup
	active *models.PromoCode
	logger *zap.Logger
	now    func() time.Time
}

// NewPromoResolver creates a resolver with an optional already-active promo.
func NewPromoResolver(lookup PromoLookup, active *models.PromoCode, logger *zap.Logger) *PromoResolver {
	return &PromoResolver{lookup: lookup, active: active, logger: logger, now: time.Now}
}

// NormalizeCode trims and upper-cases a user-entered code.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidateCode looks up raw and makes it the active promo. An empty code
// clears the active promo and succeeds. Any failure clears the active promo
// and returns ErrInvalidPromo.
func (r *PromoResolver) ValidateCode(ctx context.Context, raw string) error {
	code := NormalizeCode(raw)
	r.active = nil
	if code == "" {
		return nil
	}

	promo, err := r.lookup.FindPromoCode(ctx, code)
	if err != nil {
		r.logger.Warn("Promo lookup failed", zap.String("code", code), zap.Error(err))
		return ErrInvalidPromo
	}
	if promo == nil || promo.Expired(r.now()) {
		return ErrInvalidPromo
	}

	promo.Code = NormalizeCode(promo.Code)
	r.active = promo
	return nil
}

// Active returns the active promo or nil.
func (r *PromoResolver) Active() *models.PromoCode {
	return r.active
}

// CalculateDiscount returns the active promo's discount on subtotal, always
// within [0, subtotal].
func (r *PromoResolver) CalculateDiscount(subtotal decimal.Decimal) decimal.Decimal {
	if r.active == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}
	magnitude := r.active.Discount
	if magnitude.IsNegative() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch r.active.Type {
	case models.PromoPercentage:
		discount = subtotal.Mul(magnitude).Div(hundred)
	case models.PromoFixed:
		discount = magnitude
	default:
		return decimal.Zero
	}
	return decimal.Min(discount, subtotal)
}

// DiscountFor is CalculateDiscount restricted to promos that apply to kind.
// A promo that has expired since it was applied yields nothing.
func (r *PromoResolver) DiscountFor(kind models.CheckoutKind, subtotal decimal.Decimal) decimal.Decimal {
	if r.active == nil || !r.active.Applies(kind) || r.active.Expired(r.now()) {
		return decimal.Zero
	}
	return r.CalculateDiscount(subtotal)
}

// Clear deactivates the current promo unconditionally.
func (r *PromoResolver) Clear() {
	r.active = nil
}
