package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"gorm.io/gorm"
)

// PromoRepository defines the interface for promo code data access.
type PromoRepository interface {
	Create(ctx context.Context, promo *models.PromoCode) error
	FindByCode(ctx context.Context, code string) (*models.PromoCode, error)
	Deactivate(ctx context.Context, code string) error
	FindAll(ctx context.Context, page, limit int) ([]models.PromoCode, int64, error)
}

// GormPromoRepository implements PromoRepository using GORM.
type GormPromoRepository struct {
	db *gorm.DB
}

// NewGormPromoRepository creates a new GormPromoRepository.
func NewGormPromoRepository(db *gorm.DB) *GormPromoRepository {
	return &GormPromoRepository{db: db}
}

// Create inserts a new promo code. The code is stored upper-case.
func (r *GormPromoRepository) Create(ctx context.Context, promo *models.PromoCode) error {
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	return r.db.WithContext(ctx).Create(promo).Error
}

// FindByCode retrieves an active promo code.
func (r *GormPromoRepository) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.WithContext(ctx).
		Where("code = ? AND active = ?", strings.ToUpper(strings.TrimSpace(code)), true).
		First(&promo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// FindPromoCode adapts FindByCode to the promo lookup contract: a missing
// code is (nil, nil), only infrastructure failures are errors.
func (r *GormPromoRepository) FindPromoCode(ctx context.Context, code string) (*models.PromoCode, error) {
	promo, err := r.FindByCode(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return promo, err
}

// Deactivate sets active = false.
func (r *GormPromoRepository) Deactivate(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindAll retrieves paginated promo codes, newest first.
func (r *GormPromoRepository) FindAll(ctx context.Context, page, limit int) ([]models.PromoCode, int64, error) {
	var promos []models.PromoCode
	var total int64

	query := r.db.WithContext(ctx).Model(&models.PromoCode{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&promos).Error; err != nil {
		return nil, 0, err
	}
	return promos, total, nil
}
