package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for checkout order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	UpdateStatus(ctx context.Context, reference string, status models.OrderStatus, at time.Time) error
	FindByUser(ctx context.Context, userID string, limit int) ([]models.Order, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order to status. paid_at is only set for paid orders.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, reference string, status models.OrderStatus, at time.Time) error {
	updates := map[string]interface{}{"status": status}
	if status == models.OrderPaid {
		updates["paid_at"] = at
	}

	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("reference = ?", reference).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) FindByUser(ctx context.Context, userID string, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
