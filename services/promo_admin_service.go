package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/repository"
	"go.uber.org/zap"
)

// PromoAdminService manages promo codes for administrators.
type PromoAdminService interface {
	CreatePromo(ctx context.Context, req *models.CreatePromoRequest) (*models.PromoCode, *ServiceError)
	GetPromo(ctx context.Context, code string) (*models.PromoCode, *ServiceError)
	DeactivatePromo(ctx context.Context, code string) *ServiceError
	ListPromos(ctx context.Context, page, limit int) ([]models.PromoCode, int64, *ServiceError)
}

type promoAdminServiceImpl struct {
	repo   repository.PromoRepository
	logger *zap.Logger
}

// NewPromoAdminService creates a new PromoAdminService.
func NewPromoAdminService(repo repository.PromoRepository, logger *zap.Logger) PromoAdminService {
	return &promoAdminServiceImpl{repo: repo, logger: logger}
}

func (s *promoAdminServiceImpl) CreatePromo(ctx context.Context, req *models.CreatePromoRequest) (*models.PromoCode, *ServiceError) {
	if req.Discount.IsNegative() || req.Discount.IsZero() {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Discount must be greater than zero"}
	}
	if req.Type == models.PromoPercentage && req.Discount.GreaterThan(hundred) {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Percentage discount cannot exceed 100"}
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Expiry date must be in the future"}
	}

	target := req.ApplicableTo
	if target == "" {
		target = models.PromoTargetAll
	}

	promo := &models.PromoCode{
		Code:         NormalizeCode(req.Code),
		Type:         req.Type,
		Discount:     req.Discount,
		ApplicableTo: target,
		Active:       true,
		ExpiresAt:    req.ExpiresAt,
	}

	if err := s.repo.Create(ctx, promo); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Promo code already exists"}
		}
		s.logger.Error("Failed to create promo code", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to create promo code"}
	}

	s.logger.Info("Promo code created", zap.String("code", promo.Code), zap.String("type", string(promo.Type)))
	return promo, nil
}

func (s *promoAdminServiceImpl) GetPromo(ctx context.Context, code string) (*models.PromoCode, *ServiceError) {
	promo, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Promo code not found"}
	}
	if err != nil {
		s.logger.Error("Failed to get promo code", zap.String("code", code), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to get promo code"}
	}
	return promo, nil
}

func (s *promoAdminServiceImpl) DeactivatePromo(ctx context.Context, code string) *ServiceError {
	if err := s.repo.Deactivate(ctx, code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Promo code not found"}
		}
		s.logger.Error("Failed to deactivate promo code", zap.String("code", code), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to deactivate promo code"}
	}

	s.logger.Info("Promo code deactivated", zap.String("code", code))
	return nil
}

func (s *promoAdminServiceImpl) ListPromos(ctx context.Context, page, limit int) ([]models.PromoCode, int64, *ServiceError) {
	promos, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list promo codes", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to list promo codes"}
	}
	return promos, total, nil
}
