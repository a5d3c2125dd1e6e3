package services

import (
	"context"
	"net/http"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"go.uber.org/zap"
)

// PromoSessionStore keeps the promo each user has applied.
type PromoSessionStore interface {
	Get(ctx context.Context, userID string) (*models.PromoCode, error)
	Save(ctx context.Context, userID string, promo *models.PromoCode) error
	Delete(ctx context.Context, userID string) error
}

// PromoService applies and clears promo codes for a user's checkout session.
type PromoService interface {
	ApplyCode(ctx context.Context, userID, raw string) (*models.PromoResponse, *ServiceError)
	ClearCode(ctx context.Context, userID string) *ServiceError
	Resolver(ctx context.Context, userID string) (*PromoResolver, error)
}

type promoServiceImpl struct {
	lookup   PromoLookup
	sessions PromoSessionStore
	logger   *zap.Logger
}

// NewPromoService creates a new PromoService.
func NewPromoService(lookup PromoLookup, sessions PromoSessionStore, logger *zap.Logger) PromoService {
	return &promoServiceImpl{lookup: lookup, sessions: sessions, logger: logger}
}

// Resolver returns a resolver primed with the user's active promo.
func (s *promoServiceImpl) Resolver(ctx context.Context, userID string) (*PromoResolver, error) {
	active, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewPromoResolver(s.lookup, active, s.logger), nil
}

// ApplyCode validates raw and stores the outcome. A failed validation is not a
// service error: it is reported through PromoResponse.Valid.
func (s *promoServiceImpl) ApplyCode(ctx context.Context, userID, raw string) (*models.PromoResponse, *ServiceError) {
	resolver := NewPromoResolver(s.lookup, nil, s.logger)
	validateErr := resolver.ValidateCode(ctx, raw)

	if err := s.sessions.Save(ctx, userID, resolver.Active()); err != nil {
		s.logger.Error("Failed to store promo session", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Failed to apply promo code"}
	}

	if validateErr != nil {
		return &models.PromoResponse{Valid: false, Message: InvalidPromoMessage}, nil
	}
	if resolver.Active() == nil {
		return &models.PromoResponse{Valid: false, Message: "Promo code cleared"}, nil
	}

	s.logger.Info("Promo code applied", zap.String("user_id", userID), zap.String("code", resolver.Active().Code))
	return &models.PromoResponse{
		Valid:   true,
		Message: "Promo code applied",
		Promo:   resolver.Active(),
	}, nil
}

func (s *promoServiceImpl) ClearCode(ctx context.Context, userID string) *ServiceError {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		s.logger.Error("Failed to clear promo session", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to clear promo code"}
	}
	return nil
}
