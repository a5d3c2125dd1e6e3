package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAdminService(repo *memPromoRepo) services.PromoAdminService {
	logger, _ := zap.NewDevelopment()
	return services.NewPromoAdminService(repo, logger)
}

func TestAdmin_CreatePromo_Success(t *testing.T) {
	svc := newAdminService(newMemPromoRepo())

	promo, svcErr := svc.CreatePromo(context.Background(), &models.CreatePromoRequest{
		Code:     "summer25",
		Type:     models.PromoPercentage,
		Discount: decimal.NewFromInt(25),
	})
	require.Nil(t, svcErr)
	assert.Equal(t, "SUMMER25", promo.Code)
	assert.Equal(t, models.PromoTargetAll, promo.ApplicableTo)
	assert.True(t, promo.Active)
}

func TestAdmin_CreatePromo_Validation(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	tests := []struct {
		name string
		req  models.CreatePromoRequest
	}{
		{"zero discount", models.CreatePromoRequest{Code: "ZERO", Type: models.PromoFixed}},
		{"negative discount", models.CreatePromoRequest{Code: "NEG", Type: models.PromoFixed, Discount: decimal.NewFromInt(-5)}},
		{"percentage above 100", models.CreatePromoRequest{Code: "BIG", Type: models.PromoPercentage, Discount: decimal.NewFromInt(101)}},
		{"expired", models.CreatePromoRequest{Code: "OLD", Type: models.PromoFixed, Discount: decimal.NewFromInt(5), ExpiresAt: &past}},
	}

	svc := newAdminService(newMemPromoRepo())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svcErr := svc.CreatePromo(context.Background(), &tt.req)
			require.NotNil(t, svcErr)
			assert.Equal(t, 400, svcErr.StatusCode)
		})
	}
}

func TestAdmin_CreatePromo_Duplicate(t *testing.T) {
	svc := newAdminService(newMemPromoRepo())
	req := &models.CreatePromoRequest{Code: "SAVE10", Type: models.PromoPercentage, Discount: decimal.NewFromInt(10)}

	_, svcErr := svc.CreatePromo(context.Background(), req)
	require.Nil(t, svcErr)

	_, svcErr = svc.CreatePromo(context.Background(), req)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestAdmin_DeactivateAndGet(t *testing.T) {
	repo := newMemPromoRepo()
	svc := newAdminService(repo)
	_, _ = svc.CreatePromo(context.Background(), &models.CreatePromoRequest{Code: "SAVE10", Type: models.PromoPercentage, Discount: decimal.NewFromInt(10)})

	got, svcErr := svc.GetPromo(context.Background(), "SAVE10")
	require.Nil(t, svcErr)
	assert.Equal(t, "SAVE10", got.Code)

	assert.Nil(t, svc.DeactivatePromo(context.Background(), "SAVE10"))

	_, svcErr = svc.GetPromo(context.Background(), "SAVE10")
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)

	svcErr = svc.DeactivatePromo(context.Background(), "NOPE")
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestAdmin_ListPromos(t *testing.T) {
	svc := newAdminService(newMemPromoRepo())
	_, _ = svc.CreatePromo(context.Background(), &models.CreatePromoRequest{Code: "AAA", Type: models.PromoFixed, Discount: decimal.NewFromInt(5)})
	_, _ = svc.CreatePromo(context.Background(), &models.CreatePromoRequest{Code: "BBB", Type: models.PromoFixed, Discount: decimal.NewFromInt(7)})

	promos, total, svcErr := svc.ListPromos(context.Background(), 1, 10)
	require.Nil(t, svcErr)
	assert.Equal(t, int64(2), total)
	assert.Len(t, promos, 2)
}
