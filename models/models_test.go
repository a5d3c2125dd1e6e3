package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	c, err := models.ParseCurrency(" NAIRA ")
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyNaira, c)

	_, err = models.ParseCurrency("eur")
	assert.Error(t, err)
}

func TestPrice_DecodesAmounts(t *testing.T) {
	var p models.Price
	require.NoError(t, json.Unmarshal([]byte(`{"usd": 49.99, "naira": "24999", "gbp": 39.99}`), &p))

	assert.True(t, decimal.RequireFromString("49.99").Equal(p.Amount(models.CurrencyUSD)))
	assert.True(t, decimal.NewFromInt(24999).Equal(p.Amount(models.CurrencyNaira)))
	assert.True(t, decimal.RequireFromString("39.99").Equal(p.Amount(models.CurrencyGBP)))
}

func TestPrice_MalformedAmountsAreZero(t *testing.T) {
	var p models.Price
	require.NoError(t, json.Unmarshal([]byte(`{"usd": "NaN", "naira": null, "gbp": -4}`), &p))

	for _, c := range models.Currencies {
		assert.True(t, p.Amount(c).IsZero(), "currency %s", c)
	}

	var q models.Price
	require.NoError(t, json.Unmarshal([]byte(`"not a price"`), &q))
	assert.True(t, q.Amount(models.CurrencyUSD).IsZero())
}

func TestPrice_UnknownCurrencyIsZero(t *testing.T) {
	p := models.NewPrice(1, 2, 3)
	assert.True(t, p.Amount(models.Currency("eur")).IsZero())
}

func TestPrice_RoundTrip(t *testing.T) {
	p := models.NewPrice(49.99, 24999, 39.99)
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"usd":49.99,"naira":24999,"gbp":39.99}`, string(b))
}

func TestItemID_AcceptsNumbersAndStrings(t *testing.T) {
	var products []models.Product
	require.NoError(t, json.Unmarshal([]byte(`[{"id": 7, "name": "Mat"}, {"id": "band-2", "name": "Band"}]`), &products))

	assert.Equal(t, models.ItemID("7"), products[0].ID)
	assert.Equal(t, models.ItemID("band-2"), products[1].ID)
}

func TestPromoCode_Applies(t *testing.T) {
	all := models.PromoCode{ApplicableTo: models.PromoTargetAll}
	class := models.PromoCode{ApplicableTo: models.PromoTargetClass}
	product := models.PromoCode{ApplicableTo: models.PromoTargetProduct}

	assert.True(t, all.Applies(models.CheckoutClass))
	assert.True(t, all.Applies(models.CheckoutProduct))
	assert.True(t, class.Applies(models.CheckoutClass))
	assert.False(t, class.Applies(models.CheckoutProduct))
	assert.True(t, product.Applies(models.CheckoutProduct))
	assert.False(t, product.Applies(models.CheckoutClass))
}

func TestPromoCode_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, models.PromoCode{}.Expired(now))
	assert.True(t, models.PromoCode{ExpiresAt: &past}.Expired(now))
	assert.False(t, models.PromoCode{ExpiresAt: &future}.Expired(now))
}
