package pricing

import (
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/shopspring/decimal"
)

var (
	tierSmall = decimal.NewFromInt(10)
	tierLarge = decimal.NewFromInt(20)
	hundred   = decimal.NewFromInt(100)
)

// PriceLookup resolves a class id to its price record.
type PriceLookup interface {
	PriceOf(id models.ItemID) (models.Price, bool)
}

// PriceMap is the simplest PriceLookup.
type PriceMap map[models.ItemID]models.Price

func (m PriceMap) PriceOf(id models.ItemID) (models.Price, bool) {
	p, ok := m[id]
	return p, ok
}

// ClassPrices indexes a class catalog by id.
func ClassPrices(classes []models.FitnessClass) PriceMap {
	m := make(PriceMap, len(classes))
	for _, c := range classes {
		m[c.ID] = c.Price
	}
	return m
}

// BulkRate is the bulk discount percentage for a selection of count classes.
// Tiers are inclusive thresholds: 3-4 classes get 10%, 5 or more get 20%.
func BulkRate(count int) decimal.Decimal {
	switch {
	case count >= 5:
		return tierLarge
	case count >= 3:
		return tierSmall
	default:
		return decimal.Zero
	}
}

// UniqueIDs drops duplicate and empty ids, keeping first-seen order.
func UniqueIDs(ids []models.ItemID) []models.ItemID {
	seen := make(map[models.ItemID]struct{}, len(ids))
	out := make([]models.ItemID, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// QuoteBulk prices a class selection. Unknown ids contribute nothing to the
// subtotal but still count towards the tier.
func QuoteBulk(ids []models.ItemID, prices PriceLookup, currency models.Currency) models.BulkQuote {
	selection := UniqueIDs(ids)

	subtotal := decimal.Zero
	for _, id := range selection {
		if prices == nil {
			break
		}
		if p, ok := prices.PriceOf(id); ok {
			subtotal = subtotal.Add(p.Amount(currency))
		}
	}

	rate := BulkRate(len(selection))
	discount := subtotal.Mul(rate).Div(hundred)

	return models.BulkQuote{
		Currency: currency,
		ClassIDs: selection,
		Count:    len(selection),
		Subtotal: subtotal,
		Rate:     rate,
		Discount: discount,
		Final:    subtotal.Sub(discount),
	}
}
