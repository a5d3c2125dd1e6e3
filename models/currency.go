package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the three display currencies the storefront prices in.
type Currency string

const (
	CurrencyUSD   Currency = "usd"
	CurrencyNaira Currency = "naira"
	CurrencyGBP   Currency = "gbp"
)

// DefaultCurrency is the currency a new cart starts in.
const DefaultCurrency = CurrencyUSD

// Currencies lists every supported currency in display order.
var Currencies = []Currency{CurrencyUSD, CurrencyNaira, CurrencyGBP}

// ParseCurrency normalises a currency code. Codes are case-insensitive.
func ParseCurrency(code string) (Currency, error) {
	switch c := Currency(strings.ToLower(strings.TrimSpace(code))); c {
	case CurrencyUSD, CurrencyNaira, CurrencyGBP:
		return c, nil
	default:
		return "", fmt.Errorf("unsupported currency %q", code)
	}
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	_, err := ParseCurrency(string(c))
	return err == nil
}

// Price holds one amount per supported currency. Amounts are never negative.
type Price struct {
	USD   decimal.Decimal
	Naira decimal.Decimal
	GBP   decimal.Decimal
}

// NewPrice builds a Price from float amounts, mostly for fixtures and fallbacks.
func NewPrice(usd, naira, gbp float64) Price {
	return Price{
		USD:   sanitize(decimal.NewFromFloat(usd)),
		Naira: sanitize(decimal.NewFromFloat(naira)),
		GBP:   sanitize(decimal.NewFromFloat(gbp)),
	}
}

// Amount returns the amount for c, or zero for an unsupported currency.
func (p Price) Amount(c Currency) decimal.Decimal {
	switch c {
	case CurrencyUSD:
		return sanitize(p.USD)
	case CurrencyNaira:
		return sanitize(p.Naira)
	case CurrencyGBP:
		return sanitize(p.GBP)
	default:
		return decimal.Zero
	}
}

func sanitize(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

type priceWire struct {
	USD   json.RawMessage `json:"usd"`
	Naira json.RawMessage `json:"naira"`
	GBP   json.RawMessage `json:"gbp"`
}

// UnmarshalJSON never fails on bad amounts: missing, null, non-numeric or
// negative values decode as zero.
func (p *Price) UnmarshalJSON(data []byte) error {
	*p = Price{}
	var w priceWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil
	}
	p.USD = parseAmount(w.USD)
	p.Naira = parseAmount(w.Naira)
	p.GBP = parseAmount(w.GBP)
	return nil
}

func parseAmount(raw json.RawMessage) decimal.Decimal {
	s := string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	if s == "" || s == "null" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return sanitize(d)
}

// MarshalJSON writes amounts as JSON numbers.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"usd":%s,"naira":%s,"gbp":%s}`,
		p.Amount(CurrencyUSD).String(),
		p.Amount(CurrencyNaira).String(),
		p.Amount(CurrencyGBP).String(),
	)), nil
}
