package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StorefrontAPI talks to the storefront REST backend that owns the catalog,
// promo codes, payments and class bookings.
type StorefrontAPI struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewStorefrontAPI(baseURL string, timeout time.Duration, logger *zap.Logger) *StorefrontAPI {
	return &StorefrontAPI{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error: status=%d body=%s", e.StatusCode, e.Body)
}

func (a *StorefrontAPI) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	u := a.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Warn("storefront API call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// decodeJSON reads a response into out. The backend sometimes wraps payloads
// in {"data": ...}; both shapes are accepted.
func decodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
			trimmed = envelope.Data
		}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ListProducts fetches the product catalog.
func (a *StorefrontAPI) ListProducts(ctx context.Context) ([]models.Product, error) {
	resp, err := a.do(ctx, http.MethodGet, "/products", nil, nil)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := decodeJSON(resp, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListClasses fetches the class catalog.
func (a *StorefrontAPI) ListClasses(ctx context.Context) ([]models.FitnessClass, error) {
	resp, err := a.do(ctx, http.MethodGet, "/classes", nil, nil)
	if err != nil {
		return nil, err
	}
	var classes []models.FitnessClass
	if err := decodeJSON(resp, &classes); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindPromoCode looks a code up. A 404 is (nil, nil).
func (a *StorefrontAPI) FindPromoCode(ctx context.Context, code string) (*models.PromoCode, error) {
	resp, err := a.do(ctx, http.MethodGet, "/promo-codes/"+url.PathEscape(code), nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, nil
	}
	var wire promoWire
	if err := decodeJSON(resp, &wire); err != nil {
		return nil, fmt.Errorf("find promo code %s: %w", code, err)
	}
	if wire.Code == "" || (wire.Active != nil && !*wire.Active) {
		return nil, nil
	}
	return &models.PromoCode{
		Code:         strings.ToUpper(wire.Code),
		Discount:     wire.Discount,
		Type:         wire.Type,
		ApplicableTo: wire.ApplicableTo,
		Active:       true,
		ExpiresAt:    wire.ExpiresAt,
	}, nil
}

// promoWire is the API's promo shape. Its ids are not uuids.
type promoWire struct {
	Code         string             `json:"code"`
	Discount     decimal.Decimal    `json:"discount"`
	Type         models.PromoType   `json:"type"`
	ApplicableTo models.PromoTarget `json:"applicableTo"`
	Active       *bool              `json:"active"`
	ExpiresAt    *time.Time         `json:"expiresAt"`
}

type initiatePaymentBody struct {
	Gateway   string            `json:"gateway"`
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Email     string            `json:"email"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// InitiatePayment asks the backend to start a payment with req.Gateway.
// Amounts are sent in minor units.
func (a *StorefrontAPI) InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error) {
	body := initiatePaymentBody{
		Gateway:   req.Gateway,
		Reference: req.Reference,
		Amount:    req.AmountMinor,
		Currency:  string(req.Currency),
		Email:     req.Email,
		Metadata:  req.Metadata,
	}
	resp, err := a.do(ctx, http.MethodPost, "/payments/initialize", nil, body)
	if err != nil {
		return nil, err
	}

	var result models.PaymentResult
	if err := decodeJSON(resp, &result); err != nil {
		return nil, fmt.Errorf("initiate %s payment: %w", req.Gateway, err)
	}
	if result.Reference == "" {
		result.Reference = req.Reference
	}
	return &result, nil
}

// VerifyPayment reports whether the payment behind reference succeeded.
func (a *StorefrontAPI) VerifyPayment(ctx context.Context, gateway, reference string) (bool, error) {
	path := "/payments/verify/" + url.PathEscape(gateway) + "/" + url.PathEscape(reference)
	resp, err := a.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return false, err
	}

	var result struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return false, fmt.Errorf("verify %s payment %s: %w", gateway, reference, err)
	}
	return result.Success || strings.EqualFold(result.Status, "success"), nil
}

// SubscribeClass books userID onto a class.
func (a *StorefrontAPI) SubscribeClass(ctx context.Context, classID models.ItemID, userID string) (*models.Booking, error) {
	path := "/classes/" + url.PathEscape(classID.String()) + "/subscribe"
	resp, err := a.do(ctx, http.MethodPost, path, nil, map[string]string{"userId": userID})
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := decodeJSON(resp, &booking); err != nil {
		return nil, fmt.Errorf("subscribe class %s: %w", classID, err)
	}
	if booking.ClassID == "" {
		booking.ClassID = classID
	}
	if booking.UserID == "" {
		booking.UserID = userID
	}
	return &booking, nil
}
