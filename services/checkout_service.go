package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	aws_pkg "github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/pkg/aws"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/pkg/logger"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/pricing"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Checkout event types published to SNS.
const (
	EventCheckoutInitiated = "checkout_initiated"
	EventCheckoutPaid      = "checkout_paid"
	EventCheckoutFailed    = "checkout_failed"
)

// GatewayFree marks orders whose total was fully discounted and needed no payment.
const GatewayFree = "none"

// PaymentGateway routes payments by currency.
type PaymentGateway interface {
	GatewayFor(c models.Currency) string
	InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)
	VerifyPayment(ctx context.Context, gateway, reference string) (bool, error)
}

// ClassBooker subscribes users to classes.
type ClassBooker interface {
	SubscribeClass(ctx context.Context, classID models.ItemID, userID string) (*models.Booking, error)
}

// ClassCatalog supplies class prices for bulk quotes.
type ClassCatalog interface {
	ClassPrices(ctx context.Context) pricing.PriceMap
}

// IdempotencyStore remembers submission responses by client key.
type IdempotencyStore interface {
	Get(ctx context.Context, userID, key string) (string, error)
	Set(ctx context.Context, userID, key, response string) error
}

// CheckoutService defines the interface for quoting and submitting checkouts.
type CheckoutService interface {
	QuoteClasses(ctx context.Context, req *models.ClassQuoteRequest) (*models.BulkQuote, *ServiceError)
	Quote(ctx context.Context, userID string, req *models.CheckoutQuoteRequest) (*models.CheckoutTotals, *ServiceError)
	Submit(ctx context.Context, userID, idempotencyKey string, req *models.CheckoutRequest) (*models.CheckoutResponse, *ServiceError)
	Confirm(ctx context.Context, userID, reference string) (*models.Order, *ServiceError)
	Orders(ctx context.Context, userID string, limit int) ([]models.Order, *ServiceError)
	State(userID string) models.CheckoutState
}

// CheckoutDeps bundles the collaborators of the checkout service.
type CheckoutDeps struct {
	Carts       CartService
	Promos      PromoService
	Classes     ClassCatalog
	Orders      repository.OrderRepository
	Payments    PaymentGateway
	Booker      ClassBooker
	Idempotency IdempotencyStore
	SNS         aws_pkg.SNSPublisher
	SNSTopicArn string
	Aggregator  pricing.Aggregator
	Logger      *zap.Logger
}

type checkoutServiceImpl struct {
	deps   CheckoutDeps
	states *checkoutStates
	now    func() time.Time
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(deps CheckoutDeps) CheckoutService {
	return &checkoutServiceImpl{
		deps:   deps,
		states: newCheckoutStates(),
		now:    time.Now,
	}
}

// checkoutDraft is everything computed for a checkout before payment.
type checkoutDraft struct {
	kind     models.CheckoutKind
	currency models.Currency
	totals   models.CheckoutTotals
	items    []models.CartLineItem
	classIDs []models.ItemID
	unknown  []models.ItemID
	cart     *CartStore
	promos   *PromoResolver
}

func (s *checkoutServiceImpl) State(userID string) models.CheckoutState {
	return s.states.get(userID)
}

// QuoteClasses prices a class selection with its bulk discount.
func (s *checkoutServiceImpl) QuoteClasses(ctx context.Context, req *models.ClassQuoteRequest) (*models.BulkQuote, *ServiceError) {
	currency, svcErr := parseOptionalCurrency(req.Currency, models.DefaultCurrency)
	if svcErr != nil {
		return nil, svcErr
	}
	quote := pricing.QuoteBulk(req.ClassIDs, s.deps.Classes.ClassPrices(ctx), currency)
	return &quote, nil
}

// Quote computes the totals the checkout form displays.
func (s *checkoutServiceImpl) Quote(ctx context.Context, userID string, req *models.CheckoutQuoteRequest) (*models.CheckoutTotals, *ServiceError) {
	draft, svcErr := s.draft(ctx, userID, req)
	if svcErr != nil {
		return nil, svcErr
	}
	return &draft.totals, nil
}

func (s *checkoutServiceImpl) draft(ctx context.Context, userID string, req *models.CheckoutQuoteRequest) (*checkoutDraft, *ServiceError) {
	log := logger.For(ctx, s.deps.Logger)

	promos, err := s.deps.Promos.Resolver(ctx, userID)
	if err != nil {
		log.Error("Failed to load promo session", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Checkout is temporarily unavailable"}
	}

	d := &checkoutDraft{kind: req.Kind, promos: promos}
	input := pricing.TotalsInput{}

	switch req.Kind {
	case models.CheckoutProduct:
		cart, err := s.deps.Carts.OpenStore(ctx, userID)
		if err != nil {
			log.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
			return nil, &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Cart is temporarily unavailable"}
		}
		currency, svcErr := parseOptionalCurrency(req.Currency, cart.Currency())
		if svcErr != nil {
			return nil, svcErr
		}
		d.cart = cart
		d.currency = currency
		d.items = cart.Items()
		input.Subtotal = cart.TotalIn(currency)

	case models.CheckoutClass:
		currency, svcErr := parseOptionalCurrency(req.Currency, models.DefaultCurrency)
		if svcErr != nil {
			return nil, svcErr
		}
		prices := s.deps.Classes.ClassPrices(ctx)
		quote := pricing.QuoteBulk(req.ClassIDs, prices, currency)
		for _, id := range quote.ClassIDs {
			if _, ok := prices.PriceOf(id); !ok {
				d.unknown = append(d.unknown, id)
			}
		}
		d.currency = currency
		d.classIDs = quote.ClassIDs
		input.Subtotal = quote.Subtotal
		input.BulkDiscount = quote.Discount

	default:
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Unknown checkout kind"}
	}

	input.Currency = d.currency
	input.PromoDiscount = promos.DiscountFor(req.Kind, input.Subtotal)
	d.totals = s.deps.Aggregator.Totals(input)
	return d, nil
}

// Submit validates the draft, initiates payment and, on success, clears the
// cart and promo. Nothing is committed when initiation fails.
func (s *checkoutServiceImpl) Submit(ctx context.Context, userID, idempotencyKey string, req *models.CheckoutRequest) (*models.CheckoutResponse, *ServiceError) {
	log := logger.For(ctx, s.deps.Logger).With(zap.String("user_id", userID))

	if cached := s.cachedResponse(ctx, userID, idempotencyKey); cached != nil {
		log.Info("Replaying idempotent checkout", zap.String("reference", cached.Reference))
		return cached, nil
	}

	s.states.formFilled(userID)
	if !s.states.begin(userID) {
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "A checkout is already being submitted"}
	}

	resp, svcErr := s.submit(ctx, log, userID, req)
	if svcErr != nil {
		s.states.finish(userID, models.CheckoutFailed)
		return nil, svcErr
	}
	s.states.finish(userID, models.CheckoutRedirected)
	resp.State = models.CheckoutRedirected

	s.storeResponse(ctx, log, userID, idempotencyKey, resp)
	return resp, nil
}

func (s *checkoutServiceImpl) submit(ctx context.Context, log *zap.Logger, userID string, req *models.CheckoutRequest) (*models.CheckoutResponse, *ServiceError) {
	d, svcErr := s.draft(ctx, userID, &req.CheckoutQuoteRequest)
	if svcErr != nil {
		return nil, svcErr
	}

	switch d.kind {
	case models.CheckoutProduct:
		if len(d.items) == 0 {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Cart is empty"}
		}
	case models.CheckoutClass:
		if len(d.classIDs) == 0 {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Select at least one class"}
		}
		if len(d.unknown) > 0 {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Unknown class: " + d.unknown[0].String()}
		}
	}

	order := &models.Order{
		Reference: uuid.NewString(),
		UserID:    userID,
		Kind:      d.kind,
		Currency:  d.currency,
		Subtotal:  d.totals.Subtotal,
		Discount:  d.totals.DiscountAmount,
		Tax:       d.totals.Tax,
		Total:     d.totals.Total,
		Items:     d.items,
		ClassIDs:  d.classIDs,
		Email:     req.Customer.Email,
		Status:    models.OrderPending,
	}
	if promo := d.promos.Active(); promo != nil && d.totals.PromoDiscount.IsPositive() {
		order.PromoCode = promo.Code
	}

	resp := &models.CheckoutResponse{Reference: order.Reference, Totals: d.totals}

	if !d.totals.Total.IsPositive() {
		// Fully discounted: nothing to charge.
		order.Gateway = GatewayFree
		order.Status = models.OrderPaid
		paidAt := s.now().UTC()
		order.PaidAt = &paidAt
	} else {
		amountMinor, ok := pricing.MinorUnits(d.totals.Total)
		if !ok {
			log.Warn("Order total exceeds chargeable range", zap.String("total", d.totals.Total.String()))
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Order total is too large to charge"}
		}
		order.Gateway = s.deps.Payments.GatewayFor(d.currency)
		result, err := s.deps.Payments.InitiatePayment(ctx, models.PaymentRequest{
			Gateway:     order.Gateway,
			Reference:   order.Reference,
			Amount:      d.totals.Total,
			AmountMinor: amountMinor,
			Currency:    d.currency,
			Email:       req.Customer.Email,
			Metadata: map[string]string{
				"user_id":   userID,
				"kind":      string(d.kind),
				"name":      req.Customer.Name,
				"reference": order.Reference,
			},
		})
		if err != nil || result == nil || !result.Success {
			fields := []zap.Field{zap.String("gateway", order.Gateway), zap.String("reference", order.Reference)}
			if err != nil {
				fields = append(fields, zap.Error(err))
			} else if result != nil {
				fields = append(fields, zap.String("message", result.Message))
			}
			log.Warn("Payment initiation failed", fields...)
			return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Payment could not be started, please try again"}
		}
		order.GatewayRef = result.Reference
		resp.AuthorizationURL = result.AuthorizationURL
	}
	resp.Gateway = order.Gateway

	if err := s.deps.Orders.Create(ctx, order); err != nil {
		log.Error("Failed to record order", zap.String("reference", order.Reference), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to record order"}
	}

	if d.cart != nil {
		d.cart.Clear(ctx)
	}
	d.promos.Clear()
	if svcErr := s.deps.Promos.ClearCode(ctx, userID); svcErr != nil {
		log.Warn("Promo session not cleared after checkout", zap.String("reference", order.Reference))
	}

	if order.Status == models.OrderPaid {
		s.bookClasses(ctx, log, order)
		s.publishEvent(ctx, EventCheckoutPaid, order)
	} else {
		s.publishEvent(ctx, EventCheckoutInitiated, order)
	}

	log.Info("Checkout submitted",
		zap.String("reference", order.Reference),
		zap.String("gateway", order.Gateway),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return resp, nil
}

// Confirm verifies the payment behind reference and settles the order. It is
// safe to call more than once.
func (s *checkoutServiceImpl) Confirm(ctx context.Context, userID, reference string) (*models.Order, *ServiceError) {
	log := logger.For(ctx, s.deps.Logger).With(zap.String("user_id", userID), zap.String("reference", reference))

	order, err := s.deps.Orders.FindByReference(ctx, reference)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && order.UserID != userID) {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Order not found"}
	}
	if err != nil {
		log.Error("Failed to load order", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load order"}
	}
	if order.Status == models.OrderPaid {
		return order, nil
	}

	gatewayRef := order.GatewayRef
	if gatewayRef == "" {
		gatewayRef = order.Reference
	}
	paid, err := s.deps.Payments.VerifyPayment(ctx, order.Gateway, gatewayRef)
	if err != nil {
		log.Warn("Payment verification failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Could not verify payment, please try again"}
	}

	now := s.now().UTC()
	if !paid {
		if err := s.deps.Orders.UpdateStatus(ctx, reference, models.OrderFailed, now); err != nil {
			log.Error("Failed to mark order failed", zap.Error(err))
		}
		order.Status = models.OrderFailed
		s.states.finish(userID, models.CheckoutFailed)
		s.publishEvent(ctx, EventCheckoutFailed, order)
		return nil, &ServiceError{StatusCode: http.StatusPaymentRequired, Message: "Payment was not completed"}
	}

	if err := s.deps.Orders.UpdateStatus(ctx, reference, models.OrderPaid, now); err != nil {
		log.Error("Failed to mark order paid", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update order"}
	}
	order.Status = models.OrderPaid
	order.PaidAt = &now

	s.bookClasses(ctx, log, order)
	s.states.finish(userID, models.CheckoutIdle)
	s.publishEvent(ctx, EventCheckoutPaid, order)

	log.Info("Checkout confirmed", zap.String("total", order.Total.StringFixed(2)))
	return order, nil
}

func (s *checkoutServiceImpl) Orders(ctx context.Context, userID string, limit int) ([]models.Order, *ServiceError) {
	orders, err := s.deps.Orders.FindByUser(ctx, userID, limit)
	if err != nil {
		s.deps.Logger.Error("Failed to list orders", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to list orders"}
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// bookClasses subscribes the buyer to every class of a paid class order.
// Failures are logged; the payment has already been taken.
func (s *checkoutServiceImpl) bookClasses(ctx context.Context, log *zap.Logger, order *models.Order) {
	if order.Kind != models.CheckoutClass || s.deps.Booker == nil {
		return
	}
	for _, id := range order.ClassIDs {
		booking, err := s.deps.Booker.SubscribeClass(ctx, id, order.UserID)
		if err != nil {
			log.Error("Class booking failed", zap.String("class_id", id.String()), zap.Error(err))
			continue
		}
		log.Info("Class booked", zap.String("class_id", id.String()), zap.String("booking_id", booking.ID.String()))
	}
}

func (s *checkoutServiceImpl) cachedResponse(ctx context.Context, userID, key string) *models.CheckoutResponse {
	if key == "" || s.deps.Idempotency == nil {
		return nil
	}
	raw, err := s.deps.Idempotency.Get(ctx, userID, key)
	if err != nil {
		s.deps.Logger.Warn("Idempotency lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	if raw == "" {
		return nil
	}
	var resp models.CheckoutResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		s.deps.Logger.Warn("Discarding unreadable idempotency record", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return &resp
}

func (s *checkoutServiceImpl) storeResponse(ctx context.Context, log *zap.Logger, userID, key string, resp *models.CheckoutResponse) {
	if key == "" || s.deps.Idempotency == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		log.Warn("Failed to encode checkout response", zap.Error(err))
		return
	}
	if err := s.deps.Idempotency.Set(ctx, userID, key, string(data)); err != nil {
		log.Warn("Failed to store idempotency record", zap.Error(err))
	}
}

// publishEvent publishes a checkout event to SNS.
func (s *checkoutServiceImpl) publishEvent(ctx context.Context, eventType string, order *models.Order) {
	if s.deps.SNS == nil || s.deps.SNSTopicArn == "" {
		s.deps.Logger.Debug("SNS client not configured, skipping checkout event", zap.String("event_type", eventType))
		return
	}

	event := models.CheckoutEvent{
		EventType: eventType,
		Reference: order.Reference,
		UserID:    order.UserID,
		Kind:      order.Kind,
		Currency:  order.Currency,
		Total:     order.Total,
		ClassIDs:  order.ClassIDs,
		Timestamp: s.now().UTC(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		s.deps.Logger.Error("Failed to marshal checkout event", zap.Error(err))
		return
	}

	if err := s.deps.SNS.Publish(ctx, s.deps.SNSTopicArn, eventBytes); err != nil {
		s.deps.Logger.Error("Failed to publish checkout event", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	s.deps.Logger.Info("Published checkout event",
		zap.String("event_type", eventType),
		zap.String("reference", order.Reference),
	)
}

func parseOptionalCurrency(code string, fallback models.Currency) (models.Currency, *ServiceError) {
	if code == "" {
		return fallback, nil
	}
	c, err := models.ParseCurrency(code)
	if err != nil {
		return "", &ServiceError{StatusCode: http.StatusBadRequest, Message: "Unsupported currency"}
	}
	return c, nil
}
