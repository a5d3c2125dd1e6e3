package controllers

import (
	"net/http"
	"strconv"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/services"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader lets clients retry a submission safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutController handles quoting, submission and confirmation.
type CheckoutController struct {
	checkoutService services.CheckoutService
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(checkoutService services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

// QuoteClasses handles POST /api/classes/quote.
func (cc *CheckoutController) QuoteClasses(ctx *gin.Context) {
	var req models.ClassQuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	quote, svcErr := cc.checkoutService.QuoteClasses(ctx.Request.Context(), &req)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, quote)
}

// Quote handles POST /api/checkout/quote.
func (cc *CheckoutController) Quote(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req models.CheckoutQuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	totals, svcErr := cc.checkoutService.Quote(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, totals)
}

// Submit handles POST /api/checkout.
func (cc *CheckoutController) Submit(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	resp, svcErr := cc.checkoutService.Submit(ctx.Request.Context(), userID, ctx.GetHeader(IdempotencyKeyHeader), &req)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Confirm handles POST /api/checkout/confirm.
func (cc *CheckoutController) Confirm(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req models.ConfirmCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	order, svcErr := cc.checkoutService.Confirm(ctx.Request.Context(), userID, req.Reference)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// State handles GET /api/checkout/state.
func (cc *CheckoutController) State(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"state": cc.checkoutService.State(userID)})
}

// ListOrders handles GET /api/orders.
func (cc *CheckoutController) ListOrders(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	limit := 20
	if l, err := strconv.Atoi(ctx.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	orders, svcErr := cc.checkoutService.Orders(ctx.Request.Context(), userID, limit)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders})
}
