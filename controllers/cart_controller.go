package controllers

import (
	"net/http"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/services"
	"github.com/gin-gonic/gin"
)

// CartController handles HTTP requests for the caller's cart.
type CartController struct {
	cartService services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart handles GET /api/cart.
func (cc *CartController) GetCart(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	cart, svcErr := cc.cartService.GetCart(ctx.Request.Context(), userID)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items.
func (cc *CartController) AddItem(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req models.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	cart, svcErr := cc.cartService.AddItem(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/items/:id. A quantity of zero or less removes the line.
func (cc *CartController) UpdateItem(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req models.UpdateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	cart, svcErr := cc.cartService.UpdateQuantity(ctx.Request.Context(), userID, models.ItemID(ctx.Param("id")), *req.Quantity)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/:id.
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	cart, svcErr := cc.cartService.RemoveItem(ctx.Request.Context(), userID, models.ItemID(ctx.Param("id")))
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

// SetCurrency handles PUT /api/cart/currency.
func (cc *CartController) SetCurrency(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req models.SetCurrencyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	cart, svcErr := cc.cartService.SetCurrency(ctx.Request.Context(), userID, req.Currency)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, cart)
}

// ClearCart handles DELETE /api/cart.
func (cc *CartController) ClearCart(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if svcErr := cc.cartService.ClearCart(ctx.Request.Context(), userID); svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
