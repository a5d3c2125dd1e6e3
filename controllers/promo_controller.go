package controllers

import (
	"net/http"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/services"
	"github.com/gin-gonic/gin"
)

// PromoController applies promo codes to the caller's checkout session.
type PromoController struct {
	promoService services.PromoService
}

// NewPromoController creates a new PromoController.
func NewPromoController(promoService services.PromoService) *PromoController {
	return &PromoController{promoService: promoService}
}

// ApplyPromo handles POST /api/promo. An invalid code is a 200 with valid=false.
func (pc *PromoController) ApplyPromo(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req models.ValidatePromoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	resp, svcErr := pc.promoService.ApplyCode(ctx.Request.Context(), userID, req.Code)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ClearPromo handles DELETE /api/promo.
func (pc *PromoController) ClearPromo(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	if svcErr := pc.promoService.ClearCode(ctx.Request.Context(), userID); svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Promo code cleared"})
}
