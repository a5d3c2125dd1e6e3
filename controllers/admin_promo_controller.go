package controllers

import (
	"net/http"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/services"
	"github.com/gin-gonic/gin"
)

// PromoAdminController handles admin requests for promo codes.
type PromoAdminController struct {
	adminService services.PromoAdminService
}

// NewPromoAdminController creates a new PromoAdminController.
func NewPromoAdminController(adminService services.PromoAdminService) *PromoAdminController {
	return &PromoAdminController{adminService: adminService}
}

// CreatePromo handles POST /api/admin/promos.
func (pc *PromoAdminController) CreatePromo(ctx *gin.Context) {
	var req models.CreatePromoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	promo, svcErr := pc.adminService.CreatePromo(ctx.Request.Context(), &req)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"promo": promo})
}

// GetPromo handles GET /api/admin/promos/:code.
func (pc *PromoAdminController) GetPromo(ctx *gin.Context) {
	code := services.NormalizeCode(ctx.Param("code"))
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Promo code is required"})
		return
	}

	promo, svcErr := pc.adminService.GetPromo(ctx.Request.Context(), code)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"promo": promo})
}

// DeactivatePromo handles DELETE /api/admin/promos/:code.
func (pc *PromoAdminController) DeactivatePromo(ctx *gin.Context) {
	code := services.NormalizeCode(ctx.Param("code"))
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Promo code is required"})
		return
	}

	if svcErr := pc.adminService.DeactivatePromo(ctx.Request.Context(), code); svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Promo code deactivated"})
}

// ListPromos handles GET /api/admin/promos.
func (pc *PromoAdminController) ListPromos(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	promos, total, svcErr := pc.adminService.ListPromos(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		serviceError(ctx, svcErr)
		return
	}
	if promos == nil {
		promos = []models.PromoCode{}
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	ctx.JSON(http.StatusOK, gin.H{
		"promos": promos,
		"meta": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
			"has_more":    total > int64(page*limit),
		},
	})
}
