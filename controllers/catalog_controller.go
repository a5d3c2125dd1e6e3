package controllers

import (
	"context"
	"net/http"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/gin-gonic/gin"
)

// CatalogReader serves the product and class catalogs.
type CatalogReader interface {
	Products(ctx context.Context) []models.Product
	Classes(ctx context.Context) []models.FitnessClass
}

// CatalogController exposes the catalogs. Listings never fail: an unavailable
// upstream yields cached or empty data.
type CatalogController struct {
	catalog CatalogReader
}

// NewCatalogController creates a new CatalogController.
func NewCatalogController(catalog CatalogReader) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListProducts handles GET /api/products.
func (cc *CatalogController) ListProducts(ctx *gin.Context) {
	products := cc.catalog.Products(ctx.Request.Context())
	ctx.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// ListClasses handles GET /api/classes.
func (cc *CatalogController) ListClasses(ctx *gin.Context) {
	classes := cc.catalog.Classes(ctx.Request.Context())
	ctx.JSON(http.StatusOK, gin.H{"classes": classes, "count": len(classes)})
}
