package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/config"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/controllers"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/middleware"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/routes"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type emptyCatalog struct{}

func (emptyCatalog) Products(_ context.Context) []models.Product     { return []models.Product{} }
func (emptyCatalog) Classes(_ context.Context) []models.FitnessClass { return []models.FitnessClass{} }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	cfg := &config.Config{
		AllowedOrigins: []string{"http://localhost:5173"},
		RequestTimeout: 5 * time.Second,
	}
	h := routes.Handlers{
		Cart:       controllers.NewCartController(nil),
		Promo:      controllers.NewPromoController(nil),
		PromoAdmin: controllers.NewPromoAdminController(nil),
		Checkout:   controllers.NewCheckoutController(nil),
		Catalog:    controllers.NewCatalogController(emptyCatalog{}),
		Health:     controllers.NewHealthController("storefront", nil),
	}
	limiter := middleware.NewRateLimiter(rate.Every(time.Second), 10, time.Minute, done)
	return routes.NewRouter(cfg, zap.NewNop(), h, limiter)
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_RequiresIdentity(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/cart", "/api/orders", "/api/checkout/state"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_AdminRoutesNeedAdminRole(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/promos", nil)
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("X-User-Role", "customer")

	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/checkout", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	w := serve(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
