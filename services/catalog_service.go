package services

import (
	"context"
	"time"

	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/models"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/pricing"
	"github.com/Lecrosoft-Technologies/blossomflow-hub-sub000/repository"
	"go.uber.org/zap"
)

// CatalogSource is the upstream owner of the product and class catalogs.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListClasses(ctx context.Context) ([]models.FitnessClass, error)
}

// CatalogCache stores catalog listings with a stale fallback.
type CatalogCache interface {
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	GetStale(ctx context.Context, key string, out interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// CatalogService serves the catalogs. It never fails: when the upstream is
// unavailable it falls back to the last cached copy, then to an empty list.
type CatalogService struct {
	source CatalogSource
	cache  CatalogCache
	logger *zap.Logger
}

// NewCatalogService creates a CatalogService. cache may be nil.
func NewCatalogService(source CatalogSource, cache CatalogCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{source: source, cache: cache, logger: logger}
}

// Products returns the product catalog.
func (s *CatalogService) Products(ctx context.Context) []models.Product {
	products := []models.Product{}
	s.load(ctx, repository.ProductsCacheKey, &products, func() (interface{}, error) {
		fetched, err := s.source.ListProducts(ctx)
		if err == nil {
			products = fetched
		}
		return fetched, err
	})
	if products == nil {
		return []models.Product{}
	}
	return products
}

// Classes returns the class catalog.
func (s *CatalogService) Classes(ctx context.Context) []models.FitnessClass {
	classes := []models.FitnessClass{}
	s.load(ctx, repository.ClassesCacheKey, &classes, func() (interface{}, error) {
		fetched, err := s.source.ListClasses(ctx)
		if err == nil {
			classes = fetched
		}
		return fetched, err
	})
	if classes == nil {
		return []models.FitnessClass{}
	}
	return classes
}

// Product looks a product up by id.
func (s *CatalogService) Product(ctx context.Context, id models.ItemID) (models.Product, bool) {
	for _, p := range s.Products(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// ClassPrices indexes the class catalog by id for bulk quotes.
func (s *CatalogService) ClassPrices(ctx context.Context) pricing.PriceMap {
	return pricing.ClassPrices(s.Classes(ctx))
}

// load fills out from the fresh cache, the upstream, or the stale cache, in
// that order. fetch is expected to assign into out on success.
func (s *CatalogService) load(ctx context.Context, key string, out interface{}, fetch func() (interface{}, error)) {
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, out)
		if err != nil {
			s.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return
		}
	}

	value, err := fetch()
	if err == nil {
		s.setAsync(key, value)
		return
	}
	s.logger.Warn("Catalog fetch failed, falling back", zap.String("key", key), zap.Error(err))

	if s.cache == nil {
		return
	}
	hit, staleErr := s.cache.GetStale(ctx, key, out)
	if staleErr != nil {
		s.logger.Warn("Stale catalog read failed", zap.String("key", key), zap.Error(staleErr))
		return
	}
	if hit {
		s.logger.Info("Serving stale catalog", zap.String("key", key))
	}
}

func (s *CatalogService) setAsync(key string, value interface{}) {
	if s.cache == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.cache.Set(bgCtx, key, value); err != nil {
			s.logger.Warn("Failed to cache catalog", zap.String("key", key), zap.Error(err))
		}
	}()
}
