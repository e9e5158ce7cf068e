// Package catalog exposes read access to the product mirror that the
// storefront keeps in sync with the upstream catalog service.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/cache"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"
)

// ErrProductNotFound is returned when a product number resolves to
// nothing, or only to an inactive product.
var ErrProductNotFound = errors.New("product not found")

// Lookup resolves product numbers to catalog data.
type Lookup interface {
	Resolve(ctx context.Context, productNo string) (*models.Product, error)
	ResolveMany(ctx context.Context, productNos []string) (map[string]*models.Product, error)
	Invalidate(ctx context.Context, productNo string) error
}

// CachedLookup reads the product mirror through Redis. Cache misses
// and cache errors both fall through to the database.
type CachedLookup struct {
	products repository.ProductRepository
	ttl      time.Duration
}

// NewCachedLookup creates a lookup backed by the product repository.
// A non-positive ttl disables caching.
func NewCachedLookup(products repository.ProductRepository, ttl time.Duration) *CachedLookup {
	return &CachedLookup{products: products, ttl: ttl}
}

// Resolve returns the active product for productNo.
func (l *CachedLookup) Resolve(ctx context.Context, productNo string) (*models.Product, error) {
	if productNo == "" {
		return nil, ErrProductNotFound
	}

	key := cacheKey(productNo)
	if l.ttl > 0 {
		var cached models.Product
		hit, cacheErr := cache.GetJSON(ctx, key, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	product, err := l.products.GetByProductNo(productNo, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if l.ttl > 0 {
		_ = cache.SetJSON(ctx, key, product, l.ttl)
	}
	return product, nil
}

// ResolveMany returns the active products for productNos, keyed by
// product number. Numbers that resolve to nothing are absent from the
// result; callers decide whether that is an error.
func (l *CachedLookup) ResolveMany(ctx context.Context, productNos []string) (map[string]*models.Product, error) {
	result := make(map[string]*models.Product, len(productNos))
	if len(productNos) == 0 {
		return result, nil
	}

	missing := make([]string, 0, len(productNos))
	for _, productNo := range productNos {
		if _, ok := result[productNo]; ok {
			continue
		}
		if l.ttl > 0 {
			var cached models.Product
			hit, cacheErr := cache.GetJSON(ctx, cacheKey(productNo), &cached)
			if cacheErr == nil && hit {
				product := cached
				result[productNo] = &product
				continue
			}
		}
		missing = append(missing, productNo)
	}

	if len(missing) > 0 {
		products, err := l.products.ListByProductNos(missing)
		if err != nil {
			return nil, err
		}
		for i := range products {
			if !products[i].IsActive {
				continue
			}
			product := products[i]
			result[product.ProductNo] = &product
			if l.ttl > 0 {
				_ = cache.SetJSON(ctx, cacheKey(product.ProductNo), &product, l.ttl)
			}
		}
	}

	return result, nil
}

// Invalidate drops the cached entry for productNo.
func (l *CachedLookup) Invalidate(ctx context.Context, productNo string) error {
	return cache.Del(ctx, cacheKey(productNo))
}

func cacheKey(productNo string) string {
	return fmt.Sprintf("catalog:product:%s", productNo)
}
