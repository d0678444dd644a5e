package services

import (
	"context"
	"testing"

	"cart-shop/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingCache records invalidations and serves whatever was last stored.
type countingCache struct {
	pages         map[string][]byte
	invalidations int
}

func (c *countingCache) key(f models.ProductFilter) string { return productCacheKey(f) }

func (c *countingCache) Get(_ context.Context, f models.ProductFilter) ([]byte, bool) {
	b, ok := c.pages[c.key(f)]
	return b, ok
}

func (c *countingCache) Set(_ context.Context, f models.ProductFilter, payload []byte) {
	if c.pages == nil {
		c.pages = map[string][]byte{}
	}
	c.pages[c.key(f)] = payload
}

func (c *countingCache) Invalidate(context.Context) {
	c.pages = nil
	c.invalidations++
}

func TestProductService_Create(t *testing.T) {
	f := newFixture(t)
	cache := &countingCache{}
	products := NewProductService(f.store, cache, f.logger)

	p, err := products.Create(f.ctx, models.CreateProductRequest{Name: " Mouse ", Price: decimal.RequireFromString("99.99"), Stock: 10})
	require.NoError(t, err)
	assert.Equal(t, "Mouse", p.Name)
	assert.NotEmpty(t, p.UUID.String())
	assert.Equal(t, 1, cache.invalidations)

	_, err = products.Create(f.ctx, models.CreateProductRequest{Name: "mouse", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, models.ErrValidation, "names are unique")

	_, err = products.Create(f.ctx, models.CreateProductRequest{Name: "Free", Price: decimal.Zero})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = products.Create(f.ctx, models.CreateProductRequest{Name: "Broken", Price: decimal.NewFromInt(1), Stock: -1})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestProductService_ListUsesCache(t *testing.T) {
	f := newFixture(t)
	cache := &countingCache{}
	products := NewProductService(f.store, cache, f.logger)
	for _, name := range []string{"Mouse", "Keyboard", "Monitor"} {
		f.product(name, "10.00", 1)
	}

	page, err := products.List(f.ctx, models.ProductFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Meta.TotalItems)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.Len(t, page.Data, 2)
	assert.Len(t, cache.pages, 1)

	f.product("Webcam", "10.00", 1)
	cached, err := products.List(f.ctx, models.ProductFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, cached.Meta.TotalItems, "served from cache")

	products.InvalidateCache(f.ctx)
	fresh, err := products.List(f.ctx, models.ProductFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.Meta.TotalItems)

	byName, err := products.List(f.ctx, models.ProductFilter{Name: "mon"})
	require.NoError(t, err)
	assert.Equal(t, 1, byName.Meta.TotalItems)
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	products := NewProductService(f.store, nil, f.logger)
	carts := NewCartService(f.store, nil, nil, f.logger)
	mouse := f.product("Mouse", "99.99", 10)
	f.product("Keyboard", "50.00", 10)

	price := decimal.RequireFromString("89.90")
	updated, err := products.Update(f.ctx, mouse.UUID.String(), models.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "89.90", updated.Price.StringFixed(2))

	taken := "Keyboard"
	_, err = products.Update(f.ctx, mouse.UUID.String(), models.ProductPatch{Name: &taken})
	assert.ErrorIs(t, err, models.ErrValidation)

	customerID := f.customer("ana@example.com", "SP")
	f.shipping(1, "PAC", "10.00", models.RegionSudeste)
	_, err = carts.Create(f.ctx, customerID)
	require.NoError(t, err)
	_, err = carts.AddItem(f.ctx, customerID, mouse.UUID.String(), 1)
	require.NoError(t, err)

	assert.ErrorIs(t, products.Delete(f.ctx, mouse.UUID.String()), models.ErrConflict)

	_, err = carts.RemoveItem(f.ctx, customerID, mouse.UUID.String(), 1)
	require.NoError(t, err)
	require.NoError(t, products.Delete(f.ctx, mouse.UUID.String()))

	_, err = products.Get(f.ctx, mouse.UUID.String())
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = products.Get(f.ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
