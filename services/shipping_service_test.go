package services

import (
	"testing"

	"cart-shop/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippingService_ResolveRegion(t *testing.T) {
	f := newFixture(t)
	shipping := NewShippingService(f.store, f.logger)

	gaucho := f.customer("ana@example.com", "rs")
	region, err := shipping.ResolveRegion(f.ctx, gaucho)
	require.NoError(t, err)
	assert.Equal(t, models.RegionSul, region)

	nowhere := f.customer("bia@example.com", "")
	_, err = shipping.ResolveRegion(f.ctx, nowhere)
	assert.ErrorIs(t, err, models.ErrUnresolvedRegion)

	assert.Len(t, shipping.Regions(), 5)
}

func TestShippingService_CreateTakesCreatorRegion(t *testing.T) {
	f := newFixture(t)
	shipping := NewShippingService(f.store, f.logger)
	admin := f.customer("admin@example.com", "BA")
	noAddress := f.customer("ops@example.com", "")

	option, err := shipping.Create(f.ctx, admin, models.CreateShippingOptionRequest{Number: 1, Label: "PAC", Cost: decimal.NewFromInt(12)})
	require.NoError(t, err)
	require.NotNil(t, option.Region)
	assert.Equal(t, models.RegionNordeste, *option.Region)

	sul := models.RegionSul
	option, err = shipping.Create(f.ctx, admin, models.CreateShippingOptionRequest{Number: 2, Label: "Sedex", Cost: decimal.NewFromInt(30), Region: &sul})
	require.NoError(t, err)
	assert.Equal(t, models.RegionSul, *option.Region)

	option, err = shipping.Create(f.ctx, noAddress, models.CreateShippingOptionRequest{Number: 3, Label: "Retirada", Cost: decimal.Zero})
	require.NoError(t, err)
	assert.Nil(t, option.Region)

	_, err = shipping.Create(f.ctx, admin, models.CreateShippingOptionRequest{Number: 4, Label: "Neg", Cost: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, models.ErrValidation)

	bogus := models.Region(9)
	_, err = shipping.Create(f.ctx, admin, models.CreateShippingOptionRequest{Number: 5, Label: "Bogus", Cost: decimal.Zero, Region: &bogus})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = shipping.Create(f.ctx, admin, models.CreateShippingOptionRequest{Number: 1, Label: "Dup", Cost: decimal.Zero})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestShippingService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	shipping := NewShippingService(f.store, f.logger)
	option := f.shipping(1, "PAC", "10.00", models.RegionSudeste)

	cost := decimal.RequireFromString("12.50")
	updated, err := shipping.Update(f.ctx, option.ID, models.ShippingOptionPatch{Cost: &cost})
	require.NoError(t, err)
	assert.Equal(t, "12.50", updated.Cost.StringFixed(2))

	require.NoError(t, shipping.Delete(f.ctx, option.ID))
	_, err = shipping.Get(f.ctx, option.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestShippingService_ChangesRepriceActiveCarts(t *testing.T) {
	f, carts := newCartFixture(t)
	shipping := NewShippingService(f.store, f.logger)
	customerID := f.customer("ana@example.com", "SP")
	option := f.shipping(1, "PAC", "10.00", models.RegionSudeste)
	mouse := f.product("Mouse", "99.99", 10)

	_, err := carts.Create(f.ctx, customerID)
	require.NoError(t, err)
	_, err = carts.AddItem(f.ctx, customerID, mouse.UUID.String(), 2)
	require.NoError(t, err)
	require.Equal(t, "209.98", f.activeCart(customerID).Total.StringFixed(2))

	cost := decimal.RequireFromString("20.00")
	_, err = shipping.Update(f.ctx, option.ID, models.ShippingOptionPatch{Cost: &cost})
	require.NoError(t, err)

	cart := f.activeCart(customerID)
	assert.Equal(t, "20.00", cart.ShippingCost().StringFixed(2))
	assert.Equal(t, "219.98", cart.Total.StringFixed(2))
	assert.True(t, cart.Total.Equal(cart.Subtotal().Add(cart.ShippingCost())))

	require.NoError(t, shipping.Delete(f.ctx, option.ID))

	cart = f.activeCart(customerID)
	assert.Nil(t, cart.ShippingOptionID)
	assert.Equal(t, "199.98", cart.Total.StringFixed(2))
	assert.True(t, cart.Total.Equal(cart.Subtotal().Add(cart.ShippingCost())))

	assert.ErrorIs(t, shipping.Delete(f.ctx, option.ID), models.ErrNotFound)
}
