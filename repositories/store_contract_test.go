package repositories

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"cart-shop/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises behaviour every Store implementation must share.
// newStore must return an empty store on each call.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("users are unique by email", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		seedCustomer(t, store, "ana@example.com", "SP")
		err := store.Users().Create(ctx, &models.User{Username: "other", Email: "ANA@example.com", Password: "x", Role: models.RoleCustomer})
		assert.ErrorIs(t, err, models.ErrConflict)

		u, err := store.Users().FindByEmail(ctx, "Ana@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", u.Email)

		_, err = store.Users().FindByID(ctx, 9999)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("first address is the lowest id", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		userID := seedCustomer(t, store, "bia@example.com", "RS")
		second := &models.Address{UserID: userID, Street: "Rua B", Number: "2", District: "Centro", City: "Rio", State: "RJ", ZipCode: "20000-000"}
		require.NoError(t, store.Profiles().CreateAddress(ctx, second))

		first, err := store.Profiles().FirstAddress(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "RS", first.State)

		all, err := store.Profiles().ListAddresses(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		_, err = store.Profiles().FirstAddress(ctx, userID+100)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("stock never goes negative", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		p := seedProduct(t, store, "Mouse", "99.99", 3)
		require.NoError(t, store.Products().AdjustStock(ctx, p.ID, -2))

		err := store.Products().AdjustStock(ctx, p.ID, -2)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)

		err = store.Products().AdjustStock(ctx, p.ID+1000, -1)
		assert.ErrorIs(t, err, models.ErrNotFound)

		got, err := store.Products().FindByUUID(ctx, p.UUID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Stock)
	})

	t.Run("concurrent reservations do not oversell", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		p := seedProduct(t, store, "Keyboard", "10.00", 5)

		var wg sync.WaitGroup
		var reserved atomic.Int32
		for i := 0; i < 12; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := store.WithinTx(ctx, func(tx Store) error {
					product, err := tx.Products().FindByUUIDForUpdate(ctx, p.UUID)
					if err != nil {
						return err
					}
					if product.Stock < 1 {
						return models.ErrInsufficientStock
					}
					return tx.Products().AdjustStock(ctx, product.ID, -1)
				})
				if err == nil {
					reserved.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), reserved.Load())
		got, err := store.Products().FindByUUID(ctx, p.UUID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Stock)
	})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		p := seedProduct(t, store, "Monitor", "800.00", 4)

		boom := errors.New("boom")
		err := store.WithinTx(ctx, func(tx Store) error {
			if err := tx.Products().AdjustStock(ctx, p.ID, -3); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := store.Products().FindByUUID(ctx, p.UUID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Stock)
	})

	t.Run("one active cart per customer", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		userID := seedCustomer(t, store, "caio@example.com", "SP")

		cart := models.NewCart(userID)
		require.NoError(t, store.Carts().Create(ctx, cart))
		assert.ErrorIs(t, store.Carts().Create(ctx, models.NewCart(userID)), models.ErrConflict)

		cart.Status = models.CartFinalized
		require.NoError(t, store.Carts().Save(ctx, cart))
		require.NoError(t, store.Carts().Create(ctx, models.NewCart(userID)))

		finalized, err := store.Carts().ListByStatus(ctx, userID, models.CartFinalized)
		require.NoError(t, err)
		assert.Len(t, finalized, 1)
	})

	t.Run("cart round trip with shipping", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		userID := seedCustomer(t, store, "duda@example.com", "SP")
		p := seedProduct(t, store, "Mouse", "99.99", 10)

		region := models.RegionSudeste
		option := &models.ShippingOption{Number: 1, Label: "PAC", Cost: decimal.RequireFromString("10.00"), Region: &region}
		require.NoError(t, store.Shipping().Create(ctx, option))

		cart := models.NewCart(userID)
		require.NoError(t, store.Carts().Create(ctx, cart))
		require.NoError(t, cart.AddLine(p, 2))
		cart.AssignShipping(option)
		cart.Recalculate()
		require.NoError(t, store.Carts().Save(ctx, cart))

		got, err := store.Carts().FindActive(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "209.98", got.Total.StringFixed(2))
		require.NotNil(t, got.Shipping)
		assert.Equal(t, "PAC", got.Shipping.Label)
		assert.Equal(t, 2, got.Items[p.UUID.String()].Quantity)

		inCart, err := store.Carts().ActiveContaining(ctx, p.UUID.String())
		require.NoError(t, err)
		assert.True(t, inCart)

		using, err := store.Carts().ListActiveByShipping(ctx, option.ID)
		require.NoError(t, err)
		require.Len(t, using, 1)
		assert.Equal(t, cart.ID, using[0].ID)

		none, err := store.Carts().ListActiveByShipping(ctx, option.ID+1)
		require.NoError(t, err)
		assert.Empty(t, none)

		require.NoError(t, store.Shipping().Delete(ctx, option.ID))
		got, err = store.Carts().FindActive(ctx, userID)
		require.NoError(t, err)
		assert.Nil(t, got.ShippingOptionID)
	})

	t.Run("shipping by region picks the lowest id", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		sul := models.RegionSul
		first := &models.ShippingOption{Number: 10, Label: "Sul A", Cost: decimal.NewFromInt(20), Region: &sul}
		second := &models.ShippingOption{Number: 11, Label: "Sul B", Cost: decimal.NewFromInt(5), Region: &sul}
		require.NoError(t, store.Shipping().Create(ctx, first))
		require.NoError(t, store.Shipping().Create(ctx, second))

		got, err := store.Shipping().FindByRegion(ctx, models.RegionSul)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)

		_, err = store.Shipping().FindByRegion(ctx, models.RegionNorte)
		assert.ErrorIs(t, err, models.ErrNotFound)

		dup := &models.ShippingOption{Number: 10, Label: "Dup", Cost: decimal.Zero}
		assert.ErrorIs(t, store.Shipping().Create(ctx, dup), models.ErrConflict)
	})

	t.Run("orders keep their items", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		userID := seedCustomer(t, store, "edu@example.com", "BA")

		option := &models.ShippingOption{Number: 1, Label: "Sedex", Cost: decimal.NewFromInt(15)}
		require.NoError(t, store.Shipping().Create(ctx, option))

		order := &models.Order{
			Number:           1001,
			CustomerID:       userID,
			State:            "BA",
			ShippingOptionID: option.ID,
			Items: []models.OrderItem{
				{ProductNumber: 1, ProductName: "Mouse", Quantity: 2, UnitCost: decimal.RequireFromString("99.99"), Subtotal: decimal.RequireFromString("199.98")},
			},
		}
		require.NoError(t, store.WithinTx(ctx, func(tx Store) error {
			return tx.Orders().Create(ctx, order)
		}))

		got, err := store.Orders().FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "199.98", got.Total().StringFixed(2))

		dup := &models.Order{Number: 1001, CustomerID: userID, State: "BA", ShippingOptionID: option.ID}
		assert.ErrorIs(t, store.Orders().Create(ctx, dup), models.ErrConflict)

		require.NoError(t, store.Orders().Delete(ctx, order.ID))
		_, err = store.Orders().FindByID(ctx, order.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func seedCustomer(t *testing.T, store Store, email, state string) int {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Username: email, Email: email, Password: "hash", Role: models.RoleCustomer}
	require.NoError(t, store.Users().Create(ctx, user))
	require.NoError(t, store.Profiles().Create(ctx, &models.Profile{UserID: user.ID}))
	require.NoError(t, store.Profiles().CreateAddress(ctx, &models.Address{
		UserID: user.ID, Street: "Rua A", Number: "1", District: "Centro", City: "Cidade", State: state, ZipCode: "00000-000",
	}))
	return user.ID
}

func seedProduct(t *testing.T, store Store, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}
