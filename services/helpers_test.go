package services

import (
	"context"
	"testing"

	"cart-shop/models"
	"cart-shop/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *repositories.MemoryStore
	logger *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, ctx: context.Background(), store: repositories.NewMemoryStore(), logger: zap.NewNop()}
}

// customer registers a user with a profile and, when state is non-empty,
// one address in that state.
func (f *fixture) customer(email, state string) int {
	f.t.Helper()
	user := &models.User{Username: email, Email: email, Password: "hash", Role: models.RoleCustomer}
	require.NoError(f.t, f.store.Users().Create(f.ctx, user))
	require.NoError(f.t, f.store.Profiles().Create(f.ctx, &models.Profile{UserID: user.ID}))
	if state != "" {
		f.address(user.ID, state)
	}
	return user.ID
}

func (f *fixture) address(userID int, state string) *models.Address {
	f.t.Helper()
	a := &models.Address{UserID: userID, Street: "Rua A", Number: "1", District: "Centro", City: "Cidade", State: state, ZipCode: "00000-000"}
	require.NoError(f.t, f.store.Profiles().CreateAddress(f.ctx, a))
	return a
}

func (f *fixture) product(name, price string, stock int) *models.Product {
	f.t.Helper()
	p := &models.Product{Name: name, Description: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(f.t, f.store.Products().Create(f.ctx, p))
	return p
}

func (f *fixture) shipping(number int, label, cost string, region models.Region) *models.ShippingOption {
	f.t.Helper()
	o := &models.ShippingOption{Number: number, Label: label, Cost: decimal.RequireFromString(cost), Region: &region}
	require.NoError(f.t, f.store.Shipping().Create(f.ctx, o))
	return o
}

func (f *fixture) stock(p *models.Product) int {
	f.t.Helper()
	got, err := f.store.Products().FindByUUID(f.ctx, p.UUID)
	require.NoError(f.t, err)
	return got.Stock
}

func (f *fixture) activeCart(customerID int) *models.Cart {
	f.t.Helper()
	cart, err := f.store.Carts().FindActive(f.ctx, customerID)
	require.NoError(f.t, err)
	return cart
}
