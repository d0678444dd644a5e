package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(name, price string, stock int) *Product {
	return &Product{
		ID:          1,
		UUID:        uuid.New(),
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	}
}

func TestCart_AddLineAccumulates(t *testing.T) {
	cart := NewCart(7)
	mouse := newProduct("Mouse", "99.99", 10)

	require.NoError(t, cart.AddLine(mouse, 2))
	require.NoError(t, cart.AddLine(mouse, 3))

	line := cart.Items[mouse.UUID.String()]
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, "499.95", line.Subtotal.StringFixed(2))
	assert.Equal(t, "Mouse", line.Name)
	assert.Len(t, cart.Items, 1)
}

func TestCart_AddLineRejectsNonPositiveQuantity(t *testing.T) {
	cart := NewCart(7)

	for _, qty := range []int{0, -1} {
		err := cart.AddLine(newProduct("Mouse", "10.00", 5), qty)
		assert.ErrorIs(t, err, ErrValidation)
	}
	assert.Empty(t, cart.Items)
}

func TestCart_AddLineRefreshesPrice(t *testing.T) {
	cart := NewCart(1)
	p := newProduct("Keyboard", "50.00", 10)
	require.NoError(t, cart.AddLine(p, 1))

	p.Price = decimal.RequireFromString("60.00")
	require.NoError(t, cart.AddLine(p, 1))

	line := cart.Items[p.UUID.String()]
	assert.Equal(t, "120.00", line.Subtotal.StringFixed(2))
}

func TestCart_RecalculateIncludesShipping(t *testing.T) {
	cart := NewCart(1)
	require.NoError(t, cart.AddLine(newProduct("Mouse", "99.99", 10), 2))

	region := RegionSudeste
	cart.AssignShipping(&ShippingOption{ID: 3, Number: 1, Label: "PAC", Cost: decimal.RequireFromString("10.00"), Region: &region})

	assert.Equal(t, "209.98", cart.Recalculate().StringFixed(2))
	require.NotNil(t, cart.ShippingOptionID)
	assert.Equal(t, 3, *cart.ShippingOptionID)

	cart.AssignShipping(nil)
	assert.Equal(t, "199.98", cart.Recalculate().StringFixed(2))
	assert.Nil(t, cart.ShippingOptionID)
}

func TestCart_RemoveLine(t *testing.T) {
	tests := []struct {
		name        string
		have        int
		remove      int
		wantRemoved int
		wantLeft    int
	}{
		{name: "partial", have: 5, remove: 2, wantRemoved: 2, wantLeft: 3},
		{name: "exact", have: 5, remove: 5, wantRemoved: 5, wantLeft: 0},
		{name: "more than held", have: 2, remove: 9, wantRemoved: 2, wantLeft: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := NewCart(1)
			p := newProduct("Mouse", "10.00", 20)
			require.NoError(t, cart.AddLine(p, tt.have))

			removed, err := cart.RemoveLine(p.UUID.String(), tt.remove)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemoved, removed)

			line, ok := cart.Items[p.UUID.String()]
			if tt.wantLeft == 0 {
				assert.False(t, ok, "line should be dropped")
				return
			}
			assert.Equal(t, tt.wantLeft, line.Quantity)
			assert.Equal(t, decimal.NewFromInt(int64(tt.wantLeft*10)).StringFixed(2), line.Subtotal.StringFixed(2))
		})
	}
}

func TestCart_RemoveLineErrors(t *testing.T) {
	cart := NewCart(1)
	p := newProduct("Mouse", "10.00", 20)
	require.NoError(t, cart.AddLine(p, 1))

	_, err := cart.RemoveLine(p.UUID.String(), 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = cart.RemoveLine(uuid.NewString(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCart_LineKey(t *testing.T) {
	cart := NewCart(1)
	mouse := newProduct("Mouse", "10.00", 20)
	pad := newProduct("Pad", "5.00", 20)
	require.NoError(t, cart.AddLine(mouse, 1))
	require.NoError(t, cart.AddLine(pad, 1))

	key, err := cart.LineKey(mouse.UUID.String())
	require.NoError(t, err)
	assert.Equal(t, mouse.UUID.String(), key)

	key, err = cart.LineKey("Pad")
	require.NoError(t, err)
	assert.Equal(t, pad.UUID.String(), key)

	_, err = cart.LineKey("Monitor")
	assert.ErrorIs(t, err, ErrNotFound)

	twin := newProduct("Mouse", "12.00", 20)
	require.NoError(t, cart.AddLine(twin, 1))
	_, err = cart.LineKey("Mouse")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCart_CloneIsDeep(t *testing.T) {
	cart := NewCart(1)
	p := newProduct("Mouse", "10.00", 20)
	require.NoError(t, cart.AddLine(p, 1))
	cart.AssignShipping(&ShippingOption{ID: 2, Cost: decimal.NewFromInt(5)})

	cp := cart.Clone()
	require.NoError(t, cp.AddLine(p, 4))
	*cp.ShippingOptionID = 99

	assert.Equal(t, 1, cart.Items[p.UUID.String()].Quantity)
	assert.Equal(t, 2, *cart.ShippingOptionID)
}

func TestCartStatus_Valid(t *testing.T) {
	assert.True(t, CartActive.Valid())
	assert.True(t, CartFinalized.Valid())
	assert.False(t, CartStatus("X").Valid())
	assert.False(t, CartStatus("").Valid())
}
