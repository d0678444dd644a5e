package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartActive    CartStatus = "A"
	CartFinalized CartStatus = "F"
)

func (s CartStatus) Valid() bool {
	return s == CartActive || s == CartFinalized
}

// CartLine is a line item snapshot keyed by product UUID inside Cart.Items.
type CartLine struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CartItems map[string]CartLine

type Cart struct {
	ID               int             `json:"id"`
	CustomerID       int             `json:"customer_id"`
	Items            CartItems       `json:"items"`
	ShippingOptionID *int            `json:"shipping_option_id,omitempty"`
	Shipping         *ShippingOption `json:"shipping,omitempty"`
	Total            decimal.Decimal `json:"total"`
	Status           CartStatus      `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type CartSummary struct {
	ID           int             `json:"id"`
	Items        CartItems       `json:"items"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
}

func NewCart(customerID int) *Cart {
	return &Cart{
		CustomerID: customerID,
		Items:      CartItems{},
		Total:      decimal.Zero,
		Status:     CartActive,
	}
}

// AddLine inserts or increments the line for product. Stock is not checked here.
func (c *Cart) AddLine(product *Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}
	if c.Items == nil {
		c.Items = CartItems{}
	}

	key := product.UUID.String()
	line := c.Items[key]
	line.Name = product.Name
	line.Description = product.Description
	line.Price = product.Price
	line.Quantity += quantity
	line.Subtotal = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
	c.Items[key] = line
	return nil
}

// LineKey resolves ref to an item key. ref is either the product UUID the
// line is keyed by or, failing that, the product display name.
func (c *Cart) LineKey(ref string) (string, error) {
	if _, ok := c.Items[ref]; ok {
		return ref, nil
	}

	found := ""
	matches := 0
	for key, line := range c.Items {
		if line.Name == ref {
			found = key
			matches++
		}
	}

	switch matches {
	case 0:
		return "", fmt.Errorf("%w: product %q is not in the cart", ErrNotFound, ref)
	case 1:
		return found, nil
	default:
		return "", fmt.Errorf("%w: %d cart lines are named %q, remove by product id", ErrConflict, matches, ref)
	}
}

// RemoveLine takes up to quantity units off the line at key and returns how
// many were actually removed. The line is dropped when it reaches zero.
func (c *Cart) RemoveLine(key string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	}

	line, ok := c.Items[key]
	if !ok {
		return 0, fmt.Errorf("%w: product %s is not in the cart", ErrNotFound, key)
	}

	removed := min(quantity, line.Quantity)
	line.Quantity -= removed
	if line.Quantity == 0 {
		delete(c.Items, key)
		return removed, nil
	}

	line.Subtotal = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
	c.Items[key] = line
	return removed, nil
}

func (c *Cart) AssignShipping(option *ShippingOption) {
	if option == nil {
		c.ShippingOptionID = nil
		c.Shipping = nil
		return
	}
	id := option.ID
	c.ShippingOptionID = &id
	c.Shipping = option
}

func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.Items {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

func (c *Cart) ShippingCost() decimal.Decimal {
	if c.Shipping == nil {
		return decimal.Zero
	}
	return c.Shipping.Cost
}

// Recalculate sets Total to the line subtotals plus the shipping cost.
func (c *Cart) Recalculate() decimal.Decimal {
	c.Total = c.Subtotal().Add(c.ShippingCost())
	return c.Total
}

func (c *Cart) Contains(productKey string) bool {
	_, ok := c.Items[productKey]
	return ok
}

func (c *Cart) Summary() CartSummary {
	return CartSummary{
		ID:           c.ID,
		Items:        c.Items,
		ShippingCost: c.ShippingCost(),
		Total:        c.Total,
	}
}

// Clone returns a deep copy, used by stores that hand out snapshots.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = make(CartItems, len(c.Items))
	for k, v := range c.Items {
		cp.Items[k] = v
	}
	if c.ShippingOptionID != nil {
		id := *c.ShippingOptionID
		cp.ShippingOptionID = &id
	}
	if c.Shipping != nil {
		s := *c.Shipping
		cp.Shipping = &s
	}
	return &cp
}
