package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID               int         `json:"id"`
	Number           int         `json:"number"`
	CustomerID       int         `json:"customer_id"`
	State            string      `json:"state"`
	ShippingOptionID int         `json:"shipping_option_id"`
	CreatedAt        time.Time   `json:"created_at"`
	ShippedAt        time.Time   `json:"shipped_at"`
	Items            []OrderItem `json:"items"`
}

// OrderItem is a snapshot and does not reference the live product row.
type OrderItem struct {
	ID            int             `json:"id"`
	OrderID       int             `json:"order_id"`
	ProductNumber int             `json:"product_number"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}
