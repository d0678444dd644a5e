package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Username string  `json:"username" form:"username" binding:"required,min=3,max=150"`
	Email    string  `json:"email" form:"email" binding:"required,email"`
	Password string  `json:"password" form:"password" binding:"required,min=8"`
	Sex      *string `json:"sex" form:"sex" binding:"omitempty,oneof=M F O"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"min=0"`
}

type CreateShippingOptionRequest struct {
	Number int             `json:"number" binding:"required,min=1"`
	Label  string          `json:"label" binding:"required,max=50"`
	Cost   decimal.Decimal `json:"cost"`
	Region *Region         `json:"region"`
}

type CreateAddressRequest struct {
	Street     string `json:"street" binding:"required,max=255"`
	Number     string `json:"number" binding:"required,max=10"`
	District   string `json:"district" binding:"required,max=100"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,uf"`
	ZipCode    string `json:"zip_code" binding:"required,max=9"`
	Complement string `json:"complement" binding:"max=255"`
}

type UpdateCartStatusRequest struct {
	Status *CartStatus `json:"status" binding:"required,cart_status"`
}

type PlaceOrderItemRequest struct {
	ProductNumber int             `json:"product_number" binding:"required"`
	ProductName   string          `json:"product_name" binding:"required,max=100"`
	Quantity      int             `json:"quantity" binding:"required,min=1"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
}

type PlaceOrderRequest struct {
	Number           int                     `json:"number" binding:"required,min=1"`
	ShippingOptionID int                     `json:"shipping_option_id" binding:"required"`
	ShippedAt        *time.Time              `json:"shipped_at"`
	Items            []PlaceOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}
