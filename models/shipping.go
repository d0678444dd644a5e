package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShippingOption struct {
	ID        int             `json:"id"`
	Number    int             `json:"number"`
	Label     string          `json:"label"`
	Cost      decimal.Decimal `json:"cost"`
	Region    *Region         `json:"region,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ShippingOptionPatch struct {
	Number *int             `json:"number"`
	Label  *string          `json:"label"`
	Cost   *decimal.Decimal `json:"cost"`
	Region *Region          `json:"region"`
}

func (p ShippingOptionPatch) Apply(option *ShippingOption) {
	if p.Number != nil {
		option.Number = *p.Number
	}
	if p.Label != nil {
		option.Label = *p.Label
	}
	if p.Cost != nil {
		option.Cost = *p.Cost
	}
	if p.Region != nil {
		region := *p.Region
		option.Region = &region
	}
}
