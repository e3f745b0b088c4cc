package domain

import "github.com/shopspring/decimal"

// AppliedCoupon is a code validated by the backend against a subtotal.
type AppliedCoupon struct {
	Code             string
	Discount         decimal.Decimal
	ValidatedAgainst decimal.Decimal
}

// ValidFor reports whether the coupon was validated against this exact subtotal.
func (c AppliedCoupon) ValidFor(subtotal decimal.Decimal) bool {
	return c.ValidatedAgainst.Equal(subtotal)
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

type Coupon struct {
	ID                string           `json:"id,omitempty"`
	Code              string           `json:"code"`
	Description       string           `json:"description,omitempty"`
	DiscountType      DiscountType     `json:"discountType"`
	DiscountValue     decimal.Decimal  `json:"discountValue"`
	MinOrderValue     *decimal.Decimal `json:"minOrderValue,omitempty"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount,omitempty"`
	ValidFrom         string           `json:"validFrom,omitempty"`
	ValidUntil        string           `json:"validUntil,omitempty"`
	UsageLimit        int              `json:"usageLimit,omitempty"`
	UsedCount         int              `json:"usedCount,omitempty"`
	Active            bool             `json:"active"`
}
