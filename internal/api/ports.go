package api

import "github.com/nikolayk812/storefront/internal/port"

var (
	_ port.AuthBackend     = (*Client)(nil)
	_ port.CheckoutBackend = (*Client)(nil)
	_ port.CouponBackend   = (*Client)(nil)
)
