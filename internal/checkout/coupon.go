package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrEmptyCouponCode = errors.New("coupon code is empty")

// Coupons holds the code applied in the checkout screen. It is never persisted.
type Coupons struct {
	backend  port.CouponBackend
	notifier port.Notifier
	logger   *zap.Logger

	mu      sync.Mutex
	applied *domain.AppliedCoupon
}

func NewCoupons(backend port.CouponBackend, notifier port.Notifier, logger *zap.Logger) (*Coupons, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Coupons{backend: backend, notifier: notifier, logger: logger}, nil
}

// Apply validates code against subtotal. On rejection any earlier coupon is dropped.
func (c *Coupons) Apply(ctx context.Context, code string, subtotal decimal.Decimal) (domain.AppliedCoupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		c.notifier.Notify(port.LevelError, "Please enter a coupon code")
		return domain.AppliedCoupon{}, ErrEmptyCouponCode
	}

	discount, err := c.backend.ValidateCoupon(ctx, code, subtotal)
	if err != nil {
		c.Remove()
		c.notifier.Notify(port.LevelError, api.UserMessage(err))
		return domain.AppliedCoupon{}, fmt.Errorf("apply coupon: %w", err)
	}

	applied := domain.AppliedCoupon{
		Code:             code,
		Discount:         domain.NonNegative(discount),
		ValidatedAgainst: subtotal,
	}

	c.mu.Lock()
	c.applied = &applied
	c.mu.Unlock()

	c.logger.Debug("coupon applied", zap.String("code", code), zap.String("discount", applied.Discount.String()))
	c.notifier.Notify(port.LevelSuccess, "Coupon applied")
	return applied, nil
}

func (c *Coupons) Remove() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.applied = nil
}

// Applied returns the coupon if one is attached, whether or not it is still valid.
func (c *Coupons) Applied() (domain.AppliedCoupon, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.applied == nil {
		return domain.AppliedCoupon{}, false
	}
	return *c.applied, true
}

// Current returns the coupon only while it is valid for subtotal. A coupon
// validated against a different subtotal is detached.
func (c *Coupons) Current(subtotal decimal.Decimal) (domain.AppliedCoupon, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.applied == nil {
		return domain.AppliedCoupon{}, false
	}
	if !c.applied.ValidFor(subtotal) {
		c.logger.Debug("coupon stale, subtotal changed",
			zap.String("code", c.applied.Code),
			zap.String("validated_against", c.applied.ValidatedAgainst.String()),
			zap.String("subtotal", subtotal.String()))
		c.applied = nil
		return domain.AppliedCoupon{}, false
	}
	return *c.applied, true
}

// Total is the amount to display: subtotal minus a valid discount, never below zero.
func (c *Coupons) Total(subtotal decimal.Decimal) decimal.Decimal {
	applied, ok := c.Current(subtotal)
	if !ok {
		return subtotal
	}
	return domain.NonNegative(subtotal.Sub(applied.Discount))
}
