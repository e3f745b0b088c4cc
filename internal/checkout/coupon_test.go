package checkout_test

import (
	"testing"

	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/notify"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCoupons(t *testing.T) (*checkout.Coupons, *fakeCouponBackend, *notify.Buffer) {
	t.Helper()

	backend := &fakeCouponBackend{discounts: map[string]decimal.Decimal{
		"SAVE10":   decimal.NewFromInt(10),
		"HUGE":     decimal.NewFromInt(150),
		"NEGATIVE": decimal.NewFromInt(-5),
	}}
	notices := notify.NewBuffer()

	coupons, err := checkout.NewCoupons(backend, notices, zap.NewNop())
	require.NoError(t, err)
	return coupons, backend, notices
}

func TestApplyAndRemoveCoupon(t *testing.T) {
	coupons, _, notices := newCoupons(t)
	subtotal := decimal.NewFromInt(100)

	applied, err := coupons.Apply(t.Context(), "SAVE10", subtotal)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", applied.Code)
	assert.True(t, decimal.NewFromInt(90).Equal(coupons.Total(subtotal)))
	assert.Equal(t, []port.Notification{{Level: port.LevelSuccess, Message: "Coupon applied"}}, notices.Drain())

	coupons.Remove()
	assert.True(t, subtotal.Equal(coupons.Total(subtotal)))
}

func TestCouponTotalNeverNegative(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantTotal int64
	}{
		{name: "discount above subtotal: zero", code: "HUGE", wantTotal: 0},
		{name: "negative discount: ignored", code: "NEGATIVE", wantTotal: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupons, _, _ := newCoupons(t)
			subtotal := decimal.NewFromInt(100)

			_, err := coupons.Apply(t.Context(), tt.code, subtotal)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.wantTotal).Equal(coupons.Total(subtotal)), "total %s", coupons.Total(subtotal))
		})
	}
}

func TestApplyRejectedClearsPrevious(t *testing.T) {
	coupons, _, notices := newCoupons(t)
	subtotal := decimal.NewFromInt(100)

	_, err := coupons.Apply(t.Context(), "SAVE10", subtotal)
	require.NoError(t, err)
	notices.Drain()

	_, err = coupons.Apply(t.Context(), "EXPIRED", subtotal)
	require.Error(t, err)

	_, attached := coupons.Applied()
	assert.False(t, attached)
	assert.True(t, subtotal.Equal(coupons.Total(subtotal)))
	assert.Equal(t, []port.Notification{{Level: port.LevelError, Message: "Coupon not found with code: EXPIRED"}}, notices.Drain())
}

func TestApplyEmptyCode(t *testing.T) {
	coupons, backend, _ := newCoupons(t)

	_, err := coupons.Apply(t.Context(), "   ", decimal.NewFromInt(100))
	require.ErrorIs(t, err, checkout.ErrEmptyCouponCode)
	assert.Zero(t, backend.calls.Load())
}

func TestCouponStaleAfterSubtotalChange(t *testing.T) {
	coupons, _, _ := newCoupons(t)

	_, err := coupons.Apply(t.Context(), "SAVE10", decimal.NewFromInt(100))
	require.NoError(t, err)

	changed := decimal.NewFromInt(120)
	assert.True(t, changed.Equal(coupons.Total(changed)))

	_, attached := coupons.Applied()
	assert.False(t, attached, "stale coupon must be re-validated")
}
