package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/auth"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/notify"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, time.October, 14, 18, 30, 0, 0, time.UTC)

type fixture struct {
	cart     *cart.Store
	coupons  *checkout.Coupons
	backend  *fakeBackend
	notices  *notify.Buffer
	checkout *checkout.Orchestrator
}

func newFixture(t *testing.T, user *domain.User, services ...domain.Service) *fixture {
	t.Helper()
	ctx := t.Context()

	notices := notify.NewBuffer()
	store, err := cart.NewStore(storage.NewMemory(), notices, zap.NewNop())
	require.NoError(t, err)
	for _, svc := range services {
		require.NoError(t, store.AddItem(ctx, svc, 1))
	}
	notices.Drain()

	coupons, err := checkout.NewCoupons(&fakeCouponBackend{discounts: map[string]decimal.Decimal{
		"SAVE10": decimal.NewFromInt(10),
	}}, notices, zap.NewNop())
	require.NoError(t, err)

	backend := newFakeBackend()
	orchestrator, err := checkout.NewOrchestrator(store, buyer{user: user}, coupons, backend, notices,
		checkout.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	return &fixture{cart: store, coupons: coupons, backend: backend, notices: notices, checkout: orchestrator}
}

func randomBuyer() *domain.User {
	return &domain.User{
		ID:      gofakeit.UUID(),
		Email:   gofakeit.Email(),
		Name:    gofakeit.Name(),
		Role:    domain.RoleCustomer,
		Address: gofakeit.Street(),
		City:    gofakeit.City(),
		Pincode: gofakeit.Zip(),
	}
}

func randomService() domain.Service {
	return domain.Service{
		ID:        gofakeit.UUID(),
		Name:      gofakeit.ProductName(),
		Category:  gofakeit.ProductCategory(),
		BasePrice: decimal.NewFromInt(int64(gofakeit.Number(5, 50))),
	}
}

func serviceIDs(lines []domain.CartLine) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ServiceID)
	}
	return ids
}

func TestCheckoutPartialFailure(t *testing.T) {
	first, second, third := randomService(), randomService(), randomService()
	f := newFixture(t, randomBuyer(), first, second, third)
	f.backend.packageErrs[second.ID] = backendError("Service not found")

	result, err := f.checkout.Checkout(t.Context())
	require.NoError(t, err)

	assert.Len(t, result.Bookings, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, second.ID, result.Failures[0].ServiceID)
	assert.Empty(t, result.Redirect)

	assert.Equal(t, []string{second.ID}, serviceIDs(f.cart.Lines()))
	_, booked := f.backend.request(second.ID)
	assert.False(t, booked)

	assert.Equal(t, []port.Notification{
		{Level: port.LevelSuccess, Message: "2 order(s) placed successfully"},
		{Level: port.LevelError, Message: "1 order(s) failed"},
	}, f.notices.Drain())
}

func TestCheckoutRetryResubmitsOnlyFailedLines(t *testing.T) {
	first, second := randomService(), randomService()
	f := newFixture(t, randomBuyer(), first, second)
	f.backend.bookingErrs[second.ID] = backendError("No employee available")

	_, err := f.checkout.Checkout(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, serviceIDs(f.cart.Lines()))

	delete(f.backend.bookingErrs, second.ID)
	calls := f.backend.calls.Load()

	result, err := f.checkout.Checkout(t.Context())
	require.NoError(t, err)

	require.Len(t, result.Bookings, 1)
	assert.Equal(t, second.ID, result.Bookings[0].ServiceID)
	// one package fetch and one booking for the remaining line
	assert.Equal(t, calls+2, f.backend.calls.Load())
	assert.Zero(t, f.cart.Len())
}

func TestCheckoutAllSucceeded(t *testing.T) {
	user := randomBuyer()
	withPackage, withoutPackage := randomService(), randomService()
	f := newFixture(t, user, withPackage, withoutPackage)
	require.NoError(t, f.cart.UpdateQuantity(t.Context(), withPackage.ID, 3))
	f.backend.packages[withPackage.ID] = []domain.Package{
		{ID: "premium", ServiceID: withPackage.ID, Name: "Premium"},
		{ID: "basic", ServiceID: withPackage.ID, Name: "Basic"},
	}

	_, err := f.coupons.Apply(t.Context(), "SAVE10", f.cart.Total())
	require.NoError(t, err)
	f.notices.Drain()

	result, err := f.checkout.Checkout(t.Context())
	require.NoError(t, err)

	assert.Len(t, result.Bookings, 2)
	assert.Empty(t, result.Failures)
	assert.Equal(t, checkout.OrdersRoute, result.Redirect)
	assert.Zero(t, f.cart.Len())

	_, attached := f.coupons.Applied()
	assert.False(t, attached)

	assert.Equal(t, []port.Notification{
		{Level: port.LevelSuccess, Message: "Successfully placed 2 order(s)!"},
	}, f.notices.Drain())

	req, ok := f.backend.request(withPackage.ID)
	require.True(t, ok)
	require.NotNil(t, req.PackageID)
	assert.Equal(t, "premium", *req.PackageID)
	assert.Equal(t, "2026-10-15", req.ServiceDate)
	assert.Equal(t, "10:00", req.ServiceTime)
	assert.Equal(t, user.Address, req.ServiceAddress)
	assert.Equal(t, user.City, req.City)
	assert.Equal(t, user.Pincode, req.Pincode)
	assert.Equal(t, "Order from cart - Quantity: 3", req.CustomerNote)
	require.NotNil(t, req.CouponCode)
	assert.Equal(t, "SAVE10", *req.CouponCode)

	req, ok = f.backend.request(withoutPackage.ID)
	require.True(t, ok)
	assert.Nil(t, req.PackageID, "synthetic Standard package has no id")
	require.NotNil(t, req.CouponCode)
	assert.Equal(t, "SAVE10", *req.CouponCode)
}

func TestCheckoutAllFailed(t *testing.T) {
	first, second := randomService(), randomService()
	f := newFixture(t, randomBuyer(), first, second)
	f.backend.bookingErrs[first.ID] = backendError("Selected date is fully booked")
	f.backend.packageErrs[second.ID] = &api.Error{Kind: api.KindNetwork, Message: api.NetworkErrorMessage}

	result, err := f.checkout.Checkout(t.Context())
	require.Error(t, err)

	var checkoutErr *checkout.Error
	require.ErrorAs(t, err, &checkoutErr)
	assert.Len(t, checkoutErr.Failures, 2)
	assert.True(t, api.IsKind(err, api.KindBackend))

	assert.Empty(t, result.Bookings)
	assert.Empty(t, result.Redirect)
	assert.Equal(t, []string{first.ID, second.ID}, serviceIDs(f.cart.Lines()))
	assert.Equal(t, []port.Notification{
		{Level: port.LevelError, Message: "Selected date is fully booked"},
	}, f.notices.Drain())
}

func TestCheckoutPreconditions(t *testing.T) {
	tests := []struct {
		name         string
		user         *domain.User
		services     []domain.Service
		wantError    error
		wantRedirect string
		wantMessage  string
	}{
		{
			name:         "unauthenticated: redirect to login",
			services:     []domain.Service{randomService()},
			wantError:    checkout.ErrNotAuthenticated,
			wantRedirect: auth.LoginRoute,
			wantMessage:  "Please login to place an order",
		},
		{
			name:        "empty cart: error",
			user:        randomBuyer(),
			wantError:   checkout.ErrEmptyCart,
			wantMessage: "Your cart is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.user, tt.services...)

			result, err := f.checkout.Checkout(t.Context())
			require.ErrorIs(t, err, tt.wantError)

			assert.Equal(t, tt.wantRedirect, result.Redirect)
			assert.Zero(t, f.backend.calls.Load(), "no network call expected")
			assert.Equal(t, []port.Notification{{Level: port.LevelError, Message: tt.wantMessage}}, f.notices.Drain())
			assert.Equal(t, len(tt.services), f.cart.Len())
		})
	}
}

func TestCheckoutAddressFallback(t *testing.T) {
	svc := randomService()
	f := newFixture(t, &domain.User{ID: gofakeit.UUID(), Role: domain.RoleCustomer}, svc)

	_, err := f.checkout.Checkout(t.Context())
	require.NoError(t, err)

	req, ok := f.backend.request(svc.ID)
	require.True(t, ok)
	assert.Equal(t, checkout.DefaultAddress, req.ServiceAddress)
	assert.Equal(t, checkout.DefaultCity, req.City)
	assert.Equal(t, checkout.DefaultPincode, req.Pincode)
	assert.Nil(t, req.CouponCode)
}

func TestCheckoutDropsStaleCoupon(t *testing.T) {
	svc := randomService()
	f := newFixture(t, randomBuyer(), svc)

	_, err := f.coupons.Apply(t.Context(), "SAVE10", f.cart.Total())
	require.NoError(t, err)
	require.NoError(t, f.cart.UpdateQuantity(t.Context(), svc.ID, 4))
	f.notices.Drain()

	_, err = f.checkout.Checkout(t.Context())
	require.NoError(t, err)

	req, ok := f.backend.request(svc.ID)
	require.True(t, ok)
	assert.Nil(t, req.CouponCode)

	notices := f.notices.Drain()
	require.NotEmpty(t, notices)
	assert.Equal(t, port.LevelInfo, notices[0].Level)
}

func TestCheckoutLinesRunConcurrently(t *testing.T) {
	services := []domain.Service{randomService(), randomService(), randomService()}
	f := newFixture(t, randomBuyer(), services...)

	var arrived sync.WaitGroup
	arrived.Add(len(services))
	allArrived := make(chan struct{})
	go func() {
		arrived.Wait()
		close(allArrived)
	}()

	f.backend.beforeCreate = func(context.Context) {
		arrived.Done()
		select {
		case <-allArrived:
		case <-time.After(5 * time.Second):
		}
	}

	start := time.Now()
	result, err := f.checkout.Checkout(t.Context())
	require.NoError(t, err)

	assert.Len(t, result.Bookings, len(services))
	assert.Less(t, time.Since(start), 5*time.Second, "bookings were submitted one after another")
}

func TestCheckoutRejectsConcurrentCheckout(t *testing.T) {
	svc := randomService()
	f := newFixture(t, randomBuyer(), svc)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.backend.beforeCreate = func(context.Context) {
		close(entered)
		<-release
	}

	type outcome struct {
		result checkout.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := f.checkout.Checkout(t.Context())
		done <- outcome{result: result, err: err}
	}()

	<-entered
	f.notices.Drain()

	result, err := f.checkout.Checkout(t.Context())
	require.ErrorIs(t, err, checkout.ErrCheckoutInProgress)
	assert.Empty(t, result.Bookings)
	assert.Equal(t, []port.Notification{{Level: port.LevelInfo, Message: "Your order is already being placed"}}, f.notices.Drain())

	close(release)
	first := <-done
	require.NoError(t, first.err)
	assert.Len(t, first.result.Bookings, 1)
	assert.Equal(t, int32(2), f.backend.calls.Load(), "one package fetch and one booking")
	assert.Empty(t, f.cart.Lines())

	// The guard is released once the first checkout returns.
	_, err = f.checkout.Checkout(t.Context())
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}

func TestCheckoutIgnoresCallerCancellation(t *testing.T) {
	svc := randomService()
	f := newFixture(t, randomBuyer(), svc)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var sawErr error
	f.backend.beforeCreate = func(ctx context.Context) {
		sawErr = ctx.Err()
	}

	result, err := f.checkout.Checkout(ctx)
	require.NoError(t, err)
	assert.Len(t, result.Bookings, 1)
	assert.False(t, errors.Is(sawErr, context.Canceled))
}

func TestNewOrchestratorValidation(t *testing.T) {
	_, err := checkout.NewOrchestrator(nil, buyer{}, nil, newFakeBackend(), notify.NewBuffer())
	assert.EqualError(t, err, "cart is nil")
}
