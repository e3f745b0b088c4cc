package checkout_test

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type buyer struct {
	user *domain.User
}

func (b buyer) IsAuthenticated() bool { return b.user != nil }

func (b buyer) User() (domain.User, bool) {
	if b.user == nil {
		return domain.User{}, false
	}
	return *b.user, true
}

// fakeBackend answers package and booking calls from per-service tables.
type fakeBackend struct {
	packages     map[string][]domain.Package
	packageErrs  map[string]error
	bookingErrs  map[string]error
	beforeCreate func(ctx context.Context)

	calls atomic.Int32

	mu       sync.Mutex
	requests map[string]domain.BookingRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		packages:    make(map[string][]domain.Package),
		packageErrs: make(map[string]error),
		bookingErrs: make(map[string]error),
		requests:    make(map[string]domain.BookingRequest),
	}
}

func (f *fakeBackend) Services(context.Context, string) ([]domain.Service, error) {
	f.calls.Add(1)
	return nil, nil
}

func (f *fakeBackend) Service(_ context.Context, id string) (domain.Service, error) {
	f.calls.Add(1)
	return domain.Service{ID: id}, nil
}

func (f *fakeBackend) ServicePackages(_ context.Context, serviceID string) ([]domain.Package, error) {
	f.calls.Add(1)
	if err := f.packageErrs[serviceID]; err != nil {
		return nil, err
	}
	return f.packages[serviceID], nil
}

func (f *fakeBackend) CreateBooking(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	f.calls.Add(1)
	if f.beforeCreate != nil {
		f.beforeCreate(ctx)
	}

	f.mu.Lock()
	f.requests[req.ServiceID] = req
	f.mu.Unlock()

	if err := f.bookingErrs[req.ServiceID]; err != nil {
		return domain.Booking{}, err
	}

	booking := domain.Booking{
		ID:        "booking-" + req.ServiceID,
		ServiceID: req.ServiceID,
		Status:    domain.BookingCreated,
	}
	if req.PackageID != nil {
		booking.PackageID = *req.PackageID
	}
	return booking, nil
}

func (f *fakeBackend) Bookings(context.Context, domain.BookingFilter) ([]domain.Booking, error) {
	f.calls.Add(1)
	return nil, nil
}

func (f *fakeBackend) request(serviceID string) (domain.BookingRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.requests[serviceID]
	return req, ok
}

type fakeCouponBackend struct {
	discounts map[string]decimal.Decimal
	calls     atomic.Int32
}

func (f *fakeCouponBackend) ValidateCoupon(_ context.Context, code string, _ decimal.Decimal) (decimal.Decimal, error) {
	f.calls.Add(1)

	discount, ok := f.discounts[code]
	if !ok {
		return decimal.Zero, &api.Error{Kind: api.KindBackend, Status: http.StatusBadRequest, Message: "Coupon not found with code: " + code}
	}
	return discount, nil
}

func backendError(message string) error {
	return &api.Error{Kind: api.KindBackend, Status: http.StatusBadRequest, Message: message}
}
