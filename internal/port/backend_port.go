package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type AuthBackend interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error)
	Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error)
}

type CatalogBackend interface {
	Services(ctx context.Context, category string) ([]domain.Service, error)
	Service(ctx context.Context, serviceID string) (domain.Service, error)
	ServicePackages(ctx context.Context, serviceID string) ([]domain.Package, error)
}

type BookingBackend interface {
	CreateBooking(ctx context.Context, req domain.BookingRequest) (domain.Booking, error)
	Bookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
}

type CouponBackend interface {
	ValidateCoupon(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error)
}

// CheckoutBackend is everything the checkout flow talks to.
type CheckoutBackend interface {
	CatalogBackend
	BookingBackend
}
