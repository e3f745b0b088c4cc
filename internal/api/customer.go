package api

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

func (c *Client) CreateBooking(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	if req.ServiceID == "" {
		return domain.Booking{}, validationError("serviceID is empty")
	}

	var booking domain.Booking
	if err := c.post(ctx, "/customer/bookings", req, &booking); err != nil {
		return domain.Booking{}, fmt.Errorf("create booking[%s]: %w", req.ServiceID, err)
	}

	return booking, nil
}

func (c *Client) Bookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	var bookings list[domain.Booking]
	if err := c.get(ctx, "/customer/bookings", filterQuery(filter), &bookings); err != nil {
		return nil, fmt.Errorf("bookings: %w", err)
	}

	return bookings, nil
}

func (c *Client) Booking(ctx context.Context, bookingID string) (domain.Booking, error) {
	if bookingID == "" {
		return domain.Booking{}, validationError("bookingID is empty")
	}

	var booking domain.Booking
	if err := c.get(ctx, "/customer/bookings/"+pathID(bookingID), nil, &booking); err != nil {
		return domain.Booking{}, fmt.Errorf("booking[%s]: %w", bookingID, err)
	}

	return booking, nil
}

type validateCouponRequest struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}

// ValidateCoupon returns the discount the backend would grant on amount.
func (c *Client) ValidateCoupon(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	if code == "" {
		return decimal.Zero, validationError("coupon code is empty")
	}

	var discount decimal.Decimal
	if err := c.post(ctx, "/customer/coupons/validate", validateCouponRequest{Code: code, Amount: amount}, &discount); err != nil {
		return decimal.Zero, fmt.Errorf("validate coupon[%s]: %w", code, err)
	}

	return discount, nil
}
