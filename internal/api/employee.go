package api

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
)

func (c *Client) EmployeeBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	var bookings list[domain.Booking]
	if err := c.get(ctx, "/employee/bookings", filterQuery(filter), &bookings); err != nil {
		return nil, fmt.Errorf("employee bookings: %w", err)
	}
	return bookings, nil
}

type statusRequest struct {
	Status domain.BookingStatus `json:"status"`
}

func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (domain.Booking, error) {
	if bookingID == "" {
		return domain.Booking{}, validationError("bookingID is empty")
	}
	if !status.Valid() {
		return domain.Booking{}, validationError("status[%s] is not valid", status)
	}

	var booking domain.Booking
	if err := c.put(ctx, "/employee/bookings/"+pathID(bookingID)+"/status", statusRequest{Status: status}, &booking); err != nil {
		return domain.Booking{}, fmt.Errorf("update booking status[%s]: %w", bookingID, err)
	}
	return booking, nil
}
