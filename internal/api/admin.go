package api

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
)

// Admin passthroughs. The backend enforces the ADMIN role; the web shell gates them too.

func (c *Client) CreateService(ctx context.Context, service domain.Service) (domain.Service, error) {
	var created domain.Service
	if err := c.post(ctx, "/admin/services", service, &created); err != nil {
		return domain.Service{}, fmt.Errorf("create service: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateService(ctx context.Context, service domain.Service) (domain.Service, error) {
	if service.ID == "" {
		return domain.Service{}, validationError("service id is empty")
	}

	var updated domain.Service
	if err := c.put(ctx, "/admin/services/"+pathID(service.ID), service, &updated); err != nil {
		return domain.Service{}, fmt.Errorf("update service[%s]: %w", service.ID, err)
	}
	return updated, nil
}

func (c *Client) DeleteService(ctx context.Context, serviceID string) error {
	if serviceID == "" {
		return validationError("serviceID is empty")
	}

	if err := c.delete(ctx, "/admin/services/"+pathID(serviceID)); err != nil {
		return fmt.Errorf("delete service[%s]: %w", serviceID, err)
	}
	return nil
}

func (c *Client) Coupons(ctx context.Context) ([]domain.Coupon, error) {
	var coupons list[domain.Coupon]
	if err := c.get(ctx, "/admin/coupons", nil, &coupons); err != nil {
		return nil, fmt.Errorf("coupons: %w", err)
	}
	return coupons, nil
}

func (c *Client) CreateCoupon(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error) {
	if coupon.Code == "" {
		return domain.Coupon{}, validationError("coupon code is empty")
	}

	var created domain.Coupon
	if err := c.post(ctx, "/admin/coupons", coupon, &created); err != nil {
		return domain.Coupon{}, fmt.Errorf("create coupon: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateCoupon(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error) {
	if coupon.ID == "" {
		return domain.Coupon{}, validationError("coupon id is empty")
	}

	var updated domain.Coupon
	if err := c.put(ctx, "/admin/coupons/"+pathID(coupon.ID), coupon, &updated); err != nil {
		return domain.Coupon{}, fmt.Errorf("update coupon[%s]: %w", coupon.ID, err)
	}
	return updated, nil
}

func (c *Client) DeleteCoupon(ctx context.Context, couponID string) error {
	if couponID == "" {
		return validationError("couponID is empty")
	}

	if err := c.delete(ctx, "/admin/coupons/"+pathID(couponID)); err != nil {
		return fmt.Errorf("delete coupon[%s]: %w", couponID, err)
	}
	return nil
}

func (c *Client) AllBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	var bookings list[domain.Booking]
	if err := c.get(ctx, "/admin/bookings", filterQuery(filter), &bookings); err != nil {
		return nil, fmt.Errorf("admin bookings: %w", err)
	}
	return bookings, nil
}

func (c *Client) AssignBooking(ctx context.Context, bookingID, employeeID string) (domain.Booking, error) {
	if bookingID == "" || employeeID == "" {
		return domain.Booking{}, validationError("bookingID and employeeID are required")
	}

	var booking domain.Booking
	path := "/admin/bookings/" + pathID(bookingID) + "/assign/" + pathID(employeeID)
	if err := c.put(ctx, path, nil, &booking); err != nil {
		return domain.Booking{}, fmt.Errorf("assign booking[%s]: %w", bookingID, err)
	}
	return booking, nil
}

func (c *Client) Employees(ctx context.Context) ([]domain.Employee, error) {
	var employees list[domain.Employee]
	if err := c.get(ctx, "/admin/employees", nil, &employees); err != nil {
		return nil, fmt.Errorf("employees: %w", err)
	}
	return employees, nil
}

func (c *Client) CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	var created domain.Employee
	if err := c.post(ctx, "/admin/employees", employee, &created); err != nil {
		return domain.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return created, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, employeeID string) error {
	if employeeID == "" {
		return validationError("employeeID is empty")
	}

	if err := c.delete(ctx, "/admin/employees/"+pathID(employeeID)); err != nil {
		return fmt.Errorf("delete employee[%s]: %w", employeeID, err)
	}
	return nil
}

func (c *Client) Payments(ctx context.Context) ([]domain.Payment, error) {
	var payments list[domain.Payment]
	if err := c.get(ctx, "/admin/payments", nil, &payments); err != nil {
		return nil, fmt.Errorf("payments: %w", err)
	}
	return payments, nil
}
