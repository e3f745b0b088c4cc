package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/admin"
	"github.com/nikolayk812/storefront/internal/domain"
)

func (s *Server) dashboard(c *gin.Context) {
	stats, err := admin.Collect(c.Request.Context(), s.backend, s.logger)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, stats, "")
}

func (s *Server) createService(c *gin.Context) {
	var service domain.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		s.badRequest(c, err)
		return
	}

	created, err := s.backend.CreateService(c.Request.Context(), service)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusCreated, created, "")
}

func (s *Server) updateService(c *gin.Context) {
	var service domain.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		s.badRequest(c, err)
		return
	}
	service.ID = c.Param("id")

	updated, err := s.backend.UpdateService(c.Request.Context(), service)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, updated, "")
}

func (s *Server) deleteService(c *gin.Context) {
	if err := s.backend.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listCoupons(c *gin.Context) {
	coupons, err := s.backend.Coupons(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, coupons, "")
}

func (s *Server) createCoupon(c *gin.Context) {
	var coupon domain.Coupon
	if err := c.ShouldBindJSON(&coupon); err != nil {
		s.badRequest(c, err)
		return
	}

	created, err := s.backend.CreateCoupon(c.Request.Context(), coupon)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusCreated, created, "")
}

func (s *Server) updateCoupon(c *gin.Context) {
	var coupon domain.Coupon
	if err := c.ShouldBindJSON(&coupon); err != nil {
		s.badRequest(c, err)
		return
	}
	coupon.ID = c.Param("id")

	updated, err := s.backend.UpdateCoupon(c.Request.Context(), coupon)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, updated, "")
}

func (s *Server) deleteCoupon(c *gin.Context) {
	if err := s.backend.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) allBookings(c *gin.Context) {
	bookings, err := s.backend.AllBookings(c.Request.Context(), bookingFilter(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, bookings, "")
}

func (s *Server) assignBooking(c *gin.Context) {
	booking, err := s.backend.AssignBooking(c.Request.Context(), c.Param("id"), c.Param("employeeId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, booking, "")
}

func (s *Server) listEmployees(c *gin.Context) {
	employees, err := s.backend.Employees(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, employees, "")
}

func (s *Server) createEmployee(c *gin.Context) {
	var employee domain.Employee
	if err := c.ShouldBindJSON(&employee); err != nil {
		s.badRequest(c, err)
		return
	}

	created, err := s.backend.CreateEmployee(c.Request.Context(), employee)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusCreated, created, "")
}

func (s *Server) deleteEmployee(c *gin.Context) {
	if err := s.backend.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listPayments(c *gin.Context) {
	payments, err := s.backend.Payments(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, payments, "")
}

func (s *Server) employeeBookings(c *gin.Context) {
	bookings, err := s.backend.EmployeeBookings(c.Request.Context(), bookingFilter(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, bookings, "")
}

type statusRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

func (s *Server) updateBookingStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	if !req.Status.Valid() {
		s.badRequest(c, fmt.Errorf("unknown booking status %q", req.Status))
		return
	}

	booking, err := s.backend.UpdateBookingStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, booking, "")
}
