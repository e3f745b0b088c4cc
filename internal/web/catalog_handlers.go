package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/domain"
)

func (s *Server) listServices(c *gin.Context) {
	services, err := s.backend.Services(c.Request.Context(), c.Query("category"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, services, "")
}

func (s *Server) getService(c *gin.Context) {
	service, err := s.backend.Service(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, service, "")
}

func (s *Server) getPackages(c *gin.Context) {
	packages, err := s.backend.ServicePackages(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, packages, "")
}

func (s *Server) myOrders(c *gin.Context) {
	bookings, err := s.backend.Bookings(c.Request.Context(), bookingFilter(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, bookings, "")
}

func (s *Server) myOrder(c *gin.Context) {
	booking, err := s.backend.Booking(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.ok(c, http.StatusOK, booking, "")
}

type pageQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Size   int    `form:"size"`
}

func bookingFilter(c *gin.Context) domain.BookingFilter {
	var q pageQuery
	// Malformed paging falls back to the backend defaults.
	_ = c.ShouldBindQuery(&q)

	return domain.BookingFilter{
		Status: domain.BookingStatus(q.Status),
		Page:   q.Page,
		Size:   q.Size,
	}
}
