package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/auth"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type cartView struct {
	Items    []domain.CartLine `json:"items"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Discount decimal.Decimal   `json:"discount"`
	Total    decimal.Decimal   `json:"total"`
	Display  string            `json:"display"`
	Coupon   string            `json:"coupon,omitempty"`
}

func (s *Server) cartView() cartView {
	lines := s.state.Cart.Lines()
	if lines == nil {
		lines = []domain.CartLine{}
	}

	subtotal := domain.Cart{Lines: lines}.Total()
	total := s.state.Coupons.Total(subtotal)

	view := cartView{
		Items:    lines,
		Subtotal: subtotal,
		Discount: subtotal.Sub(total),
		Total:    total,
		Display:  domain.NewMoney(total, s.state.Currency).String(),
	}
	if applied, ok := s.state.Coupons.Current(subtotal); ok {
		view.Coupon = applied.Code
	}
	return view
}

func (s *Server) getCart(c *gin.Context) {
	s.ok(c, http.StatusOK, s.cartView(), "")
}

type addItemRequest struct {
	ServiceID string `json:"serviceId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()

	service, err := s.backend.Service(ctx, req.ServiceID)
	if err != nil {
		s.fail(c, err)
		return
	}

	if err := s.state.Cart.AddItem(ctx, service, req.Quantity); err != nil {
		s.fail(c, err)
		return
	}

	s.ok(c, http.StatusOK, s.cartView(), "")
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (s *Server) updateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	if err := s.state.Cart.UpdateQuantity(c.Request.Context(), c.Param("serviceId"), *req.Quantity); err != nil {
		s.fail(c, err)
		return
	}

	s.ok(c, http.StatusOK, s.cartView(), "")
}

func (s *Server) removeItem(c *gin.Context) {
	if err := s.state.Cart.RemoveItem(c.Request.Context(), c.Param("serviceId")); err != nil {
		s.fail(c, err)
		return
	}

	s.ok(c, http.StatusOK, s.cartView(), "")
}

func (s *Server) clearCart(c *gin.Context) {
	if err := s.state.Cart.Clear(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}

	s.state.Coupons.Remove()
	s.ok(c, http.StatusOK, s.cartView(), "")
}

type couponRequest struct {
	Code string `json:"code"`
}

func (s *Server) applyCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}

	if _, err := s.state.Coupons.Apply(c.Request.Context(), req.Code, s.state.Cart.Total()); err != nil {
		s.fail(c, err)
		return
	}

	s.ok(c, http.StatusOK, s.cartView(), "")
}

func (s *Server) removeCoupon(c *gin.Context) {
	s.state.Coupons.Remove()
	s.ok(c, http.StatusOK, s.cartView(), "")
}

type checkoutView struct {
	Bookings []domain.Booking `json:"bookings"`
	Failed   []string         `json:"failed,omitempty"`
}

func (s *Server) checkout(c *gin.Context) {
	result, err := s.state.Checkout.Checkout(c.Request.Context())

	view := checkoutView{Bookings: result.Bookings}
	if view.Bookings == nil {
		view.Bookings = []domain.Booking{}
	}
	for _, f := range result.Failures {
		view.Failed = append(view.Failed, f.ServiceID)
	}

	// A 401 on any line ends the session; the buyer has to sign in again.
	redirect := result.Redirect
	if !s.state.Session.IsAuthenticated() {
		redirect = auth.LoginRoute
	}

	var checkoutErr *checkout.Error
	if errors.As(err, &checkoutErr) {
		c.JSON(http.StatusUnprocessableEntity, response{
			Data:          view,
			Message:       api.UserMessage(err),
			Redirect:      redirect,
			Notifications: s.state.Notices.Drain(),
		})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	s.ok(c, http.StatusOK, view, redirect)
}
