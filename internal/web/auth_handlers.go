package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
)

func (s *Server) login(c *gin.Context) {
	var creds domain.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		s.badRequest(c, err)
		return
	}

	user, err := s.state.Session.Login(c.Request.Context(), creds)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.ok(c, http.StatusOK, user, landingRoute(user.Role))
}

func (s *Server) register(c *gin.Context) {
	var reg domain.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		s.badRequest(c, err)
		return
	}

	user, err := s.state.Session.Register(c.Request.Context(), reg)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.ok(c, http.StatusCreated, user, landingRoute(user.Role))
}

func (s *Server) logout(c *gin.Context) {
	if err := s.state.Logout(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}

	s.ok(c, http.StatusOK, nil, "/auth/login")
}

func (s *Server) me(c *gin.Context) {
	user, _ := s.state.Session.User()
	s.ok(c, http.StatusOK, user, "")
}

func landingRoute(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin"
	case domain.RoleEmployee:
		return "/employee"
	}
	return checkout.OrdersRoute
}
