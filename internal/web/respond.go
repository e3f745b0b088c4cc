package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/auth"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// response wraps every shell reply with the notifications raised while serving it.
type response struct {
	Data          any                 `json:"data,omitempty"`
	Message       string              `json:"message,omitempty"`
	Redirect      string              `json:"redirect,omitempty"`
	Notifications []port.Notification `json:"notifications,omitempty"`
}

func (s *Server) ok(c *gin.Context, status int, data any, redirect string) {
	c.JSON(status, response{
		Data:          data,
		Redirect:      redirect,
		Notifications: s.state.Notices.Drain(),
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	status, redirect := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(status, response{
		Message:       api.UserMessage(err),
		Redirect:      redirect,
		Notifications: s.state.Notices.Drain(),
	})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response{
		Message:       err.Error(),
		Notifications: s.state.Notices.Drain(),
	})
}

func classify(err error) (int, string) {
	var (
		apiErr      *api.Error
		checkoutErr *checkout.Error
	)

	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		return http.StatusUnauthorized, auth.LoginRoute
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrEmptyCouponCode):
		return http.StatusBadRequest, ""
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		return http.StatusConflict, ""
	case errors.As(err, &checkoutErr):
		return http.StatusUnprocessableEntity, ""
	case errors.As(err, &apiErr):
		switch apiErr.Kind {
		case api.KindValidation:
			return http.StatusBadRequest, ""
		case api.KindUnauthorized:
			return http.StatusUnauthorized, auth.LoginRoute
		case api.KindNetwork:
			return http.StatusBadGateway, ""
		case api.KindBackend:
			if apiErr.Status >= http.StatusBadRequest {
				return apiErr.Status, ""
			}
			return http.StatusBadGateway, ""
		}
	}

	return http.StatusInternalServerError, ""
}
