package web

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/auth"
	"github.com/nikolayk812/storefront/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func (s *Server) requireAuth() gin.HandlerFunc {
	return s.gate()
}

func (s *Server) requireRole(roles ...domain.Role) gin.HandlerFunc {
	return s.gate(roles...)
}

func (s *Server) gate(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		redirect, err := auth.Authorize(s.state.Session, roles...)
		if err != nil {
			status := http.StatusForbidden
			if errors.Is(err, auth.ErrNotAuthenticated) {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, response{
				Message:       err.Error(),
				Redirect:      redirect,
				Notifications: s.state.Notices.Drain(),
			})
			return
		}
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

type limiterStore struct {
	mu       sync.Mutex
	perMin   int
	limiters map[string]*rate.Limiter
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
		s.limiters[ip] = limiter
	}
	return limiter
}

// rateLimit allows perMin requests per minute per client IP.
func rateLimit(perMin int, logger *zap.Logger) gin.HandlerFunc {
	store := &limiterStore{perMin: perMin, limiters: make(map[string]*rate.Limiter)}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.get(ip).Allow() {
			logger.Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response{Message: "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
