package auth

import (
	"errors"

	"github.com/nikolayk812/storefront/internal/domain"
)

const (
	LoginRoute = "/auth/login"
	HomeRoute  = "/"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("role not permitted")
)

// Viewer is the read side of a session that gating needs.
type Viewer interface {
	IsAuthenticated() bool
	HasRole(role domain.Role) bool
}

// Authorize checks that the viewer is signed in and, when roles are given, holds
// one of them. The returned route is where a refused viewer should be sent.
func Authorize(v Viewer, roles ...domain.Role) (string, error) {
	if !v.IsAuthenticated() {
		return LoginRoute, ErrNotAuthenticated
	}
	if len(roles) == 0 {
		return "", nil
	}

	for _, role := range roles {
		if v.HasRole(role) {
			return "", nil
		}
	}
	return HomeRoute, ErrForbidden
}
