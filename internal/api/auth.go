package api

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
)

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	if creds.Email == "" || creds.Password == "" {
		return domain.AuthResult{}, validationError("email and password are required")
	}

	var result domain.AuthResult
	if err := c.post(ctx, "/auth/login", creds, &result); err != nil {
		return domain.AuthResult{}, fmt.Errorf("login: %w", err)
	}

	return result, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	if reg.Email == "" || reg.Password == "" || reg.Name == "" {
		return domain.AuthResult{}, validationError("name, email and password are required")
	}

	var result domain.AuthResult
	if err := c.post(ctx, "/auth/register", reg, &result); err != nil {
		return domain.AuthResult{}, fmt.Errorf("register: %w", err)
	}

	return result, nil
}
