package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nikolayk812/storefront/internal/domain"
)

func (c *Client) Services(ctx context.Context, category string) ([]domain.Service, error) {
	path := "/services"
	if category != "" {
		path = "/services/category/" + pathID(category)
	}

	var services list[domain.Service]
	if err := c.get(ctx, path, nil, &services); err != nil {
		return nil, fmt.Errorf("services: %w", err)
	}

	return services, nil
}

func (c *Client) Service(ctx context.Context, serviceID string) (domain.Service, error) {
	if serviceID == "" {
		return domain.Service{}, validationError("serviceID is empty")
	}

	var service domain.Service
	if err := c.get(ctx, "/services/"+pathID(serviceID), nil, &service); err != nil {
		return domain.Service{}, fmt.Errorf("service[%s]: %w", serviceID, err)
	}

	return service, nil
}

func (c *Client) ServicePackages(ctx context.Context, serviceID string) ([]domain.Package, error) {
	if serviceID == "" {
		return nil, validationError("serviceID is empty")
	}

	var packages list[domain.Package]
	if err := c.get(ctx, "/services/"+pathID(serviceID)+"/packages", nil, &packages); err != nil {
		return nil, fmt.Errorf("packages[%s]: %w", serviceID, err)
	}

	return packages, nil
}

func filterQuery(filter domain.BookingFilter) url.Values {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Page > 0 {
		query.Set("page", fmt.Sprint(filter.Page))
	}
	if filter.Size > 0 {
		query.Set("size", fmt.Sprint(filter.Size))
	}
	return query
}
