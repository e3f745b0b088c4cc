package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Stats is the admin dashboard overview.
type Stats struct {
	TotalProducts  int             `json:"totalProducts"`
	TotalOrders    int             `json:"totalOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalCustomers int             `json:"totalCustomers"`
}

type Source interface {
	Services(ctx context.Context, category string) ([]domain.Service, error)
	AllBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
}

// Collect fetches the catalog and every booking concurrently. A failed bookings
// call counts as no bookings; a failed catalog call fails the whole overview.
func Collect(ctx context.Context, src Source, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		wg       sync.WaitGroup
		services []domain.Service
		bookings []domain.Booking

		servicesErr error
	)

	wg.Go(func() {
		services, servicesErr = src.Services(ctx, "")
	})
	wg.Go(func() {
		var err error
		bookings, err = src.AllBookings(ctx, domain.BookingFilter{})
		if err != nil {
			logger.Warn("bookings unavailable for dashboard", zap.Error(err))
			bookings = nil
		}
	})
	wg.Wait()

	if servicesErr != nil {
		return Stats{}, fmt.Errorf("services: %w", servicesErr)
	}

	return Summarize(services, bookings), nil
}

// Summarize counts products and orders, sums final prices and counts distinct
// customers. Bookings without a customer id are not counted as customers.
func Summarize(services []domain.Service, bookings []domain.Booking) Stats {
	stats := Stats{
		TotalProducts: len(services),
		TotalOrders:   len(bookings),
		TotalRevenue:  decimal.Zero,
	}

	customers := make(map[string]struct{})
	for _, b := range bookings {
		stats.TotalRevenue = stats.TotalRevenue.Add(b.FinalPrice)
		if b.CustomerID != "" {
			customers[b.CustomerID] = struct{}{}
		}
	}
	stats.TotalCustomers = len(customers)

	return stats
}
