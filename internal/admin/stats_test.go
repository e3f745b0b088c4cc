package admin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/admin"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	services    []domain.Service
	servicesErr error
	bookings    []domain.Booking
	bookingsErr error
}

func (f fakeSource) Services(context.Context, string) ([]domain.Service, error) {
	return f.services, f.servicesErr
}

func (f fakeSource) AllBookings(context.Context, domain.BookingFilter) ([]domain.Booking, error) {
	return f.bookings, f.bookingsErr
}

func booking(customerID, finalPrice string) domain.Booking {
	return domain.Booking{
		ID:         gofakeit.UUID(),
		CustomerID: customerID,
		FinalPrice: decimal.RequireFromString(finalPrice),
	}
}

func TestCollect(t *testing.T) {
	services := []domain.Service{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}
	alice, bob := gofakeit.UUID(), gofakeit.UUID()

	tests := []struct {
		name     string
		source   fakeSource
		expected admin.Stats
	}{
		{
			name: "bookings summarized",
			source: fakeSource{
				services: services,
				bookings: []domain.Booking{booking(alice, "90.50"), booking(bob, "40"), booking(alice, "9.50"), booking("", "10")},
			},
			expected: admin.Stats{TotalProducts: 3, TotalOrders: 4, TotalRevenue: decimal.NewFromInt(150), TotalCustomers: 2},
		},
		{
			name:     "bookings unavailable: counted as none",
			source:   fakeSource{services: services, bookingsErr: errors.New("forbidden")},
			expected: admin.Stats{TotalProducts: 3, TotalRevenue: decimal.Zero},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := admin.Collect(t.Context(), tt.source, zap.NewNop())
			require.NoError(t, err)

			assert.Equal(t, tt.expected.TotalProducts, stats.TotalProducts)
			assert.Equal(t, tt.expected.TotalOrders, stats.TotalOrders)
			assert.Equal(t, tt.expected.TotalCustomers, stats.TotalCustomers)
			assert.True(t, tt.expected.TotalRevenue.Equal(stats.TotalRevenue), stats.TotalRevenue.String())
		})
	}
}

func TestCollectServicesError(t *testing.T) {
	boom := errors.New("boom")

	_, err := admin.Collect(t.Context(), fakeSource{servicesErr: boom}, nil)
	assert.ErrorIs(t, err, boom)
}
