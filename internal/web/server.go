package web

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/app"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

type AdminBackend interface {
	CreateService(ctx context.Context, service domain.Service) (domain.Service, error)
	UpdateService(ctx context.Context, service domain.Service) (domain.Service, error)
	DeleteService(ctx context.Context, serviceID string) error
	Coupons(ctx context.Context) ([]domain.Coupon, error)
	CreateCoupon(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error)
	UpdateCoupon(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error)
	DeleteCoupon(ctx context.Context, couponID string) error
	AllBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	AssignBooking(ctx context.Context, bookingID, employeeID string) (domain.Booking, error)
	Employees(ctx context.Context) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error)
	DeleteEmployee(ctx context.Context, employeeID string) error
	Payments(ctx context.Context) ([]domain.Payment, error)
}

type EmployeeBackend interface {
	EmployeeBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (domain.Booking, error)
}

// Backend is the REST surface behind the web shell; *api.Client implements it.
type Backend interface {
	port.CatalogBackend
	port.BookingBackend
	Booking(ctx context.Context, bookingID string) (domain.Booking, error)
	AdminBackend
	EmployeeBackend
}

type Options struct {
	AllowedOrigins    []string
	MaxRequestsPerMin int
}

type Server struct {
	state   *app.State
	backend Backend
	logger  *zap.Logger
}

// NewRouter builds the gin engine serving the storefront shell under /api.
func NewRouter(state *app.State, backend Backend, logger *zap.Logger, opts Options) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{state: state, backend: backend, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if opts.MaxRequestsPerMin > 0 {
		router.Use(rateLimit(opts.MaxRequestsPerMin, logger))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	s.registerRoutes(router.Group("/api"))
	return router
}

func (s *Server) registerRoutes(api *gin.RouterGroup) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", s.login)
		authGroup.POST("/register", s.register)
		authGroup.POST("/logout", s.logout)
		authGroup.GET("/me", s.requireAuth(), s.me)
	}

	services := api.Group("/services")
	{
		services.GET("", s.listServices)
		services.GET("/:id", s.getService)
		services.GET("/:id/packages", s.getPackages)
	}

	cartGroup := api.Group("/cart")
	{
		cartGroup.GET("", s.getCart)
		cartGroup.POST("/items", s.addItem)
		cartGroup.PUT("/items/:serviceId", s.updateItem)
		cartGroup.DELETE("/items/:serviceId", s.removeItem)
		cartGroup.DELETE("", s.clearCart)
		cartGroup.POST("/coupon", s.applyCoupon)
		cartGroup.DELETE("/coupon", s.removeCoupon)
	}

	api.POST("/checkout", s.requireAuth(), s.checkout)

	my := api.Group("/my", s.requireAuth())
	{
		my.GET("/orders", s.myOrders)
		my.GET("/orders/:id", s.myOrder)
	}

	employee := api.Group("/employee", s.requireRole(domain.RoleEmployee))
	{
		employee.GET("/bookings", s.employeeBookings)
		employee.PUT("/bookings/:id/status", s.updateBookingStatus)
	}

	admin := api.Group("/admin", s.requireRole(domain.RoleAdmin))
	{
		admin.POST("/services", s.createService)
		admin.PUT("/services/:id", s.updateService)
		admin.DELETE("/services/:id", s.deleteService)

		admin.GET("/coupons", s.listCoupons)
		admin.POST("/coupons", s.createCoupon)
		admin.PUT("/coupons/:id", s.updateCoupon)
		admin.DELETE("/coupons/:id", s.deleteCoupon)

		admin.GET("/bookings", s.allBookings)
		admin.PUT("/bookings/:id/assign/:employeeId", s.assignBooking)

		admin.GET("/employees", s.listEmployees)
		admin.POST("/employees", s.createEmployee)
		admin.DELETE("/employees/:id", s.deleteEmployee)

		admin.GET("/payments", s.listPayments)
		admin.GET("/dashboard", s.dashboard)
	}
}
