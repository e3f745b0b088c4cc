package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/auth"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

const (
	OrdersRoute = "/my/orders"

	// DefaultServiceTime is the time of day every cart booking is scheduled for.
	DefaultServiceTime = "10:00"

	DefaultAddress = "123 Main Street"
	DefaultCity    = "Default City"
	DefaultPincode = "000000"
)

var (
	ErrNotAuthenticated = errors.New("checkout requires login")
	ErrEmptyCart        = errors.New("cart is empty")

	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// Buyer is the session as seen by checkout.
type Buyer interface {
	IsAuthenticated() bool
	User() (domain.User, bool)
}

type LineFailure struct {
	ServiceID   string
	ServiceName string
	Err         error
}

type Result struct {
	Bookings []domain.Booking
	Failures []LineFailure
	// Redirect is the route the buyer should be sent to, empty to stay put.
	Redirect string
}

// Error is returned when every line of the cart failed.
type Error struct {
	Failures []LineFailure
}

func (e *Error) Error() string {
	if len(e.Failures) == 0 {
		return "checkout failed"
	}
	return fmt.Sprintf("checkout failed for %d line(s): %s", len(e.Failures), e.Failures[0].Err)
}

func (e *Error) Unwrap() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[0].Err
}

type Orchestrator struct {
	cart     *cart.Store
	buyer    Buyer
	coupons  *Coupons
	backend  port.CheckoutBackend
	notifier port.Notifier
	logger   *zap.Logger
	now      func() time.Time

	// inFlight is held for the whole of one Checkout.
	inFlight atomic.Bool
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator wires checkout. coupons may be nil when discounts are not offered.
func NewOrchestrator(c *cart.Store, buyer Buyer, coupons *Coupons, backend port.CheckoutBackend, notifier port.Notifier, opts ...Option) (*Orchestrator, error) {
	if c == nil {
		return nil, fmt.Errorf("cart is nil")
	}
	if buyer == nil {
		return nil, fmt.Errorf("buyer is nil")
	}
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is nil")
	}

	o := &Orchestrator{
		cart:     c,
		buyer:    buyer,
		coupons:  coupons,
		backend:  backend,
		notifier: notifier,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Checkout books every cart line concurrently and waits for all of them.
// Booked lines leave the cart; failed lines stay for a later retry.
func (o *Orchestrator) Checkout(ctx context.Context) (Result, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		o.notifier.Notify(port.LevelInfo, "Your order is already being placed")
		return Result{}, ErrCheckoutInProgress
	}
	defer o.inFlight.Store(false)

	user, ok := o.buyer.User()
	if !ok || !o.buyer.IsAuthenticated() {
		o.notifier.Notify(port.LevelError, "Please login to place an order")
		return Result{Redirect: auth.LoginRoute}, ErrNotAuthenticated
	}

	lines := o.cart.Lines()
	if len(lines) == 0 {
		o.notifier.Notify(port.LevelError, "Your cart is empty")
		return Result{}, ErrEmptyCart
	}

	couponCode := o.couponCode(domain.Cart{Lines: lines})

	// In-flight bookings are not abandoned when the caller goes away.
	ctx = context.WithoutCancel(ctx)

	outcomes := o.submitAll(ctx, lines, user, couponCode)

	var (
		result Result
		booked []string
	)
	for i, out := range outcomes {
		if out.err != nil {
			o.logger.Warn("cart line not booked",
				zap.String("service_id", lines[i].ServiceID), zap.Error(out.err))
			result.Failures = append(result.Failures, LineFailure{
				ServiceID:   lines[i].ServiceID,
				ServiceName: lines[i].ServiceName,
				Err:         out.err,
			})
			continue
		}
		result.Bookings = append(result.Bookings, out.booking)
		booked = append(booked, lines[i].ServiceID)
	}

	if len(result.Bookings) == 0 {
		message := api.UserMessage(result.Failures[0].Err)
		if message == "" {
			message = "Failed to create orders"
		}
		o.notifier.Notify(port.LevelError, message)
		return result, &Error{Failures: result.Failures}
	}

	if err := o.cart.RemoveLines(ctx, booked...); err != nil {
		o.logger.Error("booked lines left in cart", zap.Strings("service_ids", booked), zap.Error(err))
		o.notifier.Notify(port.LevelError, "Orders were placed but the cart could not be updated")
		return result, fmt.Errorf("cart.RemoveLines: %w", err)
	}

	if len(result.Failures) > 0 {
		o.notifier.Notify(port.LevelSuccess, fmt.Sprintf("%d order(s) placed successfully", len(result.Bookings)))
		o.notifier.Notify(port.LevelError, fmt.Sprintf("%d order(s) failed", len(result.Failures)))
		return result, nil
	}

	if o.coupons != nil {
		o.coupons.Remove()
	}
	o.notifier.Notify(port.LevelSuccess, fmt.Sprintf("Successfully placed %d order(s)!", len(result.Bookings)))
	result.Redirect = OrdersRoute
	return result, nil
}

// couponCode returns the code to forward on every booking, or nil. The code is
// not validated again here; the backend decides per booking.
func (o *Orchestrator) couponCode(c domain.Cart) *string {
	if o.coupons == nil {
		return nil
	}
	if _, attached := o.coupons.Applied(); !attached {
		return nil
	}

	current, ok := o.coupons.Current(c.Total())
	if !ok {
		o.notifier.Notify(port.LevelInfo, "Coupon removed because your cart changed. Please apply it again.")
		return nil
	}

	code := current.Code
	return &code
}

type outcome struct {
	booking domain.Booking
	err     error
}

func (o *Orchestrator) submitAll(ctx context.Context, lines []domain.CartLine, user domain.User, couponCode *string) []outcome {
	outcomes := make([]outcome, len(lines))

	var wg sync.WaitGroup
	for i, line := range lines {
		wg.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = outcome{err: fmt.Errorf("booking panicked: %v", r)}
				}
			}()
			outcomes[i] = o.submit(ctx, line, user, couponCode)
		})
	}
	wg.Wait()

	return outcomes
}

func (o *Orchestrator) submit(ctx context.Context, line domain.CartLine, user domain.User, couponCode *string) outcome {
	packages, err := o.backend.ServicePackages(ctx, line.ServiceID)
	if err != nil {
		return outcome{err: err}
	}

	pkg := domain.StandardPackage(line.ServiceID, line.Price)
	if len(packages) > 0 {
		pkg = packages[0]
	}

	booking, err := o.backend.CreateBooking(ctx, o.bookingRequest(line, pkg, user, couponCode))
	if err != nil {
		return outcome{err: err}
	}

	return outcome{booking: booking}
}

func (o *Orchestrator) bookingRequest(line domain.CartLine, pkg domain.Package, user domain.User, couponCode *string) domain.BookingRequest {
	req := domain.BookingRequest{
		ServiceID:      line.ServiceID,
		ServiceDate:    o.now().AddDate(0, 0, 1).Format(domain.DateLayout),
		ServiceTime:    DefaultServiceTime,
		ServiceAddress: orDefault(user.Address, DefaultAddress),
		City:           orDefault(user.City, DefaultCity),
		Pincode:        orDefault(user.Pincode, DefaultPincode),
		CustomerNote:   fmt.Sprintf("Order from cart - Quantity: %d", line.Quantity),
		CouponCode:     couponCode,
	}

	if !pkg.Synthetic && pkg.ID != "" {
		id := pkg.ID
		req.PackageID = &id
	}

	return req
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
