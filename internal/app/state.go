package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/auth"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/notify"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// Backend is the full REST surface the storefront uses.
type Backend interface {
	port.AuthBackend
	port.CheckoutBackend
	port.CouponBackend
}

type tokenAware interface {
	SetTokenSource(ts api.TokenSource)
}

// State is everything one storefront tab owns. It replaces global stores and is
// handed to handlers by reference.
type State struct {
	Session  *auth.Session
	Cart     *cart.Store
	Coupons  *checkout.Coupons
	Checkout *checkout.Orchestrator
	Notices  *notify.Buffer
	Currency currency.Unit

	logger *zap.Logger
}

func New(storage port.KeyValueStore, backend Backend, unit currency.Unit, logger *zap.Logger, opts ...checkout.Option) (*State, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	notices := notify.NewBuffer()
	notifier := notify.Tee(notify.Log(logger.Named("notify")), notices)

	session, err := auth.NewSession(storage, backend, notifier, logger.Named("session"))
	if err != nil {
		return nil, fmt.Errorf("auth.NewSession: %w", err)
	}

	store, err := cart.NewStore(storage, notifier, logger.Named("cart"))
	if err != nil {
		return nil, fmt.Errorf("cart.NewStore: %w", err)
	}

	coupons, err := checkout.NewCoupons(backend, notifier, logger.Named("coupons"))
	if err != nil {
		return nil, fmt.Errorf("checkout.NewCoupons: %w", err)
	}

	opts = append([]checkout.Option{checkout.WithLogger(logger.Named("checkout"))}, opts...)
	orchestrator, err := checkout.NewOrchestrator(store, session, coupons, backend, notifier, opts...)
	if err != nil {
		return nil, fmt.Errorf("checkout.NewOrchestrator: %w", err)
	}

	// The REST client reads its bearer token from this session.
	if ta, ok := backend.(tokenAware); ok {
		ta.SetTokenSource(session)
	}

	return &State{
		Session:  session,
		Cart:     store,
		Coupons:  coupons,
		Checkout: orchestrator,
		Notices:  notices,
		Currency: unit,
		logger:   logger,
	}, nil
}

// Init restores the session and the cart from storage.
func (s *State) Init(ctx context.Context) error {
	if err := s.Session.Init(ctx); err != nil {
		return fmt.Errorf("session.Init: %w", err)
	}
	if err := s.Cart.Load(ctx); err != nil {
		return fmt.Errorf("cart.Load: %w", err)
	}
	return nil
}

// Logout ends the session and forgets the cart and any applied coupon.
func (s *State) Logout(ctx context.Context) error {
	s.Coupons.Remove()

	err := errors.Join(s.Session.Logout(ctx), s.Cart.Reset(ctx))
	if err != nil {
		s.logger.Error("logout incomplete", zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
