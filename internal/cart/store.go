package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const storageKey = "cart"

// Store is the buyer's cart. Every mutation is persisted before it becomes
// visible; if persisting fails the previous state stays in place.
type Store struct {
	storage  port.KeyValueStore
	notifier port.Notifier
	logger   *zap.Logger

	mu          sync.RWMutex
	cart        domain.Cart
	initialized bool
}

func NewStore(storage port.KeyValueStore, notifier port.Notifier, logger *zap.Logger) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		storage:  storage,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Load reads the persisted cart once. Later calls are no-ops until Reset.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	raw, err := s.storage.Get(ctx, storageKey)
	switch {
	case errors.Is(err, port.ErrNotFound):
		s.cart = domain.Cart{}
	case err != nil:
		return fmt.Errorf("storage.Get: %w", err)
	default:
		var c domain.Cart
		if err := json.Unmarshal(raw, &c); err != nil {
			s.logger.Warn("discarding corrupt cart", zap.Error(err))
			c = domain.Cart{}
		}
		s.cart = c
	}

	s.initialized = true
	return nil
}

func (s *Store) AddItem(ctx context.Context, service domain.Service, quantity int) error {
	if service.ID == "" {
		return fmt.Errorf("service id is empty")
	}
	if quantity <= 0 {
		quantity = 1
	}
	quantity = domain.ClampQuantity(quantity)

	err := s.mutate(ctx, func(c *domain.Cart) {
		if i := c.Find(service.ID); i >= 0 {
			c.Lines[i].Quantity = domain.AddQuantity(c.Lines[i].Quantity, quantity)
			return
		}
		c.Lines = append(c.Lines, service.Line(quantity))
	})
	if err != nil {
		s.notifier.Notify(port.LevelError, "Failed to add to cart")
		return fmt.Errorf("add item[%s]: %w", service.ID, err)
	}

	s.notifier.Notify(port.LevelSuccess, "Added to cart")
	return nil
}

func (s *Store) RemoveItem(ctx context.Context, serviceID string) error {
	if err := s.remove(ctx, serviceID); err != nil {
		s.notifier.Notify(port.LevelError, "Failed to remove item")
		return fmt.Errorf("remove item[%s]: %w", serviceID, err)
	}

	s.notifier.Notify(port.LevelSuccess, "Removed from cart")
	return nil
}

// UpdateQuantity replaces the quantity; zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, serviceID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, serviceID)
	}

	err := s.mutate(ctx, func(c *domain.Cart) {
		if i := c.Find(serviceID); i >= 0 {
			c.Lines[i].Quantity = domain.ClampQuantity(quantity)
		}
	})
	if err != nil {
		s.notifier.Notify(port.LevelError, "Failed to update quantity")
		return fmt.Errorf("update quantity[%s]: %w", serviceID, err)
	}

	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.mutate(ctx, func(c *domain.Cart) { c.Lines = nil }); err != nil {
		s.notifier.Notify(port.LevelError, "Failed to clear cart")
		return fmt.Errorf("clear: %w", err)
	}

	s.notifier.Notify(port.LevelSuccess, "Cart cleared")
	return nil
}

// RemoveLines drops the given lines without notifying; checkout reports on its own.
func (s *Store) RemoveLines(ctx context.Context, serviceIDs ...string) error {
	if len(serviceIDs) == 0 {
		return nil
	}

	err := s.mutate(ctx, func(c *domain.Cart) {
		c.Lines = slices.DeleteFunc(c.Lines, func(l domain.CartLine) bool {
			return slices.Contains(serviceIDs, l.ServiceID)
		})
	})
	if err != nil {
		return fmt.Errorf("remove lines: %w", err)
	}
	return nil
}

// Reset forgets the cart entirely, used on logout.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("storage.Delete: %w", err)
	}

	s.cart = domain.Cart{}
	s.initialized = false
	return nil
}

func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cart.Total()
}

func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.cart.Lines)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.cart.Lines)
}

func (s *Store) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Cart{Lines: slices.Clone(s.cart.Lines)}
}

func (s *Store) remove(ctx context.Context, serviceID string) error {
	return s.mutate(ctx, func(c *domain.Cart) {
		if i := c.Find(serviceID); i >= 0 {
			c.Lines = slices.Delete(c.Lines, i, i+1)
		}
	})
}

// mutate applies fn to a copy, persists the copy and only then swaps it in.
func (s *Store) mutate(ctx context.Context, fn func(c *domain.Cart)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Never overwrite a persisted cart that has not been read yet.
	if err := s.loadLocked(ctx); err != nil {
		return err
	}

	next := domain.Cart{Lines: slices.Clone(s.cart.Lines)}
	fn(&next)

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := s.storage.Set(ctx, storageKey, raw); err != nil {
		s.logger.Warn("cart not persisted, keeping previous state", zap.Error(err))
		return fmt.Errorf("storage.Set: %w", err)
	}

	s.cart = next
	s.initialized = true
	return nil
}
