package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/storage"
	"go.uber.org/zap"
)

const (
	tokenKey = "accessToken"
	userKey  = "user"

	SessionExpiredMessage = "Your session has expired. Please log in again."
)

var ErrInvalidToken = errors.New("token is not usable")

// Session is the authenticated buyer, persisted in the key-value store.
type Session struct {
	store    port.KeyValueStore
	backend  port.AuthBackend
	notifier port.Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.RWMutex
	token string
	user  *domain.User
}

func NewSession(store port.KeyValueStore, backend port.AuthBackend, notifier port.Notifier, logger *zap.Logger) (*Session, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		store:    store,
		backend:  backend,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Init restores a previously persisted session. Unusable tokens are discarded.
func (s *Session) Init(ctx context.Context) error {
	token, err := s.store.Get(ctx, tokenKey)
	if errors.Is(err, port.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store.Get[%s]: %w", tokenKey, err)
	}

	rawUser, err := s.store.Get(ctx, userKey)
	if errors.Is(err, port.ErrNotFound) {
		return s.clear(ctx)
	}
	if err != nil {
		return fmt.Errorf("store.Get[%s]: %w", userKey, err)
	}

	var user domain.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		s.logger.Warn("discarding corrupt persisted user", zap.Error(err))
		return s.clear(ctx)
	}

	if err := checkToken(string(token), s.now()); err != nil {
		s.logger.Info("discarding persisted token", zap.Error(err))
		return s.clear(ctx)
	}

	s.mu.Lock()
	s.token = string(token)
	s.user = &user
	s.mu.Unlock()

	return nil
}

func (s *Session) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	result, err := s.backend.Login(ctx, creds)
	if err != nil {
		return domain.User{}, err
	}

	return s.establish(ctx, result)
}

func (s *Session) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	result, err := s.backend.Register(ctx, reg)
	if err != nil {
		return domain.User{}, err
	}

	return s.establish(ctx, result)
}

func (s *Session) establish(ctx context.Context, result domain.AuthResult) (domain.User, error) {
	if result.Token == "" {
		return domain.User{}, fmt.Errorf("backend returned empty token")
	}

	rawUser, err := json.Marshal(result.User)
	if err != nil {
		return domain.User{}, fmt.Errorf("json.Marshal: %w", err)
	}

	err = storage.Atomically(ctx, s.store, func(store port.KeyValueStore) error {
		if err := store.Set(ctx, tokenKey, []byte(result.Token)); err != nil {
			return fmt.Errorf("store.Set[%s]: %w", tokenKey, err)
		}
		if err := store.Set(ctx, userKey, rawUser); err != nil {
			return fmt.Errorf("store.Set[%s]: %w", userKey, err)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	user := result.User

	s.mu.Lock()
	s.token = result.Token
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *Session) Logout(ctx context.Context) error {
	return s.clear(ctx)
}

// Invalidate implements api.TokenSource.
func (s *Session) Invalidate(ctx context.Context, refresh bool) {
	if err := s.clear(ctx); err != nil {
		s.logger.Error("failed to clear session", zap.Error(err))
	}
	if refresh {
		s.notifier.Notify(port.LevelError, SessionExpiredMessage)
	}
}

func (s *Session) clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	return storage.Atomically(ctx, s.store, func(store port.KeyValueStore) error {
		return errors.Join(store.Delete(ctx, tokenKey), store.Delete(ctx, userKey))
	})
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token != "" && s.user != nil
}

// User returns the signed-in user, false when signed out.
func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Session) HasRole(role domain.Role) bool {
	user, ok := s.User()
	return ok && user.Role == role
}

var _ api.TokenSource = (*Session)(nil)

// checkToken inspects the claims without verifying the signature; the backend
// remains the authority, this only drops tokens that would certainly be rejected.
func checkToken(token string, now time.Time) error {
	if token == "" {
		return fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		// Opaque tokens are left for the backend to judge.
		return nil
	}

	if !claims.VerifyExpiresAt(now.Unix(), false) {
		return fmt.Errorf("%w: expired", ErrInvalidToken)
	}

	switch userID := claims["userId"].(type) {
	case nil:
		return fmt.Errorf("%w: user id claim missing", ErrInvalidToken)
	case string:
		if userID == "" {
			return fmt.Errorf("%w: user id claim missing", ErrInvalidToken)
		}
	}

	return nil
}
