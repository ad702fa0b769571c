package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/domain"
	"storefront/internal/logger"
	sessionrepo "storefront/internal/repository/session"
)

var ErrInvalidToken = errors.New("invalid session token")

// Service issues opaque browser session tokens. A session owns one cart
// slot and one wishlist slot.
type Service struct {
	repo   sessionrepo.Repository
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func New(repo sessionrepo.Repository, ttl time.Duration, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{repo: repo, ttl: ttl, now: time.Now, logger: log}
}

func (s *Service) Issue(ctx context.Context) (*sessionrepo.Session, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	sess := sessionrepo.Session{Token: token, ExpiresAt: s.now().Add(s.ttl)}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

// Validate returns ErrInvalidToken for unknown or expired tokens. Expired
// sessions are deleted along with their slots.
func (s *Service) Validate(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	sess, err := s.repo.Get(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if s.now().After(sess.ExpiresAt) {
		if err := s.repo.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("session: delete expired failed", "error", err)
		}
		return ErrInvalidToken
	}
	return nil
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}

// CartKey and WishlistKey name the storage slots owned by a session.
func CartKey(token string) string     { return token + ":cart" }
func WishlistKey(token string) string { return token + ":wishlist" }

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
