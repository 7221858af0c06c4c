// Package otp issues short-lived numeric login codes and keeps them in a
// Store until they are used or expire.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const codeDigits = 6

// Store keeps one pending code per subject. Implementations must expire codes
// after ttl.
type Store interface {
	Put(ctx context.Context, subject, code string, ttl time.Duration) error
	// Consume deletes the pending code for subject and reports true only when
	// it equals code. The compare and the delete happen atomically, so at
	// most one caller can consume a code. A wrong code leaves it in place.
	Consume(ctx context.Context, subject, code string) (bool, error)
}

type Service struct {
	store Store
	ttl   time.Duration
}

func NewService(store Store, ttl time.Duration) *Service {
	return &Service{store: store, ttl: ttl}
}

func (s *Service) TTL() time.Duration { return s.ttl }

// Issue generates a fresh code for subject, replacing any pending one.
func (s *Service) Issue(ctx context.Context, subject string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := s.store.Put(ctx, normalize(subject), code, s.ttl); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Verify reports whether code matches the pending code for subject. A matching
// code is consumed and cannot be used again.
func (s *Service) Verify(ctx context.Context, subject, code string) (bool, error) {
	if len(code) != codeDigits {
		return false, nil
	}
	ok, err := s.store.Consume(ctx, normalize(subject), code)
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return ok, nil
}

func generateCode() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

func normalize(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
