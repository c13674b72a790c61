package token

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service issues, authenticates and revokes bearer tokens.
type Service struct {
	signer *Signer
	store  *Store
	ttl    time.Duration
	now    func() time.Time
}

func NewService(signer *Signer, store *Store, ttl time.Duration) *Service {
	return &Service{signer: signer, store: store, ttl: ttl, now: time.Now}
}

// Issued 签发结果
type Issued struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// Issue 签发令牌并登记
func (s *Service) Issue(ctx context.Context, userID uint) (*Issued, error) {
	id := uuid.NewString()
	now := s.now()

	signed, err := s.signer.Sign(id, userID, now, s.ttl)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, id, userID, s.ttl); err != nil {
		return nil, err
	}
	return &Issued{Token: signed, ID: id, ExpiresAt: now.Add(s.ttl)}, nil
}

// Authenticate verifies the signature first, then that the token is still registered.
func (s *Service) Authenticate(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.signer.Parse(raw)
	if err != nil {
		return nil, err
	}

	owner, err := s.store.Lookup(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if owner != claims.UserID {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) Revoke(ctx context.Context, claims *Claims) error {
	return s.store.Revoke(ctx, claims.ID, claims.UserID)
}

func (s *Service) RevokeAllForUser(ctx context.Context, userID uint) error {
	return s.store.RevokeAllForUser(ctx, userID)
}
