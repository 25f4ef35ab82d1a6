package repo

import (
	"context"
	"fmt"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/storage"
)

// SessionRepo persists the single login session. There is at most one
// session at a time; logging in replaces it, logging out removes it.
type SessionRepo interface {
	// Get returns the current session. ok is false when none is stored or
	// the stored value is unreadable.
	Get(ctx context.Context) (s domain.Session, ok bool, err error)

	// Put stores s, replacing any current session.
	Put(ctx context.Context, s domain.Session) error

	// Clear removes the current session. Clearing when none exists is not
	// an error.
	Clear(ctx context.Context) error
}

type kvSessionRepo struct {
	store storage.Store
}

// NewSessionRepo constructs a SessionRepo backed by the provided store.
func NewSessionRepo(s storage.Store) SessionRepo {
	return &kvSessionRepo{store: s}
}

func (r *kvSessionRepo) Get(ctx context.Context) (domain.Session, bool, error) {
	s, ok, err := loadJSON[domain.Session](ctx, r.store, keySession)
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("repo.SessionRepo.Get: %w", err)
	}
	return s, ok, nil
}

func (r *kvSessionRepo) Put(ctx context.Context, s domain.Session) error {
	if err := saveJSON(ctx, r.store, keySession, s); err != nil {
		return fmt.Errorf("repo.SessionRepo.Put: %w", err)
	}
	return nil
}

func (r *kvSessionRepo) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, keySession); err != nil {
		return fmt.Errorf("repo.SessionRepo.Clear: %w", err)
	}
	return nil
}
