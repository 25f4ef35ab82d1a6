package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/storage"
)

// ResetTokenRepo persists password-reset tokens, keyed by the account email.
// Tokens live in one JSON object under a single key; at most one token per
// email, a new request replaces the old one.
type ResetTokenRepo interface {
	// Get returns the token issued for email. ok is false when none exists.
	Get(ctx context.Context, email string) (t domain.ResetToken, ok bool, err error)

	// Put stores the token for email, replacing any previous one.
	Put(ctx context.Context, email string, t domain.ResetToken) error

	// Delete removes the token for email. Used after a successful reset and
	// for expired tokens.
	Delete(ctx context.Context, email string) error
}

type kvResetTokenRepo struct {
	store storage.Store
}

// NewResetTokenRepo constructs a ResetTokenRepo backed by the provided store.
func NewResetTokenRepo(s storage.Store) ResetTokenRepo {
	return &kvResetTokenRepo{store: s}
}

func (r *kvResetTokenRepo) load(ctx context.Context) (map[string]domain.ResetToken, error) {
	tokens, ok, err := loadJSON[map[string]domain.ResetToken](ctx, r.store, keyResetTokens)
	if err != nil {
		return nil, err
	}
	if !ok || tokens == nil {
		tokens = make(map[string]domain.ResetToken)
	}
	return tokens, nil
}

func (r *kvResetTokenRepo) Get(ctx context.Context, email string) (domain.ResetToken, bool, error) {
	tokens, err := r.load(ctx)
	if err != nil {
		return domain.ResetToken{}, false, fmt.Errorf("repo.ResetTokenRepo.Get: %w", err)
	}
	t, ok := tokens[normalizeEmail(email)]
	return t, ok, nil
}

func (r *kvResetTokenRepo) Put(ctx context.Context, email string, t domain.ResetToken) error {
	tokens, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("repo.ResetTokenRepo.Put: %w", err)
	}
	tokens[normalizeEmail(email)] = t
	if err := saveJSON(ctx, r.store, keyResetTokens, tokens); err != nil {
		return fmt.Errorf("repo.ResetTokenRepo.Put: %w", err)
	}
	return nil
}

func (r *kvResetTokenRepo) Delete(ctx context.Context, email string) error {
	tokens, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("repo.ResetTokenRepo.Delete: %w", err)
	}
	delete(tokens, normalizeEmail(email))
	if err := saveJSON(ctx, r.store, keyResetTokens, tokens); err != nil {
		return fmt.Errorf("repo.ResetTokenRepo.Delete: %w", err)
	}
	return nil
}

// normalizeEmail lowercases the map key so token lookup matches the
// case-insensitive email handling used everywhere else.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
