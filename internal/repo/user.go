package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/storage"
)

// UserRepo defines the persistence operations for user accounts.
// All accounts live in a single JSON array under one key; lookups scan it.
// Email comparison is case-insensitive everywhere.
type UserRepo interface {
	// List returns every registered account.
	List(ctx context.Context) ([]domain.UserAccount, error)

	// FindByEmail returns the account registered under email (any casing).
	// Returns domain.ErrNotFound when no such account exists.
	FindByEmail(ctx context.Context, email string) (domain.UserAccount, error)

	// FindByID returns the account with the given ID.
	// Returns domain.ErrNotFound when no such account exists.
	FindByID(ctx context.Context, id string) (domain.UserAccount, error)

	// Create appends a new account. Uniqueness is enforced by the service
	// layer, not here.
	Create(ctx context.Context, u domain.UserAccount) error

	// Update replaces the account with u.ID. Returns domain.ErrNotFound if
	// the ID is absent.
	Update(ctx context.Context, u domain.UserAccount) error
}

type kvUserRepo struct {
	store storage.Store
}

// NewUserRepo constructs a UserRepo backed by the provided store.
func NewUserRepo(s storage.Store) UserRepo {
	return &kvUserRepo{store: s}
}

func (r *kvUserRepo) List(ctx context.Context) ([]domain.UserAccount, error) {
	users, _, err := loadJSON[[]domain.UserAccount](ctx, r.store, keyUsers)
	if err != nil {
		return nil, fmt.Errorf("repo.UserRepo.List: %w", err)
	}
	return users, nil
}

func (r *kvUserRepo) FindByEmail(ctx context.Context, email string) (domain.UserAccount, error) {
	users, err := r.List(ctx)
	if err != nil {
		return domain.UserAccount{}, fmt.Errorf("repo.UserRepo.FindByEmail: %w", err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.UserAccount{}, fmt.Errorf("repo.UserRepo.FindByEmail: %w", domain.ErrNotFound)
}

func (r *kvUserRepo) FindByID(ctx context.Context, id string) (domain.UserAccount, error) {
	users, err := r.List(ctx)
	if err != nil {
		return domain.UserAccount{}, fmt.Errorf("repo.UserRepo.FindByID: %w", err)
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.UserAccount{}, fmt.Errorf("repo.UserRepo.FindByID: %w", domain.ErrNotFound)
}

func (r *kvUserRepo) Create(ctx context.Context, u domain.UserAccount) error {
	users, _, err := loadJSON[[]domain.UserAccount](ctx, r.store, keyUsers)
	if err != nil {
		return fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	users = append(users, u)
	if err := saveJSON(ctx, r.store, keyUsers, users); err != nil {
		return fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return nil
}

func (r *kvUserRepo) Update(ctx context.Context, u domain.UserAccount) error {
	users, _, err := loadJSON[[]domain.UserAccount](ctx, r.store, keyUsers)
	if err != nil {
		return fmt.Errorf("repo.UserRepo.Update: %w", err)
	}
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = u
			if err := saveJSON(ctx, r.store, keyUsers, users); err != nil {
				return fmt.Errorf("repo.UserRepo.Update: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("repo.UserRepo.Update: %w", domain.ErrNotFound)
}
