package repo

import (
	"context"
	"fmt"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/storage"
)

// VehicleRepo persists the vehicle configuration. The key is global — not
// namespaced per user — matching the shipped data layout (see DESIGN.md).
type VehicleRepo interface {
	// Get returns the saved configuration, or nil when none exists.
	Get(ctx context.Context) (*domain.VehicleConfig, error)

	// Save overwrites the configuration wholesale.
	Save(ctx context.Context, cfg domain.VehicleConfig) error
}

type kvVehicleRepo struct {
	store storage.Store
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided store.
func NewVehicleRepo(s storage.Store) VehicleRepo {
	return &kvVehicleRepo{store: s}
}

func (r *kvVehicleRepo) Get(ctx context.Context) (*domain.VehicleConfig, error) {
	cfg, ok, err := loadJSON[domain.VehicleConfig](ctx, r.store, keyVehicle)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.Get: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (r *kvVehicleRepo) Save(ctx context.Context, cfg domain.VehicleConfig) error {
	if err := saveJSON(ctx, r.store, keyVehicle, cfg); err != nil {
		return fmt.Errorf("repo.VehicleRepo.Save: %w", err)
	}
	return nil
}
