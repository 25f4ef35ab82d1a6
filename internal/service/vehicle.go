package service

import (
	"context"
	"fmt"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/repo"
)

// VehicleService manages the vehicle configuration. The configuration is a
// singleton mutated wholesale by the settings screen.
type VehicleService struct {
	vehicles repo.VehicleRepo
}

// NewVehicleService constructs a VehicleService backed by the provided repo.
func NewVehicleService(vehicles repo.VehicleRepo) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

// Get returns the saved configuration, or nil when none has been saved yet.
func (s *VehicleService) Get(ctx context.Context) (*domain.VehicleConfig, error) {
	cfg, err := s.vehicles.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VehicleService.Get: %w", err)
	}
	return cfg, nil
}

// Save validates and overwrites the configuration.
func (s *VehicleService) Save(ctx context.Context, cfg domain.VehicleConfig) error {
	if err := validateVehicle(cfg); err != nil {
		return fmt.Errorf("service.VehicleService.Save: %w", err)
	}
	if err := s.vehicles.Save(ctx, cfg); err != nil {
		return fmt.Errorf("service.VehicleService.Save: %w", err)
	}
	return nil
}

func validateVehicle(cfg domain.VehicleConfig) error {
	if cfg.Model == "" {
		return fmt.Errorf("%w: model is required", domain.ErrValidation)
	}
	if cfg.Year < 1900 || cfg.Year > 2100 {
		return fmt.Errorf("%w: year %d is out of range", domain.ErrValidation, cfg.Year)
	}
	if cfg.AverageConsumption < 0 {
		return fmt.Errorf("%w: average consumption must not be negative", domain.ErrValidation)
	}
	if cfg.FuelPrice < 0 {
		return fmt.Errorf("%w: fuel price must not be negative", domain.ErrValidation)
	}
	if cfg.AnnualTax < 0 {
		return fmt.Errorf("%w: annual tax must not be negative", domain.ErrValidation)
	}
	if cfg.AnnualMaintenance < 0 {
		return fmt.Errorf("%w: annual maintenance must not be negative", domain.ErrValidation)
	}
	return nil
}
