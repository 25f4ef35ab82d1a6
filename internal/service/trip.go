// Package service contains the business logic for the driver logbook.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No key naming or JSON mapping lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/repo"
)

// TripInput carries the user-editable fields of a trip record. FuelCost is
// deliberately absent: it is derived at creation time and immutable after.
type TripInput struct {
	Date          domain.Date
	HoursWorked   float64
	DistanceKm    float64
	TripCount     int
	GrossEarnings float64
}

// validate applies the form-level constraints. All failures wrap
// domain.ErrValidation.
func (in TripInput) validate() error {
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if in.HoursWorked < 0 {
		return fmt.Errorf("%w: hours worked must not be negative", domain.ErrValidation)
	}
	if in.DistanceKm < 0 {
		return fmt.Errorf("%w: distance must not be negative", domain.ErrValidation)
	}
	if in.TripCount < 0 {
		return fmt.Errorf("%w: trip count must not be negative", domain.ErrValidation)
	}
	if in.GrossEarnings < 0 {
		return fmt.Errorf("%w: gross earnings must not be negative", domain.ErrValidation)
	}
	return nil
}

// TripService implements the record-keeping operations for trip records.
type TripService struct {
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
}

// NewTripService constructs a TripService backed by the provided repos.
// The vehicle repo supplies the configuration used for the fuel-cost
// snapshot at creation time.
func NewTripService(trips repo.TripRepo, vehicles repo.VehicleRepo) *TripService {
	return &TripService{trips: trips, vehicles: vehicles}
}

// Create validates and persists a new trip record. The fuel cost is
// computed once here, from the vehicle configuration as it stands right
// now, and stored on the record; later configuration changes never touch it.
func (s *TripService) Create(ctx context.Context, userID string, in TripInput) (domain.TripRecord, error) {
	if err := in.validate(); err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	cfg, err := s.vehicles.Get(ctx)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	rec := domain.TripRecord{
		ID:            uuid.NewString(),
		Date:          in.Date,
		HoursWorked:   in.HoursWorked,
		DistanceKm:    in.DistanceKm,
		FuelCost:      cfg.FuelCostFor(in.DistanceKm),
		TripCount:     in.TripCount,
		GrossEarnings: in.GrossEarnings,
	}

	created, err := s.trips.Create(ctx, userID, rec)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// Update validates and re-submits an existing record. Only the record with
// the given id changes; its fuel-cost snapshot is carried over unchanged,
// never recomputed from the current vehicle configuration.
func (s *TripService) Update(ctx context.Context, userID, id string, in TripInput) (domain.TripRecord, error) {
	if err := in.validate(); err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	existing, err := s.trips.GetByID(ctx, userID, id)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	rec := domain.TripRecord{
		ID:            existing.ID,
		Date:          in.Date,
		HoursWorked:   in.HoursWorked,
		DistanceKm:    in.DistanceKm,
		FuelCost:      existing.FuelCost,
		TripCount:     in.TripCount,
		GrossEarnings: in.GrossEarnings,
	}

	updated, err := s.trips.Update(ctx, userID, rec)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Get returns a single record by id.
func (s *TripService) Get(ctx context.Context, userID, id string) (domain.TripRecord, error) {
	rec, err := s.trips.GetByID(ctx, userID, id)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return rec, nil
}

// List returns all of the user's records, most recent date first.
// Records sharing a date keep their stored relative order.
func (s *TripService) List(ctx context.Context, userID string) ([]domain.TripRecord, error) {
	records, err := s.trips.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[j].Date.Before(records[i].Date)
	})
	return records, nil
}

// Delete removes a record permanently. There is no soft delete.
func (s *TripService) Delete(ctx context.Context, userID, id string) error {
	if err := s.trips.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}
