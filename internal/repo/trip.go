package repo

import (
	"context"
	"fmt"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/storage"
)

// TripRepo defines the persistence operations for trip records.
// The service layer depends on this interface, not the key-value
// implementation, which allows the service to be unit-tested with a mock.
//
// Records are stored per user as one JSON array; every mutation reads the
// full list, transforms it, and writes it back. There is no partial update,
// so concurrent writers from separate processes are last-write-wins — a
// documented limitation, not something this layer guards against.
type TripRepo interface {
	// List returns all of the user's records in stored order.
	List(ctx context.Context, userID string) ([]domain.TripRecord, error)

	// GetByID retrieves a single record. Returns domain.ErrNotFound if no
	// record with that ID exists.
	GetByID(ctx context.Context, userID, id string) (domain.TripRecord, error)

	// Create appends a new record and returns it as persisted.
	Create(ctx context.Context, userID string, rec domain.TripRecord) (domain.TripRecord, error)

	// Update replaces the record with rec.ID in place, leaving the rest of
	// the list untouched. Returns domain.ErrNotFound if the ID is absent.
	Update(ctx context.Context, userID string, rec domain.TripRecord) (domain.TripRecord, error)

	// Delete removes a record permanently. Returns domain.ErrNotFound if
	// the ID is absent.
	Delete(ctx context.Context, userID, id string) error

	// ReplaceAll overwrites the user's whole record set. Used by backup
	// import.
	ReplaceAll(ctx context.Context, userID string, records []domain.TripRecord) error
}

// kvTripRepo is the key-value implementation of TripRepo.
type kvTripRepo struct {
	store storage.Store
}

// NewTripRepo constructs a TripRepo backed by the provided store.
func NewTripRepo(s storage.Store) TripRepo {
	return &kvTripRepo{store: s}
}

// load reads the user's record list, falling back to the safety copy when
// the primary key is missing or unreadable.
func (r *kvTripRepo) load(ctx context.Context, userID string) ([]domain.TripRecord, error) {
	records, ok, err := loadJSON[[]domain.TripRecord](ctx, r.store, tripsKey(userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		records, _, err = loadJSON[[]domain.TripRecord](ctx, r.store, safetyKey(userID))
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// save writes the record list under the primary key and the safety copy.
func (r *kvTripRepo) save(ctx context.Context, userID string, records []domain.TripRecord) error {
	if records == nil {
		records = []domain.TripRecord{}
	}
	if err := saveJSON(ctx, r.store, tripsKey(userID), records); err != nil {
		return err
	}
	return saveJSON(ctx, r.store, safetyKey(userID), records)
}

func (r *kvTripRepo) List(ctx context.Context, userID string) ([]domain.TripRecord, error) {
	records, err := r.load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return records, nil
}

func (r *kvTripRepo) GetByID(ctx context.Context, userID, id string) (domain.TripRecord, error) {
	records, err := r.load(ctx, userID)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
}

func (r *kvTripRepo) Create(ctx context.Context, userID string, rec domain.TripRecord) (domain.TripRecord, error) {
	records, err := r.load(ctx, userID)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	records = append(records, rec)
	if err := r.save(ctx, userID, records); err != nil {
		return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return rec, nil
}

func (r *kvTripRepo) Update(ctx context.Context, userID string, rec domain.TripRecord) (domain.TripRecord, error) {
	records, err := r.load(ctx, userID)
	if err != nil {
		return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	for i := range records {
		if records[i].ID == rec.ID {
			records[i] = rec
			if err := r.save(ctx, userID, records); err != nil {
				return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
			}
			return rec, nil
		}
	}
	return domain.TripRecord{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
}

func (r *kvTripRepo) Delete(ctx context.Context, userID, id string) error {
	records, err := r.load(ctx, userID)
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	kept := records[:0:0]
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	if err := r.save(ctx, userID, kept); err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}

func (r *kvTripRepo) ReplaceAll(ctx context.Context, userID string, records []domain.TripRecord) error {
	if err := r.save(ctx, userID, records); err != nil {
		return fmt.Errorf("repo.TripRepo.ReplaceAll: %w", err)
	}
	return nil
}
