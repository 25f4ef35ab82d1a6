package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/repo"
	"github.com/bruber/driverlog/internal/storage"
	"github.com/bruber/driverlog/testutil"
)

func rec(id, date string) domain.TripRecord {
	d, _ := domain.ParseDate(date)
	return domain.TripRecord{
		ID:            id,
		Date:          d,
		HoursWorked:   8,
		DistanceKm:    120,
		FuelCost:      60,
		TripCount:     10,
		GrossEarnings: 250,
	}
}

func TestTripRepo_ListEmpty(t *testing.T) {
	r := repo.NewTripRepo(storage.NewMemory())

	records, err := r.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTripRepo_CreateAndList(t *testing.T) {
	ctx := context.Background()
	r := repo.NewTripRepo(storage.NewMemory())

	_, err := r.Create(ctx, "u1", rec("a", "2024-01-01"))
	require.NoError(t, err)
	_, err = r.Create(ctx, "u1", rec("b", "2024-01-02"))
	require.NoError(t, err)

	records, err := r.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
}

// TestTripRepo_UserNamespacing: records created for one user must be
// invisible to another and to the anonymous list.
func TestTripRepo_UserNamespacing(t *testing.T) {
	ctx := context.Background()
	r := repo.NewTripRepo(storage.NewMemory())

	_, err := r.Create(ctx, "u1", rec("a", "2024-01-01"))
	require.NoError(t, err)

	for _, other := range []string{"u2", ""} {
		records, err := r.List(ctx, other)
		require.NoError(t, err)
		assert.Empty(t, records, "user %q", other)
	}
}

func TestTripRepo_Update_replacesOnlyTarget(t *testing.T) {
	ctx := context.Background()
	r := repo.NewTripRepo(storage.NewMemory())

	_, err := r.Create(ctx, "u1", rec("a", "2024-01-01"))
	require.NoError(t, err)
	_, err = r.Create(ctx, "u1", rec("b", "2024-01-02"))
	require.NoError(t, err)

	changed := rec("a", "2024-01-01")
	changed.GrossEarnings = 999
	_, err = r.Update(ctx, "u1", changed)
	require.NoError(t, err)

	records, err := r.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, float64(999), records[0].GrossEarnings)
	assert.Equal(t, rec("b", "2024-01-02"), records[1])
}

func TestTripRepo_Update_missing(t *testing.T) {
	r := repo.NewTripRepo(storage.NewMemory())

	_, err := r.Update(context.Background(), "u1", rec("ghost", "2024-01-01"))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete(t *testing.T) {
	ctx := context.Background()
	r := repo.NewTripRepo(storage.NewMemory())

	_, err := r.Create(ctx, "u1", rec("a", "2024-01-01"))
	require.NoError(t, err)
	_, err = r.Create(ctx, "u1", rec("b", "2024-01-02"))
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, "u1", "a"))

	records, err := r.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].ID)

	require.ErrorIs(t, r.Delete(ctx, "u1", "a"), domain.ErrNotFound)
}

func TestTripRepo_GetByID(t *testing.T) {
	ctx := context.Background()
	r := repo.NewTripRepo(storage.NewMemory())

	_, err := r.Create(ctx, "u1", rec("a", "2024-01-01"))
	require.NoError(t, err)

	got, err := r.GetByID(ctx, "u1", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	_, err = r.GetByID(ctx, "u1", "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// TestTripRepo_SafetyCopyFallback: when the primary list vanishes, List must
// recover from the safety copy written on the last save.
func TestTripRepo_SafetyCopyFallback(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	r := repo.NewTripRepo(store)

	_, err := r.Create(ctx, "u1", rec("a", "2024-01-01"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "corridas_u1"))

	records, err := r.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].ID)
}

// TestTripRepo_MalformedListFallsBackEmpty: a corrupt stored value behaves
// like missing data, never like an error.
func TestTripRepo_MalformedListFallsBackEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Put(ctx, "corridas_u1", []byte("{not json")))
	require.NoError(t, store.Put(ctx, "corridas_copia_seguranca_u1", []byte("{not json")))

	records, err := repo.NewTripRepo(store).List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestTripRepo_BoltRoundTrip runs the basic CRUD cycle against the real
// file-backed store, including a reopen-free persistence check of the wire
// field names.
func TestTripRepo_BoltRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewBolt(t)
	r := repo.NewTripRepo(store)

	created, err := r.Create(ctx, "u1", rec("a", "2024-06-15"))
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2024, time.June, 15), created.Date)

	raw, ok, err := store.Get(ctx, "corridas_u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"data":"2024-06-15"`)
	assert.Contains(t, string(raw), `"ganhoBruto":250`)

	records, err := r.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, created, records[0])
}
