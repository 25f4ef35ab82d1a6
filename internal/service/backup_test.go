package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/repo"
	"github.com/bruber/driverlog/internal/service"
	"github.com/bruber/driverlog/internal/storage"
)

type backupFixture struct {
	svc      *service.BackupService
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
	sessions repo.SessionRepo
	now      time.Time
}

func newBackupFixture(t *testing.T) *backupFixture {
	t.Helper()
	store := storage.NewMemory()
	f := &backupFixture{
		trips:    repo.NewTripRepo(store),
		vehicles: repo.NewVehicleRepo(store),
		sessions: repo.NewSessionRepo(store),
		now:      time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC),
	}
	f.svc = service.NewBackupService(f.trips, f.vehicles, f.sessions, func() time.Time { return f.now })
	return f
}

func (f *backupFixture) login(t *testing.T, userID, email string) {
	t.Helper()
	require.NoError(t, f.sessions.Put(context.Background(), domain.Session{
		UserID:    userID,
		Email:     email,
		ExpiresAt: f.now.Add(time.Hour).UnixMilli(),
	}))
}

// TestBackup_roundTrip: exporting and re-importing reproduces an identical
// record list — same ids, same field values — and the vehicle config.
func TestBackup_roundTrip(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture(t)
	f.login(t, "u1", "ana@example.com")

	cfg := domain.VehicleConfig{Model: "Onix", Year: 2020, AverageConsumption: 12, FuelPrice: 6, AnnualTax: 365, AnnualMaintenance: 3650}
	require.NoError(t, f.vehicles.Save(ctx, cfg))
	original := []domain.TripRecord{
		tripOn(t, "2024-06-10", 200, 40),
		tripOn(t, "2024-06-11", 150, 30),
	}
	require.NoError(t, f.trips.ReplaceAll(ctx, "u1", original))

	exported, err := f.svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bruber_backup_ana_2024-06-15.json", exported.Filename)
	assert.Equal(t, domain.BackupVersion, exported.Backup.Version)
	assert.Equal(t, "u1", exported.Backup.UserID)

	// Wipe, then restore from the exported bytes.
	require.NoError(t, f.trips.ReplaceAll(ctx, "u1", nil))

	result, err := f.svc.Import(ctx, exported.Data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Warnings)

	restored, err := f.trips.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, original, restored)

	gotCfg, err := f.vehicles.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, gotCfg)
	assert.Equal(t, cfg, *gotCfg)
}

func TestBackup_exportLoggedOut(t *testing.T) {
	f := newBackupFixture(t)

	exported, err := f.svc.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "bruber_backup_2024-06-15.json", exported.Filename)
	assert.Empty(t, exported.Backup.UserID)
	assert.Empty(t, exported.Backup.UserEmail)
	assert.NotNil(t, exported.Backup.Records)
	assert.Empty(t, exported.Backup.Records)
}

// TestBackup_importForeignBackupWarnsButProceeds: a backup made by another
// account is imported anyway, with a warning. Permissive on purpose.
func TestBackup_importForeignBackupWarnsButProceeds(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture(t)

	// Export as user u2.
	f.login(t, "u2", "bia@example.com")
	require.NoError(t, f.trips.ReplaceAll(ctx, "u2", []domain.TripRecord{tripOn(t, "2024-06-10", 100, 20)}))
	exported, err := f.svc.Export(ctx)
	require.NoError(t, err)

	// Import as user u1.
	f.login(t, "u1", "ana@example.com")
	result, err := f.svc.Import(ctx, exported.Data)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "another account")

	records, err := f.trips.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// TestBackup_importOverwritesWholesale: import replaces the record set, it
// does not merge.
func TestBackup_importOverwritesWholesale(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture(t)
	f.login(t, "u1", "ana@example.com")

	require.NoError(t, f.trips.ReplaceAll(ctx, "u1", []domain.TripRecord{
		tripOn(t, "2024-06-01", 1, 0),
		tripOn(t, "2024-06-02", 2, 0),
	}))

	result, err := f.svc.Import(ctx, []byte(`{"corridas":[],"veiculoConfig":null,"timestamp":0,"versao":"1.0"}`))
	require.NoError(t, err)
	assert.Zero(t, result.Imported)

	records, err := f.trips.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBackup_importRejectsBadShape(t *testing.T) {
	ctx := context.Background()
	f := newBackupFixture(t)

	for name, raw := range map[string]string{
		"not json":          `{definitely not json`,
		"records not array": `{"corridas": 42}`,
		"records missing":   `{"veiculoConfig": null, "versao": "1.0"}`,
		"records null":      `{"corridas": null}`,
	} {
		_, err := f.svc.Import(ctx, []byte(raw))
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}
}
