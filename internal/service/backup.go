package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/repo"
)

// ExportResult is a backup ready to be written to disk: the document, its
// JSON encoding, and a suggested filename.
type ExportResult struct {
	Backup   domain.Backup
	Data     []byte
	Filename string
}

// ImportResult reports what an import did. Warnings are non-blocking
// findings (e.g. the backup belongs to a different account); the import
// proceeds regardless.
type ImportResult struct {
	Imported int
	Warnings []string
}

// BackupService exports and imports the full data set as a single JSON
// document.
type BackupService struct {
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
	sessions repo.SessionRepo
	now      func() time.Time
}

// NewBackupService constructs a BackupService. now may be nil, in which
// case time.Now is used; tests pass a fixed clock.
func NewBackupService(trips repo.TripRepo, vehicles repo.VehicleRepo, sessions repo.SessionRepo, now func() time.Time) *BackupService {
	if now == nil {
		now = time.Now
	}
	return &BackupService{trips: trips, vehicles: vehicles, sessions: sessions, now: now}
}

// currentUser returns the id and email of the logged-in user, or empty
// strings when no valid session exists. Backups made while logged out are
// anonymous and carry no owner metadata.
func (s *BackupService) currentUser(ctx context.Context) (id, email string) {
	session, ok, err := s.sessions.Get(ctx)
	if err != nil || !ok || session.Expired(s.now()) {
		return "", ""
	}
	return session.UserID, session.Email
}

// Export assembles the backup document for the current user's data.
func (s *BackupService) Export(ctx context.Context) (ExportResult, error) {
	userID, email := s.currentUser(ctx)

	records, err := s.trips.List(ctx, userID)
	if err != nil {
		return ExportResult{}, fmt.Errorf("service.BackupService.Export: %w", err)
	}
	if records == nil {
		records = []domain.TripRecord{}
	}
	cfg, err := s.vehicles.Get(ctx)
	if err != nil {
		return ExportResult{}, fmt.Errorf("service.BackupService.Export: %w", err)
	}

	now := s.now()
	backup := domain.Backup{
		Records:   records,
		Vehicle:   cfg,
		Timestamp: now.UnixMilli(),
		Version:   domain.BackupVersion,
		UserID:    userID,
		UserEmail: email,
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return ExportResult{}, fmt.Errorf("service.BackupService.Export: encode: %w", err)
	}

	return ExportResult{
		Backup:   backup,
		Data:     data,
		Filename: backupFilename(email, now),
	}, nil
}

// Import replaces the current user's record set with the one in raw, after
// shape validation. A backup written by a different account is imported
// anyway, with a warning. The vehicle configuration is overwritten only
// when the backup carries one.
func (s *BackupService) Import(ctx context.Context, raw []byte) (ImportResult, error) {
	var backup domain.Backup
	if err := json.Unmarshal(raw, &backup); err != nil {
		return ImportResult{}, fmt.Errorf("service.BackupService.Import: %w: not a valid backup file", domain.ErrValidation)
	}
	if backup.Records == nil {
		return ImportResult{}, fmt.Errorf("service.BackupService.Import: %w: backup has no record list", domain.ErrValidation)
	}

	userID, _ := s.currentUser(ctx)

	var warnings []string
	if backup.UserID != "" && userID != "" && backup.UserID != userID {
		warnings = append(warnings, fmt.Sprintf("backup belongs to another account (%s); importing anyway", backup.UserEmail))
	}

	if err := s.trips.ReplaceAll(ctx, userID, backup.Records); err != nil {
		return ImportResult{}, fmt.Errorf("service.BackupService.Import: %w", err)
	}
	if backup.Vehicle != nil {
		if err := s.vehicles.Save(ctx, *backup.Vehicle); err != nil {
			return ImportResult{}, fmt.Errorf("service.BackupService.Import: %w", err)
		}
	}

	return ImportResult{Imported: len(backup.Records), Warnings: warnings}, nil
}

// backupFilename suggests a download name: the email's local part (when
// logged in) plus the export date.
func backupFilename(email string, now time.Time) string {
	date := domain.DateOf(now).String()
	if email == "" {
		return fmt.Sprintf("bruber_backup_%s.json", date)
	}
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	return fmt.Sprintf("bruber_backup_%s_%s.json", local, date)
}
