package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bruber/driverlog/internal/domain"
	"github.com/bruber/driverlog/internal/repo"
)

// prorationBase is the divisor for prorating annual costs into a period
// share: annual cost / 365, scaled by record count.
const prorationBase = 365

// FilterPeriod returns the subset of records whose date falls within period,
// evaluated against now. The input order is preserved and the input slice is
// never mutated. Records with a missing or unparseable date are silently
// dropped — a data-quality concern, not a filter fault.
func FilterPeriod(records []domain.TripRecord, period domain.Period, now time.Time) []domain.TripRecord {
	out := make([]domain.TripRecord, 0, len(records))
	for _, rec := range records {
		if period.Contains(rec.Date, now) {
			out = append(out, rec)
		}
	}
	return out
}

// Summarize reduces an already-filtered record list plus an optional vehicle
// configuration into a financial summary.
//
// Gross earnings and fuel cost are straight sums. Maintenance and tax are
// the annual figures prorated by record count — not by elapsed days — with
// the divisor floored at one record, so an empty period still carries one
// day's share of fixed costs. A nil config zeroes the prorated costs but
// never the sums.
func Summarize(records []domain.TripRecord, cfg *domain.VehicleConfig) domain.FinancialSummary {
	var s domain.FinancialSummary
	for _, rec := range records {
		s.GrossEarnings += rec.GrossEarnings
		s.FuelCost += rec.FuelCost
	}

	n := float64(len(records))
	if n == 0 {
		n = 1
	}
	if cfg != nil {
		s.MaintenanceCost = cfg.AnnualMaintenance / prorationBase * n
		s.TaxCost = cfg.AnnualTax / prorationBase * n
	}

	s.OtherCosts = s.MaintenanceCost + s.TaxCost
	s.NetEarnings = s.GrossEarnings - s.FuelCost - s.OtherCosts
	return s
}

// Report is the result of running one period over a user's records:
// the matching records plus their financial summary.
type Report struct {
	Period  domain.Period           `json:"period"`
	Records []domain.TripRecord     `json:"records"`
	Summary domain.FinancialSummary `json:"summary"`
}

// ReportService produces period reports. Every report and dashboard screen
// is this service called with a different period.
type ReportService struct {
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
	now      func() time.Time
}

// NewReportService constructs a ReportService. now may be nil, in which case
// time.Now is used; tests pass a fixed clock.
func NewReportService(trips repo.TripRepo, vehicles repo.VehicleRepo, now func() time.Time) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{trips: trips, vehicles: vehicles, now: now}
}

// Report loads the user's records and vehicle configuration, filters by
// period, and aggregates.
func (s *ReportService) Report(ctx context.Context, userID string, period domain.Period) (Report, error) {
	records, err := s.trips.List(ctx, userID)
	if err != nil {
		return Report{}, fmt.Errorf("service.ReportService.Report: %w", err)
	}
	cfg, err := s.vehicles.Get(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("service.ReportService.Report: %w", err)
	}

	filtered := FilterPeriod(records, period, s.now())
	return Report{
		Period:  period,
		Records: filtered,
		Summary: Summarize(filtered, cfg),
	}, nil
}
