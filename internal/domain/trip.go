// Package domain contains the core data types for the driver logbook.
// This package has zero external dependencies and is imported by every other
// internal package (storage, repo, service, cmd).
package domain

// TripRecord is one logged driving session: a day (or part of one) spent
// working, with hours, distance, costs, and earnings.
//
// FuelCost is a snapshot computed from the vehicle configuration at the
// moment the record is created. It is stored, not derived on read, so later
// changes to the configuration never rewrite history.
//
// JSON field names follow the persisted data layout and the backup file
// format, so files exported by any version of the product import cleanly.
type TripRecord struct {
	ID            string  `json:"id"`
	Date          Date    `json:"data"`
	HoursWorked   float64 `json:"horasTrabalhadas"`
	DistanceKm    float64 `json:"kmRodados"`
	FuelCost      float64 `json:"gastoGasolina"`
	TripCount     int     `json:"quantidadeViagens"`
	GrossEarnings float64 `json:"ganhoBruto"`
}
