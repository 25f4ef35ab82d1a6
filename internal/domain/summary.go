package domain

// FinancialSummary is the aggregated financial view of a filtered set of
// trip records. GrossEarnings and FuelCost are straight sums; the
// maintenance and tax figures are annual costs prorated by record count
// (see service/report.go for the proration rule).
type FinancialSummary struct {
	GrossEarnings   float64 `json:"grossEarnings"`
	FuelCost        float64 `json:"fuelCost"`
	MaintenanceCost float64 `json:"maintenanceCost"`
	TaxCost         float64 `json:"taxCost"`
	OtherCosts      float64 `json:"otherCosts"`
	NetEarnings     float64 `json:"netEarnings"`
}
