package domain

// VehicleConfig describes the driver's vehicle and its running costs.
// It is a singleton mutated wholesale by the settings screen; no history is
// kept. It feeds exactly two computations: the fuel-cost snapshot taken when
// a trip record is created, and the annual tax/maintenance proration in
// period summaries.
//
// The config is stored under one global key shared by every user. That is a
// known inconsistency carried over from the product (trip records are
// namespaced per user, the vehicle is not) — see DESIGN.md.
type VehicleConfig struct {
	Model              string  `json:"modelo"`
	Year               int     `json:"ano"`
	AverageConsumption float64 `json:"consumoMedio"`  // km per liter
	FuelPrice          float64 `json:"precoGasolina"` // currency per liter
	AnnualTax          float64 `json:"valorIPVA"`
	AnnualMaintenance  float64 `json:"gastoManutencao"`
}

// FuelCostFor returns the estimated fuel cost of driving km kilometers with
// this vehicle. A nil config or a non-positive consumption yields zero, the
// behavior of the trip form when no vehicle has been configured.
func (c *VehicleConfig) FuelCostFor(km float64) float64 {
	if c == nil || c.AverageConsumption <= 0 {
		return 0
	}
	liters := km / c.AverageConsumption
	return liters * c.FuelPrice
}
