package service

import (
	"fmt"
	"math"

	"github.com/bruber/driverlog/internal/domain"
)

// Planner constants. The ride length is the product's rule of thumb for an
// average app ride; the speed and idle factor approximate urban driving
// with time spent waiting between rides.
const (
	plannerAvgRideKm   = 10.0
	plannerAvgSpeedKmh = 30.0
	plannerIdleFactor  = 1.2
)

// GoalInput describes a daily earnings goal and the vehicle's running cost.
// EnergyPrice and Efficiency apply to whatever powers the vehicle: price
// per liter with km/l for combustion, price per kWh with km/kWh for
// electric — the arithmetic is identical.
type GoalInput struct {
	DailyGoal   float64 // target gross earnings per day
	ValuePerKm  float64 // payout per km driven
	WorkDays    int     // days worked in the planning period
	EnergyPrice float64 // currency per liter or per kWh
	Efficiency  float64 // km per liter or per kWh
}

// GoalEstimate is the planner's answer: what a day hitting the goal looks
// like, and the same figures scaled to the full planning period.
type GoalEstimate struct {
	KmNeeded    float64 // km to drive per day
	RidesNeeded int     // rides per day, assuming the average ride length
	HoursNeeded float64 // hours behind the wheel per day
	EnergyUsed  float64 // liters or kWh per day
	EnergyCost  float64 // fuel/energy spend per day
	GrossPerDay float64
	NetPerDay   float64
	NetPerHour  float64

	PeriodKm         float64
	PeriodEnergyUsed float64
	PeriodEnergyCost float64
	PeriodRides      int
	PeriodGross      float64
	PeriodNet        float64
}

// EstimateGoal computes how much driving a daily earnings goal requires and
// what it costs. Pure arithmetic; no stored state is consulted.
func EstimateGoal(in GoalInput) (GoalEstimate, error) {
	switch {
	case in.DailyGoal <= 0:
		return GoalEstimate{}, fmt.Errorf("%w: daily goal must be positive", domain.ErrValidation)
	case in.ValuePerKm <= 0:
		return GoalEstimate{}, fmt.Errorf("%w: value per km must be positive", domain.ErrValidation)
	case in.WorkDays <= 0:
		return GoalEstimate{}, fmt.Errorf("%w: work days must be positive", domain.ErrValidation)
	case in.EnergyPrice <= 0 || in.Efficiency <= 0:
		return GoalEstimate{}, fmt.Errorf("%w: energy price and efficiency must be positive", domain.ErrValidation)
	}

	km := in.DailyGoal / in.ValuePerKm
	rides := int(math.Ceil(km / plannerAvgRideKm))
	gross := km * in.ValuePerKm
	hours := km / plannerAvgSpeedKmh * plannerIdleFactor

	energy := km / in.Efficiency
	energyCost := energy * in.EnergyPrice
	net := gross - energyCost

	days := float64(in.WorkDays)
	return GoalEstimate{
		KmNeeded:    km,
		RidesNeeded: rides,
		HoursNeeded: hours,
		EnergyUsed:  energy,
		EnergyCost:  energyCost,
		GrossPerDay: gross,
		NetPerDay:   net,
		NetPerHour:  net / hours,

		PeriodKm:         km * days,
		PeriodEnergyUsed: energy * days,
		PeriodEnergyCost: energyCost * days,
		PeriodRides:      rides * in.WorkDays,
		PeriodGross:      gross * days,
		PeriodNet:        net * days,
	}, nil
}
