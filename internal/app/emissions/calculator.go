// Package emissions computes a carbon footprint from consumption inputs.
//
// The calculator is a pure function: a weighted sum of named quantities
// against a fixed factor table. It never mutates account state — writing
// the result into a ledger account is a separate, explicit step owned by
// the ledger service.
package emissions

import (
	"fmt"

	"github.com/ecosphere-platform/ecosphere/internal/domain"
)

// Factors is the per-unit emission factor table in kg CO2e.
// Factors are configuration, documented per category, and not editable at
// runtime. Defaults follow the canonical platform values; older deployments
// shipped slightly different tables (0.475/2.75/0.25/0.10/0.15) and can
// restore them via config.
type Factors struct {
	ElectricityPerKWh  float64 `toml:"electricity_per_kwh"`
	NaturalGasPerTherm float64 `toml:"natural_gas_per_therm"`
	CarPerKm           float64 `toml:"car_per_km"`
	TransitPerKm       float64 `toml:"transit_per_km"`
	FlightPerKm        float64 `toml:"flight_per_km"`
}

// DefaultFactors returns the canonical emission factor table.
func DefaultFactors() Factors {
	return Factors{
		ElectricityPerKWh:  0.5,
		NaturalGasPerTherm: 5.3,
		CarPerKm:           0.404,
		TransitPerKm:       0.2,
		FlightPerKm:        0.25,
	}
}

// Input holds the consumption quantities for one calculation.
// All quantities must be ≥ 0; RenewablePercent must be in [0, 100].
type Input struct {
	ElectricityKWh   float64 `json:"electricity_kwh"`
	NaturalGasTherms float64 `json:"natural_gas_therms"`
	CarKm            float64 `json:"car_km"`
	TransitKm        float64 `json:"transit_km"`
	FlightKm         float64 `json:"flight_km"`

	// RenewablePercent discounts the total: ×(1 − pct/100).
	RenewablePercent float64 `json:"renewable_percent"`
}

// Breakdown is the per-source emission split plus the discounted total.
type Breakdown struct {
	Electricity float64 `json:"electricity"`
	NaturalGas  float64 `json:"natural_gas"`
	Car         float64 `json:"car"`
	Transit     float64 `json:"transit"`
	Flight      float64 `json:"flight"`
	TotalKg     float64 `json:"total_kg"`
}

// Calculator computes footprints against one factor table.
type Calculator struct {
	factors Factors
}

// New creates a Calculator. Zero-valued factors are replaced by defaults
// so a partially filled config table cannot silently zero out a category.
func New(f Factors) *Calculator {
	def := DefaultFactors()
	if f.ElectricityPerKWh == 0 {
		f.ElectricityPerKWh = def.ElectricityPerKWh
	}
	if f.NaturalGasPerTherm == 0 {
		f.NaturalGasPerTherm = def.NaturalGasPerTherm
	}
	if f.CarPerKm == 0 {
		f.CarPerKm = def.CarPerKm
	}
	if f.TransitPerKm == 0 {
		f.TransitPerKm = def.TransitPerKm
	}
	if f.FlightPerKm == 0 {
		f.FlightPerKm = def.FlightPerKm
	}
	return &Calculator{factors: f}
}

// Factors returns the factor table in use.
func (c *Calculator) Factors() Factors { return c.factors }

// Calculate validates the input and returns the emission breakdown.
// Deterministic and idempotent: identical input always yields identical
// output. Negative quantities are a configuration error, not a crash.
func (c *Calculator) Calculate(in Input) (Breakdown, error) {
	if err := validate(in); err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		Electricity: in.ElectricityKWh * c.factors.ElectricityPerKWh,
		NaturalGas:  in.NaturalGasTherms * c.factors.NaturalGasPerTherm,
		Car:         in.CarKm * c.factors.CarPerKm,
		Transit:     in.TransitKm * c.factors.TransitPerKm,
		Flight:      in.FlightKm * c.factors.FlightPerKm,
	}

	raw := b.Electricity + b.NaturalGas + b.Car + b.Transit + b.Flight
	b.TotalKg = raw * (1 - in.RenewablePercent/100)
	return b, nil
}

func validate(in Input) error {
	quantities := []struct {
		name string
		v    float64
	}{
		{"electricity_kwh", in.ElectricityKWh},
		{"natural_gas_therms", in.NaturalGasTherms},
		{"car_km", in.CarKm},
		{"transit_km", in.TransitKm},
		{"flight_km", in.FlightKm},
	}
	for _, q := range quantities {
		if q.v < 0 {
			return fmt.Errorf("%w: %s = %v", domain.ErrInvalidInput, q.name, q.v)
		}
	}
	if in.RenewablePercent < 0 || in.RenewablePercent > 100 {
		return fmt.Errorf("%w: renewable_percent = %v, must be in [0, 100]",
			domain.ErrInvalidInput, in.RenewablePercent)
	}
	return nil
}
