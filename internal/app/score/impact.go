// Package score derives the bounded environmental impact score and the
// dashboard's advisory extras from an account's ledger state. Everything
// here is deterministic and side-effect-free: scores are recomputed on
// demand, never stored.
package score

import "github.com/ecosphere-platform/ecosphere/internal/domain"

// Config holds the scoring knobs. Deployments disagreed on the baseline
// (50 vs 0) and the emission bonus/penalty (20 vs 100); both are
// configuration with the majority values as defaults.
type Config struct {
	Baseline        float64 `toml:"baseline"`
	LowThreshold    float64 `toml:"low_threshold"`  // kg CO2e
	HighThreshold   float64 `toml:"high_threshold"` // kg CO2e
	EmissionBonus   float64 `toml:"emission_bonus"`
	EmissionPenalty float64 `toml:"emission_penalty"`
	OffsetCap       float64 `toml:"offset_cap"`
	EngagementCap   float64 `toml:"engagement_cap"`
}

// DefaultConfig returns the canonical scoring parameters.
func DefaultConfig() Config {
	return Config{
		Baseline:        50,
		LowThreshold:    2000,
		HighThreshold:   5000,
		EmissionBonus:   20,
		EmissionPenalty: 20,
		OffsetCap:       30,
		EngagementCap:   10,
	}
}

// Calculator computes impact scores against one parameter set.
type Calculator struct {
	cfg Config
}

// New creates a Calculator.
func New(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Score returns the composite impact score, always in [0, 100].
func (c *Calculator) Score(a *domain.Account) int {
	base := c.cfg.Baseline

	if a.LifetimeEmissions < c.cfg.LowThreshold {
		base += c.cfg.EmissionBonus
	}
	if a.LifetimeEmissions > c.cfg.HighThreshold {
		base -= c.cfg.EmissionPenalty
	}

	base += min(a.TotalOffset()/100, c.cfg.OffsetCap)
	base += min(float64(a.SuperCoins)/100, c.cfg.EngagementCap)

	return int(clamp(base, 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ─── Advisory Extras ────────────────────────────────────────────────────────

// EquivalentTrees converts a total offset into an equivalent count of
// mature trees (22 kg CO2e sequestered per tree per year).
func EquivalentTrees(totalOffsetKg float64) float64 {
	return totalOffsetKg / 22
}

// RecommendedTrees suggests how many trees to plant to offset the given
// emissions (one tree per 500 kg, at least one).
func RecommendedTrees(emissionsKg float64) int {
	n := int(emissionsKg / 500)
	if n < 1 {
		return 1
	}
	return n
}

// AdviceTier classifies emissions into the advice categories the
// dashboard renders.
type AdviceTier string

const (
	TierLow    AdviceTier = "low"
	TierMedium AdviceTier = "medium"
	TierHigh   AdviceTier = "high"
)

// Tier returns the advice tier for the given emissions against the
// calculator's thresholds.
func (c *Calculator) Tier(emissionsKg float64) AdviceTier {
	switch {
	case emissionsKg < c.cfg.LowThreshold:
		return TierLow
	case emissionsKg < c.cfg.HighThreshold:
		return TierMedium
	default:
		return TierHigh
	}
}

var adviceByTier = map[AdviceTier][]string{
	TierLow: {
		"Great job! Your emissions are relatively low.",
		"Continue your eco-friendly practices.",
		"Consider sharing your sustainable lifestyle tips.",
	},
	TierMedium: {
		"You can improve your carbon footprint.",
		"Consider switching to energy-efficient appliances.",
		"Explore public transportation or carpooling options.",
	},
	TierHigh: {
		"Your carbon footprint is significant. Time for major changes!",
		"Prioritize renewable energy sources.",
		"Consider major lifestyle adjustments to reduce emissions.",
	},
}

// Advice returns the recommendation lines for the given emissions.
func (c *Calculator) Advice(emissionsKg float64) []string {
	return adviceByTier[c.Tier(emissionsKg)]
}

// Personality assigns the playful emission personality label.
func Personality(emissionsKg float64) string {
	switch {
	case emissionsKg < 50:
		return "Earth Whisperer (Low Emission)"
	case emissionsKg < 500:
		return "Green Guardian"
	case emissionsKg < 2000:
		return "Climate Conscious Citizen"
	case emissionsKg < 5000:
		return "Industrial Impact Maker"
	default:
		return "Carbon Volcano (High Emission)"
	}
}
