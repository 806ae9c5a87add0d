// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends on nothing.
package domain

import (
	"fmt"
	"time"
)

// ─── Ledger Account ─────────────────────────────────────────────────────────

// Account is the per-user carbon ledger. One account exists per session,
// created at first login and discarded when the session ends. All monetary
// and reward movement goes through the ledger and rewards services; the
// presentation layer reads but never writes these fields directly.
//
// A single logical thread of control operates on an account at a time.
// Serialization is owned by the session manager, not by this type.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`

	WalletBalance      float64 `json:"wallet_balance"`       // ≥ 0
	CarbonTaxLiability float64 `json:"carbon_tax_liability"` // ≥ 0, clamped at 0
	SuperCoins         int64   `json:"supercoins"`           // ≥ 0
	LifetimeEmissions  float64 `json:"lifetime_emissions"`   // kg CO2e, overwritten per calculation

	OffsetHistory     []OffsetRecord     `json:"offset_history"`     // append-only
	RedemptionHistory []RedemptionRecord `json:"redemption_history"` // append-only

	CreatedAt time.Time `json:"created_at"`
}

// TotalOffset returns the sum of all purchased offsets in kg CO2e.
func (a *Account) TotalOffset() float64 {
	var total float64
	for _, r := range a.OffsetHistory {
		total += r.OffsetAmount
	}
	return total
}

// CoinsSpent returns the total SuperCoins spent on redemptions.
func (a *Account) CoinsSpent() int64 {
	var total int64
	for _, r := range a.RedemptionHistory {
		total += r.CoinsSpent
	}
	return total
}

// Clone returns a deep copy safe to hand to the presentation layer.
func (a *Account) Clone() Account {
	cp := *a
	cp.OffsetHistory = append([]OffsetRecord(nil), a.OffsetHistory...)
	cp.RedemptionHistory = append([]RedemptionRecord(nil), a.RedemptionHistory...)
	return cp
}

// ─── Ledger Records ─────────────────────────────────────────────────────────

// OffsetRecord is a single committed offset purchase. Immutable once created.
type OffsetRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	CreditType   string    `json:"credit_type"`   // marketplace entry name
	OffsetAmount float64   `json:"offset_amount"` // kg CO2e
	PricePaid    float64   `json:"price_paid"`
}

// RedemptionRecord is a single committed SuperCoin redemption. Immutable.
type RedemptionRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind"` // redemption option name, or "wallet_balance"
	CoinsSpent int64     `json:"coins_spent"`
}

// WalletRedemptionKind marks a conversion of SuperCoins into wallet balance.
const WalletRedemptionKind = "wallet_balance"

// ─── Catalog Types ──────────────────────────────────────────────────────────

// CatalogEntry is one offset product in the marketplace. Immutable,
// process-wide, shared read-only across all accounts.
type CatalogEntry struct {
	Name        string  `json:"name"`
	OffsetValue float64 `json:"offset_value"` // kg CO2e removed from liability
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// RedemptionOption is one non-monetary SuperCoin redemption product.
type RedemptionOption struct {
	Name     string `json:"name"`
	CoinCost int64  `json:"coin_cost"`
}

// ─── Utilities ──────────────────────────────────────────────────────────────

// FormatKg renders a mass in kg CO2e the way the dashboards display it.
func FormatKg(kg float64) string {
	return fmt.Sprintf("%.2f kg CO2", kg)
}
