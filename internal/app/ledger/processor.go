// Package ledger implements the offset transaction processor and the
// SuperCoin rewards engine — the only code allowed to mutate an account's
// balances and histories.
//
// Every operation is fail-fast and non-partial: on any error the account
// is left exactly as it was before the call. A purchase is a two-state
// machine per attempt, Evaluating → {Committed | Rejected}, terminal in
// one step.
package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ecosphere-platform/ecosphere/internal/domain"
	"github.com/ecosphere-platform/ecosphere/internal/infra/observability"
)

// Config controls ledger behavior. The rates diverged across historical
// deployments, so all of them are configuration, not constants.
type Config struct {
	// TaxRatePerKg converts emissions into carbon-tax liability.
	// Default 5 (₹ per kg); one deployment used 0.05 ($50 per ton).
	TaxRatePerKg float64 `toml:"tax_rate_per_kg"`

	// CoinEarnDivisor: coins earned on clearing = floor(price / divisor).
	CoinEarnDivisor float64 `toml:"coin_earn_divisor"`

	// ConversionRate converts SuperCoins into wallet balance.
	// Default 0.01; one deployment used 0.1.
	ConversionRate float64 `toml:"conversion_rate"`
}

// DefaultConfig returns the canonical ledger rates.
func DefaultConfig() Config {
	return Config{
		TaxRatePerKg:    5,
		CoinEarnDivisor: 10,
		ConversionRate:  0.01,
	}
}

// Processor validates and commits offset purchases against an account.
type Processor struct {
	cfg     Config
	rewards *Rewards
	store   domain.LedgerStore
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewProcessor creates a Processor. store may be nil (no snapshotting);
// log may be nil (silent).
func NewProcessor(cfg Config, rewards *Rewards, store domain.LedgerStore, log *zap.SugaredLogger) *Processor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Processor{
		cfg:     cfg,
		rewards: rewards,
		store:   store,
		log:     log,
		now:     time.Now,
	}
}

// RecordFootprint writes a calculated footprint into the account:
// LifetimeEmissions is overwritten (not accumulated — recalculating
// replaces the previous figure) and the carbon-tax liability is reset to
// emissions × tax rate. Returns the new liability.
func (p *Processor) RecordFootprint(a *domain.Account, totalKg float64) float64 {
	a.LifetimeEmissions = totalKg
	a.CarbonTaxLiability = totalKg * p.cfg.TaxRatePerKg

	observability.FootprintCalculations.Inc()
	observability.FootprintKg.Observe(totalKg)
	p.log.Infow("footprint recorded",
		"account", a.ID, "emissions_kg", totalKg, "liability", a.CarbonTaxLiability)

	p.snapshot(a)
	return a.CarbonTaxLiability
}

// Purchase validates and commits a marketplace purchase.
//
// Reward issuance is a side effect of fully clearing the liability in a
// single purchase — the >0 → 0 transition — not of partial progress, and
// it is not re-triggered by later purchases while the liability sits at 0.
func (p *Processor) Purchase(a *domain.Account, entry domain.CatalogEntry) (domain.OffsetRecord, error) {
	if a.WalletBalance < entry.Price {
		observability.PurchasesRejected.WithLabelValues("insufficient_funds").Inc()
		return domain.OffsetRecord{}, fmt.Errorf("%w: balance %.2f, price %.2f",
			domain.ErrInsufficientFunds, a.WalletBalance, entry.Price)
	}

	liabilityBefore := a.CarbonTaxLiability

	a.WalletBalance -= entry.Price
	a.CarbonTaxLiability = math.Max(0, a.CarbonTaxLiability-entry.OffsetValue)

	rec := domain.OffsetRecord{
		ID:           uuid.NewString(),
		Timestamp:    p.now(),
		CreditType:   entry.Name,
		OffsetAmount: entry.OffsetValue,
		PricePaid:    entry.Price,
	}
	a.OffsetHistory = append(a.OffsetHistory, rec)

	observability.PurchasesCommitted.WithLabelValues(entry.Name).Inc()
	p.log.Infow("offset purchased",
		"account", a.ID, "credit_type", entry.Name,
		"offset_kg", entry.OffsetValue, "price", entry.Price,
		"remaining_liability", a.CarbonTaxLiability)

	if liabilityBefore > 0 && a.CarbonTaxLiability == 0 {
		coins := p.rewards.Issue(a, entry.Price)
		observability.LiabilityCleared.Inc()
		p.log.Infow("carbon tax fully offset",
			"account", a.ID, "coins_earned", coins)
	}

	if p.store != nil {
		if err := p.store.RecordOffset(a.ID, rec); err != nil {
			p.log.Warnw("record offset", "account", a.ID, "err", err)
		}
	}
	p.snapshot(a)

	return rec, nil
}

// TopUp credits the wallet after validating the card stand-in. This is a
// fixed-credential placeholder, not a payment gateway.
func (p *Processor) TopUp(a *domain.Account, card Card, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("%w: top-up amount %v", domain.ErrInvalidInput, amount)
	}
	if !card.valid() {
		return domain.ErrPaymentDeclined
	}

	a.WalletBalance += amount

	observability.WalletTopUps.Inc()
	p.log.Infow("wallet top-up", "account", a.ID, "amount", amount, "balance", a.WalletBalance)

	p.snapshot(a)
	return nil
}

func (p *Processor) snapshot(a *domain.Account) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveSnapshot(a); err != nil {
		p.log.Warnw("save snapshot", "account", a.ID, "err", err)
	}
}

// ─── Card Stand-in ──────────────────────────────────────────────────────────

// Card is the fixed-credential payment stand-in.
type Card struct {
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	Holder      string `json:"holder"`
}

// The single accepted test card.
const (
	acceptedCardNumber = "1234567812345678"
	acceptedCardMonth  = "01"
	acceptedCardYear   = "2026"
)

func (c Card) valid() bool {
	return c.Number == acceptedCardNumber &&
		c.ExpiryMonth == acceptedCardMonth &&
		c.ExpiryYear == acceptedCardYear
}
