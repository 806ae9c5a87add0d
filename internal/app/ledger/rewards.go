package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ecosphere-platform/ecosphere/internal/domain"
	"github.com/ecosphere-platform/ecosphere/internal/infra/observability"
)

// Rewards converts cleared liabilities into SuperCoins and processes
// redemption, either into the redemption catalog or into wallet balance.
type Rewards struct {
	cfg   Config
	store domain.LedgerStore
	log   *zap.SugaredLogger
	now   func() time.Time
}

// NewRewards creates a Rewards engine. store and log may be nil.
func NewRewards(cfg Config, store domain.LedgerStore, log *zap.SugaredLogger) *Rewards {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Rewards{
		cfg:   cfg,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Issue credits SuperCoins for a liability-clearing purchase:
// floor(pricePaid / CoinEarnDivisor). Pure increment, always succeeds.
func (r *Rewards) Issue(a *domain.Account, pricePaid float64) int64 {
	coins := int64(pricePaid / r.cfg.CoinEarnDivisor)
	a.SuperCoins += coins

	observability.CoinsIssued.Add(float64(coins))
	r.log.Infow("supercoins issued", "account", a.ID, "coins", coins)
	return coins
}

// RedeemForItem spends SuperCoins on a redemption catalog option.
// Rejected, not partially applied, if the balance is insufficient.
func (r *Rewards) RedeemForItem(a *domain.Account, opt domain.RedemptionOption) (domain.RedemptionRecord, error) {
	if a.SuperCoins < opt.CoinCost {
		observability.RedemptionsRejected.WithLabelValues("insufficient_coins").Inc()
		return domain.RedemptionRecord{}, fmt.Errorf("%w: have %d, need %d",
			domain.ErrInsufficientCoins, a.SuperCoins, opt.CoinCost)
	}

	a.SuperCoins -= opt.CoinCost
	rec := domain.RedemptionRecord{
		ID:         uuid.NewString(),
		Timestamp:  r.now(),
		Kind:       opt.Name,
		CoinsSpent: opt.CoinCost,
	}
	a.RedemptionHistory = append(a.RedemptionHistory, rec)

	observability.Redemptions.WithLabelValues(opt.Name).Inc()
	r.log.Infow("supercoins redeemed", "account", a.ID, "kind", opt.Name, "coins", opt.CoinCost)

	r.record(a, rec)
	return rec, nil
}

// RedeemForBalance converts the entire SuperCoin balance into wallet
// balance at the configured rate and resets the balance to zero.
func (r *Rewards) RedeemForBalance(a *domain.Account) (float64, error) {
	if a.SuperCoins == 0 {
		observability.RedemptionsRejected.WithLabelValues("no_coins").Inc()
		return 0, domain.ErrNoCoins
	}

	coins := a.SuperCoins
	amount := float64(coins) * r.cfg.ConversionRate

	a.WalletBalance += amount
	a.SuperCoins = 0

	rec := domain.RedemptionRecord{
		ID:         uuid.NewString(),
		Timestamp:  r.now(),
		Kind:       domain.WalletRedemptionKind,
		CoinsSpent: coins,
	}
	a.RedemptionHistory = append(a.RedemptionHistory, rec)

	observability.Redemptions.WithLabelValues(domain.WalletRedemptionKind).Inc()
	r.log.Infow("supercoins converted to balance",
		"account", a.ID, "coins", coins, "amount", amount)

	r.record(a, rec)
	return amount, nil
}

func (r *Rewards) record(a *domain.Account, rec domain.RedemptionRecord) {
	if r.store == nil {
		return
	}
	if err := r.store.RecordRedemption(a.ID, rec); err != nil {
		r.log.Warnw("record redemption", "account", a.ID, "err", err)
	}
	if err := r.store.SaveSnapshot(a); err != nil {
		r.log.Warnw("save snapshot", "account", a.ID, "err", err)
	}
}
