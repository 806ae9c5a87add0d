package sqlite

import (
	"database/sql"
	"time"

	"github.com/ecosphere-platform/ecosphere/internal/domain"
)

// DB implements domain.LedgerStore.

// SaveSnapshot upserts the account's current ledger state.
func (d *DB) SaveSnapshot(a *domain.Account) error {
	_, err := d.db.Exec(`
		INSERT INTO account_snapshots (account_id, username, wallet_balance, carbon_tax_liability, supercoins, lifetime_emissions, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(account_id) DO UPDATE SET
			username             = excluded.username,
			wallet_balance       = excluded.wallet_balance,
			carbon_tax_liability = excluded.carbon_tax_liability,
			supercoins           = excluded.supercoins,
			lifetime_emissions   = excluded.lifetime_emissions,
			updated_at           = datetime('now')
	`, a.ID, a.Username, a.WalletBalance, a.CarbonTaxLiability, a.SuperCoins, a.LifetimeEmissions)
	return err
}

// GetSnapshot reads the stored state for an account. Returns a zero
// account and false when none exists.
func (d *DB) GetSnapshot(accountID string) (domain.Account, bool, error) {
	var a domain.Account
	err := d.db.QueryRow(`
		SELECT account_id, username, wallet_balance, carbon_tax_liability, supercoins, lifetime_emissions
		FROM account_snapshots WHERE account_id = ?
	`, accountID).Scan(&a.ID, &a.Username, &a.WalletBalance, &a.CarbonTaxLiability, &a.SuperCoins, &a.LifetimeEmissions)
	if err == sql.ErrNoRows {
		return domain.Account{}, false, nil
	}
	if err != nil {
		return domain.Account{}, false, err
	}
	return a, true, nil
}

// RecordOffset appends a committed offset purchase.
func (d *DB) RecordOffset(accountID string, r domain.OffsetRecord) error {
	_, err := d.db.Exec(`
		INSERT INTO offset_purchases (id, account_id, credit_type, offset_amount, price_paid, purchased_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, accountID, r.CreditType, r.OffsetAmount, r.PricePaid, r.Timestamp.Format(time.RFC3339))
	return err
}

// RecordRedemption appends a committed SuperCoin redemption.
func (d *DB) RecordRedemption(accountID string, r domain.RedemptionRecord) error {
	_, err := d.db.Exec(`
		INSERT INTO redemptions (id, account_id, kind, coins_spent, redeemed_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.ID, accountID, r.Kind, r.CoinsSpent, r.Timestamp.Format(time.RFC3339))
	return err
}

// ListOffsets returns an account's offset purchases in purchase order.
func (d *DB) ListOffsets(accountID string) ([]domain.OffsetRecord, error) {
	rows, err := d.db.Query(`
		SELECT id, credit_type, offset_amount, price_paid, purchased_at
		FROM offset_purchases WHERE account_id = ? ORDER BY purchased_at, id
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OffsetRecord
	for rows.Next() {
		var r domain.OffsetRecord
		var ts string
		if err := rows.Scan(&r.ID, &r.CreditType, &r.OffsetAmount, &r.PricePaid, &ts); err != nil {
			return nil, err
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		result = append(result, r)
	}
	return result, rows.Err()
}

// ListRedemptions returns an account's redemptions in redemption order.
func (d *DB) ListRedemptions(accountID string) ([]domain.RedemptionRecord, error) {
	rows, err := d.db.Query(`
		SELECT id, kind, coins_spent, redeemed_at
		FROM redemptions WHERE account_id = ? ORDER BY redeemed_at, id
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RedemptionRecord
	for rows.Next() {
		var r domain.RedemptionRecord
		var ts string
		if err := rows.Scan(&r.ID, &r.Kind, &r.CoinsSpent, &ts); err != nil {
			return nil, err
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		result = append(result, r)
	}
	return result, rows.Err()
}

// OffsetTotal returns the summed offset mass an account has purchased.
func (d *DB) OffsetTotal(accountID string) (float64, error) {
	var total float64
	err := d.db.QueryRow(`
		SELECT COALESCE(SUM(offset_amount), 0) FROM offset_purchases WHERE account_id = ?
	`, accountID).Scan(&total)
	return total, err
}
