package ledger

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ecosphere-platform/ecosphere/internal/domain"
)

func newTestProcessor() *Processor {
	cfg := DefaultConfig()
	return NewProcessor(cfg, NewRewards(cfg, nil, nil), nil, nil)
}

func TestRecordFootprint(t *testing.T) {
	p := newTestProcessor()
	a := &domain.Account{ID: "acct-1"}

	liability := p.RecordFootprint(a, 415)

	if a.LifetimeEmissions != 415 {
		t.Errorf("LifetimeEmissions = %v, want 415", a.LifetimeEmissions)
	}
	if liability != 2075 { // 415 × 5
		t.Errorf("liability = %v, want 2075", liability)
	}
	if a.CarbonTaxLiability != 2075 {
		t.Errorf("CarbonTaxLiability = %v, want 2075", a.CarbonTaxLiability)
	}
}

func TestRecordFootprint_OverwritesNotAccumulates(t *testing.T) {
	p := newTestProcessor()
	a := &domain.Account{ID: "acct-1"}

	p.RecordFootprint(a, 1000)
	p.RecordFootprint(a, 200)

	if a.LifetimeEmissions != 200 {
		t.Errorf("LifetimeEmissions = %v, want 200 (overwrite, not accumulate)", a.LifetimeEmissions)
	}
	if a.CarbonTaxLiability != 1000 { // 200 × 5
		t.Errorf("CarbonTaxLiability = %v, want 1000", a.CarbonTaxLiability)
	}
}

func TestPurchase_Commits(t *testing.T) {
	p := newTestProcessor()
	a := &domain.Account{
		ID:                 "acct-1",
		WalletBalance:      2000,
		CarbonTaxLiability: 300,
	}
	entry := domain.CatalogEntry{Name: "Solar Panel Donation", OffsetValue: 100, Price: 1000}

	rec, err := p.Purchase(a, entry)
	if err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}

	if a.WalletBalance != 1000 {
		t.Errorf("WalletBalance = %v, want 1000", a.WalletBalance)
	}
	if a.CarbonTaxLiability != 200 {
		t.Errorf("CarbonTaxLiability = %v, want 200", a.CarbonTaxLiability)
	}
	if len(a.OffsetHistory) != 1 {
		t.Fatalf("OffsetHistory len = %d, want 1", len(a.OffsetHistory))
	}
	if a.OffsetHistory[0] != rec {
		t.Errorf("returned record differs from appended record")
	}
	if rec.CreditType != "Solar Panel Donation" || rec.OffsetAmount != 100 || rec.PricePaid != 1000 {
		t.Errorf("record = %+v", rec)
	}
	if a.SuperCoins != 0 {
		t.Errorf("SuperCoins = %d, want 0 (liability not cleared)", a.SuperCoins)
	}
}

func TestPurchase_InsufficientFunds_Atomic(t *testing.T) {
	p := newTestProcessor()
	a := &domain.Account{
		ID:                 "acct-1",
		WalletBalance:      50,
		CarbonTaxLiability: 300,
		SuperCoins:         7,
		LifetimeEmissions:  60,
		OffsetHistory:      []domain.OffsetRecord{{CreditType: "Tree Plantation", OffsetAmount: 50, PricePaid: 500}},
	}
	before := a.Clone()

	_, err := p.Purchase(a, domain.CatalogEntry{Name: "Tree Plantation", OffsetValue: 50, Price: 100})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("Purchase() error = %v, want ErrInsufficientFunds", err)
	}

	if diff := cmp.Diff(before, a.Clone()); diff != "" {
		t.Errorf("account changed on rejected purchase (-before +after):\n%s", diff)
	}
}

func TestPurchase_ClearingIssuesCoinsExactlyOnce(t *testing.T) {
	p := newTestProcessor()
	a := &domain.Account{
		ID:                 "acct-1",
		WalletBalance:      5000,
		CarbonTaxLiability: 100,
	}
	entry := domain.CatalogEntry{Name: "Solar Panel Donation", OffsetValue: 100, Price: 500}

	// First purchase clears the liability exactly: >0 → 0.
	if _, err := p.Purchase(a, entry); err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}
	if a.CarbonTaxLiability != 0 {
		t.Errorf("CarbonTaxLiability = %v, want 0", a.CarbonTaxLiability)
	}
	if a.SuperCoins != 50 { // floor(500 / 10)
		t.Errorf("SuperCoins = %d, want 50", a.SuperCoins)
	}
	if len(a.OffsetHistory) != 1 {
		t.Errorf("OffsetHistory len = %d, want 1", len(a.OffsetHistory))
	}

	// Second purchase with liability already at 0: no new zero-crossing,
	// no re-issue.
	if _, err := p.Purchase(a, entry); err != nil {
		t.Fatalf("second Purchase() error = %v", err)
	}
	if a.SuperCoins != 50 {
		t.Errorf("SuperCoins = %d after second purchase, want 50 (no re-issue)", a.SuperCoins)
	}
	if len(a.OffsetHistory) != 2 {
		t.Errorf("OffsetHistory len = %d, want 2", len(a.OffsetHistory))
	}
}

func TestPurchase_LiabilityClampedAtZero(t *testing.T) {
	p := newTestProcessor()
	a := &domain.Account{
		ID:                 "acct-1",
		WalletBalance:      1000,
		CarbonTaxLiability: 30,
	}

	// Offset 100 against liability 30 clamps to exactly 0 and still counts
	// as a clearing.
	if _, err := p.Purchase(a, domain.CatalogEntry{Name: "Solar Panel Donation", OffsetValue: 100, Price: 1000}); err != nil {
		t.Fatalf("Purchase() error = %v", err)
	}
	if a.CarbonTaxLiability != 0 {
		t.Errorf("CarbonTaxLiability = %v, want exactly 0", a.CarbonTaxLiability)
	}
	if a.SuperCoins != 100 { // floor(1000 / 10)
		t.Errorf("SuperCoins = %d, want 100", a.SuperCoins)
	}
}

func TestPurchase_InvariantsHoldOverSequence(t *testing.T) {
	p := newTestProcessor()
	a := &domain.Account{ID: "acct-1", WalletBalance: 3000}
	p.RecordFootprint(a, 100) // liability 500

	entries := []domain.CatalogEntry{
		{Name: "Tree Plantation", OffsetValue: 50, Price: 500},
		{Name: "Reforestation Program", OffsetValue: 60, Price: 600},
		{Name: "Wind Mill Project", OffsetValue: 75, Price: 750},
		{Name: "Solar Panel Donation", OffsetValue: 100, Price: 1000},
		{Name: "Tree Plantation", OffsetValue: 50, Price: 500},
	}

	histLen := 0
	for _, e := range entries {
		_, err := p.Purchase(a, e)
		if err != nil && !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("Purchase(%s) unexpected error = %v", e.Name, err)
		}
		if err == nil {
			histLen++
		}
		if a.WalletBalance < 0 {
			t.Fatalf("WalletBalance went negative: %v", a.WalletBalance)
		}
		if a.CarbonTaxLiability < 0 {
			t.Fatalf("CarbonTaxLiability went negative: %v", a.CarbonTaxLiability)
		}
		if a.SuperCoins < 0 {
			t.Fatalf("SuperCoins went negative: %d", a.SuperCoins)
		}
		if len(a.OffsetHistory) != histLen {
			t.Fatalf("OffsetHistory len = %d, want %d (append-only)", len(a.OffsetHistory), histLen)
		}
	}
}

func TestTopUp(t *testing.T) {
	p := newTestProcessor()
	goodCard := Card{Number: "1234567812345678", ExpiryMonth: "01", ExpiryYear: "2026", Holder: "User"}

	tests := []struct {
		name    string
		card    Card
		amount  float64
		wantErr error
		want    float64
	}{
		{"accepted card", goodCard, 2500, nil, 2500},
		{"zero amount", goodCard, 0, nil, 0},
		{"negative amount", goodCard, -100, domain.ErrInvalidInput, 0},
		{"wrong number", Card{Number: "0000", ExpiryMonth: "01", ExpiryYear: "2026"}, 100, domain.ErrPaymentDeclined, 0},
		{"wrong expiry", Card{Number: "1234567812345678", ExpiryMonth: "12", ExpiryYear: "2020"}, 100, domain.ErrPaymentDeclined, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &domain.Account{ID: "acct-1"}
			err := p.TopUp(a, tt.card, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("TopUp() error = %v, want %v", err, tt.wantErr)
			}
			if a.WalletBalance != tt.want {
				t.Errorf("WalletBalance = %v, want %v", a.WalletBalance, tt.want)
			}
		})
	}
}
