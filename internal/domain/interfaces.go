package domain

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// Classifier is an opaque predictor. The core never inspects model
// internals; it only sees this call contract. Implementations load a
// pre-trained artifact and return ErrModelUnavailable when it is missing.
type Classifier interface {
	// Predict maps a feature vector to a label.
	Predict(features []float64) (label string, err error)
}

// LedgerStore records committed ledger movement for the contribution
// tracker and profile views. The in-memory Account stays authoritative;
// a store failure must never roll back a committed operation.
type LedgerStore interface {
	SaveSnapshot(a *Account) error
	RecordOffset(accountID string, r OffsetRecord) error
	RecordRedemption(accountID string, r RedemptionRecord) error
}
