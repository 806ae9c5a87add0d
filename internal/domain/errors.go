package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// Every ledger-mutating operation is fail-fast and non-partial: on any of
// these errors the account is left exactly as it was before the call.

var (
	// Ledger errors
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrInsufficientCoins = errors.New("insufficient supercoins")
	ErrNoCoins           = errors.New("no supercoins available for redemption")

	// Catalog errors
	ErrEntryNotFound = errors.New("catalog entry not found")

	// Input errors
	ErrInvalidInput     = errors.New("invalid consumption input")
	ErrPaymentDeclined  = errors.New("card details not accepted")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Classifier errors — missing configuration, not a transient fault.
	// Propagated to the caller, never retried.
	ErrModelUnavailable = errors.New("prediction model not loaded")
)
