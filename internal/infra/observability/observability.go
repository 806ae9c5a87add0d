// Package observability holds the Prometheus metrics for the platform.
// Metrics are package-level promauto vars registered at init, exported
// via the API server's /metrics endpoint.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// PurchasesCommitted tracks committed offset purchases by credit type.
var PurchasesCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "ledger",
	Name:      "purchases_total",
	Help:      "Total committed offset purchases by credit type.",
}, []string{"credit_type"})

// PurchasesRejected tracks rejected purchases by reason.
var PurchasesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "ledger",
	Name:      "purchases_rejected_total",
	Help:      "Total rejected offset purchases by reason.",
}, []string{"reason"})

// LiabilityCleared tracks purchases that drove a liability to exactly zero.
var LiabilityCleared = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "ledger",
	Name:      "liability_cleared_total",
	Help:      "Total purchases that fully cleared a carbon-tax liability.",
})

// WalletTopUps tracks wallet top-up operations.
var WalletTopUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "ledger",
	Name:      "wallet_topups_total",
	Help:      "Total wallet top-up operations.",
})

// ─── Emissions Metrics ──────────────────────────────────────────────────────

// FootprintCalculations tracks completed footprint calculations.
var FootprintCalculations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "emissions",
	Name:      "calculations_total",
	Help:      "Total completed carbon footprint calculations.",
})

// FootprintKg observes the distribution of calculated footprints.
var FootprintKg = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "ecosphere",
	Subsystem: "emissions",
	Name:      "footprint_kg",
	Help:      "Calculated carbon footprints in kg CO2e.",
	Buckets:   []float64{50, 200, 500, 1000, 2000, 5000, 10000, 25000},
})

// ─── Rewards Metrics ────────────────────────────────────────────────────────

// CoinsIssued tracks total SuperCoins issued.
var CoinsIssued = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "rewards",
	Name:      "coins_issued_total",
	Help:      "Total SuperCoins issued for cleared liabilities.",
})

// Redemptions tracks redemptions by kind.
var Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "rewards",
	Name:      "redemptions_total",
	Help:      "Total SuperCoin redemptions by kind.",
}, []string{"kind"})

// RedemptionsRejected tracks rejected redemptions by reason.
var RedemptionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "rewards",
	Name:      "redemptions_rejected_total",
	Help:      "Total rejected SuperCoin redemptions by reason.",
}, []string{"reason"})

// ─── Session Metrics ────────────────────────────────────────────────────────

// Logins tracks login attempts by result.
var Logins = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "session",
	Name:      "logins_total",
	Help:      "Total login attempts by result.",
}, []string{"result"})

// ActiveSessions tracks currently live sessions.
var ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "ecosphere",
	Subsystem: "session",
	Name:      "active",
	Help:      "Number of currently active sessions.",
})

// ─── Predictor Metrics ──────────────────────────────────────────────────────

// Predictions tracks classifier invocations by model.
var Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "predictor",
	Name:      "predictions_total",
	Help:      "Total classifier invocations by model.",
}, []string{"model"})

// PredictionFailures tracks failed classifier invocations by model.
var PredictionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosphere",
	Subsystem: "predictor",
	Name:      "prediction_failures_total",
	Help:      "Total failed classifier invocations by model.",
}, []string{"model"})
