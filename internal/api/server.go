// Package api provides the HTTP server for the EcoSphere platform.
// It exposes the session, footprint, marketplace, wallet, rewards, and
// impact-score operations as a JSON REST API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ecosphere-platform/ecosphere/internal/app/emissions"
	"github.com/ecosphere-platform/ecosphere/internal/app/ledger"
	"github.com/ecosphere-platform/ecosphere/internal/app/score"
	"github.com/ecosphere-platform/ecosphere/internal/app/session"
	"github.com/ecosphere-platform/ecosphere/internal/domain"
	"github.com/ecosphere-platform/ecosphere/internal/infra/catalog"
)

// Version is the API version string reported by /api/version.
const Version = "0.1.0"

// Server is the EcoSphere HTTP API server.
type Server struct {
	sessions    *session.Manager
	calc        *emissions.Calculator
	processor   *ledger.Processor
	rewards     *ledger.Rewards
	impact      *score.Calculator
	market      *catalog.Marketplace
	redemptions *catalog.RedemptionCatalog

	crop domain.Classifier
	fire domain.Classifier

	rewardsHub     *RewardsHub
	metricsEnabled bool
	log            *zap.SugaredLogger
}

// Deps carries the service collaborators for NewServer.
type Deps struct {
	Sessions    *session.Manager
	Calculator  *emissions.Calculator
	Processor   *ledger.Processor
	Rewards     *ledger.Rewards
	Impact      *score.Calculator
	Marketplace *catalog.Marketplace
	Redemptions *catalog.RedemptionCatalog
	Log         *zap.SugaredLogger
}

// NewServer creates a new API server.
func NewServer(d Deps) *Server {
	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}
	return &Server{
		sessions:    d.Sessions,
		calc:        d.Calculator,
		processor:   d.Processor,
		rewards:     d.Rewards,
		impact:      d.Impact,
		market:      d.Marketplace,
		redemptions: d.Redemptions,
		log:         d.Log,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetClassifiers sets the optional prediction models. Either may be nil;
// the corresponding endpoint then reports the model as unavailable.
func (s *Server) SetClassifiers(crop, fire domain.Classifier) {
	s.crop = crop
	s.fire = fire
}

// SetRewardsHub sets the live rewards SSE hub.
func (s *Server) SetRewardsHub(h *RewardsHub) { s.rewardsHub = h }

// RewardsHub returns the live rewards hub (for broadcasting events).
func (s *Server) RewardsHub() *RewardsHub { return s.rewardsHub }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	// Health check for deploy platforms
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/session/login", s.handleLogin)
		r.Post("/session/logout", s.handleLogout)

		r.Post("/footprint", s.handleFootprint)

		r.Get("/marketplace", s.handleMarketplaceList)
		r.Post("/offsets/purchase", s.handlePurchase)

		r.Post("/wallet/topup", s.handleTopUp)

		r.Get("/rewards/options", s.handleRedemptionOptions)
		r.Post("/rewards/redeem", s.handleRedeem)
		r.Post("/rewards/convert", s.handleConvert)

		r.Get("/account", s.handleAccount)
		r.Get("/score", s.handleScore)

		r.Post("/predict/crop", s.handlePredictCrop)
		r.Post("/predict/fire", s.handlePredictFire)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Live rewards SSE feed
	if s.rewardsHub != nil {
		r.Get("/api/rewards/live", s.rewardsHub.HandleRewardsSSE)
	}

	return r
}

// sessionToken extracts the bearer token from the request.
func sessionToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.Header.Get("X-Session-Token")
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps service errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrPaymentDeclined):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrInsufficientCoins),
		errors.Is(err, domain.ErrNoCoins):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-Token")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
