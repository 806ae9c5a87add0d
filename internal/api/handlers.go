package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ecosphere-platform/ecosphere/internal/app/emissions"
	"github.com/ecosphere-platform/ecosphere/internal/app/ledger"
	"github.com/ecosphere-platform/ecosphere/internal/app/score"
	"github.com/ecosphere-platform/ecosphere/internal/domain"
	"github.com/ecosphere-platform/ecosphere/internal/infra/predictor"
)

// ─── Session ────────────────────────────────────────────────────────────────

// HandleLogin creates a session.
// POST /api/session/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.sessions.Login(req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
	})
}

// POST /api/session/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(sessionToken(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ─── Footprint ──────────────────────────────────────────────────────────────

// POST /api/footprint — calculate a footprint and record it on the
// session's account.
func (s *Server) handleFootprint(w http.ResponseWriter, r *http.Request) {
	var in emissions.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := s.calc.Calculate(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var liability float64
	err = s.sessions.WithAccount(sessionToken(r), func(a *domain.Account) error {
		liability = s.processor.RecordFootprint(a, b.TotalKg)
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"breakdown":         b,
		"liability":         liability,
		"recommended_trees": score.RecommendedTrees(b.TotalKg),
		"tier":              s.impact.Tier(b.TotalKg),
		"advice":            s.impact.Advice(b.TotalKg),
		"personality":       score.Personality(b.TotalKg),
	})
}

// ─── Marketplace ────────────────────────────────────────────────────────────

// GET /api/marketplace
func (s *Server) handleMarketplaceList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": s.market.List(),
	})
}

// POST /api/offsets/purchase
func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.market.Get(req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var (
		rec        domain.OffsetRecord
		coinsDelta int64
		balance    float64
		liability  float64
		coins      int64
	)
	err = s.sessions.WithAccount(sessionToken(r), func(a *domain.Account) error {
		coinsBefore := a.SuperCoins
		var perr error
		rec, perr = s.processor.Purchase(a, entry)
		if perr != nil {
			return perr
		}
		coinsDelta = a.SuperCoins - coinsBefore
		balance = a.WalletBalance
		liability = a.CarbonTaxLiability
		coins = a.SuperCoins
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if coinsDelta > 0 && s.rewardsHub != nil {
		s.rewardsHub.Broadcast(CoinEvent{
			Type:       "coins_earned",
			Coins:      coinsDelta,
			CreditType: entry.Name,
			Timestamp:  time.Now().Unix(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"record":         rec,
		"wallet_balance": balance,
		"liability":      liability,
		"supercoins":     coins,
		"coins_earned":   coinsDelta,
	})
}

// ─── Wallet ─────────────────────────────────────────────────────────────────

// POST /api/wallet/topup
func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Card   ledger.Card `json:"card"`
		Amount float64     `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var balance float64
	err := s.sessions.WithAccount(sessionToken(r), func(a *domain.Account) error {
		if err := s.processor.TopUp(a, req.Card, req.Amount); err != nil {
			return err
		}
		balance = a.WalletBalance
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"wallet_balance": balance,
	})
}

// ─── Rewards ────────────────────────────────────────────────────────────────

// GET /api/rewards/options
func (s *Server) handleRedemptionOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"options": s.redemptions.List(),
	})
}

// POST /api/rewards/redeem
func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opt, err := s.redemptions.Get(req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var (
		rec   domain.RedemptionRecord
		coins int64
	)
	err = s.sessions.WithAccount(sessionToken(r), func(a *domain.Account) error {
		var rerr error
		rec, rerr = s.rewards.RedeemForItem(a, opt)
		if rerr != nil {
			return rerr
		}
		coins = a.SuperCoins
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"record":     rec,
		"supercoins": coins,
	})
}

// POST /api/rewards/convert — convert the full SuperCoin balance into
// wallet balance.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var (
		amount  float64
		balance float64
	)
	err := s.sessions.WithAccount(sessionToken(r), func(a *domain.Account) error {
		var rerr error
		amount, rerr = s.rewards.RedeemForBalance(a)
		if rerr != nil {
			return rerr
		}
		balance = a.WalletBalance
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"amount":         amount,
		"wallet_balance": balance,
		"supercoins":     int64(0),
	})
}

// ─── Account & Score ────────────────────────────────────────────────────────

// GET /api/account — full profile snapshot for the dashboard.
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Snapshot(sessionToken(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":                 snap.ID,
		"username":           snap.Username,
		"wallet_balance":     snap.WalletBalance,
		"liability":          snap.CarbonTaxLiability,
		"supercoins":         snap.SuperCoins,
		"lifetime_emissions": snap.LifetimeEmissions,
		"total_offset":       snap.TotalOffset(),
		"equivalent_trees":   score.EquivalentTrees(snap.TotalOffset()),
		"impact_score":       s.impact.Score(&snap),
		"offset_history":     snap.OffsetHistory,
		"redemption_history": snap.RedemptionHistory,
	})
}

// GET /api/score
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Snapshot(sessionToken(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"score":             s.impact.Score(&snap),
		"tier":              s.impact.Tier(snap.LifetimeEmissions),
		"advice":            s.impact.Advice(snap.LifetimeEmissions),
		"personality":       score.Personality(snap.LifetimeEmissions),
		"equivalent_trees":  score.EquivalentTrees(snap.TotalOffset()),
		"recommended_trees": score.RecommendedTrees(snap.LifetimeEmissions),
	})
}

// ─── Prediction ─────────────────────────────────────────────────────────────

// POST /api/predict/crop
func (s *Server) handlePredictCrop(w http.ResponseWriter, r *http.Request) {
	label, ok := s.predict(w, r, s.crop)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"crop":      label,
		"offset_kg": predictor.CropOffsetKg[label],
	})
}

// POST /api/predict/fire
func (s *Server) handlePredictFire(w http.ResponseWriter, r *http.Request) {
	label, ok := s.predict(w, r, s.fire)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"label": label,
	})
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request, model domain.Classifier) (string, bool) {
	var req struct {
		Features []float64 `json:"features"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if model == nil {
		writeDomainError(w, domain.ErrModelUnavailable)
		return "", false
	}

	label, err := model.Predict(req.Features)
	if err != nil {
		writeDomainError(w, err)
		return "", false
	}
	return label, true
}
