package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecosphere-platform/ecosphere/internal/app/emissions"
	"github.com/ecosphere-platform/ecosphere/internal/app/ledger"
	"github.com/ecosphere-platform/ecosphere/internal/app/score"
	"github.com/ecosphere-platform/ecosphere/internal/app/session"
	"github.com/ecosphere-platform/ecosphere/internal/infra/catalog"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := ledger.DefaultConfig()
	rewards := ledger.NewRewards(cfg, nil, nil)
	s := NewServer(Deps{
		Sessions:    session.NewManager(nil, nil),
		Calculator:  emissions.New(emissions.DefaultFactors()),
		Processor:   ledger.NewProcessor(cfg, rewards, nil, nil),
		Rewards:     rewards,
		Impact:      score.New(score.DefaultConfig()),
		Marketplace: catalog.DefaultMarketplace(),
		Redemptions: catalog.DefaultRedemptionCatalog(),
	})
	s.SetRewardsHub(NewRewardsHub())
	return s
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]interface{}
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid JSON response: %v", method, path, err)
		}
	}
	return rr.Code, out
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	code, out := doJSON(t, h, "POST", "/api/session/login", "", map[string]string{
		"username": "user", "password": "user",
	})
	if code != http.StatusOK {
		t.Fatalf("login status = %d", code)
	}
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatal("login returned empty token")
	}
	return token
}

func validCard() map[string]string {
	return map[string]string{
		"number": "1234567812345678", "expiry_month": "01", "expiry_year": "2026",
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t).Handler()
	code, out := doJSON(t, h, "GET", "/health", "", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if out["status"] != "ok" {
		t.Errorf("status body = %v", out["status"])
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	h := newTestServer(t).Handler()
	code, _ := doJSON(t, h, "POST", "/api/session/login", "", map[string]string{
		"username": "user", "password": "wrong",
	})
	if code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
}

func TestFootprint_NoSession(t *testing.T) {
	h := newTestServer(t).Handler()
	code, _ := doJSON(t, h, "POST", "/api/footprint", "", map[string]float64{
		"electricity_kwh": 100,
	})
	if code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
}

func TestMarketplaceList(t *testing.T) {
	h := newTestServer(t).Handler()
	code, out := doJSON(t, h, "GET", "/api/marketplace", "", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	entries, _ := out["entries"].([]interface{})
	if len(entries) != 4 {
		t.Errorf("entries len = %d, want 4", len(entries))
	}
}

func TestEndToEndScenario(t *testing.T) {
	h := newTestServer(t).Handler()
	token := login(t, h)

	// 300 kWh + 50 therms: 300×0.5 + 50×5.3 = 415 kg, liability 415×5 = 2075
	code, out := doJSON(t, h, "POST", "/api/footprint", token, map[string]float64{
		"electricity_kwh": 300, "natural_gas_therms": 50,
	})
	if code != http.StatusOK {
		t.Fatalf("footprint status = %d: %v", code, out)
	}
	if got := out["liability"].(float64); got != 2075 {
		t.Errorf("liability = %v, want 2075", got)
	}
	breakdown := out["breakdown"].(map[string]interface{})
	if got := breakdown["total_kg"].(float64); got != 415 {
		t.Errorf("total_kg = %v, want 415", got)
	}

	// Purchase before funding is rejected and changes nothing.
	code, _ = doJSON(t, h, "POST", "/api/offsets/purchase", token, map[string]string{
		"name": "Solar Panel Donation",
	})
	if code != http.StatusPaymentRequired {
		t.Fatalf("unfunded purchase status = %d, want 402", code)
	}

	code, out = doJSON(t, h, "POST", "/api/wallet/topup", token, map[string]interface{}{
		"card": validCard(), "amount": 5000,
	})
	if code != http.StatusOK {
		t.Fatalf("topup status = %d: %v", code, out)
	}
	if got := out["wallet_balance"].(float64); got != 5000 {
		t.Errorf("wallet_balance = %v, want 5000", got)
	}

	// 1000 spent, 100 kg offset.
	code, out = doJSON(t, h, "POST", "/api/offsets/purchase", token, map[string]string{
		"name": "Solar Panel Donation",
	})
	if code != http.StatusOK {
		t.Fatalf("purchase status = %d: %v", code, out)
	}
	if got := out["wallet_balance"].(float64); got != 4000 {
		t.Errorf("wallet_balance = %v, want 4000", got)
	}
	if got := out["liability"].(float64); got != 1975 {
		t.Errorf("liability = %v, want 1975", got)
	}
	if got := out["coins_earned"].(float64); got != 0 {
		t.Errorf("coins_earned = %v, want 0 (liability not cleared)", got)
	}

	code, out = doJSON(t, h, "GET", "/api/account", token, nil)
	if code != http.StatusOK {
		t.Fatalf("account status = %d", code)
	}
	if got := out["total_offset"].(float64); got != 100 {
		t.Errorf("total_offset = %v, want 100", got)
	}
	history, _ := out["offset_history"].([]interface{})
	if len(history) != 1 {
		t.Errorf("offset_history len = %d, want 1", len(history))
	}
}

func TestPurchase_ClearingIssuesCoins(t *testing.T) {
	h := newTestServer(t).Handler()
	token := login(t, h)

	// 20 kWh → 10 kg → liability 50, cleared by Tree Plantation (50 kg).
	doJSON(t, h, "POST", "/api/footprint", token, map[string]float64{"electricity_kwh": 20})
	doJSON(t, h, "POST", "/api/wallet/topup", token, map[string]interface{}{
		"card": validCard(), "amount": 1000,
	})

	code, out := doJSON(t, h, "POST", "/api/offsets/purchase", token, map[string]string{
		"name": "Tree Plantation",
	})
	if code != http.StatusOK {
		t.Fatalf("purchase status = %d: %v", code, out)
	}
	if got := out["liability"].(float64); got != 0 {
		t.Errorf("liability = %v, want 0", got)
	}
	// floor(500 / 10) = 50 coins on the clearing purchase.
	if got := out["coins_earned"].(float64); got != 50 {
		t.Errorf("coins_earned = %v, want 50", got)
	}
	if got := out["supercoins"].(float64); got != 50 {
		t.Errorf("supercoins = %v, want 50", got)
	}
}

func TestPurchase_UnknownEntry(t *testing.T) {
	h := newTestServer(t).Handler()
	token := login(t, h)
	code, _ := doJSON(t, h, "POST", "/api/offsets/purchase", token, map[string]string{
		"name": "Coal Plant Sponsorship",
	})
	if code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestTopUp_DeclinedCard(t *testing.T) {
	h := newTestServer(t).Handler()
	token := login(t, h)
	code, _ := doJSON(t, h, "POST", "/api/wallet/topup", token, map[string]interface{}{
		"card":   map[string]string{"number": "0000000000000000", "expiry_month": "01", "expiry_year": "2026"},
		"amount": 100,
	})
	if code != http.StatusPaymentRequired {
		t.Errorf("status = %d, want 402", code)
	}
}

func TestRewards_RedeemAndConvert(t *testing.T) {
	h := newTestServer(t).Handler()
	token := login(t, h)

	code, out := doJSON(t, h, "GET", "/api/rewards/options", "", nil)
	if code != http.StatusOK {
		t.Fatalf("options status = %d", code)
	}
	options, _ := out["options"].([]interface{})
	if len(options) != 3 {
		t.Errorf("options len = %d, want 3", len(options))
	}

	// No coins yet: both redemption paths are rejected.
	code, _ = doJSON(t, h, "POST", "/api/rewards/redeem", token, map[string]string{
		"name": "Plant a Tree",
	})
	if code != http.StatusConflict {
		t.Errorf("redeem status = %d, want 409", code)
	}
	code, _ = doJSON(t, h, "POST", "/api/rewards/convert", token, nil)
	if code != http.StatusConflict {
		t.Errorf("convert status = %d, want 409", code)
	}
}

func TestScore_FreshAccount(t *testing.T) {
	h := newTestServer(t).Handler()
	token := login(t, h)

	code, out := doJSON(t, h, "GET", "/api/score", token, nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	// Baseline 50 + low-emission bonus 20.
	if got := out["score"].(float64); got != 70 {
		t.Errorf("score = %v, want 70", got)
	}
	if out["tier"] != "low" {
		t.Errorf("tier = %v, want low", out["tier"])
	}
}

type stubClassifier struct{ label string }

func (s stubClassifier) Predict([]float64) (string, error) { return s.label, nil }

func TestPredictCrop(t *testing.T) {
	srv := newTestServer(t)
	srv.SetClassifiers(stubClassifier{label: "Rice"}, nil)
	h := srv.Handler()

	code, out := doJSON(t, h, "POST", "/api/predict/crop", "", map[string]interface{}{
		"features": []float64{90, 42, 43, 20.8, 82, 6.5, 202},
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, out)
	}
	if out["crop"] != "Rice" {
		t.Errorf("crop = %v, want Rice", out["crop"])
	}
	if got := out["offset_kg"].(float64); got != 4.5 {
		t.Errorf("offset_kg = %v, want 4.5", got)
	}
}

func TestPredict_ModelUnavailable(t *testing.T) {
	h := newTestServer(t).Handler()
	code, _ := doJSON(t, h, "POST", "/api/predict/fire", "", map[string]interface{}{
		"features": []float64{0.5},
	})
	if code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", code)
	}
}

func TestRewardsHub_Broadcast(t *testing.T) {
	hub := NewRewardsHub()

	ch, unsub := hub.Subscribe()
	defer unsub()
	if hub.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.Broadcast(CoinEvent{Type: "coins_earned", Coins: 50, CreditType: "Tree Plantation"})

	select {
	case data := <-ch:
		var ev CoinEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatal(err)
		}
		if ev.Coins != 50 || ev.CreditType != "Tree Plantation" {
			t.Errorf("event = %+v", ev)
		}
	default:
		t.Fatal("no event received")
	}
}
