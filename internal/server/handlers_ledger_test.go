package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jstanton/wagerbook/internal/app"
	"github.com/jstanton/wagerbook/internal/common"
	"github.com/jstanton/wagerbook/internal/services/ledger"
	"github.com/jstanton/wagerbook/internal/services/users"
	"github.com/jstanton/wagerbook/internal/storage"
)

// newTestServer builds a server backed by an embedded store in a temp dir.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := common.NewSilentLogger()

	cfg := common.NewDefaultConfig()
	cfg.Environment = "test"
	cfg.Storage.Driver = common.DriverBadger
	cfg.Storage.Path = t.TempDir()

	mgr, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		t.Fatalf("NewStorageManager failed: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	a := &app.App{
		Config:        cfg,
		Logger:        logger,
		Storage:       mgr,
		LedgerService: ledger.NewService(mgr, logger, nil),
		UserService:   users.NewService(mgr, logger),
	}
	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return bytes.NewBuffer(data)
}

// doRequest runs a request through the full middleware chain.
func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// loginAs registers an account and returns a bearer token for it.
func loginAs(t *testing.T, srv *Server, username string) string {
	t.Helper()

	body := jsonBody(t, map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secretpass",
	})
	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/users", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body = jsonBody(t, map[string]string{"username": username, "password": "secretpass"})
	rec = doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if resp.Data.Token == "" {
		t.Fatal("login returned empty token")
	}
	return resp.Data.Token
}

func authedRequest(method, target, token string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("health: unexpected body %s", rec.Body.String())
	}

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("version: expected 200, got %d", rec.Code)
	}
}

func TestBetsRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/bets", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/bets", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = doRequest(srv, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with garbage token, got %d", rec.Code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(t)
	loginAs(t, srv, "carol")

	body := jsonBody(t, map[string]string{"username": "carol", "password": "wrong"})
	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/auth/login", body))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", rec.Code)
	}
}

func TestRegisterDuplicateConflict(t *testing.T) {
	srv := newTestServer(t)
	loginAs(t, srv, "dave")

	body := jsonBody(t, map[string]string{
		"username": "dave",
		"email":    "dave2@example.com",
		"password": "otherpass",
	})
	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/users", body))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate register, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBetLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "alice")

	body := jsonBody(t, map[string]interface{}{
		"game":          "Chiefs ML",
		"stake":         100.0,
		"return_amount": 250.0,
		"date":          "2024-03-15",
	})
	rec := doRequest(srv, authedRequest(http.MethodPost, "/api/bets", token, body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bet: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID     string  `json:"id"`
		Profit float64 `json:"profit"`
	}
	json.NewDecoder(rec.Body).Decode(&created)
	if created.ID == "" {
		t.Fatal("created bet has no id")
	}
	if created.Profit != 150 {
		t.Errorf("expected derived profit 150, got %v", created.Profit)
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/bets/"+created.ID, token, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get bet: expected 200, got %d", rec.Code)
	}

	body = jsonBody(t, map[string]interface{}{
		"game":          "Chiefs ML",
		"stake":         100.0,
		"return_amount": 0.0,
		"date":          "2024-03-15",
	})
	rec = doRequest(srv, authedRequest(http.MethodPut, "/api/bets/"+created.ID, token, body))
	if rec.Code != http.StatusOK {
		t.Fatalf("update bet: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(srv, authedRequest(http.MethodDelete, "/api/bets/"+created.ID, token, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete bet: expected 200, got %d", rec.Code)
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/bets", token, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list bets: expected 200, got %d", rec.Code)
	}
	var bets []map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&bets)
	if len(bets) != 0 {
		t.Errorf("expected empty list after delete, got %d bets", len(bets))
	}
}

func TestListBetsFilterValidation(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "bob")

	rec := doRequest(srv, authedRequest(http.MethodGet, "/api/bets?filter=bogus", token, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown filter, got %d", rec.Code)
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/bets?filter=wins&sort=profit", token, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for valid filter/sort, got %d", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "erin")

	for i, pair := range [][2]float64{{100, 250}, {50, 0}, {20, 500}} {
		body := jsonBody(t, map[string]interface{}{
			"game":          fmt.Sprintf("Game %d", i+1),
			"stake":         pair[0],
			"return_amount": pair[1],
			"date":          fmt.Sprintf("2024-03-%02d", i+1),
		})
		rec := doRequest(srv, authedRequest(http.MethodPost, "/api/bets", token, body))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create bet %d: got %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	body := jsonBody(t, map[string]interface{}{"amount": 300.0, "date": "2024-03-01"})
	rec := doRequest(srv, authedRequest(http.MethodPost, "/api/deposits", token, body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create deposit: got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/stats", token, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report struct {
		TotalBets     int     `json:"total_bets"`
		TotalProfit   float64 `json:"total_profit"`
		WinRate       int     `json:"win_rate"`
		TotalDeposits float64 `json:"total_deposits"`
		NetProfit     float64 `json:"net_profit"`
		BestWin       float64 `json:"best_win"`
	}
	json.NewDecoder(rec.Body).Decode(&report)

	if report.TotalBets != 3 {
		t.Errorf("expected 3 bets, got %d", report.TotalBets)
	}
	if report.TotalProfit != 580 {
		t.Errorf("expected total profit 580, got %v", report.TotalProfit)
	}
	if report.WinRate != 67 {
		t.Errorf("expected win rate 67, got %d", report.WinRate)
	}
	if report.BestWin != 480 {
		t.Errorf("expected best win 480, got %v", report.BestWin)
	}
	if report.TotalDeposits != 300 {
		t.Errorf("expected deposits 300, got %v", report.TotalDeposits)
	}
	if report.NetProfit != 280 {
		t.Errorf("expected net profit 280, got %v", report.NetProfit)
	}
}

func TestCalendarEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "frank")

	body := jsonBody(t, map[string]interface{}{
		"game":          "Pacers +4",
		"stake":         50.0,
		"return_amount": 120.0,
		"date":          "2024-01-15",
	})
	rec := doRequest(srv, authedRequest(http.MethodPost, "/api/bets", token, body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bet: got %d", rec.Code)
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/stats/calendar?year=2024&month=1", token, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/stats/calendar?year=2024&month=13", token, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for month 13, got %d", rec.Code)
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/stats/calendar?year=banana&month=1", token, nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric year, got %d", rec.Code)
	}
}

func TestTrendChartNeedsData(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "grace")

	rec := doRequest(srv, authedRequest(http.MethodGet, "/api/stats/trend.png", token, nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 with no bets, got %d", rec.Code)
	}

	for i := 0; i < 2; i++ {
		body := jsonBody(t, map[string]interface{}{
			"game":          fmt.Sprintf("Leg %d", i+1),
			"stake":         10.0,
			"return_amount": 25.0,
			"date":          fmt.Sprintf("2024-02-%02d", i+1),
		})
		rec := doRequest(srv, authedRequest(http.MethodPost, "/api/bets", token, body))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create bet %d: got %d", i, rec.Code)
		}
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/stats/trend.png", token, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with 2 bets, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty PNG body")
	}
}

func TestImportCSVEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := loginAs(t, srv, "henry")

	csvData := strings.Join([]string{
		"Date Placed,Bet Type,Description,Risk,To Win,Result,Net Winnings",
		`3/16/2024,Moneyline,Chiefs -3,"$100.00","$90.91",Won,"$90.91"`,
		`3/17/2024,Spread,Lakers +5,"$50.00","$45.00",Lost,"-$50.00"`,
	}, "\n")

	req := authedRequest(http.MethodPost, "/api/bets/import", token, bytes.NewBufferString(csvData))
	req.Header.Set("Content-Type", "text/csv")
	rec := doRequest(srv, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	json.NewDecoder(rec.Body).Decode(&result)
	if result.Imported != 2 {
		t.Errorf("expected 2 imported, got %d", result.Imported)
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/bets", token, nil))
	var bets []map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&bets)
	if len(bets) != 2 {
		t.Fatalf("expected 2 bets after import, got %d", len(bets))
	}
}

func TestUserIsolation(t *testing.T) {
	srv := newTestServer(t)
	tokenA := loginAs(t, srv, "isol-a")
	tokenB := loginAs(t, srv, "isol-b")

	body := jsonBody(t, map[string]interface{}{
		"game":          "Private bet",
		"stake":         10.0,
		"return_amount": 30.0,
		"date":          "2024-05-01",
	})
	rec := doRequest(srv, authedRequest(http.MethodPost, "/api/bets", tokenA, body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bet: got %d", rec.Code)
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/bets", tokenB, nil))
	var bets []map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&bets)
	if len(bets) != 0 {
		t.Errorf("user B sees %d of user A's bets", len(bets))
	}
}

func TestUserAccessControl(t *testing.T) {
	srv := newTestServer(t)
	tokenA := loginAs(t, srv, "acl-a")
	loginAs(t, srv, "acl-b")

	rec := doRequest(srv, authedRequest(http.MethodGet, "/api/users/acl-b", tokenA, nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 reading another account, got %d", rec.Code)
	}

	rec = doRequest(srv, authedRequest(http.MethodGet, "/api/users/acl-a", tokenA, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 reading own account, got %d", rec.Code)
	}
}

func TestShutdownDisabledInProduction(t *testing.T) {
	srv := newTestServer(t)
	srv.app.Config.Environment = "production"

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/shutdown", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 in production, got %d", rec.Code)
	}
}
