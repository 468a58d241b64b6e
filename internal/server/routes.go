package server

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/jstanton/wagerbook/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)
	mux.HandleFunc("/debug/memstats", s.handleMemstats)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Users
	mux.HandleFunc("/api/users/", s.routeUsers)
	mux.HandleFunc("/api/users", s.handleUserCreate)

	// Bets
	mux.HandleFunc("/api/bets/cashedout", s.handleBetsCashedOut)
	mux.HandleFunc("/api/bets/import", s.handleBetsImport)
	mux.HandleFunc("/api/bets/", s.routeBets)
	mux.HandleFunc("/api/bets", s.handleBets)

	// Cashflows
	mux.HandleFunc("/api/deposits/", s.routeDeposits)
	mux.HandleFunc("/api/deposits", s.handleDeposits)
	mux.HandleFunc("/api/withdrawals/", s.routeWithdrawals)
	mux.HandleFunc("/api/withdrawals", s.handleWithdrawals)

	// Analytics
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/stats/calendar", s.handleCalendar)
	mux.HandleFunc("/api/stats/trend.png", s.handleTrendChart)

	// Change feed
	mux.HandleFunc("/api/ws/ledger", s.handleWS)
}

// routeUsers dispatches /api/users/{id} to the appropriate handler.
func (s *Server) routeUsers(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if id == "" {
		s.handleUserCreate(w, r)
		return
	}
	if strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleUserByID(w, r, id)
}

// routeBets dispatches /api/bets/{id} to the appropriate handler.
func (s *Server) routeBets(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/bets/")
	if id == "" {
		s.handleBets(w, r)
		return
	}
	if strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	s.handleBetByID(w, r, id)
}

// routeDeposits dispatches /api/deposits/{id}.
func (s *Server) routeDeposits(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/deposits/")
	if id == "" {
		s.handleDeposits(w, r)
		return
	}
	s.handleDepositByID(w, r, id)
}

// routeWithdrawals dispatches /api/withdrawals/{id}.
func (s *Server) routeWithdrawals(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/withdrawals/")
	if id == "" {
		s.handleWithdrawals(w, r)
		return
	}
	s.handleWithdrawalByID(w, r, id)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig handles GET /api/config, a sanitized view of the running
// configuration. Secrets (passwords, JWT secret) are never included.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       cfg.Environment,
		"storage_driver":    cfg.Storage.Driver,
		"storage_address":   cfg.Storage.Address,
		"storage_namespace": cfg.Storage.Namespace,
		"storage_database":  cfg.Storage.Database,
		"storage_data_path": cfg.Storage.Path,
		"logging_level":     cfg.Logging.Level,
		"token_expiry":      cfg.Auth.TokenExpiry,
		"uptime":            uptime.String(),
		"started_at":        s.app.StartupTime,
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

func (s *Server) handleMemstats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"heap_alloc_bytes": m.HeapAlloc,
		"heap_inuse_bytes": m.HeapInuse,
		"sys_bytes":        m.Sys,
		"num_gc":           m.NumGC,
		"heap_alloc_mb":    float64(m.HeapAlloc) / 1024 / 1024,
		"heap_inuse_mb":    float64(m.HeapInuse) / 1024 / 1024,
		"sys_mb":           float64(m.Sys) / 1024 / 1024,
	})
}
