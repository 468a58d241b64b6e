package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jstanton/wagerbook/internal/interfaces"
	"github.com/jstanton/wagerbook/internal/models"
)

// handleBets handles GET /api/bets (list) and POST /api/bets (create).
func (s *Server) handleBets(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		opts := interfaces.ListOptions{
			Filter: r.URL.Query().Get("filter"),
			Sort:   r.URL.Query().Get("sort"),
		}
		bets, err := s.app.LedgerService.ListBets(r.Context(), userID, opts)
		if err != nil {
			if strings.HasPrefix(err.Error(), "unknown") {
				WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list bets")
			WriteError(w, http.StatusInternalServerError, "failed to list bets")
			return
		}
		WriteJSON(w, http.StatusOK, bets)

	case http.MethodPost:
		var bet models.Bet
		if !DecodeJSON(w, r, &bet) {
			return
		}
		created, err := s.app.LedgerService.AddBet(r.Context(), userID, &bet)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleBetByID handles GET/PUT/DELETE /api/bets/{id}.
func (s *Server) handleBetByID(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		bet, err := s.app.LedgerService.GetBet(r.Context(), userID, id)
		if err != nil {
			WriteError(w, http.StatusNotFound, "bet not found")
			return
		}
		WriteJSON(w, http.StatusOK, bet)

	case http.MethodPut:
		var bet models.Bet
		if !DecodeJSON(w, r, &bet) {
			return
		}
		bet.ID = id
		updated, err := s.app.LedgerService.UpdateBet(r.Context(), userID, &bet)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				WriteError(w, http.StatusNotFound, "bet not found")
				return
			}
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.LedgerService.DeleteBet(r.Context(), userID, id); err != nil {
			s.logger.Error().Err(err).Str("bet_id", id).Msg("Failed to delete bet")
			WriteError(w, http.StatusInternalServerError, "failed to delete bet")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleBetsCashedOut handles GET /api/bets/cashedout.
func (s *Server) handleBetsCashedOut(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	bets, err := s.app.LedgerService.ListCashedOut(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list cashed-out bets")
		WriteError(w, http.StatusInternalServerError, "failed to list cashed-out bets")
		return
	}
	WriteJSON(w, http.StatusOK, bets)
}

// handleBetsImport handles POST /api/bets/import. The body is the raw CSV
// export, or a multipart form with a "file" field.
func (s *Server) handleBetsImport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	data, err := readImportBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.app.LedgerService.ImportCSV(r.Context(), userID, data)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// readImportBody extracts CSV bytes from either a multipart upload or a raw
// request body.
func readImportBody(r *http.Request) ([]byte, error) {
	const maxImportSize = 10 << 20

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(io.LimitReader(file, maxImportSize))
	}

	return io.ReadAll(io.LimitReader(r.Body, maxImportSize))
}

// handleDeposits handles GET /api/deposits and POST /api/deposits.
func (s *Server) handleDeposits(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		deposits, err := s.app.LedgerService.ListDeposits(r.Context(), userID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list deposits")
			WriteError(w, http.StatusInternalServerError, "failed to list deposits")
			return
		}
		WriteJSON(w, http.StatusOK, deposits)

	case http.MethodPost:
		var deposit models.Deposit
		if !DecodeJSON(w, r, &deposit) {
			return
		}
		created, err := s.app.LedgerService.AddDeposit(r.Context(), userID, &deposit)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleDepositByID handles DELETE /api/deposits/{id}.
func (s *Server) handleDepositByID(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	if err := s.app.LedgerService.DeleteDeposit(r.Context(), userID, id); err != nil {
		s.logger.Error().Err(err).Str("deposit_id", id).Msg("Failed to delete deposit")
		WriteError(w, http.StatusInternalServerError, "failed to delete deposit")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// handleWithdrawals handles GET /api/withdrawals and POST /api/withdrawals.
func (s *Server) handleWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		withdrawals, err := s.app.LedgerService.ListWithdrawals(r.Context(), userID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list withdrawals")
			WriteError(w, http.StatusInternalServerError, "failed to list withdrawals")
			return
		}
		WriteJSON(w, http.StatusOK, withdrawals)

	case http.MethodPost:
		var withdrawal models.Withdrawal
		if !DecodeJSON(w, r, &withdrawal) {
			return
		}
		created, err := s.app.LedgerService.AddWithdrawal(r.Context(), userID, &withdrawal)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, created)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleWithdrawalByID handles PUT/DELETE /api/withdrawals/{id}.
func (s *Server) handleWithdrawalByID(w http.ResponseWriter, r *http.Request, id string) {
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var withdrawal models.Withdrawal
		if !DecodeJSON(w, r, &withdrawal) {
			return
		}
		withdrawal.ID = id
		updated, err := s.app.LedgerService.UpdateWithdrawal(r.Context(), userID, &withdrawal)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				WriteError(w, http.StatusNotFound, "withdrawal not found")
				return
			}
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.LedgerService.DeleteWithdrawal(r.Context(), userID, id); err != nil {
			s.logger.Error().Err(err).Str("withdrawal_id", id).Msg("Failed to delete withdrawal")
			WriteError(w, http.StatusInternalServerError, "failed to delete withdrawal")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleStats handles GET /api/stats, the full derived metrics report.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	report, err := s.app.LedgerService.Stats(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to compute stats")
		WriteError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// handleCalendar handles GET /api/stats/calendar?year=&month=.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid month")
		return
	}

	view, err := s.app.LedgerService.CalendarMonth(r.Context(), userID, year, month)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// handleTrendChart handles GET /api/stats/trend.png.
func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := RequireUser(w, r)
	if !ok {
		return
	}

	png, err := s.app.LedgerService.RenderTrendChart(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleWS upgrades GET /api/ws/ledger to the ledger change feed.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if _, ok := RequireUser(w, r); !ok {
		return
	}
	s.app.Hub.ServeWS(w, r)
}
