package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jstanton/wagerbook/internal/interfaces"
	"github.com/jstanton/wagerbook/internal/models"
)

// csvColumns holds resolved column indexes for a sportsbook export. Header
// detection is fuzzy; exports from different account pages label the same
// columns differently.
type csvColumns struct {
	date   int
	risk   int
	toWin  int
	desc   int
	result int
	net    int
}

// findColumn returns the first header matching any pattern, scanning the
// patterns in priority order so "description" beats the looser "bet".
func findColumn(headers []string, patterns ...string) int {
	for _, p := range patterns {
		for i, h := range headers {
			if strings.Contains(h, p) {
				return i
			}
		}
	}
	return -1
}

func detectColumns(raw []string) csvColumns {
	headers := make([]string, len(raw))
	for i, h := range raw {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := csvColumns{
		date:   findColumn(headers, "date"),
		risk:   findColumn(headers, "risk", "stake", "wager"),
		toWin:  findColumn(headers, "to win", "payout", "return"),
		desc:   findColumn(headers, "description", "game", "bet"),
		result: findColumn(headers, "result", "status"),
		net:    findColumn(headers, "net", "profit"),
	}

	// Positional fallback matching the common DraftKings layout:
	// Date, Bet Type, Description, Risk, To Win, Result, Net
	if cols.date == -1 {
		cols.date = 0
	}
	if cols.desc == -1 {
		cols.desc = 2
	}
	if cols.risk == -1 {
		cols.risk = 3
	}
	if cols.toWin == -1 {
		cols.toWin = 4
	}
	if cols.result == -1 {
		cols.result = 5
	}
	if cols.net == -1 {
		cols.net = 6
	}
	return cols
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseMoney strips currency formatting ("$1,250.00") before parsing.
func parseMoney(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseImportDate accepts ISO dates and the M/D/YYYY form sportsbook exports
// use. Unparseable dates fall back to today.
func parseImportDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "1/2/2006", "01/02/2006", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return time.Now().Format("2006-01-02")
}

// ImportCSV parses a sportsbook CSV export and adds the resulting bets.
// Pending bets (no recognizable result and no net amount) are skipped, not
// treated as errors. A row that fails to store stops nothing; the result
// carries per-row errors.
func (s *Service) ImportCSV(ctx context.Context, userID string, data []byte) (*interfaces.ImportResult, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file appears to be empty or invalid")
	}

	cols := detectColumns(rows[0])
	result := &interfaces.ImportResult{}

	for i, row := range rows[1:] {
		if len(row) < 4 {
			result.Skipped++
			continue
		}

		stake, _ := parseMoney(field(row, cols.risk))
		toWin, _ := parseMoney(field(row, cols.toWin))
		net, hasNet := parseMoney(field(row, cols.net))
		outcome := strings.ToLower(field(row, cols.result))

		var returnAmount float64
		switch {
		case hasNet:
			returnAmount = stake + net
		case strings.Contains(outcome, "win") || strings.Contains(outcome, "won"):
			returnAmount = stake + toWin
		case strings.Contains(outcome, "loss") || strings.Contains(outcome, "lost") || strings.Contains(outcome, "lose"):
			returnAmount = 0
		default:
			// Pending bet, leave it for a later import.
			result.Skipped++
			continue
		}

		description := field(row, cols.desc)
		if description == "" {
			description = "DraftKings Bet"
		}

		bet := &models.Bet{
			Game:         "DraftKings - " + description,
			Stake:        stake,
			ReturnAmount: returnAmount,
			Date:         parseImportDate(field(row, cols.date)),
			CashedOut:    strings.Contains(outcome, "cash"),
		}

		if _, err := s.AddBet(ctx, userID, bet); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		result.Imported++
	}

	s.logger.Info().
		Str("user_id", userID).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("CSV import complete")

	return result, nil
}
