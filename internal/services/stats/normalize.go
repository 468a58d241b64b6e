// Package stats is the derived-statistics engine: a set of pure functions
// that turn the raw bet ledger into the metrics report rendered by the
// dashboard and analytics views. The engine is stateless and performs no
// I/O; it recomputes everything from the full record set on each call.
package stats

import (
	"strconv"
	"strings"
	"time"

	"github.com/jstanton/wagerbook/internal/models"
)

// parseDay parses a strict YYYY-MM-DD date from its literal components.
// A time suffix ("2024-03-15T09:00:00Z") is stripped before parsing.
// General date parsing is deliberately avoided: parsing in a local time zone
// can shift the calendar day near UTC midnight boundaries.
func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if idx := strings.IndexByte(s, 'T'); idx >= 0 {
		s = s[:idx]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject rollover dates like 2024-02-31.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// Canonicalize converts stored bets into the canonical engine shape:
// profit reconciled and the date parsed with a validity flag.
func Canonicalize(bets []*models.Bet) []models.CanonicalBet {
	out := make([]models.CanonicalBet, 0, len(bets))
	for _, b := range bets {
		if b == nil {
			continue
		}
		cb := models.CanonicalBet{Bet: *b}
		// A zero profit alongside unequal stake/return means the derived
		// field was never written; reconcile it.
		if cb.Profit == 0 && cb.ReturnAmount != cb.Stake {
			cb.Profit = cb.ReturnAmount - cb.Stake
		}
		cb.Day, cb.DateValid = parseDay(cb.Date)
		out = append(out, cb)
	}
	return out
}

// NormalizeRaw converts loosely-typed records, as decoded from the document
// store, into canonical bets. Missing or unparseable numeric fields coerce to
// zero, except odds, which remain absent so they stay out of odds-based
// metrics. Malformed records degrade field by field; nothing here returns an
// error or panics.
func NormalizeRaw(raw []map[string]any) []models.CanonicalBet {
	if raw == nil {
		return []models.CanonicalBet{}
	}
	out := make([]models.CanonicalBet, 0, len(raw))
	for _, rec := range raw {
		if rec == nil {
			continue
		}
		var b models.Bet
		b.ID = toString(rec["id"])
		b.UserID = toString(rec["user_id"])
		b.Game = toString(rec["game"])
		b.Stake = toFloat(rec["stake"])
		b.ReturnAmount = toFloat(rec["return_amount"])
		b.Date = toString(rec["date"])
		b.Category = toString(rec["category"])
		b.SportLeague = toString(rec["sport_league"])
		b.CashedOut = toBool(rec["cashed_out"])
		b.Live = toBool(rec["live"])
		b.Screenshot = toString(rec["screenshot"])

		if odds, ok := toFloatOpt(rec["odds"]); ok {
			b.Odds = &odds
		}

		if p, ok := toFloatOpt(rec["profit"]); ok {
			b.Profit = p
		} else {
			b.Profit = b.ReturnAmount - b.Stake
		}

		cb := models.CanonicalBet{Bet: b}
		cb.Day, cb.DateValid = parseDay(b.Date)
		out = append(out, cb)
	}
	return out
}

// NormalizeDeposits coerces raw deposit records. Records without a positive
// amount are kept at zero rather than dropped so counts stay honest.
func NormalizeDeposits(raw []map[string]any) []models.Deposit {
	if raw == nil {
		return []models.Deposit{}
	}
	out := make([]models.Deposit, 0, len(raw))
	for _, rec := range raw {
		if rec == nil {
			continue
		}
		out = append(out, models.Deposit{
			ID:     toString(rec["id"]),
			UserID: toString(rec["user_id"]),
			Amount: toFloat(rec["amount"]),
			Date:   toString(rec["date"]),
		})
	}
	return out
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func toBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func toFloat(v any) float64 {
	f, _ := toFloatOpt(v)
	return f
}

// toFloatOpt coerces the numeric shapes a JSON/CBOR decoder can produce.
// Strings are parsed since older exports stored amounts as text.
func toFloatOpt(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		if n == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
