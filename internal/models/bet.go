// Package models defines the domain types for Wagerbook
package models

import "time"

// Bet categories form a closed set; anything else is stored as entered but
// grouped under its literal label.
const (
	CategoryMoneyline = "Moneyline"
	CategoryProps     = "Props"
	CategorySpread    = "Spread"
	CategoryOverUnder = "Over/Under"
	CategoryParlay    = "Parlay"
	CategoryOther     = "Other"
)

// Bet is a single wagering event as stored in the document database.
// Profit is derived (ReturnAmount - Stake) but stored redundantly so the
// record is self-describing.
type Bet struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Game         string   `json:"game"`
	Stake        float64  `json:"stake"`
	ReturnAmount float64  `json:"return_amount"`
	Profit       float64  `json:"profit"`
	Date         string   `json:"date"` // YYYY-MM-DD
	Odds         *float64 `json:"odds,omitempty"`
	Category     string   `json:"category,omitempty"`
	SportLeague  string   `json:"sport_league,omitempty"`
	CashedOut    bool     `json:"cashed_out"`
	Live         bool     `json:"live"`
	Screenshot   string   `json:"screenshot,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// IsWin reports whether the bet counts as a win. A zero profit counts as a
// loss (a push is not a win in this ledger).
func (b *Bet) IsWin() bool {
	return b.Profit > 0
}

// CanonicalBet is a Bet after normalization: numeric fields coerced, profit
// reconciled, and the date parsed. DateValid is false when the stored date
// string did not parse; such bets stay in aggregate totals but are excluded
// from calendar bucketing and sort as earliest in date-ordered series.
type CanonicalBet struct {
	Bet
	Day       time.Time
	DateValid bool
}

// Deposit represents bankroll funding.
type Deposit struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Date      string    `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

// Withdrawal represents money taken off a platform. Withdrawals are tracked
// for display only and never enter the statistics engine.
type Withdrawal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Platform  string    `json:"platform"`
	Amount    float64   `json:"amount"`
	Date      string    `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}
