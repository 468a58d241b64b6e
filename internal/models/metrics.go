package models

import "encoding/json"

// Ratio is a non-negative ratio metric whose denominator can legitimately be
// zero. When Infinite is set the value is meaningless and the metric
// serializes as the string "inf" so dashboards can render the ∞ badge.
type Ratio struct {
	Value    float64
	Infinite bool
}

// MarshalJSON emits a plain number, or "inf" for the infinite sentinel.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.Infinite {
		return json.Marshal("inf")
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts either a number or the "inf" sentinel string.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "inf" || s == "∞" {
			r.Infinite = true
			r.Value = 0
			return nil
		}
	}
	r.Infinite = false
	return json.Unmarshal(data, &r.Value)
}

// EdgeResult is the expected value per bet, absolute and as a percentage of
// the average stake.
type EdgeResult struct {
	Absolute   float64 `json:"absolute"`
	Percentage float64 `json:"percentage"`
}

// Streak is the current run of same-outcome bets, most recent first.
type Streak struct {
	Count int    `json:"count"`
	Type  string `json:"type,omitempty"` // "win" or "loss", empty when no bets
}

// GroupStat is a per-game aggregate.
type GroupStat struct {
	Name   string  `json:"name"`
	Profit float64 `json:"profit"`
	Bets   int     `json:"bets"`
}

// LeagueStat is a per-sport-league aggregate.
type LeagueStat struct {
	Name       string  `json:"name"`
	Profit     float64 `json:"profit"`
	Bets       int     `json:"bets"`
	TotalStake float64 `json:"total_stake"`
	ROI        float64 `json:"roi"`
}

// CategoryStat is a per-category aggregate. Live bets land in a separate
// "Live {category}" bucket from their non-live counterparts.
type CategoryStat struct {
	Name       string  `json:"name"`
	Profit     float64 `json:"profit"`
	Bets       int     `json:"bets"`
	Wins       int     `json:"wins"`
	TotalStake float64 `json:"total_stake"`
	WinRate    int     `json:"win_rate"`
	ROI        float64 `json:"roi"`
}

// LiveStat is the live vs non-live split.
type LiveStat struct {
	Name    string  `json:"name"` // "Live" or "Non-Live"
	Profit  float64 `json:"profit"`
	Bets    int     `json:"bets"`
	Wins    int     `json:"wins"`
	WinRate int     `json:"win_rate"`
}

// TrendPoint is one point of the cumulative profit series, one per bet in
// ascending date order.
type TrendPoint struct {
	Name   string  `json:"name"` // game label
	Date   string  `json:"date"`
	Profit float64 `json:"profit"` // running total
}

// RollingPoint is one point of the rolling win rate series (window of the 10
// most recent bets ending at this position).
type RollingPoint struct {
	BetNumber int     `json:"bet_number"` // 1-indexed
	WinRate   float64 `json:"win_rate"`   // percent, 1 decimal
	Date      string  `json:"date"`
}

// CalendarDay is one day of the month view with its profit total and the bets
// behind it for drill-down.
type CalendarDay struct {
	Day    int     `json:"day"`
	Profit float64 `json:"profit"`
	Bets   []Bet   `json:"bets"`
}

// CalendarMonth is the daily profit aggregation for a given year and month.
type CalendarMonth struct {
	Year  int           `json:"year"`
	Month int           `json:"month"` // 1-12
	Days  []CalendarDay `json:"days"`  // only days with bets, ascending
}

// MetricsReport is the full derived-statistics output. It is recomputed from
// the complete record set on every request; nil pointer fields mean the
// metric is undefined for the input (usually an empty collection).
type MetricsReport struct {
	// Headline totals
	TotalProfit   float64 `json:"total_profit"`
	TotalBets     int     `json:"total_bets"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       int     `json:"win_rate"` // percent, rounded
	BestWin       float64 `json:"best_win"` // never negative
	BiggestLoss   float64 `json:"biggest_loss"`
	TotalDeposits float64 `json:"total_deposits"`
	NetProfit     float64 `json:"net_profit"`
	CashedOutBets int     `json:"cashed_out_bets"`

	// Stake and averages
	TotalAmountRisked   float64 `json:"total_amount_risked"`
	AverageStake        float64 `json:"average_stake"`
	AverageProfitPerWin float64 `json:"average_profit_per_win"`
	AverageLossPerLoss  float64 `json:"average_loss_per_loss"`
	OverallROI          float64 `json:"overall_roi"` // percent

	// Composite / risk metrics
	WinLossProfitRatio    Ratio       `json:"win_loss_profit_ratio"`
	ProfitEfficiencyScore float64     `json:"profit_efficiency_score"`
	RiskAdjustedReturn    Ratio       `json:"risk_adjusted_return"`
	ValueAtRisk95         *float64    `json:"value_at_risk_95"`
	ValueAtRisk99         *float64    `json:"value_at_risk_99"`
	Edge                  *EdgeResult `json:"edge"`
	KellyPercent          *float64    `json:"kelly_percent"`
	Streak                Streak      `json:"streak"`

	// Odds
	AverageOdds   *float64 `json:"average_odds"`
	AvgOddsWins   *float64 `json:"avg_odds_wins"`
	AvgOddsLosses *float64 `json:"avg_odds_losses"`

	// Grouped aggregates
	Games      []GroupStat    `json:"games"`
	Leagues    []LeagueStat   `json:"leagues"`
	Categories []CategoryStat `json:"categories"`
	LiveSplit  []LiveStat     `json:"live_split"`

	// Series
	ProfitTrend    []TrendPoint   `json:"profit_trend"`
	RollingWinRate []RollingPoint `json:"rolling_win_rate"`
}
