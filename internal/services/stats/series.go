package stats

import (
	"math"
	"sort"

	"github.com/jstanton/wagerbook/internal/models"
)

// sortByDateAsc returns a date-ascending copy of the bets. Invalid dates sort
// first (they normalize to the zero day) and ties keep their input order.
func sortByDateAsc(bets []models.CanonicalBet) []models.CanonicalBet {
	sorted := make([]models.CanonicalBet, len(bets))
	copy(sorted, bets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Day.Before(sorted[j].Day)
	})
	return sorted
}

// profitTrend is the cumulative profit series, one point per bet in ascending
// date order, labeled by game.
func profitTrend(sorted []models.CanonicalBet) []models.TrendPoint {
	out := make([]models.TrendPoint, 0, len(sorted))
	var running float64
	for _, b := range sorted {
		running += b.Profit
		out = append(out, models.TrendPoint{
			Name:   b.Game,
			Date:   b.Date,
			Profit: round2(running),
		})
	}
	return out
}

// rollingWinRate is the win rate over a trailing window ending at each bet,
// in ascending date order. Early points use the shorter prefix window.
func rollingWinRate(sorted []models.CanonicalBet, window int) []models.RollingPoint {
	out := make([]models.RollingPoint, 0, len(sorted))
	for i := range sorted {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		wins := 0
		for _, b := range sorted[start : i+1] {
			if b.IsWin() {
				wins++
			}
		}
		size := i + 1 - start
		rate := math.Round(float64(wins)/float64(size)*1000) / 10
		out = append(out, models.RollingPoint{
			BetNumber: i + 1,
			WinRate:   rate,
			Date:      sorted[i].Date,
		})
	}
	return out
}
