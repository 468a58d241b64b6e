package stats

import (
	"math"
	"sort"

	"github.com/jstanton/wagerbook/internal/models"
)

// efficiencyScore blends ROI, win rate, and the win/loss profit ratio into a
// single 0-100 style score. Weights: 40% ROI (clamped to ±100%), 30% win
// rate, 30% ratio (capped at 3, which an infinite ratio saturates).
func efficiencyScore(overallROI float64, winRate int, ratio models.Ratio) float64 {
	roiComponent := clamp(overallROI/100, -1, 1) * 0.4
	winComponent := float64(winRate) / 100 * 0.3

	ratioValue := 3.0
	if !ratio.Infinite {
		ratioValue = math.Min(3, math.Max(0, ratio.Value))
	}
	ratioComponent := ratioValue / 3 * 0.3

	return round2((roiComponent + winComponent + ratioComponent) * 100)
}

// riskAdjustedReturn is the mean profit per bet divided by the population
// standard deviation of profits. A zero deviation with positive mean profit
// is reported as infinite; otherwise zero.
func riskAdjustedReturn(bets []models.CanonicalBet, totalProfit float64) models.Ratio {
	if len(bets) == 0 {
		return models.Ratio{}
	}
	mean := totalProfit / float64(len(bets))
	var variance float64
	for _, b := range bets {
		d := b.Profit - mean
		variance += d * d
	}
	variance /= float64(len(bets))
	std := math.Sqrt(variance)

	if std == 0 {
		if mean > 0 {
			return models.Ratio{Infinite: true}
		}
		return models.Ratio{}
	}
	return models.Ratio{Value: round2(mean / std)}
}

// valueAtRisk is the historical VaR at the given confidence level: the loss
// at the (1-confidence) quantile of the profit distribution. Returns nil when
// there are no bets, and zero when the quantile bet was not a loss.
func valueAtRisk(bets []models.CanonicalBet, confidence float64) *float64 {
	if len(bets) == 0 {
		return nil
	}
	profits := make([]float64, len(bets))
	for i, b := range bets {
		profits[i] = b.Profit
	}
	sort.Float64s(profits)

	idx := int(math.Floor((1 - confidence) * float64(len(profits))))
	if idx >= len(profits) {
		idx = len(profits) - 1
	}
	v := 0.0
	if profits[idx] < 0 {
		v = round2(math.Abs(profits[idx]))
	}
	return &v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
