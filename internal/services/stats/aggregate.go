package stats

import (
	"math"
	"sort"

	"github.com/jstanton/wagerbook/internal/models"
)

// Compute derives the full metrics report from the canonical bet collection
// and deposits. Every zero-denominator case resolves to a documented
// sentinel; the report never carries NaN or ±Inf.
func Compute(bets []models.CanonicalBet, deposits []models.Deposit) *models.MetricsReport {
	r := &models.MetricsReport{}

	r.TotalBets = len(bets)

	var wins, losses []models.CanonicalBet
	for _, b := range bets {
		r.TotalProfit += b.Profit
		r.TotalAmountRisked += b.Stake
		if b.CashedOut {
			r.CashedOutBets++
		}
		if b.IsWin() {
			wins = append(wins, b)
		} else {
			losses = append(losses, b)
		}
		if b.Profit > r.BestWin {
			r.BestWin = b.Profit
		}
	}
	r.Wins = len(wins)
	r.Losses = len(losses)

	if r.TotalBets > 0 {
		r.WinRate = int(math.Round(float64(r.Wins) / float64(r.TotalBets) * 100))
		r.AverageStake = round2(r.TotalAmountRisked / float64(r.TotalBets))
	}

	var totalWinProfit, totalLossAmount float64
	for _, b := range wins {
		totalWinProfit += b.Profit
	}
	for _, b := range losses {
		totalLossAmount += math.Abs(b.Profit)
		if b.Profit < r.BiggestLoss {
			r.BiggestLoss = b.Profit
		}
	}

	if len(wins) > 0 {
		r.AverageProfitPerWin = round2(totalWinProfit / float64(len(wins)))
	}
	if len(losses) > 0 {
		r.AverageLossPerLoss = round2(totalLossAmount / float64(len(losses)))
	}

	if r.TotalAmountRisked > 0 {
		r.OverallROI = round1(r.TotalProfit / r.TotalAmountRisked * 100)
	}

	// Win/loss profit ratio: infinite when there are winnings but no losses.
	switch {
	case totalLossAmount > 0:
		r.WinLossProfitRatio = models.Ratio{Value: round2(totalWinProfit / totalLossAmount)}
	case totalWinProfit > 0:
		r.WinLossProfitRatio = models.Ratio{Infinite: true}
	default:
		r.WinLossProfitRatio = models.Ratio{}
	}

	r.ProfitEfficiencyScore = efficiencyScore(r.OverallROI, r.WinRate, r.WinLossProfitRatio)
	r.RiskAdjustedReturn = riskAdjustedReturn(bets, r.TotalProfit)
	r.ValueAtRisk95 = valueAtRisk(bets, 0.95)
	r.ValueAtRisk99 = valueAtRisk(bets, 0.99)
	r.Edge = edge(bets, wins, losses, r.TotalAmountRisked)
	r.KellyPercent = kelly(bets, wins, r.TotalAmountRisked)
	r.Streak = currentStreak(bets)

	r.AverageOdds, r.AvgOddsWins, r.AvgOddsLosses = averageOdds(bets)

	r.Games = gameStats(bets)
	r.Leagues = leagueStats(bets)
	r.Categories = categoryStats(bets)
	r.LiveSplit = liveSplit(bets)

	sorted := sortByDateAsc(bets)
	r.ProfitTrend = profitTrend(sorted)
	r.RollingWinRate = rollingWinRate(sorted, 10)

	for _, d := range deposits {
		r.TotalDeposits += d.Amount
	}
	r.NetProfit = r.TotalProfit - r.TotalDeposits

	return r
}

// currentStreak counts consecutive same-outcome bets going back from the
// most recent bet (date descending).
func currentStreak(bets []models.CanonicalBet) models.Streak {
	if len(bets) == 0 {
		return models.Streak{}
	}
	sorted := make([]models.CanonicalBet, len(bets))
	copy(sorted, bets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Day.After(sorted[j].Day)
	})

	streakType := "loss"
	if sorted[0].IsWin() {
		streakType = "win"
	}
	count := 0
	for _, b := range sorted {
		if (streakType == "win") == b.IsWin() {
			count++
		} else {
			break
		}
	}
	return models.Streak{Count: count, Type: streakType}
}

// averageOdds returns the mean stored odds over all bets carrying odds, and
// split by outcome. Bets without odds are excluded, not treated as zero.
func averageOdds(bets []models.CanonicalBet) (all, winsAvg, lossesAvg *float64) {
	var sumAll, sumWins, sumLosses float64
	var nAll, nWins, nLosses int
	for _, b := range bets {
		if b.Odds == nil {
			continue
		}
		sumAll += *b.Odds
		nAll++
		if b.IsWin() {
			sumWins += *b.Odds
			nWins++
		} else {
			sumLosses += *b.Odds
			nLosses++
		}
	}
	if nAll > 0 {
		v := round2(sumAll / float64(nAll))
		all = &v
	}
	if nWins > 0 {
		v := round2(sumWins / float64(nWins))
		winsAvg = &v
	}
	if nLosses > 0 {
		v := round2(sumLosses / float64(nLosses))
		lossesAvg = &v
	}
	return all, winsAvg, lossesAvg
}

func gameStats(bets []models.CanonicalBet) []models.GroupStat {
	idx := map[string]int{}
	var out []models.GroupStat
	for _, b := range bets {
		i, ok := idx[b.Game]
		if !ok {
			i = len(out)
			idx[b.Game] = i
			out = append(out, models.GroupStat{Name: b.Game})
		}
		out[i].Profit += b.Profit
		out[i].Bets++
	}
	return out
}

func leagueStats(bets []models.CanonicalBet) []models.LeagueStat {
	idx := map[string]int{}
	var out []models.LeagueStat
	for _, b := range bets {
		if b.SportLeague == "" {
			continue
		}
		i, ok := idx[b.SportLeague]
		if !ok {
			i = len(out)
			idx[b.SportLeague] = i
			out = append(out, models.LeagueStat{Name: b.SportLeague})
		}
		out[i].Profit += b.Profit
		out[i].Bets++
		out[i].TotalStake += b.Stake
	}
	for i := range out {
		if out[i].TotalStake > 0 {
			out[i].ROI = round1(out[i].Profit / out[i].TotalStake * 100)
		}
	}
	return out
}

// categoryStats buckets per category, with live bets under a distinct
// "Live {category}" bucket so a live parlay never merges with a pre-game one.
func categoryStats(bets []models.CanonicalBet) []models.CategoryStat {
	idx := map[string]int{}
	var out []models.CategoryStat
	for _, b := range bets {
		if b.Category == "" {
			continue
		}
		name := b.Category
		if b.Live {
			name = "Live " + b.Category
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, models.CategoryStat{Name: name})
		}
		out[i].Profit += b.Profit
		out[i].Bets++
		out[i].TotalStake += b.Stake
		if b.IsWin() {
			out[i].Wins++
		}
	}
	for i := range out {
		if out[i].Bets > 0 {
			out[i].WinRate = int(math.Round(float64(out[i].Wins) / float64(out[i].Bets) * 100))
		}
		if out[i].TotalStake > 0 {
			out[i].ROI = round1(out[i].Profit / out[i].TotalStake * 100)
		}
	}
	return out
}

func liveSplit(bets []models.CanonicalBet) []models.LiveStat {
	out := []models.LiveStat{{Name: "Live"}, {Name: "Non-Live"}}
	for _, b := range bets {
		i := 1
		if b.Live {
			i = 0
		}
		out[i].Profit += b.Profit
		out[i].Bets++
		if b.IsWin() {
			out[i].Wins++
		}
	}
	for i := range out {
		if out[i].Bets > 0 {
			out[i].WinRate = int(math.Round(float64(out[i].Wins) / float64(out[i].Bets) * 100))
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
