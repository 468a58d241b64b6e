package stats

import (
	"math"

	"github.com/jstanton/wagerbook/internal/models"
)

// edge is the realized expected value per bet: the win-rate weighted average
// win minus the loss-rate weighted average loss. The percentage form divides
// by the average stake. Nil when there are no bets.
func edge(bets, wins, losses []models.CanonicalBet, totalRisked float64) *models.EdgeResult {
	n := len(bets)
	if n == 0 {
		return nil
	}

	var avgWin, avgLoss float64
	if len(wins) > 0 {
		for _, b := range wins {
			avgWin += b.Profit
		}
		avgWin /= float64(len(wins))
	}
	if len(losses) > 0 {
		for _, b := range losses {
			avgLoss += math.Abs(b.Profit)
		}
		avgLoss /= float64(len(losses))
	}

	winFrac := float64(len(wins)) / float64(n)
	lossFrac := float64(len(losses)) / float64(n)
	abs := winFrac*avgWin - lossFrac*avgLoss

	var pct float64
	if totalRisked > 0 {
		pct = abs / (totalRisked / float64(n)) * 100
	}

	return &models.EdgeResult{
		Absolute:   round2(abs),
		Percentage: round2(pct),
	}
}

// kelly estimates the Kelly criterion stake fraction, in percent, from the
// realized record. Net odds come from the average return/stake ratio of
// winning bets with positive stake and return. Nil when the record gives no
// usable signal (no bets, nothing risked, no qualifying wins, or net odds at
// or below zero).
func kelly(bets, wins []models.CanonicalBet, totalRisked float64) *float64 {
	if len(bets) == 0 || totalRisked == 0 {
		return nil
	}

	var ratioSum float64
	var qualifying int
	for _, b := range wins {
		if b.Stake > 0 && b.ReturnAmount > 0 {
			ratioSum += b.ReturnAmount / b.Stake
			qualifying++
		}
	}
	if qualifying == 0 {
		return nil
	}

	netOdds := ratioSum/float64(qualifying) - 1
	if netOdds <= 0 {
		return nil
	}

	p := float64(len(wins)) / float64(len(bets))
	q := 1 - p
	fraction := clamp((p*netOdds-q)/netOdds, 0, 1)

	v := round2(fraction * 100)
	return &v
}
