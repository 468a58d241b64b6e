package stats

import (
	"sort"

	"github.com/jstanton/wagerbook/internal/models"
)

// MonthView groups the bets of a given year and month by day and sums each
// day's profit. Grouping uses the stored date string directly so a bet lands
// on the day it was recorded regardless of the server timezone. Days without
// bets are omitted.
func MonthView(bets []models.CanonicalBet, year, month int) models.CalendarMonth {
	byDay := map[int]*models.CalendarDay{}
	for _, b := range bets {
		if !b.DateValid || b.Day.Year() != year || int(b.Day.Month()) != month {
			continue
		}
		day := b.Day.Day()
		cd, ok := byDay[day]
		if !ok {
			cd = &models.CalendarDay{Day: day}
			byDay[day] = cd
		}
		cd.Profit += b.Profit
		cd.Bets = append(cd.Bets, b.Bet)
	}

	days := make([]models.CalendarDay, 0, len(byDay))
	for _, cd := range byDay {
		cd.Profit = round2(cd.Profit)
		days = append(days, *cd)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })

	return models.CalendarMonth{Year: year, Month: month, Days: days}
}
