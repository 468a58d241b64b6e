package stats

import (
	"testing"

	"github.com/jstanton/wagerbook/internal/models"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		year   int
		month  int
		day    int
		wantOK bool
	}{
		{"plain date", "2024-03-15", 2024, 3, 15, true},
		{"timestamp suffix stripped", "2024-03-15T18:30:00Z", 2024, 3, 15, true},
		{"new year day keeps its day", "2024-01-01", 2024, 1, 1, true},
		{"empty", "", 0, 0, 0, false},
		{"garbage", "not-a-date", 0, 0, 0, false},
		{"month rollover rejected", "2024-13-01", 0, 0, 0, false},
		{"day rollover rejected", "2024-02-30", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDay(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("parseDay(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Year() != tt.year || int(got.Month()) != tt.month || got.Day() != tt.day {
				t.Errorf("parseDay(%q) = %v, want %04d-%02d-%02d",
					tt.input, got, tt.year, tt.month, tt.day)
			}
		})
	}
}

func TestCanonicalizeReconcilesProfit(t *testing.T) {
	bets := []*models.Bet{
		{Game: "derived", Stake: 100, ReturnAmount: 250, Profit: 0},
		{Game: "stored", Stake: 50, ReturnAmount: 0, Profit: -50},
		{Game: "push", Stake: 20, ReturnAmount: 20, Profit: 0},
	}

	out := Canonicalize(bets)

	if out[0].Profit != 150 {
		t.Errorf("derived profit = %v, want 150", out[0].Profit)
	}
	if out[1].Profit != -50 {
		t.Errorf("stored profit = %v, want -50", out[1].Profit)
	}
	if out[2].Profit != 0 {
		t.Errorf("push profit = %v, want 0", out[2].Profit)
	}
}

func TestNormalizeRawCoercion(t *testing.T) {
	raw := []map[string]any{
		{
			"game":          "Lakers ML",
			"stake":         "100",
			"return_amount": 250.0,
			"date":          "2024-03-15T10:00:00",
			"odds":          "-110",
			"live":          true,
		},
		{
			"game":  "Blank odds",
			"stake": 50.0,
			"date":  "2024-03-16",
			"odds":  "",
		},
	}

	out := NormalizeRaw(raw)
	if len(out) != 2 {
		t.Fatalf("got %d bets, want 2", len(out))
	}

	first := out[0]
	if first.Stake != 100 || first.ReturnAmount != 250 {
		t.Errorf("coerced amounts = %v/%v, want 100/250", first.Stake, first.ReturnAmount)
	}
	if first.Profit != 150 {
		t.Errorf("profit = %v, want 150", first.Profit)
	}
	if !first.DateValid || first.Day.Day() != 15 {
		t.Errorf("day = %v (valid=%v), want the 15th", first.Day, first.DateValid)
	}
	if first.Odds == nil || *first.Odds != -110 {
		t.Errorf("odds = %v, want -110", first.Odds)
	}
	if !first.Live {
		t.Error("live flag lost in coercion")
	}

	if out[1].Odds != nil {
		t.Errorf("unparseable odds should stay absent, got %v", *out[1].Odds)
	}
}
