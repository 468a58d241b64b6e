package stats

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jstanton/wagerbook/internal/models"
)

// RenderTrendChart renders the cumulative profit series as a PNG line chart.
// One series: running profit (green solid) with a zero baseline (gray
// dashed). Returns raw PNG bytes.
func RenderTrendChart(points []models.TrendPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, len(points))
	profitY := make([]float64, len(points))
	zeroY := make([]float64, len(points))

	for i, p := range points {
		t, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			t = time.Unix(0, 0).UTC()
		}
		xValues[i] = t
		profitY[i] = p.Profit
	}

	profitSeries := chart.TimeSeries{
		Name: "Cumulative Profit",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("16a34a"), // green-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: profitY,
	}

	baselineSeries := chart.TimeSeries{
		Name: "Break Even",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: zeroY,
	}

	graph := chart.Chart{
		Title:  "Profit Trend",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			profitSeries,
			baselineSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
