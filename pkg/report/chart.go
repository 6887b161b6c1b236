package report

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/user/netcfg-audit/pkg/engine"
)

var (
	riskColors = []drawing.Color{
		drawing.ColorFromHex("d3d3d3"), // No Risk
		drawing.ColorFromHex("90ee90"), // Low
		drawing.ColorFromHex("ffd700"), // Medium
		drawing.ColorFromHex("dc143c"), // High
	}
	categoryColor = drawing.ColorFromHex("4682b4")
)

// RiskChartPNG renders the device risk distribution in bucket order.
func RiskChartPNG(counts []RiskCount) ([]byte, error) {
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		labels[i] = string(c.Score)
		values[i] = float64(c.Count)
	}
	return barChartPNG("Device Risk Distribution", "Number of Devices", labels, values, riskColors)
}

// CategoryChartPNG renders findings per category in fixed category order.
func CategoryChartPNG(counts []engine.CategoryCount) ([]byte, error) {
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		labels[i] = string(c.Category)
		values[i] = float64(c.Count)
	}
	return barChartPNG("Findings Distribution per Category", "Number of Findings", labels, values,
		[]drawing.Color{categoryColor})
}

func barChartPNG(title, yName string, labels []string, values []float64, colors []drawing.Color) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("chart %q: no bars", title)
	}

	top := 1.0
	bars := make([]chart.Value, len(values))
	for i, v := range values {
		if v > top {
			top = v
		}
		c := colors[i%len(colors)]
		bars[i] = chart.Value{
			// counts go in the label; go-chart has no bar annotations
			Label: fmt.Sprintf("%s (%d)", labels[i], int(v)),
			Value: v,
			Style: chart.Style{FillColor: c, StrokeColor: c},
		}
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      1100,
		Height:     520,
		BarWidth:   90,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.15},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart %q: %w", title, err)
	}
	return buf.Bytes(), nil
}
