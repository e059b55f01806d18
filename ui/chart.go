package ui

import (
	"strings"

	"github.com/guptarohit/asciigraph"

	"sichat/grid"
	"sichat/model"
)

const chartHeight = 10

// renderChartMessage plots a metric series with its text above and the
// time range below
func renderChartMessage(msg model.Message, width int) string {
	var parts []string
	if msg.Text != "" {
		parts = append(parts, wordWrap(msg.Text, width))
	}

	series, ok := grid.ChartSeries(msg.Data)
	if !ok || len(series.Points) == 0 {
		parts = append(parts, DimStyle.Italic(true).Render(model.EmptyDataMessage(msg.Intent)))
		return strings.Join(parts, "\n")
	}

	// The y-axis labels take about ten cells
	plotWidth := max(width-12, 10)
	plot := asciigraph.Plot(series.Values(),
		asciigraph.Height(chartHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(series.Title),
	)
	parts = append(parts, BotStyle.Render(plot))

	first := series.Points[0].Time.Local().Format(grid.DataTimeLayout)
	last := series.Points[len(series.Points)-1].Time.Local().Format(grid.DataTimeLayout)
	parts = append(parts, DimStyle.Render(first+"  →  "+last))

	if link := moreDetails(msg.Link); link != "" {
		parts = append(parts, link)
	}
	return strings.Join(parts, "\n")
}
