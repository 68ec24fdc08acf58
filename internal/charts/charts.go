// Package charts renders interactive HTML charts for the activity views.
package charts

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/palette"
)

// ChartConfig holds display options for a chart.
type ChartConfig struct {
	Title    string
	Subtitle string
	Width    string // e.g. "1200px"
	Height   string
	Theme    string
}

// DefaultChartConfig returns the default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "1200px",
		Height: "500px",
		Theme:  "light",
	}
}

// RenderActivity writes a stacked daily wins/losses bar chart covering every
// day in weeks, in calendar order.
func RenderActivity(w io.Writer, grid map[string]model.ActivityDay, weeks [][]time.Time, config ChartConfig) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
	)

	var labels []string
	var wins, losses []opts.BarData
	for _, week := range weeks {
		for _, day := range week {
			key := aggregator.DayKey(day)
			d := grid[key]
			labels = append(labels, key)
			wins = append(wins, opts.BarData{Value: d.Wins})
			losses = append(losses, opts.BarData{Value: d.Losses})
		}
	}

	bar.SetXAxis(labels).
		AddSeries("Wins", wins,
			charts.WithBarChartOpts(opts.BarChart{Stack: "day"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: palette.ForWinRate(100).Hex()}),
		).
		AddSeries("Losses", losses,
			charts.WithBarChartOpts(opts.BarChart{Stack: "day"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: palette.ForWinRate(0).Hex()}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderActivityFile is RenderActivity into a new file at outputPath.
func RenderActivityFile(outputPath string, grid map[string]model.ActivityDay, weeks [][]time.Time, config ChartConfig) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := RenderActivity(f, grid, weeks, config); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
