package chart

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/snow-forecast-service/internal/domain"
)

// RenderForecast writes a self-contained HTML page charting a report: snowfall
// bars overlaid with temperature, wind, and cloud cover lines. Axis labels
// are rendered in loc (UTC when nil).
func RenderForecast(w io.Writer, report domain.Report, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	hours := make([]string, len(report.Points))
	snow := make([]opts.BarData, len(report.Points))
	temp := make([]opts.LineData, len(report.Points))
	wind := make([]opts.LineData, len(report.Points))
	cloud := make([]opts.LineData, len(report.Points))
	for i, p := range report.Points {
		hours[i] = p.Time.In(loc).Format("Mon 3pm")
		snow[i] = opts.BarData{Value: floatOrZero(p.SnowInches)}
		temp[i] = opts.LineData{Value: floatValue(p.TemperatureF)}
		wind[i] = opts.LineData{Value: floatValue(p.PeakWindMph())}
		if p.CloudCover != nil {
			cloud[i] = opts.LineData{Value: *p.CloudCover}
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: report.Location.Title,
			Width:     "1000px",
			Height:    "480px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    report.Location.Label,
			Subtitle: subtitle(report),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "snow (in)"}),
	)
	bar.SetXAxis(hours).AddSeries("Snowfall", snow)

	lines := charts.NewLine()
	lines.SetXAxis(hours).
		AddSeries("Temperature (F)", temp).
		AddSeries("Peak wind (mph)", wind).
		AddSeries("Cloud cover (%)", cloud)
	bar.Overlap(lines)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render forecast chart: %w", err)
	}
	return nil
}

func subtitle(report domain.Report) string {
	parts := make([]string, 0, len(report.WarningDetails)+1)
	for _, d := range report.WarningDetails {
		parts = append(parts, fmt.Sprintf("%s %s: %s", strings.ToUpper(string(d.Kind)), d.RangeLabel, d.SummaryText))
	}
	if n := len(report.BluebirdWindows); n > 0 {
		parts = append(parts, fmt.Sprintf("%d bluebird window(s)", n))
	}
	if len(parts) == 0 {
		return "No active warnings"
	}
	return strings.Join(parts, "\n")
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// floatValue returns nil for missing samples so the line shows a gap.
func floatValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
