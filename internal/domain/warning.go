package domain

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WarningKind is the hazard a warning range reports.
type WarningKind string

const (
	WarningRain WarningKind = "rain"
	WarningWind WarningKind = "wind"
)

const (
	// MaxWarningSpan caps a single segment and bounds the merge pass.
	MaxWarningSpan = 24 * time.Hour
	// MinRainRangePrecipInches is the total a rain range must exceed to be reported.
	MinRainRangePrecipInches = 0.04
	// rainSuppressBelowPercent zeroes rain windows with a lower chance.
	rainSuppressBelowPercent = 20
)

// WarningThresholds configure the hazard view used for segmentation.
type WarningThresholds struct {
	MinRainProbabilityPercent float64 // probability >= value
	MinMeaningfulPrecipInches float64 // precip > value
	WindMph                   float64 // peak wind > value
	MaxSpan                   time.Duration
	MinRangePrecipInches      float64 // rain range total > value
}

// DefaultWarningThresholds returns the segmentation defaults.
func DefaultWarningThresholds() WarningThresholds {
	return WarningThresholds{
		MinRainProbabilityPercent: 10,
		MinMeaningfulPrecipInches: 0.02,
		WindMph:                   20,
		MaxSpan:                   MaxWarningSpan,
		MinRangePrecipInches:      MinRainRangePrecipInches,
	}
}

// RainStats aggregates the qualifying windows of a rain range.
type RainStats struct {
	AverageChance *float64 `json:"averageChance"`
	TotalPrecip   float64  `json:"totalPrecip"`
}

// WindStats aggregates the qualifying windows of a wind range. PeakGust is nil
// when no member window has a gust sample.
type WindStats struct {
	AverageWind *float64 `json:"averageWind"`
	PeakGust    *float64 `json:"peakGust"`
}

// WarningRange is a labeled span of forecast windows sharing a hazard.
type WarningRange struct {
	Kind           WarningKind `json:"kind"`
	StartIndex     int         `json:"startIndex"`
	EndIndex       int         `json:"endIndex"`
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	StartLabel     string      `json:"startLabel"`
	EndLabel       string      `json:"endLabel"`
	StartDateLabel string      `json:"startDateLabel"`
	Rain           *RainStats  `json:"rain,omitempty"`
	Wind           *WindStats  `json:"wind,omitempty"`
}

// WarningDetail is the human-readable summary of a WarningRange.
type WarningDetail struct {
	ID          string      `json:"id"`
	Kind        WarningKind `json:"kind"`
	RangeLabel  string      `json:"rangeLabel"`
	SummaryText string      `json:"summaryText"`
}

// Warnings holds the reported ranges, sorted by start index, and their details.
type Warnings struct {
	Ranges  []WarningRange  `json:"ranges"`
	Details []WarningDetail `json:"details"`
}

// BluebirdWindow marks a window with fresh powder and no ongoing precipitation.
type BluebirdWindow struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// hazardView is the per-window state used for segmentation. Rain amounts and
// probabilities are adjusted so that marginal rain windows do not qualify.
type hazardView struct {
	start        time.Time
	end          time.Time
	timeLabel    string
	dateLabel    string
	endTimeLabel string

	precipInches float64
	probability  *float64
	rainPoint    bool
	windPoint    bool
}

// SegmentWarnings groups qualifying windows into rain and wind ranges. Labels
// are rendered in loc (UTC when nil).
func SegmentWarnings(points []ForecastPoint, th WarningThresholds, loc *time.Location) Warnings {
	views := buildHazardViews(points, th, loc)

	rain := mergeSegments(buildSegments(views, WarningRain, func(v hazardView) bool { return v.rainPoint }, th.MaxSpan), th.MaxSpan)
	wind := mergeSegments(buildSegments(views, WarningWind, func(v hazardView) bool { return v.windPoint }, th.MaxSpan), th.MaxSpan)

	ranges := make([]WarningRange, 0, len(rain)+len(wind))
	for _, r := range rain {
		r.Rain = rainStats(views, r)
		if r.Rain == nil || r.Rain.TotalPrecip <= th.MinRangePrecipInches {
			continue
		}
		ranges = append(ranges, r)
	}
	for _, r := range wind {
		r.Wind = windStats(points, views, r)
		ranges = append(ranges, r)
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].StartIndex < ranges[j].StartIndex })

	details := make([]WarningDetail, len(ranges))
	for i, r := range ranges {
		details[i] = buildWarningDetail(r)
	}
	return Warnings{Ranges: ranges, Details: details}
}

// BluebirdWindows lists the bluebird windows with their time labels.
func BluebirdWindows(points []ForecastPoint, loc *time.Location) []BluebirdWindow {
	loc = orUTC(loc)
	out := make([]BluebirdWindow, 0)
	for _, p := range points {
		if !p.IsBluebird {
			continue
		}
		out = append(out, BluebirdWindow{
			Key:   p.StartTime.Format(time.RFC3339),
			Label: timeLabel(p.Time, loc),
		})
	}
	return out
}

func buildHazardViews(points []ForecastPoint, th WarningThresholds, loc *time.Location) []hazardView {
	loc = orUTC(loc)
	views := make([]hazardView, len(points))
	for i, p := range points {
		end, hasNext := windowEnd(points, i)
		v := hazardView{
			start:     p.Time,
			end:       end,
			timeLabel: timeLabel(p.Time, loc),
			dateLabel: p.Time.In(loc).Format("Monday, Jan 2"),
		}
		v.endTimeLabel = v.timeLabel
		if hasNext {
			v.endTimeLabel = timeLabel(end, loc)
		}

		isRain := p.PrecipitationType == PrecipRain
		amount := valueOrZero(p.PrecipInches)
		chance := valueOrZero(p.PrecipProbability)
		v.precipInches = amount
		v.probability = p.PrecipProbability
		if isRain && (chance < rainSuppressBelowPercent || amount <= th.MinMeaningfulPrecipInches) {
			v.precipInches = 0
			v.probability = ptr(0.0)
		}

		hasMeaningfulPrecip := v.precipInches > th.MinMeaningfulPrecipInches
		hasRainProbability := th.MinRainProbabilityPercent <= 0
		if v.probability != nil {
			hasRainProbability = *v.probability >= th.MinRainProbabilityPercent
		}
		showRain := isRain && hasMeaningfulPrecip && hasRainProbability
		v.rainPoint = showRain || p.Alert == AlertRain

		peak := p.PeakWindMph()
		v.windPoint = peak != nil && *peak > th.WindMph

		views[i] = v
	}
	return views
}

// windowEnd is the next window's start. The last window is extended by the
// previous spacing; a lone window ends at its own start.
func windowEnd(points []ForecastPoint, i int) (time.Time, bool) {
	if i+1 < len(points) {
		return points[i+1].Time, true
	}
	if i > 0 {
		cur := points[i].Time
		return cur.Add(cur.Sub(points[i-1].Time)), true
	}
	return points[i].Time, false
}

// buildSegments scans left to right, opening a segment on the first qualifying
// window and extending it while windows qualify. A segment whose end would
// exceed maxSpan from its start is closed and a new one opened at that window.
func buildSegments(views []hazardView, kind WarningKind, include func(hazardView) bool, maxSpan time.Duration) []WarningRange {
	var segments []WarningRange
	open := false
	for i, v := range views {
		if !include(v) {
			open = false
			continue
		}
		if open {
			cur := &segments[len(segments)-1]
			if v.end.Sub(cur.Start) <= maxSpan {
				cur.EndIndex = i
				cur.End = v.end
				cur.EndLabel = v.endTimeLabel
				continue
			}
		}
		segments = append(segments, WarningRange{
			Kind:           kind,
			StartIndex:     i,
			EndIndex:       i,
			Start:          v.start,
			End:            v.end,
			StartLabel:     v.timeLabel,
			EndLabel:       v.endTimeLabel,
			StartDateLabel: v.dateLabel,
		})
		open = true
	}
	return segments
}

// mergeSegments folds each segment into its predecessor when it ends within
// maxSpan of the predecessor's start. Single sweep; merges chain transitively.
func mergeSegments(segments []WarningRange, maxSpan time.Duration) []WarningRange {
	merged := make([]WarningRange, 0, len(segments))
	for _, s := range segments {
		if n := len(merged); n > 0 && s.End.Sub(merged[n-1].Start) <= maxSpan {
			cur := &merged[n-1]
			cur.EndIndex = s.EndIndex
			cur.End = s.End
			cur.EndLabel = s.EndLabel
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func rainStats(views []hazardView, r WarningRange) *RainStats {
	var chances, amounts []float64
	for _, v := range views[r.StartIndex : r.EndIndex+1] {
		if !v.rainPoint {
			continue
		}
		amounts = append(amounts, v.precipInches)
		if v.probability != nil {
			chances = append(chances, *v.probability)
		}
	}
	if len(amounts) == 0 {
		return nil
	}
	stats := &RainStats{TotalPrecip: floats.Sum(amounts)}
	if len(chances) > 0 {
		stats.AverageChance = ptr(stat.Mean(chances, nil))
	}
	return stats
}

func windStats(points []ForecastPoint, views []hazardView, r WarningRange) *WindStats {
	var winds, gusts []float64
	members := 0
	for i := r.StartIndex; i <= r.EndIndex; i++ {
		if !views[i].windPoint {
			continue
		}
		members++
		if w := points[i].WindMph; w != nil {
			winds = append(winds, *w)
		}
		if g := points[i].WindGustMph; g != nil {
			gusts = append(gusts, *g)
		}
	}
	if members == 0 {
		return nil
	}
	stats := &WindStats{}
	if len(winds) > 0 {
		stats.AverageWind = ptr(stat.Mean(winds, nil))
	}
	if len(gusts) > 0 {
		stats.PeakGust = ptr(floats.Max(gusts))
	}
	return stats
}

func buildWarningDetail(r WarningRange) WarningDetail {
	d := WarningDetail{
		ID:         fmt.Sprintf("%s-%d-%d", r.Kind, r.StartIndex, r.EndIndex),
		Kind:       r.Kind,
		RangeLabel: r.StartLabel + " - " + r.EndLabel,
	}
	switch {
	case r.Rain != nil:
		d.SummaryText = fmt.Sprintf("Average rain chance %s, total rain %s",
			formatPercent(r.Rain.AverageChance), formatInches(&r.Rain.TotalPrecip))
	case r.Wind != nil:
		peak := "unavailable"
		if r.Wind.PeakGust != nil {
			peak = formatMph(r.Wind.PeakGust)
		}
		d.SummaryText = fmt.Sprintf("Average %s, peak %s", formatMph(r.Wind.AverageWind), peak)
	}
	return d
}

func timeLabel(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	return local.Format("Monday, Jan 2") + ", " + local.Format("3pm")
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(roundTo(*v, 0), 'f', -1, 64) + "%"
}

func formatInches(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(roundTo(*v, 2), 'f', -1, 64) + `"`
}

func formatMph(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(roundTo(*v, 1), 'f', -1, 64) + " mph"
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
