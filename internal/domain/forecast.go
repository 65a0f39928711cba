package domain

import "time"

// PrecipitationType classifies what falls during a window.
type PrecipitationType string

const (
	PrecipNone PrecipitationType = "none"
	PrecipSnow PrecipitationType = "snow"
	PrecipRain PrecipitationType = "rain"
)

// Alert is the hazard tag attached to a single window.
type Alert string

const (
	AlertNone Alert = "none"
	AlertRain Alert = "rain"
	AlertWind Alert = "wind"
)

// DefaultMaxPoints caps the forecast output.
const DefaultMaxPoints = 22

// ForecastPoint is one aligned forecast window. Nil amounts mean nothing
// measurable; classification is computed from the numeric zero before nulling.
type ForecastPoint struct {
	Time              time.Time         `json:"time"`
	StartTime         time.Time         `json:"startTime"`
	EndTime           time.Time         `json:"endTime"`
	SnowInches        *float64          `json:"snowInches"`
	PrecipInches      *float64          `json:"precipInches"`
	PrecipProbability *float64          `json:"precipProbability"`
	TemperatureF      *float64          `json:"temperatureF"`
	WindMph           *float64          `json:"windMph"`
	WindGustMph       *float64          `json:"windGustMph"`
	CloudCover        *int              `json:"cloudCover"`
	PrecipitationType PrecipitationType `json:"precipitationType"`
	HasFreshPowder    bool              `json:"hasFreshPowder"`
	IsBluebird        bool              `json:"isBluebird"`
	Alert             Alert             `json:"alert"`
}

// PeakWindMph is the gust when known, else the sustained wind.
func (p ForecastPoint) PeakWindMph() *float64 {
	if p.WindGustMph != nil {
		return p.WindGustMph
	}
	return p.WindMph
}

// Thresholds configure point-level classification.
type Thresholds struct {
	FreshPowderInches         float64 // snow >= value
	BluebirdPrecipNoiseInches float64 // precip <= value
	MinRainProbabilityPercent float64 // probability > value
	MinMeaningfulPrecipInches float64 // precip > value
	WindAlertMph              float64 // peak wind > value
}

// DefaultThresholds returns the point-level classification defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FreshPowderInches:         0.5,
		BluebirdPrecipNoiseInches: 0,
		MinRainProbabilityPercent: 15,
		MinMeaningfulPrecipInches: 0,
		WindAlertMph:              20,
	}
}

// ForecastBuild is the result of BuildForecast.
type ForecastBuild struct {
	Points         []ForecastPoint
	SkippedSamples int
}

// BuildForecast aligns the gridpoint series and builds one point per anchor window.
func BuildForecast(resp GridpointResponse, th Thresholds) ForecastBuild {
	grid := Align(resp.Properties)
	points := make([]ForecastPoint, len(grid.Anchor))
	for i, interval := range grid.Anchor {
		points[i] = buildPoint(grid, i, interval, th)
	}
	return ForecastBuild{Points: points, SkippedSamples: grid.SkippedSamples}
}

func buildPoint(grid AlignedGrid, i int, interval Interval, th Thresholds) ForecastPoint {
	snow := MMToInches(valueOrZero(grid.Snow[i]))
	precip := MMToInches(valueOrZero(grid.Precip[i]))
	probability := grid.Probability[i]
	wind := convertOptional(grid.Wind[i], KmhToMph)
	gust := convertOptional(grid.Gust[i], KmhToMph)

	p := ForecastPoint{
		Time:              interval.Start,
		StartTime:         interval.Start,
		EndTime:           interval.End,
		SnowInches:        nonZero(snow),
		PrecipInches:      nonZero(precip),
		PrecipProbability: probability,
		TemperatureF:      convertOptional(grid.Temperature[i], CToF),
		WindMph:           wind,
		WindGustMph:       gust,
		CloudCover:        roundPercent(grid.Cloud[i]),
	}
	p.PrecipitationType = classifyPrecipitation(snow, precip)
	p.HasFreshPowder = snow >= th.FreshPowderInches
	p.IsBluebird = p.HasFreshPowder && precip <= th.BluebirdPrecipNoiseInches
	p.Alert = classifyAlert(p.PrecipitationType, precip, probability, p.PeakWindMph(), th)
	return p
}

func classifyPrecipitation(snowInches, precipInches float64) PrecipitationType {
	switch {
	case precipInches > 0 && snowInches == 0:
		return PrecipRain
	case precipInches > 0:
		return PrecipSnow
	default:
		return PrecipNone
	}
}

func classifyAlert(kind PrecipitationType, precipInches float64, probability, peakWind *float64, th Thresholds) Alert {
	if kind == PrecipRain && precipInches > th.MinMeaningfulPrecipInches &&
		probability != nil && *probability > th.MinRainProbabilityPercent {
		return AlertRain
	}
	if peakWind != nil && *peakWind > th.WindAlertMph {
		return AlertWind
	}
	return AlertNone
}

// UpcomingPoints keeps windows that end after now, when futureOnly is set,
// and caps the result at limit points.
func UpcomingPoints(points []ForecastPoint, futureOnly bool, limit int) []ForecastPoint {
	now := clock.Now()
	out := make([]ForecastPoint, 0, min(len(points), max(limit, 0)))
	for _, p := range points {
		if len(out) >= limit {
			break
		}
		if futureOnly && !p.EndTime.After(now) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
