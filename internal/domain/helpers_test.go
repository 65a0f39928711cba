package domain

import (
	"time"
)

var baseTime = time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

// hourlySamples builds n one-hour samples starting at start.
func hourlySamples(start time.Time, n int, value func(i int) any) []RawSample {
	samples := make([]RawSample, n)
	for i := range samples {
		samples[i] = RawSample{
			ValidTime: start.Add(time.Duration(i)*time.Hour).Format(time.RFC3339) + "/PT1H",
			Value:     value(i),
		}
	}
	return samples
}

func constant(v any) func(int) any {
	return func(int) any { return v }
}

func f64(v float64) *float64 { return &v }

func hoursAfter(n int) time.Time {
	return baseTime.Add(time.Duration(n) * time.Hour)
}

// rainWindow is an hourly window with rain that qualifies for a warning.
func rainWindow(hour int, precipInches, probability float64) ForecastPoint {
	p := ForecastPoint{
		Time:              hoursAfter(hour),
		StartTime:         hoursAfter(hour),
		EndTime:           hoursAfter(hour + 1),
		PrecipInches:      f64(precipInches),
		PrecipProbability: f64(probability),
		PrecipitationType: PrecipRain,
		Alert:             AlertNone,
	}
	if probability > 15 {
		p.Alert = AlertRain
	}
	return p
}

func dryWindow(hour int) ForecastPoint {
	return ForecastPoint{
		Time:              hoursAfter(hour),
		StartTime:         hoursAfter(hour),
		EndTime:           hoursAfter(hour + 1),
		PrecipProbability: f64(0),
		PrecipitationType: PrecipNone,
		Alert:             AlertNone,
	}
}

func windWindow(hour int, wind float64, gust *float64) ForecastPoint {
	p := dryWindow(hour)
	p.WindMph = f64(wind)
	p.WindGustMph = gust
	return p
}
