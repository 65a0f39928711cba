// Command genmock writes a synthetic NWS gridpoint fixture for the pipeline
// test suites and the validate command. The fixture covers 48 hourly windows
// with a light snow start, two 6-hour rain spikes more than a day apart, a
// 6-hour gust event, and a powder day followed by clearing. It runs the real
// domain package over the result and prints what the pipeline derives from it.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/gridpoint_pdt_23_39.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/snow-forecast-service/internal/domain"
)

const fixtureHours = 48

var baseDate = time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock/gridpoint_pdt_23_39.json", "output path for the gridpoint fixture")
	flag.Parse()

	resp := synthetic(baseDate)
	if err := writeJSON(*out, resp); err != nil {
		return fmt.Errorf("writing gridpoint fixture: %w", err)
	}
	log.Printf("wrote gridpoint fixture: %s", *out)

	printSummary(resp)
	return nil
}

// synthetic builds the fixture series in NWS units (mm, degC, km/h, percent).
func synthetic(start time.Time) domain.GridpointResponse {
	probability := map[int]float64{0: 60, 6: 70, 12: 5, 18: 5, 24: 5, 30: 80, 36: 40, 42: 10}
	sky := map[int]float64{0: 90, 6: 100, 12: 60, 18: 20, 24: 10, 30: 95, 36: 85, 42: 5}
	rainy := func(h int) bool { return (h >= 6 && h < 12) || (h >= 30 && h < 36) }

	return domain.GridpointResponse{Properties: domain.GridpointProperties{
		SnowfallAmount: hourly(start, "wmoUnit:mm", func(h int) float64 {
			switch {
			case h < 6:
				return 5.08
			case h >= 36 && h < 42:
				return 15.24
			case h >= 42 && h < 44:
				return 12.7
			}
			return 0
		}),
		QuantitativePrecipitation: hourly(start, "wmoUnit:mm", func(h int) float64 {
			switch {
			case h < 12 || rainy(h):
				return 2.54
			case h >= 36 && h < 42:
				return 1.27
			}
			return 0
		}),
		ProbabilityOfPrecipitation: hourly(start, "wmoUnit:percent", func(h int) float64 {
			return probability[h-h%6]
		}),
		Temperature: hourly(start, "wmoUnit:degC", func(h int) float64 {
			if rainy(h) {
				return 2
			}
			return -4
		}),
		WindSpeed: hourly(start, "wmoUnit:km_h-1", func(int) float64 { return 15 }),
		WindGust: hourly(start, "wmoUnit:km_h-1", func(h int) float64 {
			if h >= 18 && h < 24 {
				return 45
			}
			return 25
		}),
		SkyCover: blocks(start, "wmoUnit:percent", 6, func(h int) float64 { return sky[h] }),
	}}
}

func hourly(start time.Time, uom string, value func(h int) float64) domain.Series {
	return blocks(start, uom, 1, value)
}

func blocks(start time.Time, uom string, step int, value func(h int) float64) domain.Series {
	s := domain.Series{UOM: uom}
	for h := 0; h < fixtureHours; h += step {
		s.Values = append(s.Values, domain.RawSample{
			ValidTime: fmt.Sprintf("%s/PT%dH", start.Add(time.Duration(h)*time.Hour).Format("2006-01-02T15:04:05-07:00"), step),
			Value:     value(h),
		})
	}
	return s
}

func printSummary(resp domain.GridpointResponse) {
	build := domain.BuildForecast(resp, domain.DefaultThresholds())
	warnings := domain.SegmentWarnings(build.Points, domain.DefaultWarningThresholds(), time.UTC)

	fmt.Printf("\n=== Fixture summary ===\n")
	fmt.Printf("  points: %d (skipped samples: %d)\n", len(build.Points), build.SkippedSamples)
	for _, d := range warnings.Details {
		fmt.Printf("  %-12s %s\n", d.ID, d.SummaryText)
	}
	fmt.Printf("  bluebird windows: %d\n", len(domain.BluebirdWindows(build.Points, time.UTC)))
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
