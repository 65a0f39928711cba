// Command validate runs the forecast pipeline offline against a gridpoint JSON
// fixture with a fixed clock, then checks the structural guarantees of the
// output: point alignment, the output cap and future filter, warning span and
// suppression rules, ordering, and bluebird classification.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -gridpoint data/mock/gridpoint_pdt_23_39.json \
//	  -location bachelor \
//	  -now 2025-01-10T02:30:00Z
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/snow-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-forecast-service/internal/observability"
	"github.com/couchcryptid/snow-forecast-service/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// fileSource serves a gridpoint payload from disk.
type fileSource struct {
	path string
}

func (s fileSource) FetchGridpoint(_ context.Context, grid domain.Gridpoint) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &domain.UpstreamFetchError{Gridpoint: grid, Err: err}
	}
	return data, nil
}

func main() {
	gridpointPath := flag.String("gridpoint", "", "path to a gridpoint JSON fixture")
	locationID := flag.String("location", "bachelor", "forecast location id")
	nowFlag := flag.String("now", "2025-01-10T02:30:00Z", "fixed request time (RFC 3339)")
	maxPoints := flag.Int("max-points", domain.DefaultMaxPoints, "output cap")
	flag.Parse()

	if *gridpointPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	now, err := time.Parse(time.RFC3339, *nowFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: invalid -now: %v\n", err)
		os.Exit(1)
	}

	if code := run(*gridpointPath, *locationID, now, *maxPoints); code != 0 {
		os.Exit(code)
	}
}

func run(gridpointPath, locationID string, now time.Time, maxPoints int) int {
	domain.SetClock(clockwork.NewFakeClockAt(now))
	defer domain.SetClock(nil)

	fmt.Println("=== Snow Forecast Pipeline Validation ===")
	fmt.Println()

	payload, err := os.ReadFile(gridpointPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read gridpoint: %v\n", err)
		return 1
	}
	resp, err := domain.DecodeGridpoint(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	opts := pipeline.DefaultOptions()
	opts.MaxPoints = maxPoints
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(fileSource{path: gridpointPath}, nil, nil, opts, logger, observability.NewMetricsForTesting())

	report, err := p.Forecast(context.Background(), locationID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: forecast: %v\n", err)
		return 1
	}
	full := domain.BuildForecast(resp, opts.Thresholds)

	phases := []*phase{
		validateAlignment(full),
		validateOutputWindow(report, now, maxPoints),
		validateWarnings(report, opts.WarningThresholds),
		validateBluebird(report, opts.Thresholds),
	}

	fmt.Println()
	allPassed := true
	for _, ph := range phases {
		status := "\033[32mPASS\033[0m"
		if !ph.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(ph.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", ph.name, status)
	}

	fmt.Println()
	fmt.Printf("Points: %d aligned, %d reported; warnings: %d; bluebird windows: %d; skipped samples: %d\n",
		len(full.Points), len(report.Points), len(report.Warnings), len(report.BluebirdWindows), full.SkippedSamples)
	for _, d := range report.WarningDetails {
		fmt.Printf("  %-12s %-52s %s\n", d.ID, d.RangeLabel, d.SummaryText)
	}

	for _, ph := range phases {
		if ph.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", ph.name)
		for i, e := range ph.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Validation phases ──

func validateAlignment(build domain.ForecastBuild) *phase {
	ph := &phase{name: "Alignment (anchor timeline)"}
	for i, pt := range build.Points {
		if !pt.Time.Equal(pt.StartTime) {
			ph.errorf("point %d: time %s differs from start %s", i, pt.Time, pt.StartTime)
		}
		if pt.EndTime.Before(pt.StartTime) {
			ph.errorf("point %d: end %s before start %s", i, pt.EndTime, pt.StartTime)
		}
		if i > 0 && !pt.StartTime.After(build.Points[i-1].StartTime) {
			ph.errorf("point %d: start %s not after previous", i, pt.StartTime)
		}
	}
	return ph
}

func validateOutputWindow(report domain.Report, now time.Time, maxPoints int) *phase {
	ph := &phase{name: "Output window (cap and future filter)"}
	if len(report.Points) > maxPoints {
		ph.errorf("%d points exceed cap %d", len(report.Points), maxPoints)
	}
	for i, pt := range report.Points {
		if !pt.EndTime.After(now) {
			ph.errorf("point %d ends at %s, not after %s", i, pt.EndTime, now)
		}
	}
	return ph
}

func validateWarnings(report domain.Report, th domain.WarningThresholds) *phase {
	ph := &phase{name: "Warnings (span, suppression, ordering)"}
	if len(report.Warnings) != len(report.WarningDetails) {
		ph.errorf("%d ranges but %d details", len(report.Warnings), len(report.WarningDetails))
	}
	for i, r := range report.Warnings {
		if r.End.Sub(r.Start) > th.MaxSpan {
			ph.errorf("%s range %d-%d spans %s", r.Kind, r.StartIndex, r.EndIndex, r.End.Sub(r.Start))
		}
		if r.Kind == domain.WarningRain && (r.Rain == nil || r.Rain.TotalPrecip <= th.MinRangePrecipInches) {
			ph.errorf("rain range %d-%d should have been suppressed", r.StartIndex, r.EndIndex)
		}
		if r.StartIndex < 0 || r.EndIndex >= len(report.Points) || r.StartIndex > r.EndIndex {
			ph.errorf("%s range %d-%d out of bounds", r.Kind, r.StartIndex, r.EndIndex)
		}
		if i > 0 && r.StartIndex < report.Warnings[i-1].StartIndex {
			ph.errorf("range %d starts before range %d", i, i-1)
		}
		if i < len(report.WarningDetails) {
			want := fmt.Sprintf("%s-%d-%d", r.Kind, r.StartIndex, r.EndIndex)
			if got := report.WarningDetails[i].ID; got != want {
				ph.errorf("detail %d id %q, want %q", i, got, want)
			}
		}
	}
	return ph
}

func validateBluebird(report domain.Report, th domain.Thresholds) *phase {
	ph := &phase{name: "Bluebird classification"}
	flagged := 0
	for i, pt := range report.Points {
		if !pt.IsBluebird {
			continue
		}
		flagged++
		if !pt.HasFreshPowder {
			ph.errorf("point %d bluebird without fresh powder", i)
		}
		if pt.PrecipInches != nil && *pt.PrecipInches > th.BluebirdPrecipNoiseInches {
			ph.errorf("point %d bluebird with %.2f in precipitation", i, *pt.PrecipInches)
		}
	}
	if flagged != len(report.BluebirdWindows) {
		ph.errorf("%d bluebird points but %d windows", flagged, len(report.BluebirdWindows))
	}
	return ph
}
