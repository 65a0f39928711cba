package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/snow-forecast-service/internal/config"
	"github.com/couchcryptid/snow-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-forecast-service/internal/observability"
)

// ReportPublisher writes a built report to a downstream sink.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report domain.Report) error
}

// ZoneResolver picks the time zone a location's labels are rendered in.
type ZoneResolver interface {
	Location(loc domain.ForecastLocation) *time.Location
}

// Options control classification and output shaping.
type Options struct {
	Thresholds        domain.Thresholds
	WarningThresholds domain.WarningThresholds
	MaxPoints         int
	FutureOnly        bool
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		Thresholds:        domain.DefaultThresholds(),
		WarningThresholds: domain.DefaultWarningThresholds(),
		MaxPoints:         domain.DefaultMaxPoints,
		FutureOnly:        true,
	}
}

// OptionsFromConfig maps environment configuration onto pipeline options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.Thresholds.BluebirdPrecipNoiseInches = cfg.BluebirdPrecipNoiseInches
	opts.Thresholds.MinRainProbabilityPercent = cfg.RainAlertMinProbability
	opts.Thresholds.MinMeaningfulPrecipInches = cfg.RainAlertMinPrecip
	opts.Thresholds.WindAlertMph = cfg.WindAlertMph
	opts.WarningThresholds.MinRainProbabilityPercent = cfg.WarningMinProbability
	opts.WarningThresholds.MinMeaningfulPrecipInches = cfg.WarningMinPrecip
	opts.WarningThresholds.WindMph = cfg.WindAlertMph
	opts.MaxPoints = cfg.MaxPoints
	opts.FutureOnly = cfg.FutureOnly
	return opts
}

// Pipeline builds forecast reports on demand: fetch, normalize, classify,
// segment warnings, and optionally publish.
type Pipeline struct {
	source    domain.GridpointSource
	zones     ZoneResolver
	publisher ReportPublisher
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline. zones and publisher may be nil: labels then render
// in UTC and reports are not published.
func New(source domain.GridpointSource, zones ZoneResolver, publisher ReportPublisher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:    source,
		zones:     zones,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one forecast has been built.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no forecast has been built yet")
	}
	return nil
}

// Ready reports whether a forecast has been built successfully.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// TimeZone returns the zone used for a location's labels.
func (p *Pipeline) TimeZone(loc domain.ForecastLocation) *time.Location {
	if p.zones == nil {
		return time.UTC
	}
	return p.zones.Location(loc)
}

// Forecast builds the report for a location id. Unknown ids resolve to the
// default location. The only error returned is a *domain.UpstreamFetchError.
func (p *Pipeline) Forecast(ctx context.Context, locationID string) (domain.Report, error) {
	start := time.Now()
	loc := domain.LookupLocation(locationID)

	report, err := p.build(ctx, loc)
	p.metrics.ForecastDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.ForecastRequests.WithLabelValues("error").Inc()
		p.logger.Error("forecast failed", "location", loc.ID, "error", err)
		return domain.Report{}, err
	}
	p.metrics.ForecastRequests.WithLabelValues("success").Inc()
	p.ready.Store(true)

	p.publish(ctx, report)
	return report, nil
}

// Warm builds a forecast for every catalog location so readiness reflects
// upstream reachability at startup. It returns the first error, after trying all.
func (p *Pipeline) Warm(ctx context.Context) error {
	var first error
	for _, loc := range domain.ForecastLocations() {
		if _, err := p.Forecast(ctx, loc.ID); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (p *Pipeline) build(ctx context.Context, loc domain.ForecastLocation) (domain.Report, error) {
	payload, err := p.source.FetchGridpoint(ctx, loc.Gridpoint)
	if err != nil {
		return domain.Report{}, err
	}

	resp, err := domain.DecodeGridpoint(payload)
	if err != nil {
		return domain.Report{}, &domain.UpstreamFetchError{Gridpoint: loc.Gridpoint, Err: err}
	}

	build := domain.BuildForecast(resp, p.opts.Thresholds)
	if build.SkippedSamples > 0 {
		p.metrics.MalformedSamples.Add(float64(build.SkippedSamples))
		p.logger.Warn("skipped malformed gridpoint samples", "location", loc.ID, "count", build.SkippedSamples)
	}

	points := domain.UpcomingPoints(build.Points, p.opts.FutureOnly, p.opts.MaxPoints)
	zone := p.TimeZone(loc)
	warnings := domain.SegmentWarnings(points, p.opts.WarningThresholds, zone)
	for _, r := range warnings.Ranges {
		p.metrics.WarningRanges.WithLabelValues(string(r.Kind)).Inc()
	}

	report := domain.Report{
		ID:              uuid.NewString(),
		Location:        loc,
		GeneratedAt:     domain.Now(),
		Points:          points,
		Warnings:        warnings.Ranges,
		WarningDetails:  warnings.Details,
		BluebirdWindows: domain.BluebirdWindows(points, zone),
	}
	p.logger.Debug("forecast built",
		"location", loc.ID,
		"points", len(points),
		"warnings", len(report.Warnings),
		"bluebird_windows", len(report.BluebirdWindows),
	)
	return report, nil
}

// publish is best-effort; failures are logged and counted.
func (p *Pipeline) publish(ctx context.Context, report domain.Report) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishReport(ctx, report); err != nil {
		p.metrics.ReportsPublished.WithLabelValues("error").Inc()
		p.logger.Warn("report publish failed", "location", report.Location.ID, "error", err)
		return
	}
	p.metrics.ReportsPublished.WithLabelValues("success").Inc()
}
