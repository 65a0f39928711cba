package timezone

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
	_ "time/tzdata" // zone database for minimal container images

	"github.com/ringsaturn/tzf"

	"github.com/couchcryptid/snow-forecast-service/internal/domain"
)

// Resolver maps a forecast location to the time zone its labels are rendered in.
type Resolver struct {
	logger *slog.Logger

	once      sync.Once
	finder    tzf.F
	finderErr error

	mu    sync.RWMutex
	zones map[string]*time.Location
}

// NewResolver creates a resolver. The coordinate finder loads its polygon data
// on first use.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		logger: logger,
		zones:  make(map[string]*time.Location),
	}
}

// Location returns the location's configured zone, falling back to a lookup by
// coordinates, then to UTC.
func (r *Resolver) Location(loc domain.ForecastLocation) *time.Location {
	name := loc.TimeZone
	if name == "" {
		var err error
		if name, err = r.lookup(loc.Lat, loc.Lon); err != nil {
			r.logger.Warn("time zone lookup failed, using UTC", "location", loc.ID, "error", err)
			return time.UTC
		}
	}

	zone, err := r.load(name)
	if err != nil {
		r.logger.Warn("unknown time zone, using UTC", "location", loc.ID, "zone", name, "error", err)
		return time.UTC
	}
	return zone
}

func (r *Resolver) lookup(lat, lon float64) (string, error) {
	r.once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			r.finderErr = fmt.Errorf("init time zone finder: %w", err)
			return
		}
		r.finder = finder
	})
	if r.finderErr != nil {
		return "", r.finderErr
	}

	name := r.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", fmt.Errorf("no time zone for lat=%f lon=%f", lat, lon)
	}
	return name, nil
}

func (r *Resolver) load(name string) (*time.Location, error) {
	r.mu.RLock()
	zone, ok := r.zones[name]
	r.mu.RUnlock()
	if ok {
		return zone, nil
	}

	zone, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.zones[name] = zone
	r.mu.Unlock()
	return zone, nil
}
