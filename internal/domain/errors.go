package domain

import (
	"errors"
	"fmt"
)

// ErrCacheUnavailable wraps every cache store failure. Callers treat it as a miss.
var ErrCacheUnavailable = errors.New("cache unavailable")

// UpstreamFetchError reports a failed gridpoint fetch: a non-2xx response or a
// transport failure. It is the only error a forecast request surfaces.
type UpstreamFetchError struct {
	Gridpoint  Gridpoint
	StatusCode int    // 0 for transport failures
	Body       string // truncated response body, if any
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch gridpoint %s: status %d: %s", e.Gridpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("fetch gridpoint %s: %v", e.Gridpoint, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// IsUpstreamFetchError reports whether err is, or wraps, an UpstreamFetchError.
func IsUpstreamFetchError(err error) bool {
	var target *UpstreamFetchError
	return errors.As(err, &target)
}
