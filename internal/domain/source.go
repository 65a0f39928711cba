package domain

import "context"

// GridpointSource returns the raw gridpoint JSON for a grid cell. Failures are
// reported as *UpstreamFetchError.
type GridpointSource interface {
	FetchGridpoint(ctx context.Context, grid Gridpoint) ([]byte, error)
}
