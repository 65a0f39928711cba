package noaa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/snow-forecast-service/internal/domain"
	"github.com/couchcryptid/snow-forecast-service/internal/observability"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// Client implements domain.GridpointSource using the NWS gridpoint API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a gridpoint client. The API rejects requests without a
// User-Agent, so userAgent must identify the application.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// FetchGridpoint performs one GET for the grid cell and returns the body.
func (c *Client) FetchGridpoint(ctx context.Context, grid domain.Gridpoint) ([]byte, error) {
	u := fmt.Sprintf("%s/gridpoints/%s/%d,%d", c.baseURL, url.PathEscape(grid.Office), grid.X, grid.Y)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &domain.UpstreamFetchError{Gridpoint: grid, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("transport_error").Inc()
		return nil, &domain.UpstreamFetchError{Gridpoint: grid, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.UpstreamRequests.WithLabelValues("http_error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.UpstreamFetchError{
			Gridpoint:  grid,
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("transport_error").Inc()
		return nil, &domain.UpstreamFetchError{Gridpoint: grid, Err: fmt.Errorf("read body: %w", err)}
	}

	c.metrics.UpstreamRequests.WithLabelValues("success").Inc()
	c.logger.Debug("gridpoint fetched", "gridpoint", grid.String(), "bytes", len(body))
	return body, nil
}
