package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
	"github.com/vibast-solutions/ms-go-pricing/app/factory"
	"github.com/vibast-solutions/ms-go-pricing/app/metrics"
	"github.com/vibast-solutions/ms-go-pricing/config"
)

const (
	matrixPath = "/api/pricing/matrix"
	regionPath = "/api/pricing/region/"

	maxResponseBytes = 4 << 20
)

var ErrUpstreamUnavailable = errors.New("pricing upstream unavailable")

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pricing upstream returned %d", e.Code)
}

// Client talks to the pricing API. Failures are not retried; an open breaker
// fails fast and callers fall back to cached or static pricing.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	metrics    *metrics.Metrics
	logger     logrus.FieldLogger
}

func NewClient(cfg config.PricingConfig, httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "pricing-upstream",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return statusErr.Code < http.StatusInternalServerError
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logrus.WithField("breaker", name).
				WithField("from", from.String()).
				WithField("to", to.String()).
				Warn("Circuit breaker state changed")
		},
	})

	return &Client{
		baseURL:    cfg.UpstreamBaseURL,
		apiKey:     cfg.UpstreamAPIKey,
		timeout:    cfg.FetchTimeout,
		httpClient: httpClient,
		breaker:    breaker,
		metrics:    m,
		logger:     factory.NewModuleLogger("pricing-upstream"),
	}
}

func (c *Client) FetchMatrix(ctx context.Context) (entity.PricingMatrix, error) {
	body, err := c.get(ctx, matrixPath)
	if err != nil {
		return nil, err
	}

	var matrix entity.PricingMatrix
	if err := json.Unmarshal(body, &matrix); err != nil {
		return nil, fmt.Errorf("decode pricing matrix: %w", err)
	}
	if matrix == nil {
		return nil, errors.New("decode pricing matrix: empty body")
	}
	return matrix, nil
}

// FetchRegion never fails: errors are logged and an empty list is returned so
// region pricing degrades to the static tier.
func (c *Client) FetchRegion(ctx context.Context, region entity.Region) []entity.PricingEntry {
	l := c.logger.WithField("region", string(region))

	body, err := c.get(ctx, regionPath+url.PathEscape(string(region)))
	if err != nil {
		c.metrics.ObserveRegionFetch(string(region), metrics.FetchOutcomeFailure)
		l.WithError(err).Warn("Region pricing fetch failed")
		return []entity.PricingEntry{}
	}

	var entries []entity.PricingEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		c.metrics.ObserveRegionFetch(string(region), metrics.FetchOutcomeFailure)
		l.WithError(err).Warn("Region pricing decode failed")
		return []entity.PricingEntry{}
	}
	if entries == nil {
		entries = []entity.PricingEntry{}
	}

	c.metrics.ObserveRegionFetch(string(region), metrics.FetchOutcomeSuccess)
	return entries
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
			return nil, &StatusError{Code: resp.StatusCode}
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return body, err
}
