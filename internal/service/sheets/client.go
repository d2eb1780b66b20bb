// Package sheets reads cell values from the Google Sheets v4 API.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/logging"
	"github.com/kloda-app/kloda/backend/internal/metrics"
)

const breakerName = "google-sheets"

const MsgDataNotFound = "Data not found in sheet"

// Client fetches sheet values through a circuit breaker. Upstream 4xx
// responses and empty sheets do not count as breaker failures.
type Client struct {
	values  *sheetsapi.SpreadsheetsValuesService
	breaker *gobreaker.CircuitBreaker[[][]string]
}

type Option func(*Client)

// WithBreakerSettings overrides the trip policy; the name and callbacks are kept.
func WithBreakerSettings(maxFailures uint32, timeout time.Duration) Option {
	return func(c *Client) { c.breaker = newBreaker(maxFailures, timeout) }
}

// NewClient builds the Sheets service from clientOpts, which carry the
// credentials and, in tests, the endpoint.
func NewClient(ctx context.Context, clientOpts []option.ClientOption, opts ...Option) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	c := &Client{
		values:  svc.Spreadsheets.Values,
		breaker: newBreaker(5, 30*time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newBreaker(maxFailures uint32, timeout time.Duration) *gobreaker.CircuitBreaker[[][]string] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[[][]string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var de *domain.Error
			if !errors.As(err, &de) {
				return false
			}
			switch de.Kind {
			case domain.KindValidation:
				return true
			case domain.KindUpstream:
				return de.Status < http.StatusInternalServerError
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
}

// Values returns the rows of the sheet. Cells missing at the end of a row are
// omitted by the API, so rows may have different lengths.
func (c *Client) Values(ctx context.Context, spreadsheetID, sheetName string) ([][]string, error) {
	values, err := c.breaker.Execute(func() ([][]string, error) {
		return c.fetch(ctx, spreadsheetID, sheetName)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		return nil, domain.NewUpstream(http.StatusServiceUnavailable, "Google Sheets is temporarily unavailable")
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return values, nil
}

func (c *Client) fetch(ctx context.Context, spreadsheetID, sheetName string) ([][]string, error) {
	resp, err := c.values.Get(spreadsheetID, sheetName).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			msg := gerr.Message
			if msg == "" {
				msg = strings.TrimSpace(gerr.Body)
			}
			return nil, domain.NewUpstream(gerr.Code, "Failed to fetch spreadsheet: "+msg)
		}
		return nil, domain.NewInternal(fmt.Errorf("failed to fetch spreadsheet: %w", err))
	}
	if resp.Values == nil {
		return nil, domain.NewValidation(MsgDataNotFound)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			if str, ok := cell.(string); ok {
				rows[i][j] = str
			} else {
				rows[i][j] = fmt.Sprint(cell)
			}
		}
	}
	return rows, nil
}
