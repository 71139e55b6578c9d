package retail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"pricing_history/internal/domain"
)

const SourceID = "azure-retail-prices"

// Config holds retail prices API configuration.
type Config struct {
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	Retry      RetryPolicy
}

// RetryRecorder observes retried requests.
type RetryRecorder interface {
	FetchRetry(reason string)
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient replaces the default client. The configured timeout is not applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Source) {
		s.httpClient = hc
	}
}

// WithRetryRecorder reports every retry to r.
func WithRetryRecorder(r RetryRecorder) Option {
	return func(s *Source) {
		s.recorder = r
	}
}

// Source fetches pages from the retail prices API.
type Source struct {
	httpClient *http.Client
	baseURL    string
	apiVersion string
	retry      RetryPolicy
	recorder   RetryRecorder
	logger     *slog.Logger
}

// New creates a new retail prices source.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Source {
	s := &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		apiVersion: cfg.APIVersion,
		retry:      cfg.Retry,
		logger:     logger.With("source", SourceID),
	}
	if s.retry.MaxAttempts < 1 {
		s.retry.MaxAttempts = 1
	}
	if s.retry.Backoff == nil {
		s.retry.Backoff = ExponentialBackoff(MaxBackoff)
	}
	if s.retry.Retryable == nil {
		s.retry.Retryable = IsRetryable
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// FirstPageURL builds the entry URL for a currency.
func (s *Source) FirstPageURL(currency string) string {
	q := url.Values{}
	q.Set("api-version", s.apiVersion)
	q.Set("currencyCode", currency)
	return s.baseURL + "?" + q.Encode()
}

// FetchPage fetches one page. The URL is used verbatim, so NextPageLink
// values from a previous page can be passed straight through.
func (s *Source) FetchPage(ctx context.Context, pageURL string) (*domain.Page, error) {
	resp, err := s.fetchWithRetry(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	page := &domain.Page{
		Items: s.transform(resp.Items),
	}
	if resp.NextPageLink != nil {
		page.NextPageLink = *resp.NextPageLink
	}
	return page, nil
}

func (s *Source) fetchWithRetry(ctx context.Context, pageURL string) (*APIResponse, error) {
	var resp *APIResponse
	var err error

	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		resp, err = s.doRequest(ctx, pageURL)
		if err == nil {
			return resp, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if !s.retry.Retryable(err) {
			return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
		}

		if attempt == s.retry.MaxAttempts {
			break
		}

		backoff := s.retry.Backoff(attempt)
		reason := retryReason(err)
		if s.recorder != nil {
			s.recorder.FetchRetry(reason)
		}
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"max_attempts", s.retry.MaxAttempts,
			"reason", reason,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	s.logger.Error("request failed after all attempts",
		"url", pageURL,
		"attempts", s.retry.MaxAttempts,
		"error", err,
	)

	return nil, fmt.Errorf("fetch %s: giving up after %d attempts: %w: %w",
		pageURL, s.retry.MaxAttempts, ErrRetriesExhausted, err)
}

func (s *Source) doRequest(ctx context.Context, pageURL string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "PricingHistory/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        pageURL,
			Body:       body,
		}
	}

	// A body cut short by the peer or the client timeout is a transport
	// failure; only a fully read body that does not parse is a DecodeError.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &apiResp, nil
}

func (s *Source) transform(items []APIItem) []domain.PricingItem {
	out := make([]domain.PricingItem, 0, len(items))

	for _, it := range items {
		if it.MeterID == "" {
			s.logger.Warn("skipping item without meter id",
				"product_name", deref(it.ProductName),
			)
			continue
		}

		effective, err := time.Parse(time.RFC3339, it.EffectiveStartDate)
		if err != nil {
			s.logger.Warn("failed to parse effective start date",
				"meter_id", it.MeterID,
				"date", it.EffectiveStartDate,
			)
			continue
		}

		item := domain.PricingItem{
			MeterID:            it.MeterID,
			EffectiveStartDate: effective.UTC(),
			CurrencyCode:       it.CurrencyCode,
			RetailPrice:        it.RetailPrice,
			UnitPrice:          it.UnitPrice,
			UnitOfMeasure:      it.UnitOfMeasure,
			ArmRegionName:      it.ArmRegionName,
			Location:           it.Location,
			ProductID:          it.ProductID,
			ProductName:        it.ProductName,
			SkuID:              it.SkuID,
			SkuName:            it.SkuName,
			ServiceID:          it.ServiceID,
			ServiceName:        it.ServiceName,
			ServiceFamily:      it.ServiceFamily,
			MeterName:          it.MeterName,
			ArmSkuName:         it.ArmSkuName,
			ReservationTerm:    it.ReservationTerm,
			Type:               it.Type,
			TierMinimumUnits:   it.TierMinimumUnits,
			AvailabilityID:     it.AvailabilityID,
		}
		if it.IsPrimaryMeterRegion != nil {
			item.IsPrimaryMeterRegion = *it.IsPrimaryMeterRegion
		}

		out = append(out, item)
	}

	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
