package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"fiscalcli/internal/config"
	"fiscalcli/internal/dataset"
)

const imfBaseURL = "https://www.imf.org/external/datamapper/api/v1"

// DataPoint is one fetched indicator value.
type DataPoint struct {
	CountryCode   string
	CountryName   string
	Year          int
	IndicatorCode string
	IndicatorName string
	Value         float64
}

// Client fetches macro-fiscal indicators from the World Bank and IMF
// open data APIs. Requests are rate limited and retried with
// exponential backoff.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	baseURL    string
	maxRetries int
}

// NewClient creates a client from the upstream configuration.
func NewClient(cfg config.UpstreamConfig, logger *slog.Logger) *Client {
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
	}
}

// FetchWorldBank fetches the given World Bank indicators for the given
// ISO3 country codes over [yearStart, yearEnd]. Countries or indicators
// that fail after all retries are logged and skipped.
func (c *Client) FetchWorldBank(ctx context.Context, countries, indicators []string, yearStart, yearEnd int) ([]DataPoint, error) {
	if len(countries) == 0 {
		countries = sortedKeys(dataset.AfricanCountries)
	}
	if len(indicators) == 0 {
		indicators = sortedKeys(WBIndicators)
	}

	var points []DataPoint
	for _, country := range countries {
		for _, indicator := range indicators {
			if err := c.limiter.Wait(ctx); err != nil {
				return points, err
			}
			batch, err := c.fetchWorldBankSeries(ctx, country, indicator, yearStart, yearEnd)
			if err != nil {
				if ctx.Err() != nil {
					return points, ctx.Err()
				}
				c.logger.WarnContext(ctx, "indicator fetch failed, skipping",
					"country", country,
					"indicator", indicator,
					"error", err)
				continue
			}
			points = append(points, batch...)
		}
	}
	return points, nil
}

// wbRecord mirrors one element of the World Bank response payload. The
// API returns a two-element array: metadata first, records second.
type wbRecord struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

func (c *Client) fetchWorldBankSeries(ctx context.Context, country, indicator string, yearStart, yearEnd int) ([]DataPoint, error) {
	endpoint := fmt.Sprintf("%s/country/%s/indicator/%s", c.baseURL, url.PathEscape(country), url.PathEscape(indicator))
	params := url.Values{
		"date":     {fmt.Sprintf("%d:%d", yearStart, yearEnd)},
		"format":   {"json"},
		"per_page": {"500"},
	}

	body, err := c.getWithRetry(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(payload) < 2 {
		return nil, nil
	}
	var records []wbRecord
	if err := json.Unmarshal(payload[1], &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	var points []DataPoint
	for _, rec := range records {
		if rec.Value == nil {
			continue
		}
		year, err := strconv.Atoi(rec.Date)
		if err != nil {
			continue
		}
		name := dataset.AfricanCountries[country]
		if name == "" {
			name = country
		}
		points = append(points, DataPoint{
			CountryCode:   country,
			CountryName:   name,
			Year:          year,
			IndicatorCode: indicator,
			IndicatorName: WBIndicators[indicator],
			Value:         *rec.Value,
		})
	}
	return points, nil
}

// imfResponse mirrors the DataMapper payload:
// {"values": {"INDICATOR": {"COUNTRY": {"YEAR": value}}}}.
type imfResponse struct {
	Values map[string]map[string]map[string]*float64 `json:"values"`
}

// FetchIMF fetches the given IMF DataMapper indicators for the given
// countries over [yearStart, yearEnd]. The DataMapper API accepts all
// countries in a single request per indicator.
func (c *Client) FetchIMF(ctx context.Context, countries, indicators []string, yearStart, yearEnd int) ([]DataPoint, error) {
	if len(countries) == 0 {
		countries = sortedKeys(dataset.AfricanCountries)
	}
	if len(indicators) == 0 {
		indicators = sortedKeys(IMFIndicators)
	}

	countrySet := make(map[string]bool, len(countries))
	for _, c := range countries {
		countrySet[c] = true
	}
	countryPath := ""
	for i, c := range countries {
		if i > 0 {
			countryPath += ","
		}
		countryPath += c
	}

	var points []DataPoint
	for _, indicator := range indicators {
		if err := c.limiter.Wait(ctx); err != nil {
			return points, err
		}
		endpoint := fmt.Sprintf("%s/%s/%s", imfBaseURL, url.PathEscape(indicator), countryPath)
		body, err := c.getWithRetry(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return points, ctx.Err()
			}
			c.logger.WarnContext(ctx, "indicator fetch failed, skipping",
				"indicator", indicator,
				"error", err)
			continue
		}

		var payload imfResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			c.logger.WarnContext(ctx, "malformed response, skipping",
				"indicator", indicator,
				"error", err)
			continue
		}
		for country, years := range payload.Values[indicator] {
			if !countrySet[country] {
				continue
			}
			for yearStr, value := range years {
				year, err := strconv.Atoi(yearStr)
				if err != nil || value == nil || year < yearStart || year > yearEnd {
					continue
				}
				points = append(points, DataPoint{
					CountryCode:   country,
					CountryName:   dataset.AfricanCountries[country],
					Year:          year,
					IndicatorCode: indicator,
					IndicatorName: IMFIndicators[indicator],
					Value:         *value,
				})
			}
		}
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].IndicatorCode != points[j].IndicatorCode {
			return points[i].IndicatorCode < points[j].IndicatorCode
		}
		if points[i].CountryCode != points[j].CountryCode {
			return points[i].CountryCode < points[j].CountryCode
		}
		return points[i].Year < points[j].Year
	})
	return points, nil
}

func (c *Client) getWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			c.logger.DebugContext(ctx, "retrying request",
				"url", rawURL,
				"attempt", attempt,
				"backoff", backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.get(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
