package ratesource

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"RateSentinel/internal/model"
)

// FrankfurterFetcher implements Source using a Frankfurter-compatible
// exchange-rate REST API. Unlike Yahoo it speaks ISO currency codes, so the
// Yahoo-style pair symbol (e.g. "JPYCNY=X") is split into base and quote.
type FrankfurterFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFrankfurterFetcher creates a new fetcher with optional proxy support.
func NewFrankfurterFetcher(baseURL, proxyURL string) *FrankfurterFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FrankfurterFetcher{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FrankfurterFetcher) Name() string { return "frankfurter" }

// SplitPair converts a Yahoo-style FX symbol into ISO base/quote codes.
// "JPYCNY=X" -> ("JPY", "CNY"). A bare 6-letter pair works too.
func SplitPair(pair string) (base, quote string, err error) {
	p := strings.ToUpper(strings.TrimSuffix(pair, "=X"))
	if len(p) != 6 {
		return "", "", fmt.Errorf("cannot split pair %q into currency codes", pair)
	}
	return p[:3], p[3:], nil
}

type frankfurterLatest struct {
	Rates map[string]float64 `json:"rates"`
}

type frankfurterSeries struct {
	Rates map[string]map[string]float64 `json:"rates"`
}

func (f *FrankfurterFetcher) get(endpoint string, out interface{}) error {
	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return fmt.Errorf("frankfurter fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("frankfurter: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("frankfurter decode: %w", err)
	}
	return nil
}

// CurrentQuote returns the latest published rate for the pair. The API only
// publishes daily reference rates, so "latest" is already the most recent
// close and no further fallback applies.
func (f *FrankfurterFetcher) CurrentQuote(pair string) (float64, error) {
	base, quote, err := SplitPair(pair)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	endpoint := fmt.Sprintf("%s/latest?from=%s&to=%s", f.BaseURL, base, quote)
	var latest frankfurterLatest
	if err := f.get(endpoint, &latest); err != nil {
		return 0, fmt.Errorf("%w: current quote: %w", ErrDataUnavailable, err)
	}
	rate, ok := latest.Rates[quote]
	if !ok || rate == 0 {
		return 0, fmt.Errorf("%w: no rate for %s in response", ErrDataUnavailable, quote)
	}
	return rate, nil
}

// DailySeries returns daily reference rates in [start, end), ascending.
func (f *FrankfurterFetcher) DailySeries(pair string, start, end time.Time) ([]model.DailyClose, error) {
	base, quote, err := SplitPair(pair)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	endpoint := fmt.Sprintf("%s/%s..%s?from=%s&to=%s",
		f.BaseURL,
		start.Format("2006-01-02"), end.AddDate(0, 0, -1).Format("2006-01-02"),
		base, quote)
	var ts frankfurterSeries
	if err := f.get(endpoint, &ts); err != nil {
		return nil, fmt.Errorf("%w: daily series: %w", ErrDataUnavailable, err)
	}

	series := make([]model.DailyClose, 0, len(ts.Rates))
	for day, rates := range ts.Rates {
		rate, ok := rates[quote]
		if !ok || rate == 0 {
			continue
		}
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		if d.Before(start) || !d.Before(end) {
			continue
		}
		series = append(series, model.DailyClose{Date: d, Close: rate})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}
