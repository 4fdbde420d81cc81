package ratesource

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"RateSentinel/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Source using the Yahoo Finance chart API.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: defaultYahooBaseURL,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) fetchChart(symbol string, params url.Values) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		f.BaseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}
	return &chart, nil
}

func chartCloses(chart *yahooChart) []model.DailyClose {
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	quote := result.Indicators.Quote[0]
	series := make([]model.DailyClose, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		c := toFloat(quote.Close[i])
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		series = append(series, model.DailyClose{Date: time.Unix(ts, 0), Close: c})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}

// quoteStrategy is one named way of extracting a current price from a chart
// response. Strategies are tried in order; each either yields a price or
// passes to the next.
type quoteStrategy struct {
	name string
	fn   func(*yahooChart) (float64, bool)
}

var quoteStrategies = []quoteStrategy{
	{"regular_market_price", func(c *yahooChart) (float64, bool) {
		p := c.Chart.Result[0].Meta.RegularMarketPrice
		if p == nil || *p == 0 {
			return 0, false
		}
		return *p, true
	}},
	{"last_daily_close", func(c *yahooChart) (float64, bool) {
		closes := chartCloses(c)
		if len(closes) == 0 {
			return 0, false
		}
		return closes[len(closes)-1].Close, true
	}},
}

// CurrentQuote fetches the latest price, preferring the live market price
// from chart metadata and falling back to the most recent daily close.
func (f *YahooFetcher) CurrentQuote(pair string) (float64, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "5d")
	chart, err := f.fetchChart(pair, params)
	if err != nil {
		return 0, fmt.Errorf("%w: current quote: %w", ErrDataUnavailable, err)
	}
	for i, s := range quoteStrategies {
		if price, ok := s.fn(chart); ok {
			if i > 0 {
				log.Printf("[WARN] live price unavailable, used %s strategy", s.name)
			}
			return price, nil
		}
	}
	return 0, fmt.Errorf("%w: no usable price in chart response", ErrDataUnavailable)
}

// DailySeries fetches daily closes in [start, end), ascending by date.
func (f *YahooFetcher) DailySeries(pair string, start, end time.Time) ([]model.DailyClose, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("period1", fmt.Sprintf("%d", start.Unix()))
	params.Set("period2", fmt.Sprintf("%d", end.Unix()))
	chart, err := f.fetchChart(pair, params)
	if err != nil {
		return nil, fmt.Errorf("%w: daily series: %w", ErrDataUnavailable, err)
	}
	series := chartCloses(chart)
	out := series[:0]
	for _, d := range series {
		if !d.Date.Before(start) && d.Date.Before(end) {
			out = append(out, d)
		}
	}
	return out, nil
}
