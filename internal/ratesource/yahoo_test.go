package ratesource

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newYahooTestServer(t *testing.T, body string) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return f
}

func chartJSON(meta string, timestamps []int64, closes []string) string {
	ts := ""
	cl := ""
	for i := range timestamps {
		if i > 0 {
			ts += ","
			cl += ","
		}
		ts += fmt.Sprintf("%d", timestamps[i])
		cl += closes[i]
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{%s},"timestamp":[%s],
		"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, meta, ts, cl)
}

func TestCurrentQuote_PrefersRegularMarketPrice(t *testing.T) {
	f := newYahooTestServer(t, chartJSON(
		`"regularMarketPrice":144.5123`,
		[]int64{1700000000, 1700086400},
		[]string{"143.9", "144.1"},
	))

	got, err := f.CurrentQuote("JPYCNY=X")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 144.5123 {
		t.Errorf("expected meta price 144.5123, got %v", got)
	}
}

func TestCurrentQuote_FallsBackToLastClose(t *testing.T) {
	f := newYahooTestServer(t, chartJSON(
		``, // no regularMarketPrice
		[]int64{1700000000, 1700086400},
		[]string{"143.9", "144.1"},
	))

	got, err := f.CurrentQuote("JPYCNY=X")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 144.1 {
		t.Errorf("expected last close 144.1, got %v", got)
	}
}

func TestCurrentQuote_NothingUsable(t *testing.T) {
	f := newYahooTestServer(t, `{"chart":{"result":[{"meta":{},"timestamp":[],
		"indicators":{"quote":[{"close":[]}]}}],"error":null}}`)

	_, err := f.CurrentQuote("JPYCNY=X")
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestCurrentQuote_APIError(t *testing.T) {
	f := newYahooTestServer(t, `{"chart":{"result":null,
		"error":{"code":"Not Found","description":"No data found"}}}`)

	_, err := f.CurrentQuote("NOPE=X")
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestDailySeries_SkipsNullsAndSorts(t *testing.T) {
	start := time.Unix(1700000000, 0).Add(-time.Hour)
	end := start.AddDate(0, 0, 10)

	f := newYahooTestServer(t, chartJSON(
		``,
		[]int64{1700086400, 1700000000, 1700172800},
		[]string{"144.1", "143.9", "null"},
	))

	series, err := f.DailySeries("JPYCNY=X", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 closes (null skipped), got %d", len(series))
	}
	if !series[0].Date.Before(series[1].Date) {
		t.Error("series not ascending by date")
	}
	if series[0].Close != 143.9 || series[1].Close != 144.1 {
		t.Errorf("unexpected closes: %+v", series)
	}
}

func TestDailySeries_WindowIsHalfOpen(t *testing.T) {
	base := time.Unix(1700000000, 0)
	f := newYahooTestServer(t, chartJSON(
		``,
		[]int64{base.Unix(), base.AddDate(0, 0, 1).Unix(), base.AddDate(0, 0, 2).Unix()},
		[]string{"143.9", "144.1", "144.3"},
	))

	// end lands exactly on the third bar; [start, end) must exclude it.
	series, err := f.DailySeries("JPYCNY=X", base, base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 closes in half-open window, got %d", len(series))
	}
}

func TestDailySeries_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	_, err := f.DailySeries("JPYCNY=X", time.Now().AddDate(-1, 0, 0), time.Now())
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("expected ErrDataUnavailable, got %v", err)
	}
}
