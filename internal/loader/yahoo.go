package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"PriceChart/internal/model"
)

// DefaultYahooURL is the Yahoo Finance chart endpoint.
const DefaultYahooURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooSource loads daily bars from the Yahoo Finance chart API.
type YahooSource struct {
	BaseURL   string
	Symbol    string
	Interval  string
	Range     string
	Client    *http.Client
	SymbolMap map[string]string // maps index names to Yahoo tickers
}

// NewYahooSource creates a source for one year of daily bars.
func NewYahooSource(symbol, proxyURL string) *YahooSource {
	return &YahooSource{
		BaseURL:  DefaultYahooURL,
		Symbol:   symbol,
		Interval: "1d",
		Range:    "1y",
		Client:   newClient(proxyURL),
		SymbolMap: map[string]string{
			"DJI":    "^DJI",
			"SPX":    "^GSPC",
			"SPX500": "^GSPC",
		},
	}
}

func (y *YahooSource) Name() string { return "yahoo" }

func (y *YahooSource) ticker() string {
	if mapped, ok := y.SymbolMap[y.Symbol]; ok {
		return mapped
	}
	return y.Symbol
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *YahooSource) Load(ctx context.Context) (model.Series, error) {
	u := fmt.Sprintf("%s/%s?interval=%s&range=%s", y.BaseURL, url.PathEscape(y.ticker()), y.Interval, y.Range)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
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
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %w", ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	series := make(model.Series, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if math.IsNaN(c) {
			continue // holidays come back as null bars
		}
		series = append(series, model.PricePoint{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}
	return finish(y.Name(), series)
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return math.NaN()
	}
	return *vals[i]
}
