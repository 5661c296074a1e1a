package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"PriceChart/internal/model"
)

// HTTPSource fetches a JSON tuple feed over HTTP.
type HTTPSource struct {
	URL    string
	APIKey string
	Client *http.Client
}

// NewHTTPSource creates a source with optional proxy support.
func NewHTTPSource(feedURL, apiKey, proxyURL string) *HTTPSource {
	return &HTTPSource{URL: feedURL, APIKey: apiKey, Client: newClient(proxyURL)}
}

func newClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: 30 * time.Second, Transport: transport}
}

func (h *HTTPSource) Name() string { return "http" }

func (h *HTTPSource) Load(ctx context.Context) (model.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch series: status %d, body: %s", resp.StatusCode, string(body))
	}
	series, err := DecodeTuples(body)
	if err != nil {
		return nil, err
	}
	return finish(h.Name(), series)
}
