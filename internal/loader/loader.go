// Package loader fetches price series from files, HTTP feeds and SQLite.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"PriceChart/internal/model"
)

// ErrNoData is returned when a source yields no points.
var ErrNoData = errors.New("no price data")

// Source loads a price series.
type Source interface {
	Load(ctx context.Context) (model.Series, error)
	Name() string
}

// Options selects and configures a source.
type Options struct {
	Kind       string // file, http, yahoo, sqlite or mock
	Path       string
	URL        string
	APIKey     string
	ProxyURL   string
	SQLitePath string
	Symbol     string
}

// New builds the source named by opts.Kind. When SQLitePath is set for a
// non-sqlite source, results are mirrored into that database and served from
// it when the source fails.
// The returned close function releases any resources held by the source.
func New(opts Options) (Source, func() error, error) {
	noop := func() error { return nil }
	var src Source
	switch opts.Kind {
	case "file":
		src = &FileSource{Path: opts.Path}
	case "http":
		src = NewHTTPSource(opts.URL, opts.APIKey, opts.ProxyURL)
	case "yahoo":
		src = NewYahooSource(opts.Symbol, opts.ProxyURL)
	case "mock", "":
		src = &MockSource{Price: 100, Count: 120}
	case "sqlite":
		store, err := OpenSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store.Source(opts.Symbol), store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", opts.Kind)
	}
	if opts.SQLitePath == "" {
		return src, noop, nil
	}
	store, err := OpenSQLiteStore(opts.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return &CachedSource{Primary: src, Store: store, Symbol: opts.Symbol}, store.Close, nil
}

// finish sorts the series chronologically and rejects empty results.
func finish(name string, series model.Series) (model.Series, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoData)
	}
	if !series.Sorted() {
		sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	}
	return series, nil
}
