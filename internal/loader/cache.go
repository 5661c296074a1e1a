package loader

import (
	"context"
	"log"

	"PriceChart/internal/model"
)

// CachedSource loads from Primary and mirrors every result into Store.
// When Primary fails, the last stored series for Symbol is served instead.
type CachedSource struct {
	Primary Source
	Store   *SQLiteStore
	Symbol  string
}

func (c *CachedSource) Name() string { return c.Primary.Name() + "+sqlite" }

func (c *CachedSource) Load(ctx context.Context) (model.Series, error) {
	series, err := c.Primary.Load(ctx)
	if err != nil {
		cached, cacheErr := c.Store.Load(ctx, c.Symbol)
		if cacheErr != nil {
			return nil, err
		}
		log.Printf("[WARN] %s load failed, serving %d cached points: %v", c.Primary.Name(), len(cached), err)
		return cached, nil
	}
	if err := c.Store.Save(ctx, c.Symbol, series); err != nil {
		log.Printf("[WARN] cache %s: %v", c.Symbol, err)
	}
	return series, nil
}
