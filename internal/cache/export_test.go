package cache

import "time"

// SetNowFunc overrides the cache's clock for tests.
func (c *ViewCache) SetNowFunc(now func() time.Time) {
	c.now = now
}
