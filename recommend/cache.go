package recommend

import "sync"

// Cache holds the last refreshed suggestion list so the menu endpoint never
// waits on the inference call.
type Cache struct {
	mu    sync.RWMutex
	items []string
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) Set(items []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]string(nil), items...)
}

// Get returns the cached suggestions, or the defaults before the first
// refresh has run.
func (c *Cache) Get() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.items) == 0 {
		return append([]string(nil), defaultSuggestions...)
	}
	return append([]string(nil), c.items...)
}
