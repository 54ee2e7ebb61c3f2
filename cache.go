package geldb

import "sync"

// cache holds encoded values read from disk, up to a fixed number of bytes.
type cache struct {
	mu      sync.Mutex
	entries map[string][]byte
	size    uint64
	sizeMax uint64
}

func newCache(sizeMax uint64) *cache {
	return &cache{
		entries: map[string][]byte{},
		sizeMax: sizeMax,
	}
}

func (c *cache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// put caches v under key, evicting other entries until it fits. Values
// larger than the whole cache are not cached.
func (c *cache) put(key string, v []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vsz := uint64(len(v))
	if vsz > c.sizeMax {
		return
	}
	c.eraseLocked(key)
	c.ensureSpaceLocked(vsz)
	c.entries[key] = v
	c.size += vsz
}

func (c *cache) erase(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eraseLocked(key)
}

func (c *cache) eraseLocked(key string) {
	if v, ok := c.entries[key]; ok {
		c.size -= uint64(len(v))
		delete(c.entries, key)
	}
}

// ensureSpaceLocked deletes entries until sz more bytes fit.
func (c *cache) ensureSpaceLocked(sz uint64) {
	for k, v := range c.entries {
		if c.size+sz <= c.sizeMax {
			return
		}
		c.size -= uint64(len(v))
		delete(c.entries, k) // safe during range
	}
}

func (c *cache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
