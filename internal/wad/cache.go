package wad

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// Loader loads named lumps into memory.
type Loader interface {
	Load(name string) ([]byte, error)
}

// Cache keeps recently loaded lumps of an archive in memory. The returned
// slices are shared between callers and must be treated as read-only.
type Cache struct {
	loader Loader
	lumps  *lru.Cache
}

// NewCache returns a cache holding at most size lumps from loader.
func NewCache(loader Loader, size int) (*Cache, error) {
	lumps, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &Cache{loader: loader, lumps: lumps}, nil
}

// Load returns the named lump, reading it through on a cache miss.
func (c *Cache) Load(name string) ([]byte, error) {
	key := strings.ToUpper(name)
	if data, ok := c.lumps.Get(key); ok {
		return data.([]byte), nil
	}

	data, err := c.loader.Load(name)
	if err != nil {
		return nil, err
	}

	c.lumps.Add(key, data)
	return data, nil
}

// Len returns the number of cached lumps.
func (c *Cache) Len() int { return c.lumps.Len() }

// Purge drops every cached lump.
func (c *Cache) Purge() { c.lumps.Purge() }
