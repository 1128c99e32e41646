package translate

import (
	"sync"

	"go.uber.org/zap"
)

// Cache builds engines on demand and keeps one per locale.
type Cache struct {
	mu            sync.Mutex
	dicts         Dictionaries
	defaultLocale string
	engines       map[string]*Engine
	logger        *zap.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the cache logger.
func WithLogger(logger *zap.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache returns a cache over dicts with defaultLocale as the fallback.
func NewCache(dicts Dictionaries, defaultLocale string, opts ...CacheOption) *Cache {
	c := &Cache{
		dicts:         dicts,
		defaultLocale: defaultLocale,
		engines:       map[string]*Engine{},
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine returns the engine for locale, building it on first use.
func (c *Cache) Engine(locale string) (*Engine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.engines[locale]; ok {
		return e, nil
	}

	phrases := Phrases(c.dicts, locale, c.defaultLocale)
	e, err := NewEngine(locale, phrases)
	if err != nil {
		return nil, err
	}
	c.engines[locale] = e
	c.logger.Debug("built translation engine",
		zap.String("locale", locale),
		zap.Int("phrases", len(phrases)))
	return e, nil
}

// Replace swaps the dictionaries and drops every cached engine.
func (c *Cache) Replace(dicts Dictionaries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dicts = dicts
	c.engines = map[string]*Engine{}
}

// Invalidate drops every cached engine.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engines = map[string]*Engine{}
}
