package cache

import (
	"context"
	"errors"
	"fmt"

	"i18n-translator/internal/textutil"
	"i18n-translator/internal/translation"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned by a Store when no translation is cached.
var ErrNotFound = errors.New("translation not cached")

// Entry is a cached translation.
type Entry struct {
	Key        string
	Source     string
	Language   string
	Translated string
}

// Store is the persistent tier of the cache.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, e Entry) error
}

// TranslationCache keeps translations in a memory LRU in front of a Store.
type TranslationCache struct {
	store  Store
	memory *lru.Cache[string, string]
}

// NewTranslationCache creates a cache holding up to size entries in memory.
// store may be nil for a memory-only cache.
func NewTranslationCache(store Store, size int) (*TranslationCache, error) {
	if size <= 0 {
		size = 4096
	}
	memory, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &TranslationCache{store: store, memory: memory}, nil
}

// Get retrieves a cached translation.
func (c *TranslationCache) Get(ctx context.Context, text, language string) (string, bool) {
	key := textutil.TranslationKey(text, language)

	if v, ok := c.memory.Get(key); ok {
		return v, true
	}
	if c.store == nil {
		return "", false
	}

	translated, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Msg("Cache lookup failed")
		}
		return "", false
	}

	c.memory.Add(key, translated)
	return translated, true
}

// Set stores a translation in both tiers.
func (c *TranslationCache) Set(ctx context.Context, text, language, translated string) error {
	key := textutil.TranslationKey(text, language)
	c.memory.Add(key, translated)

	if c.store == nil {
		return nil
	}
	if err := c.store.Put(ctx, Entry{Key: key, Source: text, Language: language, Translated: translated}); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Provider wraps next so cached translations are served without calling it.
// Cache write failures are logged and never fail a translation.
func (c *TranslationCache) Provider(next translation.Provider) translation.Provider {
	return translation.ProviderFunc(func(ctx context.Context, text, language string) (string, error) {
		if v, ok := c.Get(ctx, text, language); ok {
			log.Debug().Str("text", textutil.Truncate(text, 30)).Str("lang", language).Msg("Cache hit")
			return v, nil
		}

		translated, err := next.Translate(ctx, text, language)
		if err != nil {
			return "", err
		}

		if err := c.Set(ctx, text, language, translated); err != nil {
			log.Warn().Err(err).Str("text", textutil.Truncate(text, 30)).Msg("Failed to cache translation")
		}
		return translated, nil
	})
}
