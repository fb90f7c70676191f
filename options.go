package asciify

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// WithFs sets a custom filesystem for the converter.
// This is primarily useful for testing with in-memory filesystems.
//
// Example:
//
//	conv := asciify.New(asciify.WithFs(afero.NewMemMapFs()))
func WithFs(fs afero.Fs) Option {
	return func(c *Converter) {
		c.fs = fs
	}
}

// WithHashFunc sets a custom hash function for cache keys.
// The default is xxHash64, which provides excellent performance.
//
// Note: Changing the hash function will invalidate existing cache entries.
func WithHashFunc(hashFunc HashFunc) Option {
	return func(c *Converter) {
		c.hashFunc = hashFunc
	}
}

// WithNowFunc sets a custom time function for the converter.
// This is primarily useful for testing with deterministic timestamps.
func WithNowFunc(nowFunc NowFunc) Option {
	return func(c *Converter) {
		c.nowFunc = nowFunc
	}
}

// WithBinary sets the name or path of the external converter executable.
func WithBinary(binary string) Option {
	return func(c *Converter) {
		c.binary = binary
	}
}

// WithEnv adds KEY=VALUE entries to the converter process environment, on
// top of the inherited environment and the true-color override.
func WithEnv(env ...string) Option {
	return func(c *Converter) {
		c.env = append(c.env, env...)
	}
}

// WithHTTPClient sets the client used to fetch URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Converter) {
		c.client = client
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Converter) {
		c.log = log
	}
}

// WithCache sets the cache handle, allowing several converters to share one.
func WithCache(cache *Cache) Option {
	return func(c *Converter) {
		c.cache = cache
	}
}

// WithCacheCapacity sets the advisory capacity of the converter's own cache.
// Ignored when WithCache supplies a shared cache.
func WithCacheCapacity(capacity int) Option {
	return func(c *Converter) {
		if c.cache == nil {
			c.cache = NewCache(capacity)
		}
	}
}

// WithDisplay sets the display surface that receives freshly decoded
// artifacts. Without one, conversion results are only returned and cached.
func WithDisplay(display Display) Option {
	return func(c *Converter) {
		c.display = display
	}
}

// WithRunFunc sets the process-spawning function.
// This is primarily useful for testing without a real converter binary.
func WithRunFunc(run RunFunc) Option {
	return func(c *Converter) {
		c.run = run
	}
}

// WithLookPathFunc sets the executable lookup function.
// This is primarily useful for testing binary-presence behavior.
func WithLookPathFunc(lookPath LookPathFunc) Option {
	return func(c *Converter) {
		c.lookPath = lookPath
	}
}
