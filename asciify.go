package asciify

import (
	"context"
	"hash"
	"net/http"
	"os/exec"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"
)

// DefaultBinary is the name of the external converter executable.
const DefaultBinary = "ascii-image-converter"

// HashFunc defines a function that creates a new hash.Hash instance.
type HashFunc func() hash.Hash

// NowFunc defines a function that returns the current time.
type NowFunc func() time.Time

// RunFunc spawns the converter process and returns its captured standard
// output. The default implementation uses os/exec with a structured argument
// vector; tests substitute their own via WithRunFunc.
type RunFunc func(ctx context.Context, binary string, args []string, env []string) ([]byte, error)

// LookPathFunc locates the converter executable on the search path.
type LookPathFunc func(binary string) (string, error)

// Option defines a function that configures a Converter.
type Option func(*Converter)

// Converter turns an image into styled text by delegating the pixel-to-glyph
// algorithm to an external converter process, reusing previously computed
// results through a content-keyed cache.
//
// The pipeline is synchronous and blocking: network fetch and process
// invocation run to completion on the calling goroutine. Concurrent calls
// for different keys proceed independently; concurrent calls for the same
// key share one computation.
type Converter struct {
	binary   string
	env      []string // extra KEY=VALUE entries for the converter process
	fs       afero.Fs
	hashFunc HashFunc
	nowFunc  NowFunc
	client   *http.Client
	log      zerolog.Logger
	cache    *Cache
	display  Display
	run      RunFunc
	lookPath LookPathFunc
	flight   singleflight.Group
}

// New creates a Converter with the default stack: the OS filesystem, xxHash
// keys, the default HTTP client and the ascii-image-converter binary.
func New(options ...Option) *Converter {
	conv := &Converter{
		binary:   DefaultBinary,
		fs:       afero.NewOsFs(),
		hashFunc: defaultHashFunc,
		nowFunc:  time.Now,
		client:   http.DefaultClient,
		log:      zerolog.Nop(),
		run:      defaultRun,
		lookPath: exec.LookPath,
	}

	// Apply options
	for _, option := range options {
		option(conv)
	}

	if conv.cache == nil {
		conv.cache = NewCache(DefaultCacheCapacity)
	}

	return conv
}

// Cache returns the converter's cache handle, for stats or explicit clearing.
func (c *Converter) Cache() *Cache {
	return c.cache
}

func defaultHashFunc() hash.Hash {
	return xxhash.New()
}
