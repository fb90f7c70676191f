package asciify

import (
	"context"
	"fmt"
)

// Convert runs the full pipeline for one source: validation, cache probe,
// materialization for bytes/URL sources, converter invocation, decoding,
// cache insertion and temp cleanup. A cache hit short-circuits everything
// and returns the cached artifact unchanged.
//
// Concurrent calls for the same key share one computation; calls for
// different keys proceed independently. Temp files created along the way are
// exclusively owned by the conversion in flight and are deleted on every
// exit path.
func (c *Converter) Convert(ctx context.Context, src Source, opts Options) (*Artifact, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	binPath, err := c.lookPath(c.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBinaryNotFound, c.binary)
	}

	key, err := c.keyFor(src)
	if err != nil {
		return nil, err
	}

	if art, ok := c.cache.Lookup(key); ok {
		return art, nil
	}

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		return c.convertMiss(ctx, binPath, src, opts, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Artifact), nil
}

// convertMiss performs the cache-miss path: materialize, invoke, decode,
// deliver, insert. key is the provisional key computed from the source form;
// the path-derived key takes precedence once materialization resolves one.
func (c *Converter) convertMiss(ctx context.Context, binPath string, src Source, opts Options, key string) (*Artifact, error) {
	var temps []string
	defer func() {
		for _, path := range temps {
			c.removeQuiet(path)
		}
	}()

	var (
		imagePath string
		err       error
	)
	switch s := src.(type) {
	case pathSource:
		imagePath = s.path
	case bytesSource:
		imagePath, temps, err = c.materializeBytes(s.data)
	case urlSource:
		imagePath, temps, err = c.materializeURL(ctx, s.url)
	default:
		err = fmt.Errorf("unsupported source %s", src.String())
	}
	if err != nil {
		return nil, err
	}

	// For materialized sources the key is recomputed from the final resolved
	// path and the cache re-checked, so two distinct raw inputs resolving to
	// one canonical path share an entry. The source-derived key stays as an
	// alias so identical bytes or URLs keep hitting without rematerializing.
	sourceKey := key
	if _, isPath := src.(pathSource); !isPath {
		pathKey, err := c.keyFor(Path(imagePath))
		if err != nil {
			return nil, err
		}
		if art, ok := c.cache.Lookup(pathKey); ok {
			c.cache.Insert(sourceKey, art)
			return art, nil
		}
		key = pathKey
	}

	raw, err := c.invoke(ctx, binPath, imagePath, opts)
	if err != nil {
		return nil, err
	}

	runs := Decode(raw)
	art := &Artifact{
		Key:       key,
		Runs:      runs,
		CreatedAt: c.nowFunc(),
	}

	if opts.SaveTo != "" {
		if err := WritePlain(c.fs, opts.SaveTo, runs); err != nil {
			return nil, err
		}
	}

	if !opts.NoDisplay && c.display != nil {
		c.display.Clear()
		c.display.InsertStyled(runs)
		c.display.RefreshStyling()
	}

	stored := c.cache.Insert(key, art)
	if sourceKey != key {
		c.cache.Insert(sourceKey, stored)
	}
	return stored, nil
}
