package asciify

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"io"
	"net/http"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
)

// createTemp writes data to a freshly created temporary file and returns its
// path. The pattern's "*" is replaced by a random string, so an extension
// placed after it survives.
func (c *Converter) createTemp(pattern string, data []byte) (string, error) {
	f, err := afero.TempFile(c.fs, "", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write temp file %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file %s: %w", f.Name(), err)
	}
	return f.Name(), nil
}

// removeQuiet removes a file, logging and swallowing failures. Cleanup is
// best-effort and must not mask the primary result.
func (c *Converter) removeQuiet(path string) {
	if err := c.fs.Remove(path); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("failed to remove temp file")
	}
}

// materializeBytes writes a raw payload to a temporary file ready for
// conversion, with the extension resolved by sniffing the payload. Animated
// formats are reduced to their first frame, re-encoded as a static PNG, and
// the multi-frame original is deleted.
//
// It returns the final path and the temp files the caller owns and must
// delete when the conversion finishes.
func (c *Converter) materializeBytes(data []byte) (string, []string, error) {
	typ := DetectType(data)
	path, err := c.createTemp("asciify-*"+typ.Ext(), data)
	if err != nil {
		return "", nil, err
	}

	if !typ.IsAnimated() {
		return path, []string{path}, nil
	}

	// First frame only; gif.Decode stops after frame 0.
	frame, err := gif.Decode(bytes.NewReader(data))
	if err != nil {
		c.removeQuiet(path)
		return "", nil, fmt.Errorf("failed to decode animated image: %w", err)
	}

	staticPath, err := c.encodeStatic(frame)
	if err != nil {
		c.removeQuiet(path)
		return "", nil, err
	}
	c.removeQuiet(path)

	return staticPath, []string{staticPath}, nil
}

// materializeURL fetches a remote image into a temporary file, re-sniffs the
// fetched bytes and normalizes them to a 24-bit-depth PNG so the converter
// sees predictable input. The fetch is synchronous and has no retry.
//
// It returns the final path and the temp files the caller owns and must
// delete when the conversion finishes.
func (c *Converter) materializeURL(ctx context.Context, url string) (string, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("%w: HTTP %d fetching %s", ErrFetch, resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: empty response from %s", ErrFetch, url)
	}

	typ := DetectType(data)
	fetched, err := c.createTemp("asciify-*"+typ.Ext(), data)
	if err != nil {
		return "", nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		c.removeQuiet(fetched)
		return "", nil, fmt.Errorf("failed to decode fetched image: %w", err)
	}

	staticPath, err := c.encodeStatic(img)
	if err != nil {
		c.removeQuiet(fetched)
		return "", nil, err
	}
	c.removeQuiet(fetched)

	return staticPath, []string{staticPath}, nil
}

// encodeStatic re-encodes an image as an 8-bit-per-channel PNG in a fresh
// temporary file. imaging.Clone guarantees the NRGBA representation.
func (c *Converter) encodeStatic(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Clone(img), imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return c.createTemp("asciify-*.png", buf.Bytes())
}
