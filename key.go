package asciify

import "fmt"

// keyFor computes the cache key for a source: the hex digest of the source's
// logical identity under the converter's hash function. Two keys are equal
// iff the identities they were derived from are equal. Keys are deliberately
// insensitive to conversion options; the first artifact computed for a source
// wins regardless of the options a later call used.
func (c *Converter) keyFor(src Source) (string, error) {
	h := c.hashFunc()
	if err := src.hash(h); err != nil {
		return "", fmt.Errorf("failed to hash source %s: %w", src.String(), err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
