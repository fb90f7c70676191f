package asciify

import (
	"fmt"
	"hash"
	"path/filepath"
)

// Source is the logical identity of an image to convert.
// Exactly one variant is active per conversion request and sources are never
// mutated after construction. Construct one with Bytes, Path or URL.
type Source interface {
	// hash writes the source's identity to the hash.
	hash(h hash.Hash) error

	// String returns a string representation of the source.
	String() string
}

// bytesSource is an in-memory image payload. Its identity is the payload itself.
type bytesSource struct {
	data []byte
}

func (b bytesSource) hash(h hash.Hash) error {
	h.Write([]byte("bytes:"))
	return hashContent(b.data, h)
}

func (b bytesSource) String() string {
	return fmt.Sprintf("bytes:%d", len(b.data))
}

// pathSource is a local file. Its identity is the cleaned path string, not the
// file content, so renaming a file changes the key but touching it does not.
type pathSource struct {
	path string
}

func (p pathSource) hash(h hash.Hash) error {
	h.Write([]byte("path:"))
	h.Write([]byte(p.path))
	return nil
}

func (p pathSource) String() string {
	return fmt.Sprintf("path:%s", p.path)
}

// urlSource is a remote image. Its identity is the URL string.
type urlSource struct {
	url string
}

func (u urlSource) hash(h hash.Hash) error {
	h.Write([]byte("url:"))
	h.Write([]byte(u.url))
	return nil
}

func (u urlSource) String() string {
	return fmt.Sprintf("url:%s", u.url)
}

// Bytes creates a Source from a raw image payload.
func Bytes(data []byte) Source {
	return bytesSource{data: data}
}

// Path creates a Source from a local file path.
// The path is cleaned so equivalent spellings of the same path share a key.
func Path(path string) Source {
	return pathSource{path: filepath.Clean(path)}
}

// URL creates a Source from a remote URL.
func URL(url string) Source {
	return urlSource{url: url}
}
