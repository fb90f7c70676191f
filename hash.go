package asciify

import (
	"bytes"
	"fmt"
	"hash"
	"io"
	"sync"
)

// Default size for the buffer used when hashing payloads
const defaultBufferSize = 32 * 1024 // 32KB

// bufferPool is a pool of byte slices used for I/O during hashing
var bufferPool = sync.Pool{
	New: func() interface{} {
		buffer := make([]byte, defaultBufferSize)
		return &buffer
	},
}

// hashContent hashes a byte payload using the provided hash function.
func hashContent(data []byte, h hash.Hash) error {
	bufPtr := bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer bufferPool.Put(bufPtr)

	_, err := io.CopyBuffer(h, bytes.NewReader(data), buffer)
	if err != nil {
		return fmt.Errorf("failed to copy content: %w", err)
	}
	return nil
}
