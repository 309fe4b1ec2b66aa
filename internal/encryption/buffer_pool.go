package encryption

import (
	"sync"
)

const streamBufferSize = 8 * 1024 // 8KB keystream chunk

// bufferPool provides a pool of reusable byte slices for keystream processing.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		return make([]byte, streamBufferSize)
	},
}
