package network

import "sync"

// DefaultBufferSize is the initial capacity of pooled encode buffers. Every
// message in the protocol encodes well under 4KB except a SnapshotMsg for an
// unusually full server, which grows the slice once and keeps the larger
// capacity on return to the pool.
const DefaultBufferSize = 4096

// bufferPool recycles the scratch slices EncodeMessage writes frames into,
// so the encode scratch space is reused across messages. EncodeMessage
// still allocates the output slice it returns.
var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, DefaultBufferSize)
		return &buf
	},
}

// AcquireBuffer gets a length-0 buffer from the pool. The caller must hand
// it back with ReleaseBuffer.
func AcquireBuffer() *[]byte {
	return bufferPool.Get().(*[]byte)
}

// ReleaseBuffer resets a buffer to length 0 (keeping capacity) and returns
// it to the pool. A nil pointer is a no-op.
func ReleaseBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	*buf = (*buf)[:0]
	bufferPool.Put(buf)
}
