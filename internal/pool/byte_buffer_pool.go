// Package pool provides reusable scratch allocations for the encode/decode
// hot paths: a growable byte buffer (this file) for callers that need an
// io.Writer-shaped accumulator, such as internal/legacyv5's in-memory v6
// rewrite, and fixed-size typed slice pools (slice_pool.go) for the
// transient int32/float32/byte scratch that internal/packedcoder and
// internal/pipeline draw on every packed block.
package pool

import "sync"

// Default and ceiling sizes for buffers drawn from the package pool.
//
// A typical packed block (one vertex/normal/UV/attribute stream for one
// frame) fits comfortably under DefaultBufferSize; MaxBufferThreshold caps
// how large a buffer the pool will retain before letting it be collected,
// so one unusually large mesh does not permanently bloat the pool.
const (
	DefaultBufferSize  = 1024 * 64  // 64KiB
	MaxBufferThreshold = 1024 * 512 // 512KiB
)

// ByteBuffer is a growable byte slice with pool-friendly Reset/Grow helpers.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the buffer's current contents.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Grow ensures the buffer can accept n more bytes without reallocating,
// growing by DefaultBufferSize for small buffers and by 25% for large ones
// (or by n, when that is more).
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	growBy := DefaultBufferSize
	if cap(bb.B) > 4*DefaultBufferSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	next := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(next, bb.B)
	bb.B = next
}

// Write appends data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// Pool is a sync.Pool of ByteBuffers bounded by a maximum retained capacity.
type Pool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewPool creates a Pool whose buffers start at defaultSize and are
// discarded, rather than retained, once they grow past maxThreshold.
func NewPool(defaultSize, maxThreshold int) *Pool {
	return &Pool{
		pool:         sync.Pool{New: func() any { return NewByteBuffer(defaultSize) }},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool, allocating one if empty.
func (p *Pool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool, discarding it if it has grown
// beyond the pool's maximum threshold.
func (p *Pool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}
	bb.Reset()
	p.pool.Put(bb)
}

var scratchPool = NewPool(DefaultBufferSize, MaxBufferThreshold)

// GetScratch retrieves a scratch ByteBuffer from the shared default pool.
func GetScratch() *ByteBuffer { return scratchPool.Get() }

// PutScratch returns a scratch ByteBuffer to the shared default pool.
func PutScratch(bb *ByteBuffer) { scratchPool.Put(bb) }
