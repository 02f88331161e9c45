package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	capacity := 1024
	bb := NewByteBuffer(capacity)

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "new buffer should have zero length")
	assert.Equal(t, capacity, cap(bb.B), "new buffer should have specified capacity")
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(DefaultBufferSize)
	_, _ = bb.Write([]byte("hello"))

	got := bb.Bytes()

	assert.Equal(t, []byte("hello"), got)
	assert.True(t, &bb.B[0] == &got[0], "Bytes() should return the same underlying slice")
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(DefaultBufferSize)
	_, _ = bb.Write([]byte("some data"))
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B), "Reset should clear the buffer length")
	assert.Equal(t, originalCap, cap(bb.B), "Reset should preserve capacity")
}

func TestByteBuffer_Len(t *testing.T) {
	bb := NewByteBuffer(DefaultBufferSize)

	assert.Equal(t, 0, bb.Len(), "empty buffer should have zero length")

	_, _ = bb.Write([]byte("test"))
	assert.Equal(t, 4, bb.Len(), "buffer length should match data")

	_, _ = bb.Write([]byte(" data"))
	assert.Equal(t, 9, bb.Len(), "buffer length should update after append")
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(DefaultBufferSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), bb.B)
}

func TestByteBuffer_Write_Multiple(t *testing.T) {
	bb := NewByteBuffer(DefaultBufferSize)

	n1, err1 := bb.Write([]byte("hello"))
	require.NoError(t, err1)
	assert.Equal(t, 5, n1)

	n2, err2 := bb.Write([]byte(" world"))
	require.NoError(t, err2)
	assert.Equal(t, 6, n2)

	assert.Equal(t, []byte("hello world"), bb.B)
	assert.Equal(t, 11, bb.Len())
}

func TestByteBuffer_Grow_SufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(DefaultBufferSize)
	originalCap := cap(bb.B)

	bb.Grow(100) // smaller than available capacity

	assert.Equal(t, originalCap, cap(bb.B), "should not reallocate when capacity is sufficient")
}

func TestByteBuffer_Grow_SmallBuffer(t *testing.T) {
	bb := NewByteBuffer(DefaultBufferSize)
	bb.B = append(bb.B, make([]byte, DefaultBufferSize)...) // fill to capacity

	bb.Grow(1024)

	assert.GreaterOrEqual(t, cap(bb.B), DefaultBufferSize+1024, "should have at least requested capacity")
	assert.Equal(t, DefaultBufferSize, len(bb.B), "length should not change")
}

func TestByteBuffer_Grow_LargeBuffer(t *testing.T) {
	bb := NewByteBuffer(DefaultBufferSize)
	largeSize := 4*DefaultBufferSize + 1024
	bb.B = make([]byte, largeSize)

	bb.Grow(2048)

	assert.GreaterOrEqual(t, cap(bb.B), largeSize+2048, "should have at least requested capacity")
}

func TestByteBuffer_Grow_PreservesData(t *testing.T) {
	bb := NewByteBuffer(DefaultBufferSize)
	testData := []byte("important data that must be preserved")
	bb.B = append(bb.B, testData...)

	bb.Grow(DefaultBufferSize * 2) // forces reallocation

	assert.Equal(t, testData, bb.B, "data should be preserved after growth")
}

func TestByteBuffer_Grow_ZeroBytes(t *testing.T) {
	bb := NewByteBuffer(DefaultBufferSize)
	originalCap := cap(bb.B)

	bb.Grow(0)

	assert.Equal(t, originalCap, cap(bb.B), "Grow(0) should not change capacity")
}

func TestPool_GetPut(t *testing.T) {
	p := NewPool(1024, 4096)

	bb := p.Get()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, cap(bb.B), 1024, "buffer should have at least default size")

	p.Put(bb)
}

func TestPool_CustomSizes(t *testing.T) {
	tests := []struct {
		name         string
		defaultSize  int
		maxThreshold int
	}{
		{"Small pool", 1024, 4096},
		{"Medium pool", 16384, 131072},
		{"No threshold", 8192, 0}, // 0 means no limit
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.defaultSize, tt.maxThreshold)
			bb := p.Get()
			assert.GreaterOrEqual(t, cap(bb.B), tt.defaultSize)
			p.Put(bb)
		})
	}
}

func TestPool_MaxThreshold_Discard(t *testing.T) {
	p := NewPool(1024, 4096)

	bb := p.Get()
	bb.Grow(10000) // grow beyond the 4096 threshold
	assert.Greater(t, cap(bb.B), 4096, "buffer should have grown beyond threshold")

	p.Put(bb) // should be discarded, not retained

	bb2 := p.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096*2, "should not reuse a buffer larger than the threshold")
}

func TestPool_MaxThreshold_Zero(t *testing.T) {
	p := NewPool(1024, 0) // 0 means no limit

	bb := p.Get()
	bb.Grow(1024 * 1024)
	assert.Greater(t, cap(bb.B), 100000, "buffer should have grown to a large size")

	p.Put(bb) // accepted regardless of size

	bb2 := p.Get()
	assert.NotNil(t, bb2)
}

func TestPool_PutNil(t *testing.T) {
	p := NewPool(1024, 4096)

	assert.NotPanics(t, func() {
		p.Put(nil)
	})
}

func TestPool_ResetsOnPut(t *testing.T) {
	p := NewPool(1024, 4096)

	bb := p.Get()
	_, _ = bb.Write([]byte("sensitive data"))

	p.Put(bb)

	assert.Equal(t, 0, len(bb.B), "Put should reset the buffer")
}

func TestPool_ConcurrentAccess(t *testing.T) {
	p := NewPool(1024, 4096)
	const goroutines = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			bb := p.Get()
			_, _ = bb.Write([]byte("data"))
			p.Put(bb)
		}()
	}

	wg.Wait()
}

func TestGetScratch(t *testing.T) {
	bb := GetScratch()

	require.NotNil(t, bb)
	require.NotNil(t, bb.B)
	assert.Equal(t, 0, len(bb.B), "scratch buffer should start empty")
	assert.GreaterOrEqual(t, cap(bb.B), DefaultBufferSize)

	PutScratch(bb)
}

func TestGetPutScratch_Reuse(t *testing.T) {
	bb1 := GetScratch()
	_, _ = bb1.Write([]byte("test data"))
	capacity1 := cap(bb1.B)
	PutScratch(bb1)

	bb2 := GetScratch()
	assert.Equal(t, 0, len(bb2.B), "scratch buffer from pool should be reset")
	if capacity1 == cap(bb2.B) {
		t.Log("scratch buffer was likely reused from the pool")
	}
	PutScratch(bb2)
}

func TestScratch_DiscardsOversizedBuffers(t *testing.T) {
	bb := GetScratch()
	bb.Grow(MaxBufferThreshold + 1)
	PutScratch(bb) // too large to retain

	bb2 := GetScratch()
	assert.LessOrEqual(t, cap(bb2.B), MaxBufferThreshold*2, "should not reuse an over-threshold buffer")
	PutScratch(bb2)
}

func TestByteBuffer_WriteSatisfiesIOWriter(t *testing.T) {
	bb := NewByteBuffer(64)

	var w io.Writer = bb
	n, err := w.Write([]byte("via io.Writer"))
	require.NoError(t, err)
	assert.Equal(t, len("via io.Writer"), n)
	assert.Equal(t, []byte("via io.Writer"), bb.Bytes())
}

func TestByteBuffer_CopyOutBeforeReuse(t *testing.T) {
	// Mirrors internal/legacyv5's pattern: write through a pooled buffer,
	// copy out, then return the buffer to the pool.
	bb := GetScratch()
	_, _ = bb.Write([]byte("payload"))

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	PutScratch(bb)

	// Reusing the pool must not corrupt the copy.
	reused := GetScratch()
	_, _ = reused.Write(bytes.Repeat([]byte{0}, len(out)))
	PutScratch(reused)

	assert.Equal(t, []byte("payload"), out)
}
