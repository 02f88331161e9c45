// Package packedcoder implements the packed integer/float block format
// shared by all three mesh pipelines: byte-plane deinterleaving, a fixed
// per-plane bit rotation, and delegation to a compress.Codec, framed as a
// u32 packed-size prefix followed by that many compressed bytes.
//
// Every array the mesh pipelines serialize — indices, vertex/normal
// coordinates, UV and attribute values, MG2 cell deltas and residuals —
// passes through EncodeInt32/EncodeFloat32 and their Decode counterparts,
// so this package is the single place the wire format for a "packed block"
// is defined.
package packedcoder

import (
	"fmt"
	"math"

	"github.com/openctm/ctm/compress"
	"github.com/openctm/ctm/errs"
	"github.com/openctm/ctm/internal/pool"
	"github.com/openctm/ctm/internal/stream"
)

// intPlaneOrder and floatPlaneOrder are the fixed byte-plane visiting
// orders for integer and float blocks, respectively. Float blocks visit
// the sign/exponent byte first, which tends to cluster identical or
// near-identical bytes across an array of similar-magnitude floats.
var (
	intPlaneOrder   = [4]int{0, 1, 2, 3}
	floatPlaneOrder = [4]int{3, 2, 1, 0}
)

// rotateAmount returns the fixed per-plane left-rotation amount applied to
// every byte of plane p. The schedule is arbitrary but must be identical
// between encode and decode, which rotateAmount alone guarantees since both
// directions call the same function.
func rotateAmount(plane int) uint {
	return uint(1+plane*2) % 8
}

func rotl8(b byte, k uint) byte {
	k &= 7
	return b<<k | b>>(8-k)
}

func rotr8(b byte, k uint) byte {
	k &= 7
	return b>>k | b<<(8-k)
}

// deinterleave rearranges n*4 little-endian bytes (four bytes per element,
// in element order) from raw into dst as four contiguous byte planes
// ordered by order, each plane additionally bit-rotated left by
// rotateAmount(planeIndex). dst must have length n*4.
func deinterleave(dst, raw []byte, n int, order [4]int) {
	for planeIdx, srcByte := range order {
		k := rotateAmount(planeIdx)
		base := planeIdx * n
		for e := 0; e < n; e++ {
			dst[base+e] = rotl8(raw[e*4+srcByte], k)
		}
	}
}

// reinterleave inverts deinterleave, writing into dst (length n*4).
func reinterleave(dst, planes []byte, n int, order [4]int) {
	for planeIdx, dstByte := range order {
		k := rotateAmount(planeIdx)
		base := planeIdx * n
		for e := 0; e < n; e++ {
			dst[e*4+dstByte] = rotr8(planes[base+e], k)
		}
	}
}

func int32ToLE(dst []byte, values []int32) {
	for i, v := range values {
		u := uint32(v)
		dst[i*4] = byte(u)
		dst[i*4+1] = byte(u >> 8)
		dst[i*4+2] = byte(u >> 16)
		dst[i*4+3] = byte(u >> 24)
	}
}

func leToInt32(dst []int32, raw []byte) {
	for i := range dst {
		u := uint32(raw[i*4]) | uint32(raw[i*4+1])<<8 | uint32(raw[i*4+2])<<16 | uint32(raw[i*4+3])<<24
		dst[i] = int32(u)
	}
}

func float32ToLE(dst []byte, values []float32) {
	for i, v := range values {
		u := math.Float32bits(v)
		dst[i*4] = byte(u)
		dst[i*4+1] = byte(u >> 8)
		dst[i*4+2] = byte(u >> 16)
		dst[i*4+3] = byte(u >> 24)
	}
}

func leToFloat32(dst []float32, raw []byte) {
	for i := range dst {
		u := uint32(raw[i*4]) | uint32(raw[i*4+1])<<8 | uint32(raw[i*4+2])<<16 | uint32(raw[i*4+3])<<24
		dst[i] = math.Float32frombits(u)
	}
}

// EncodeInt32 writes count*1 int32 values (signed is a documentation-only
// hint per spec: both signed and unsigned call sites produce identical
// bytes) as a packed block: deinterleave, rotate, compress, then
// u32 size + compressed bytes. The little-endian and plane scratch buffers
// are drawn from internal/pool rather than allocated per call.
func EncodeInt32(w *stream.Writer, codec compress.Codec, level int, values []int32, signed bool) error {
	_ = signed

	raw, putRaw := pool.GetByteSlice(len(values) * 4)
	defer putRaw()
	int32ToLE(raw, values)

	planes, putPlanes := pool.GetByteSlice(len(values) * 4)
	defer putPlanes()
	deinterleave(planes, raw, len(values), intPlaneOrder)

	compressed, err := codec.Compress(planes, level)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrCompressor, err)
	}
	if err := w.Uint32(uint32(len(compressed))); err != nil {
		return err
	}

	return w.Bytes(compressed)
}

// DecodeInt32 reads a packed int32 block of count elements.
func DecodeInt32(r *stream.Reader, codec compress.Codec, count int) ([]int32, error) {
	packedSize, err := r.Uint32()
	if err != nil {
		return nil, err
	}

	compressed, err := r.Bytes(int(packedSize))
	if err != nil {
		return nil, err
	}

	planes, err := codec.Decompress(compressed, count*4)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompressor, err)
	}
	if len(planes) != count*4 {
		return nil, fmt.Errorf("%w: packed int block decompressed to %d bytes, want %d", errs.ErrBadFormat, len(planes), count*4)
	}

	raw, putRaw := pool.GetByteSlice(count * 4)
	defer putRaw()
	reinterleave(raw, planes, count, intPlaneOrder)

	out := make([]int32, count)
	leToInt32(out, raw)

	return out, nil
}

// EncodeFloat32 writes count float32 values as a packed block using the
// float plane order (sign/exponent byte first). Scratch buffers are pooled
// as in EncodeInt32.
func EncodeFloat32(w *stream.Writer, codec compress.Codec, level int, values []float32) error {
	raw, putRaw := pool.GetByteSlice(len(values) * 4)
	defer putRaw()
	float32ToLE(raw, values)

	planes, putPlanes := pool.GetByteSlice(len(values) * 4)
	defer putPlanes()
	deinterleave(planes, raw, len(values), floatPlaneOrder)

	compressed, err := codec.Compress(planes, level)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrCompressor, err)
	}
	if err := w.Uint32(uint32(len(compressed))); err != nil {
		return err
	}

	return w.Bytes(compressed)
}

// DecodeFloat32 reads a packed float32 block of count elements.
func DecodeFloat32(r *stream.Reader, codec compress.Codec, count int) ([]float32, error) {
	packedSize, err := r.Uint32()
	if err != nil {
		return nil, err
	}

	compressed, err := r.Bytes(int(packedSize))
	if err != nil {
		return nil, err
	}

	planes, err := codec.Decompress(compressed, count*4)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompressor, err)
	}
	if len(planes) != count*4 {
		return nil, fmt.Errorf("%w: packed float block decompressed to %d bytes, want %d", errs.ErrBadFormat, len(planes), count*4)
	}

	raw, putRaw := pool.GetByteSlice(count * 4)
	defer putRaw()
	reinterleave(raw, planes, count, floatPlaneOrder)

	out := make([]float32, count)
	leToFloat32(out, raw)

	return out, nil
}
