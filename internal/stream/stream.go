// Package stream implements the container's big-endian-free, little-endian
// wire primitives: fixed-width integers, FourCC tags, length-prefixed UTF-8
// strings and IEEE-754 32-bit floats, all written least-significant byte
// first as required by the format (see the Endianness design note).
//
// Writer and Reader wrap the caller-supplied io.Writer/io.Reader (the
// callback contract of spec.md §6): a thin adapter that turns short
// writes/reads into errs.ErrFile rather than leaving partial data on the
// wire. The pooled scratch buffers that avoid a per-block allocation live in
// internal/pool and are drawn directly by internal/packedcoder, which is
// the actual per-block allocation hot path; Writer/Reader themselves hold
// no scratch state.
package stream

import (
	"fmt"
	"io"

	"github.com/openctm/ctm/errs"
)

// FourCC is a 4-byte ASCII tag such as "OCTM" or "INDX", stored on disk in
// source order (not byte-swapped).
type FourCC [4]byte

// Tag builds a FourCC from a string, which must be exactly 4 bytes.
func Tag(s string) FourCC {
	var t FourCC
	copy(t[:], s)
	return t
}

func (t FourCC) String() string { return string(t[:]) }

// Writer serializes the stream primitives to an io.Writer.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for primitive writes.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Close does nothing and does not close the underlying io.Writer; it exists
// so callers can end a Writer's use explicitly.
func (s *Writer) Close() {}

func (s *Writer) write(b []byte) error {
	n, err := s.w.Write(b)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrFile, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: short write (%d of %d bytes)", errs.ErrFile, n, len(b))
	}

	return nil
}

// Uint32 writes a little-endian u32 (least-significant byte first) as one
// 4-byte write.
func (s *Writer) Uint32(v uint32) error {
	b := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	return s.write(b[:])
}

// FourCC writes a 4-byte tag verbatim (source-order ASCII, no byte swap).
func (s *Writer) FourCC(t FourCC) error {
	return s.write(t[:])
}

// Float32 writes an IEEE-754 32-bit float, little-endian.
func (s *Writer) Float32(v float32) error {
	return s.Uint32(float32Bits(v))
}

// String writes a u32 length prefix followed by the UTF-8 bytes of v.
func (s *Writer) String(v string) error {
	if err := s.Uint32(uint32(len(v))); err != nil {
		return err
	}
	if len(v) == 0 {
		return nil
	}

	return s.write([]byte(v))
}

// Bytes writes raw bytes with no framing, for payloads whose length is
// already known from context (e.g. a packed block body after its size
// prefix has been written by the caller).
func (s *Writer) Bytes(b []byte) error {
	return s.write(b)
}

// Reader deserializes the stream primitives from an io.Reader.
type Reader struct {
	r io.Reader
}

// NewReader wraps r for primitive reads.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (s *Reader) readFull(b []byte) error {
	n, err := io.ReadFull(s.r, b)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrFile, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: short read (%d of %d bytes)", errs.ErrFile, n, len(b))
	}

	return nil
}

// Uint32 reads a little-endian u32.
func (s *Reader) Uint32() (uint32, error) {
	var b [4]byte
	if err := s.readFull(b[:]); err != nil {
		return 0, err
	}

	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// FourCC reads a 4-byte tag.
func (s *Reader) FourCC() (FourCC, error) {
	var t FourCC
	err := s.readFull(t[:])
	return t, err
}

// ExpectFourCC reads a tag and compares it against want, returning
// errs.ErrBadFormat on mismatch.
func (s *Reader) ExpectFourCC(want string) error {
	got, err := s.FourCC()
	if err != nil {
		return err
	}
	if got.String() != want {
		return fmt.Errorf("%w: expected tag %q, got %q", errs.ErrBadFormat, want, got.String())
	}

	return nil
}

// Float32 reads an IEEE-754 32-bit float, little-endian.
func (s *Reader) Float32() (float32, error) {
	u, err := s.Uint32()
	if err != nil {
		return 0, err
	}

	return float32FromBits(u), nil
}

// String reads a u32 length prefix then that many bytes of UTF-8.
func (s *Reader) String() (string, error) {
	n, err := s.Uint32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}

	b := make([]byte, n)
	if err := s.readFull(b); err != nil {
		return "", err
	}

	return string(b), nil
}

// Bytes reads exactly n raw bytes.
func (s *Reader) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := s.readFull(b); err != nil {
		return nil, err
	}

	return b, nil
}
