// Package compress implements the "black-box" generic compressor the
// packed int/float coder applies to a deinterleaved byte stream.
//
// The spec treats this stage as a black box: compress(bytes, level) -> bytes
// and decompress(bytes, expectedLen) -> bytes. Internally it is a Codec, the
// same two-method shape the teacher package uses for its payload
// compression stage, so the container's compression profile (RAW/MG1/MG2,
// a mesh-encoding concern) stays entirely independent of which general
// purpose byte compressor backs a Codec (a transport concern).
//
// Four Codecs are provided, one per compression dependency available to
// this module: Zstd (default; klauspost/compress pure-Go, or valyala/gozstd
// under cgo), LZ4 (pierrec/lz4), S2 (klauspost/compress/s2) and NoOp
// (passthrough, used by tests that need to inspect the pre-compression
// byte stream). Swap the active Codec with ctm.WithCodec; the on-disk bytes
// for an unconfigured context always come from the default Zstd Codec.
package compress
