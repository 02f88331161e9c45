package compress

// ZstdCompressor is the default Codec, backed by Zstandard.
//
// It favors compression ratio over raw speed, which suits MG2's quantized
// integer/float streams (highly redundant after deinterleaving and bit
// rotation) better than a byte-for-byte copy codec would.
type ZstdCompressor struct{}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor creates the default Zstd-backed Codec.
func NewZstdCompressor() ZstdCompressor { return ZstdCompressor{} }

// zstdLevel maps the spec's 0-9 compression level onto a concrete backend
// compression level; encode() and decode() are provided per build tag
// (zstd_pure.go for the default pure-Go path, zstd_cgo.go for the
// cgo-enabled gozstd path).
func zstdLevel(level int) int {
	// klauspost/compress/zstd and gozstd both accept roughly 1-22; spread
	// the spec's 0-9 range across the low/default part of that scale so
	// level 9 doesn't pay for marginal gains nobody asked for.
	mapped := 1 + level*2
	if mapped > 19 {
		mapped = 19
	}

	return mapped
}

func (c ZstdCompressor) Compress(data []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}

	return zstdEncode(data, zstdLevel(level))
}

func (c ZstdCompressor) Decompress(data []byte, expectedLen int) ([]byte, error) {
	return zstdDecode(data, expectedLen)
}
