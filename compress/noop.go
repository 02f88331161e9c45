package compress

// NoOpCompressor passes data through unchanged. It exists for tests that
// need to assert on the packed coder's deinterleaved-and-rotated byte
// stream directly, without a real compressor's output obscuring it.
type NoOpCompressor struct{}

var _ Codec = NoOpCompressor{}

// NewNoOpCompressor creates a passthrough Codec.
func NewNoOpCompressor() NoOpCompressor { return NoOpCompressor{} }

func (c NoOpCompressor) Compress(data []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}

	return data, nil
}

func (c NoOpCompressor) Decompress(data []byte, expectedLen int) ([]byte, error) {
	return data, nil
}
