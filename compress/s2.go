package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/openctm/ctm/errs"
)

// S2Compressor is a high-throughput alternative Codec, for callers who
// want compression (unlike NoOp) but prioritize encode/decode speed over
// ratio.
type S2Compressor struct{}

var _ Codec = S2Compressor{}

// NewS2Compressor creates an S2-backed Codec.
func NewS2Compressor() S2Compressor { return S2Compressor{} }

func (c S2Compressor) Compress(data []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (c S2Compressor) Decompress(data []byte, expectedLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := s2.Decode(make([]byte, 0, expectedLen), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompressor, err)
	}

	return out, nil
}
