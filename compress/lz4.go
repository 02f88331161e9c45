package compress

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/openctm/ctm/errs"
)

// LZ4Compressor is a faster, lower-ratio alternative Codec a caller can
// inject with ctm.WithCodec when write throughput matters more than file
// size (e.g. interactive export of large animations).
type LZ4Compressor struct{}

var _ Codec = LZ4Compressor{}

// NewLZ4Compressor creates an LZ4-backed Codec.
func NewLZ4Compressor() LZ4Compressor { return LZ4Compressor{} }

var lz4CompressorPool = sync.Pool{New: func() any { return &lz4.Compressor{} }}

func (c LZ4Compressor) Compress(data []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	comp, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(comp)

	n, err := comp.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompressor, err)
	}
	if n == 0 {
		// Incompressible input: lz4 reports n==0 rather than expanding it.
		return data, nil
	}

	return dst[:n], nil
}

func (c LZ4Compressor) Decompress(data []byte, expectedLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if expectedLen == len(data) {
		// Matches the Compress "incompressible" passthrough above.
		return data, nil
	}

	dst := make([]byte, expectedLen)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompressor, err)
	}

	return dst[:n], nil
}
