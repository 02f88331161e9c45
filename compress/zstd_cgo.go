//go:build cgo

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"

	"github.com/openctm/ctm/errs"
)

// zstdEncode/zstdDecode use gozstd (a cgo binding to the reference libzstd)
// when the build has cgo available, trading the pure-Go path's portability
// for the reference implementation's compression ratio and speed.
func zstdEncode(data []byte, level int) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, level), nil
}

func zstdDecode(data []byte, expectedLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out, err := gozstd.Decompress(make([]byte, 0, expectedLen), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompressor, err)
	}

	return out, nil
}
