package compress

import "github.com/openctm/ctm/errs"

// Codec is the black-box generic compressor used by the packed int/float
// coder. Level ranges 0-9 (fastest to smallest), matching spec.md's
// compression-level range; implementations are free to map that onto
// whatever scale their backing library uses.
//
// Decompress is told the exact expected output length (the packed coder
// always knows it: count*size*4 bytes) so implementations that don't
// self-describe their output size, such as a raw LZ4 block, don't need to.
type Codec interface {
	Compress(data []byte, level int) ([]byte, error)
	Decompress(data []byte, expectedLen int) ([]byte, error)
}

// ErrLevel is returned by Compress when level falls outside 0-9.
var ErrLevel = errs.ErrInvalidArgument

func checkLevel(level int) error {
	if level < 0 || level > 9 {
		return ErrLevel
	}

	return nil
}
