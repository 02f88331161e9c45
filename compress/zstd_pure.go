//go:build !cgo

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/openctm/ctm/errs"
)

// zstdEncoderPool and zstdDecoderPool amortize the warmup cost the
// klauspost/compress/zstd docs call out explicitly: encoders/decoders are
// designed to be reused after their first call, not created per-block.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("compress: failed to create zstd encoder: %v", err))
		}

		return enc
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("compress: failed to create zstd decoder: %v", err))
		}

		return dec
	},
}

func zstdEncode(data []byte, level int) ([]byte, error) {
	enc, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)

	var opts []zstd.EOption
	if level > 0 {
		opts = append(opts, zstd.WithEncoderLevel(zstdSpeedFor(level)))
	}
	if len(opts) > 0 {
		// EncoderLevel can't be changed on a pooled encoder in place;
		// a fresh one-shot encoder is used instead for any level > 0, which
		// is every level zstdLevel produces.
		oneShot, err := zstd.NewWriter(nil, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrCompressor, err)
		}
		defer oneShot.Close()

		return oneShot.EncodeAll(data, nil), nil
	}

	return enc.EncodeAll(data, nil), nil
}

func zstdSpeedFor(level int) zstd.EncoderLevel {
	switch {
	case level <= 1:
		return zstd.SpeedFastest
	case level <= 6:
		return zstd.SpeedDefault
	case level <= 12:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

func zstdDecode(data []byte, expectedLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	out, err := dec.DecodeAll(data, make([]byte, 0, expectedLen))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCompressor, err)
	}

	return out, nil
}
