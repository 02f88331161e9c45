package compress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, c Codec) {
	t.Helper()

	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i * 7 % 251)
	}

	compressed, err := c.Compress(data, 5)
	require.NoError(t, err)

	out, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Run("zstd", func(t *testing.T) { roundTrip(t, NewZstdCompressor()) })
	t.Run("lz4", func(t *testing.T) { roundTrip(t, NewLZ4Compressor()) })
	t.Run("s2", func(t *testing.T) { roundTrip(t, NewS2Compressor()) })
	t.Run("noop", func(t *testing.T) { roundTrip(t, NewNoOpCompressor()) })
}

func TestCodec_InvalidLevel(t *testing.T) {
	_, err := NewZstdCompressor().Compress([]byte("x"), 10)
	require.Error(t, err)
	_, err = NewZstdCompressor().Compress([]byte("x"), -1)
	require.Error(t, err)
}

func TestCodec_EmptyInput(t *testing.T) {
	for _, c := range []Codec{NewZstdCompressor(), NewLZ4Compressor(), NewS2Compressor(), NewNoOpCompressor()} {
		out, err := c.Compress(nil, 1)
		require.NoError(t, err)
		_ = out
	}
}
