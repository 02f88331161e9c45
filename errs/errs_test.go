package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/openctm/ctm/errs"
	"github.com/stretchr/testify/assert"
)

func TestKindOf_MapsEachSentinel(t *testing.T) {
	tests := []struct {
		err  error
		want errs.Kind
	}{
		{nil, errs.KindNone},
		{errs.ErrInvalidContext, errs.KindInvalidContext},
		{errs.ErrInvalidArgument, errs.KindInvalidArgument},
		{errs.ErrInvalidOperation, errs.KindInvalidOperation},
		{errs.ErrInvalidMesh, errs.KindInvalidMesh},
		{errs.ErrOutOfMemory, errs.KindOutOfMemory},
		{errs.ErrFile, errs.KindFileError},
		{errs.ErrBadFormat, errs.KindBadFormat},
		{errs.ErrInvalidHeaderSize, errs.KindBadFormat},
		{errs.ErrCompressor, errs.KindCompressorError},
		{errs.ErrUnsupportedVer, errs.KindUnsupportedFormatVersion},
		{errs.ErrUnsupportedOp, errs.KindUnsupportedOperation},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, errs.KindOf(tt.err))
		})
	}
}

func TestKindOf_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("decoding frame 3: %w", errs.ErrBadFormat)
	assert.Equal(t, errs.KindBadFormat, errs.KindOf(wrapped))
}

func TestKindOf_UnrecognizedErrorIsInternal(t *testing.T) {
	assert.Equal(t, errs.KindInternalError, errs.KindOf(errors.New("some leaf package bug")))
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		k    errs.Kind
		want string
	}{
		{errs.KindNone, "NONE"},
		{errs.KindInvalidContext, "INVALID_CONTEXT"},
		{errs.KindInvalidArgument, "INVALID_ARGUMENT"},
		{errs.KindInvalidOperation, "INVALID_OPERATION"},
		{errs.KindInvalidMesh, "INVALID_MESH"},
		{errs.KindOutOfMemory, "OUT_OF_MEMORY"},
		{errs.KindFileError, "FILE_ERROR"},
		{errs.KindBadFormat, "BAD_FORMAT"},
		{errs.KindCompressorError, "COMPRESSOR_ERROR"},
		{errs.KindInternalError, "INTERNAL_ERROR"},
		{errs.KindUnsupportedFormatVersion, "UNSUPPORTED_FORMAT_VERSION"},
		{errs.KindUnsupportedOperation, "UNSUPPORTED_OPERATION"},
		{errs.Kind(255), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.k.String())
	}
}
