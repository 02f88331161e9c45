// Package errs defines the sentinel errors returned by the container state
// machine and its supporting packages.
//
// Internal functions return ordinary Go errors (frequently wrapping one of
// these sentinels with additional context via fmt.Errorf's %w); the context
// translates them to a Kind and stores them in its single-slot last-error
// register at the public API boundary. Callers that need to distinguish
// error cases should use errors.Is against the sentinels below rather than
// string-matching messages.
package errs

import "errors"

// Sentinel errors. Each maps to exactly one Kind (see Kind below); keep that
// mapping in sync when adding a new sentinel.
var (
	ErrInvalidContext    = errors.New("ctm: invalid context")
	ErrInvalidArgument   = errors.New("ctm: invalid argument")
	ErrInvalidOperation  = errors.New("ctm: invalid operation for current state")
	ErrInvalidMesh       = errors.New("ctm: invalid mesh data")
	ErrOutOfMemory       = errors.New("ctm: out of memory")
	ErrFile              = errors.New("ctm: file I/O error")
	ErrBadFormat         = errors.New("ctm: bad file format")
	ErrCompressor        = errors.New("ctm: compressor error")
	ErrInternal          = errors.New("ctm: internal error")
	ErrUnsupportedVer    = errors.New("ctm: unsupported format version")
	ErrUnsupportedOp     = errors.New("ctm: unsupported operation")

	// ErrInvalidHeaderSize is a narrower ErrBadFormat case used by the
	// header parser, where the caller benefits from a distinct sentinel.
	ErrInvalidHeaderSize = errors.New("ctm: invalid header size")
)

// Kind is the closed error-kind enum exposed through the public API
// (GetError), mirroring spec.md's error set.
type Kind uint8

const (
	KindNone Kind = iota
	KindInvalidContext
	KindInvalidArgument
	KindInvalidOperation
	KindInvalidMesh
	KindOutOfMemory
	KindFileError
	KindBadFormat
	KindCompressorError
	KindInternalError
	KindUnsupportedFormatVersion
	KindUnsupportedOperation
)

// String returns the short human-readable name of k, matching the constant
// names in spec.md's error set.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NONE"
	case KindInvalidContext:
		return "INVALID_CONTEXT"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindInvalidOperation:
		return "INVALID_OPERATION"
	case KindInvalidMesh:
		return "INVALID_MESH"
	case KindOutOfMemory:
		return "OUT_OF_MEMORY"
	case KindFileError:
		return "FILE_ERROR"
	case KindBadFormat:
		return "BAD_FORMAT"
	case KindCompressorError:
		return "COMPRESSOR_ERROR"
	case KindInternalError:
		return "INTERNAL_ERROR"
	case KindUnsupportedFormatVersion:
		return "UNSUPPORTED_FORMAT_VERSION"
	case KindUnsupportedOperation:
		return "UNSUPPORTED_OPERATION"
	default:
		return "UNKNOWN"
	}
}

// KindOf classifies err against the known sentinels, defaulting to
// KindInternalError for an unrecognized non-nil error so a bug in a leaf
// package never silently reports KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidContext):
		return KindInvalidContext
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrInvalidOperation):
		return KindInvalidOperation
	case errors.Is(err, ErrInvalidMesh):
		return KindInvalidMesh
	case errors.Is(err, ErrOutOfMemory):
		return KindOutOfMemory
	case errors.Is(err, ErrFile):
		return KindFileError
	case errors.Is(err, ErrBadFormat), errors.Is(err, ErrInvalidHeaderSize):
		return KindBadFormat
	case errors.Is(err, ErrCompressor):
		return KindCompressorError
	case errors.Is(err, ErrUnsupportedVer):
		return KindUnsupportedFormatVersion
	case errors.Is(err, ErrUnsupportedOp):
		return KindUnsupportedOperation
	default:
		return KindInternalError
	}
}
