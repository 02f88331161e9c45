package ctm

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/openctm/ctm/compress"
	"github.com/openctm/ctm/errs"
	"github.com/openctm/ctm/internal/ctmheader"
	"github.com/openctm/ctm/internal/options"
	"github.com/openctm/ctm/internal/pipeline"
	"github.com/openctm/ctm/internal/stream"
	"github.com/openctm/ctm/internal/typedarray"
)

// Default precisions and compression settings, per spec.md §4.G "new(mode)".
const (
	defaultMethod          = ctmheader.MethodMG1
	defaultLevel           = 1
	defaultVertexPrecision = 1.0 / 1024.0 // 2^-10
	defaultNormalPrecision = 1.0 / 256.0  // 2^-8
	defaultUVPrecision     = 1.0 / 4096.0 // 2^-12
	defaultAttribPrecision = 1.0 / 256.0  // 2^-8
)

// mapBinding is one UV or attribute map record: an optional name and
// (UV maps only) reference file name, its own quantization precision, and
// the bound typed-array view. Ordered; exposed by 1-based ordinal.
type mapBinding struct {
	name      string
	fileName  string // UV maps only
	precision float64
	view      typedarray.View
}

// Context is a single import or export session over a container, per
// spec.md §3. It is not safe for concurrent use; see package doc.
type Context struct {
	mode  Mode
	stage stage

	logger *slog.Logger
	codec  compress.Codec

	// Mesh shape and compression configuration.
	method        string
	level         int
	vertexCount   int
	triangleCount int
	hasNormals    bool
	frameCount    int
	comment       string

	vertexPrecision float64
	normalPrecision float64

	// Current frame bookkeeping: frameIndex mirrors the external
	// current-frame-index bucket (0 before read_mesh/save, 1..N after).
	frameIndex    int
	lastFrameTime float64

	indices  typedarray.View
	vertices typedarray.View
	normals  typedarray.View

	uvMaps     []mapBinding
	attribMaps []mapBinding

	pipe pipeline.Pipeline

	sread     *stream.Reader
	swrite    *stream.Writer
	ownedFile *os.File

	lastErr error
}

// Option configures a Context constructed by NewContext.
type Option = options.Option[*Context]

// WithLogger injects a structured logger for the container lifecycle
// (open, header parse, per-frame encode/decode, close). The default is a
// discarding logger, matching the teacher's opt-in logging convention.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithCodec overrides the default Zstd compression backend driving the
// packed int/float coder. The container's compression profile (RAW/MG1/
// MG2) is independent of which Codec is injected here.
func WithCodec(codec compress.Codec) Option {
	return options.NoError(func(c *Context) {
		if codec != nil {
			c.codec = codec
		}
	})
}

// NewContext allocates a Context in the given mode with spec.md §4.G's
// default configuration (MG1, level 1, p_v=2^-10, p_n=2^-8, default UV/
// attribute precisions), applying opts in order.
func NewContext(mode Mode, opts ...Option) *Context {
	c := &Context{
		mode:            mode,
		stage:           stageFresh,
		logger:          slog.New(slog.DiscardHandler),
		codec:           compress.NewZstdCompressor(),
		method:          defaultMethod,
		level:           defaultLevel,
		frameCount:      1,
		vertexPrecision: defaultVertexPrecision,
		normalPrecision: defaultNormalPrecision,
	}

	// Applying options never fails today (both WithLogger and WithCodec
	// are NoError), but options.Apply's signature allows future options
	// that validate; propagate via lastErr rather than panicking.
	if err := options.Apply(c, opts...); err != nil {
		c.lastErr = err
	}

	c.logger.Debug("ctm: context created", "mode", mode)

	return c
}

// LastError returns and clears the single-slot last error, per spec.md §7.
func (c *Context) LastError() error {
	if c == nil {
		return errs.ErrInvalidContext
	}

	err := c.lastErr
	c.lastErr = nil

	return err
}

// GetError implements spec.md §6's get_error(h): it returns the Kind of the
// single-slot last error, then clears it, the same way LastError clears the
// underlying error. Use error_string (errs.Kind.String) to render the
// result, matching spec.md's error_string(e) operation.
func (c *Context) GetError() errs.Kind {
	return errs.KindOf(c.LastError())
}

func (c *Context) fail(err error) error {
	c.lastErr = err
	return err
}

// Close flushes/closes any owned file, clears the I/O callback pointers,
// and moves the context to CLOSED. It does not release the context
// itself (see Free) and is idempotent: calling it again is a no-op.
func (c *Context) Close() error {
	if c == nil {
		return errs.ErrInvalidContext
	}
	if c.stage == stageClosed {
		return nil
	}

	var err error
	if c.swrite != nil {
		c.swrite.Close()
	}
	if c.ownedFile != nil {
		err = c.ownedFile.Close()
		c.ownedFile = nil
	}

	c.sread = nil
	c.swrite = nil
	c.stage = stageClosed

	c.logger.Debug("ctm: context closed")

	if err != nil {
		return c.fail(fmt.Errorf("%w: %w", errs.ErrFile, err))
	}

	return nil
}

// Free closes c (if not already closed) and releases its owned memory
// (map names, bound-view references). A Context must not be used again
// after Free.
func (c *Context) Free() {
	if c == nil {
		return
	}

	_ = c.Close()

	c.uvMaps = nil
	c.attribMaps = nil
	c.indices = typedarray.Absent
	c.vertices = typedarray.Absent
	c.normals = typedarray.Absent
	c.pipe = nil
}
