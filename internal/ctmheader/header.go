// Package ctmheader implements the container's canonical v6 header layout
// (spec.md §4.G) and the UV/attribute map metadata blocks that follow it.
package ctmheader

import (
	"fmt"

	"github.com/openctm/ctm/errs"
	"github.com/openctm/ctm/internal/stream"
)

// Magic is the file's FourCC, written first and verified first on read.
const Magic = "OCTM"

// Version is the only format version this package writes, and the only one
// Read accepts. A version 5 stream is told apart with PeekVersion and
// rewritten by the internal/legacyv5 package, which parses its fields with
// ReadFields; ctmheader itself only parses the v6 layout.
const Version = 6

// Method FourCCs, one per compression profile.
const (
	MethodRAW = "RAW\x00"
	MethodMG1 = "MG1\x00"
	MethodMG2 = "MG2\x00"
)

// Flag bits packed into Header.Flags.
const (
	FlagHasNormals uint32 = 1 << 0
)

// MapInfo is the metadata recorded for one UV or attribute map: an
// optional name and (UV maps only) an optional reference file name.
type MapInfo struct {
	Name     string
	FileName string // UV maps only; always empty for attribute maps
}

// Header is the in-memory form of the v6 canonical header plus its
// trailing UINF/AINF metadata blocks.
type Header struct {
	Version       uint32
	Method        string // one of MethodRAW/MethodMG1/MethodMG2
	VertexCount   uint32
	TriangleCount uint32
	UVMapCount    uint32
	AttribMapCount uint32
	Flags         uint32
	FrameCount    uint32
	Comment       string
	UVMaps        []MapInfo
	AttribMaps    []MapInfo
}

// HasNormals reports whether bit0 of Flags is set.
func (h Header) HasNormals() bool { return h.Flags&FlagHasNormals != 0 }

// Write serializes h as the canonical v6 header followed by its UINF/AINF
// blocks, per spec.md §4.G.
func Write(w *stream.Writer, h Header) error {
	if err := w.FourCC(stream.Tag(Magic)); err != nil {
		return err
	}
	if err := w.Uint32(Version); err != nil {
		return err
	}
	if err := w.FourCC(stream.Tag(h.Method)); err != nil {
		return err
	}
	if err := w.Uint32(h.VertexCount); err != nil {
		return err
	}
	if err := w.Uint32(h.TriangleCount); err != nil {
		return err
	}
	if err := w.Uint32(uint32(len(h.UVMaps))); err != nil {
		return err
	}
	if err := w.Uint32(uint32(len(h.AttribMaps))); err != nil {
		return err
	}
	if err := w.Uint32(h.Flags); err != nil {
		return err
	}
	if err := w.Uint32(h.FrameCount); err != nil {
		return err
	}
	if err := w.String(h.Comment); err != nil {
		return err
	}

	if len(h.UVMaps) > 0 {
		if err := w.FourCC(stream.Tag("UINF")); err != nil {
			return err
		}
		for _, m := range h.UVMaps {
			if err := w.String(m.Name); err != nil {
				return err
			}
			if err := w.String(m.FileName); err != nil {
				return err
			}
		}
	}

	if len(h.AttribMaps) > 0 {
		if err := w.FourCC(stream.Tag("AINF")); err != nil {
			return err
		}
		for _, m := range h.AttribMaps {
			if err := w.String(m.Name); err != nil {
				return err
			}
		}
	}

	return nil
}

// Read parses a header from r, including its UV/attribute map metadata.
// The caller is responsible for dispatching version == 5 to
// internal/legacyv5 before reaching here; Read rejects any version other
// than 6 with errs.ErrUnsupportedVer, 5 included, since a v5 stream's
// remaining layout is handled by internal/legacyv5 rather than by Read.
func Read(r *stream.Reader) (Header, error) {
	version, err := PeekVersion(r)
	if err != nil {
		return Header{}, err
	}
	if version != Version {
		return Header{}, fmt.Errorf("%w: version %d", errs.ErrUnsupportedVer, version)
	}

	return ReadFields(r, version)
}

// ReadFields parses the header starting at the method tag, i.e. it assumes
// the caller already consumed the magic and version fields (typically via
// PeekVersion, used to decide whether to dispatch to internal/legacyv5
// first). version is recorded into the returned Header as-is.
func ReadFields(r *stream.Reader, version uint32) (Header, error) {
	method, err := r.FourCC()
	if err != nil {
		return Header{}, err
	}

	h := Header{Version: version, Method: method.String()}
	if h.Method != MethodRAW && h.Method != MethodMG1 && h.Method != MethodMG2 {
		return Header{}, fmt.Errorf("%w: unknown method tag %q", errs.ErrBadFormat, h.Method)
	}

	if h.VertexCount, err = r.Uint32(); err != nil {
		return Header{}, err
	}
	if h.TriangleCount, err = r.Uint32(); err != nil {
		return Header{}, err
	}
	if h.UVMapCount, err = r.Uint32(); err != nil {
		return Header{}, err
	}
	if h.AttribMapCount, err = r.Uint32(); err != nil {
		return Header{}, err
	}
	if h.Flags, err = r.Uint32(); err != nil {
		return Header{}, err
	}
	if h.FrameCount, err = r.Uint32(); err != nil {
		return Header{}, err
	}
	if h.Comment, err = r.String(); err != nil {
		return Header{}, err
	}

	if h.VertexCount == 0 || h.TriangleCount == 0 || h.FrameCount == 0 {
		return Header{}, fmt.Errorf("%w: vertex/triangle/frame count must be > 0", errs.ErrBadFormat)
	}

	if h.UVMapCount > 0 {
		if err := r.ExpectFourCC("UINF"); err != nil {
			return Header{}, err
		}
		h.UVMaps = make([]MapInfo, h.UVMapCount)
		for i := range h.UVMaps {
			if h.UVMaps[i].Name, err = r.String(); err != nil {
				return Header{}, err
			}
			if h.UVMaps[i].FileName, err = r.String(); err != nil {
				return Header{}, err
			}
		}
	}

	if h.AttribMapCount > 0 {
		if err := r.ExpectFourCC("AINF"); err != nil {
			return Header{}, err
		}
		h.AttribMaps = make([]MapInfo, h.AttribMapCount)
		for i := range h.AttribMaps {
			if h.AttribMaps[i].Name, err = r.String(); err != nil {
				return Header{}, err
			}
		}
	}

	return h, nil
}

// PeekVersion reads just the magic + version fields, for the container's
// dispatch between the v6 reader and the v5 compatibility shim. It does
// not consume any bytes beyond those two fields.
func PeekVersion(r *stream.Reader) (uint32, error) {
	if err := r.ExpectFourCC(Magic); err != nil {
		return 0, err
	}

	return r.Uint32()
}
