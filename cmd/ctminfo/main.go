// Command ctminfo opens a container read-only and prints its header
// fields: mesh shape, compression method, frame count, and UV/attribute
// map names. It exercises OpenReadFile and the property getters as a real
// consumer of the public API, the scoped-down analogue of the original
// project's benchmarking tool (out of scope here per spec.md Non-goals).
package main

import (
	"fmt"
	"os"

	"github.com/openctm/ctm"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.ctm>\n", os.Args[0])
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "ctminfo:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	ctx := ctm.NewContext(ctm.ModeImport)
	defer ctx.Free()

	if err := ctx.OpenReadFile(path); err != nil {
		return err
	}

	vertexCount, _ := ctx.GetInteger(ctm.PropVertexCount)
	triangleCount, _ := ctx.GetInteger(ctm.PropTriangleCount)
	frameCount, _ := ctx.GetInteger(ctm.PropFrameCount)
	uvMapCount, _ := ctx.GetInteger(ctm.PropUVMapCount)
	attribMapCount, _ := ctx.GetInteger(ctm.PropAttribMapCount)
	method, _ := ctx.GetString(ctm.PropCompressionMethod)
	hasNormals, _ := ctx.GetBoolean(ctm.PropHasNormals)
	comment, _ := ctx.GetString(ctm.PropFileComment)

	fmt.Printf("method:       %s\n", method)
	fmt.Printf("vertices:     %d\n", vertexCount)
	fmt.Printf("triangles:    %d\n", triangleCount)
	fmt.Printf("frames:       %d\n", frameCount)
	fmt.Printf("has_normals:  %t\n", hasNormals)
	fmt.Printf("uv_maps:      %d\n", uvMapCount)

	for i := 1; i <= uvMapCount; i++ {
		name, _ := ctx.GetUVMapString(i, ctm.PropMapName)
		fmt.Printf("  [%d] %q\n", i, name)
	}

	fmt.Printf("attrib_maps:  %d\n", attribMapCount)
	for i := 1; i <= attribMapCount; i++ {
		name, _ := ctx.GetAttribMapString(i, ctm.PropMapName)
		fmt.Printf("  [%d] %q\n", i, name)
	}

	if comment != "" {
		fmt.Printf("comment:      %s\n", comment)
	}

	return nil
}
