package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMG1_DeltaRoundTrip(t *testing.T) {
	tris := []tri3{{0, 1, 2}, {0, 1, 3}, {1, 2, 5}, {5, 6, 7}}
	original := append([]tri3(nil), tris...)

	deltaEncode(tris)
	deltaDecode(tris)

	require.Equal(t, original, tris)
}

func TestMG1_Canonicalize(t *testing.T) {
	require.Equal(t, tri3{1, 2, 3}, canonicalize(tri3{1, 2, 3}))
	require.Equal(t, tri3{1, 3, 2}, canonicalize(tri3{2, 1, 3}))
	require.Equal(t, tri3{1, 2, 3}, canonicalize(tri3{3, 1, 2}))
}
