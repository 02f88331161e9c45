package grid

import "sort"

// Traversal is the deterministic BFS-over-edge-adjacent-triangles order
// used to visit a mesh's triangles and vertices for predictive coding.
//
// VertexOrder[i] is the original vertex index placed at permuted position
// i; TriOrder[i] is the original triangle index placed at permuted
// position i (its three vertex indices rewritten through VertexOrder's
// inverse by the caller). Both are total permutations: every vertex and
// triangle appears exactly once, even if the mesh's triangle-adjacency
// graph is disconnected or some vertices are not referenced by any
// triangle.
type Traversal struct {
	VertexOrder []int32
	TriOrder    []int32
}

// Triangle is the minimal view Traverse needs of one triangle: its three
// original vertex indices.
type Triangle struct{ A, B, C int32 }

func (t Triangle) at(i int) int32 {
	switch i {
	case 0:
		return t.A
	case 1:
		return t.B
	default:
		return t.C
	}
}

type edgeKey struct{ lo, hi int32 }

func edgesOf(t Triangle) [3]edgeKey {
	mk := func(a, b int32) edgeKey {
		if a > b {
			a, b = b, a
		}
		return edgeKey{a, b}
	}

	return [3]edgeKey{mk(t.A, t.B), mk(t.B, t.C), mk(t.C, t.A)}
}

// Traverse computes the deterministic traversal of tris over vertexCount
// vertices. Ties are broken by smallest triangle index, then (within a
// triangle) smallest vertex index, so two independent implementations given
// the same index buffer agree byte-for-byte, per spec.md §4.F Determinism.
func Traverse(tris []Triangle, vertexCount int) Traversal {
	adjacency := buildAdjacency(tris)

	visitedTri := make([]bool, len(tris))
	seenVertex := make([]bool, vertexCount)

	var vertexOrder []int32
	triOrder := make([]int32, 0, len(tris))

	var queue []int32
	for start := 0; start < len(tris); start++ {
		if visitedTri[start] {
			continue
		}

		queue = append(queue[:0], int32(start))
		visitedTri[start] = true

		for len(queue) > 0 {
			ti := queue[0]
			queue = queue[1:]
			emitIfFirst(&visitedTri, ti, &triOrder, tris, &seenVertex, &vertexOrder)

			neighbors := neighborsOf(tris[ti], adjacency, ti)
			sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
			for _, n := range neighbors {
				if !visitedTri[n] {
					visitedTri[n] = true
					queue = append(queue, n)
				}
			}
		}
	}

	// Append any vertex never referenced by a triangle, in ascending
	// original order, so VertexOrder remains a total permutation.
	for v := 0; v < vertexCount; v++ {
		if !seenVertex[v] {
			seenVertex[v] = true
			vertexOrder = append(vertexOrder, int32(v))
		}
	}

	return Traversal{VertexOrder: vertexOrder, TriOrder: triOrder}
}

func emitIfFirst(visited *[]bool, ti int32, triOrder *[]int32, tris []Triangle, seenVertex *[]bool, vertexOrder *[]int32) {
	*triOrder = append(*triOrder, ti)

	// A triangle's not-yet-seen vertices are emitted smallest index first.
	t := tris[ti]
	vs := [3]int32{t.A, t.B, t.C}
	sort.Slice(vs[:], func(i, j int) bool { return vs[i] < vs[j] })
	for _, v := range vs {
		if !(*seenVertex)[v] {
			(*seenVertex)[v] = true
			*vertexOrder = append(*vertexOrder, v)
		}
	}
}

func buildAdjacency(tris []Triangle) map[edgeKey][]int32 {
	adjacency := make(map[edgeKey][]int32, len(tris)*3)
	for i, t := range tris {
		for _, e := range edgesOf(t) {
			adjacency[e] = append(adjacency[e], int32(i))
		}
	}

	return adjacency
}

func neighborsOf(t Triangle, adjacency map[edgeKey][]int32, self int32) []int32 {
	seen := map[int32]bool{self: true}
	var out []int32
	for _, e := range edgesOf(t) {
		for _, n := range adjacency[e] {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}

	return out
}

// InvertPermutation returns inv such that inv[order[i]] == i, i.e. the
// new (permuted) position of each original index.
func InvertPermutation(order []int32) []int32 {
	inv := make([]int32, len(order))
	for newPos, old := range order {
		inv[old] = int32(newPos)
	}

	return inv
}
