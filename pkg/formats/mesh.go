package formats

import (
	"github.com/Faultbox/objconv/pkg/math"
)

// Face is a triangle given as three 1-based vertex indices. Indices are
// stored as read; they are never checked against the vertex count.
type Face [3]int32

// Mesh is the record model exchanged between a reader and a writer.
// Every slice keeps file appearance order.
type Mesh struct {
	Comments []string    // Comment text after '#', kept verbatim as raw bytes
	Vertices []math.Vec3 // Vertex positions
	Faces    []Face      // Triangle faces
	Normals  []math.Vec3 // Vertex normals (VariantNormals only)
}

// IsEmpty returns true if the mesh holds no records at all.
func (m *Mesh) IsEmpty() bool {
	return len(m.Comments) == 0 && len(m.Vertices) == 0 &&
		len(m.Faces) == 0 && len(m.Normals) == 0
}

// Bounds returns the axis-aligned bounding box of all vertices.
// ok is false when the mesh has no vertices.
func (m *Mesh) Bounds() (lo, hi math.Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return math.Vec3{}, math.Vec3{}, false
	}

	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi, true
}

// Centroid returns the mean of all vertex positions.
// ok is false when the mesh has no vertices.
func (m *Mesh) Centroid() (c math.Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return math.Vec3{}, false
	}

	for _, v := range m.Vertices {
		c = c.Add(v)
	}
	return c.Scale(1 / float32(len(m.Vertices))), true
}

// vertex resolves a 1-based face index. OBJ negative indices count back
// from the end of the vertex list.
func (m *Mesh) vertex(index int32) (math.Vec3, bool) {
	i := int(index)
	switch {
	case i > 0:
		i--
	case i < 0:
		i += len(m.Vertices)
	default:
		return math.Vec3{}, false
	}
	if i < 0 || i >= len(m.Vertices) {
		return math.Vec3{}, false
	}
	return m.Vertices[i], true
}

// SurfaceArea returns the total area of all faces. Faces referencing
// vertices that do not exist are skipped.
func (m *Mesh) SurfaceArea() float64 {
	var total float64
	for _, f := range m.Faces {
		a, okA := m.vertex(f[0])
		b, okB := m.vertex(f[1])
		c, okC := m.vertex(f[2])
		if !okA || !okB || !okC {
			continue
		}
		total += float64(b.Sub(a).Cross(c.Sub(a)).Length()) / 2
	}
	return total
}

// InvalidFaces returns the number of faces with at least one index that
// does not resolve to a vertex.
func (m *Mesh) InvalidFaces() int {
	count := 0
	for _, f := range m.Faces {
		for _, idx := range f {
			if _, ok := m.vertex(idx); !ok {
				count++
				break
			}
		}
	}
	return count
}
