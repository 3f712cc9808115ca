package scene

import "github.com/go-gl/mathgl/mgl32"

// Topology is how Indices (or consecutive vertices when Indices is empty) form primitives.
type Topology uint8

const (
	TopologyTriangles Topology = iota
	TopologyLines
)

// Geometry is vertex data for one sub-mesh plus its per-vertex ID attribute.
// Every vertex of a sub-mesh carries the same ID.
type Geometry struct {
	Topology  Topology
	Positions []mgl32.Vec3
	Indices   []uint32
	IDs       []int32
}

// VertexCount returns the number of positions.
func (g *Geometry) VertexCount() int { return len(g.Positions) }

// SetID fills the ID attribute with id, one entry per vertex.
func (g *Geometry) SetID(id int32) {
	if cap(g.IDs) < len(g.Positions) {
		g.IDs = make([]int32, len(g.Positions))
	}
	g.IDs = g.IDs[:len(g.Positions)]
	for i := range g.IDs {
		g.IDs[i] = id
	}
}

// ID returns the sub-mesh ID, or SentinelID when no ID attribute is set.
func (g *Geometry) ID() int32 {
	if len(g.IDs) == 0 {
		return SentinelID
	}
	return g.IDs[0]
}

// Triangles calls fn with the vertex indices of each triangle. Line geometry yields nothing.
func (g *Geometry) Triangles(fn func(a, b, c uint32)) {
	if g.Topology != TopologyTriangles {
		return
	}
	if len(g.Indices) == 0 {
		for i := 0; i+2 < len(g.Positions); i += 3 {
			fn(uint32(i), uint32(i+1), uint32(i+2))
		}
		return
	}
	for i := 0; i+2 < len(g.Indices); i += 3 {
		fn(g.Indices[i], g.Indices[i+1], g.Indices[i+2])
	}
}

// Bounds returns the local-space bounding box of the positions.
func (g *Geometry) Bounds() Box3 {
	b := EmptyBox()
	for _, p := range g.Positions {
		b = b.Expand(p)
	}
	return b
}

// Clone returns a copy sharing Positions and Indices with g. The ID attribute is copied,
// so SetID on the clone never touches g.
func (g *Geometry) Clone() *Geometry {
	c := &Geometry{Topology: g.Topology, Positions: g.Positions, Indices: g.Indices}
	if len(g.IDs) > 0 {
		c.IDs = append([]int32(nil), g.IDs...)
	}
	return c
}

// Box returns an axis-aligned cuboid of the given size centred on the origin.
func Box(sx, sy, sz float32) *Geometry {
	hx, hy, hz := sx/2, sy/2, sz/2
	pos := []mgl32.Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	idx := []uint32{
		4, 5, 6, 4, 6, 7, // +z
		1, 0, 3, 1, 3, 2, // -z
		5, 1, 2, 5, 2, 6, // +x
		0, 4, 7, 0, 7, 3, // -x
		7, 6, 2, 7, 2, 3, // +y
		0, 1, 5, 0, 5, 4, // -y
	}
	return &Geometry{Topology: TopologyTriangles, Positions: pos, Indices: idx}
}

// boxEdges indexes the 12 edges of the corners returned by Box3.Corners.
var boxEdges = []uint32{
	0, 1, 1, 3, 3, 2, 2, 0,
	4, 5, 5, 7, 7, 6, 6, 4,
	0, 4, 1, 5, 2, 6, 3, 7,
}

// BoxOutline returns line geometry tracing the twelve edges of b.
func BoxOutline(b Box3) *Geometry {
	c := b.Corners()
	return &Geometry{
		Topology:  TopologyLines,
		Positions: c[:],
		Indices:   append([]uint32(nil), boxEdges...),
	}
}
