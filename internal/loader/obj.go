package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"acupoint-viewer/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/udhos/gwob"
)

// ErrNoModel is returned when a model source holds no drawable geometry.
var ErrNoModel = errors.New("loader: no geometry in model")

// objMesh collects the triangles of one named group, remapping parser vertex indices to local ones.
type objMesh struct {
	name  string
	local map[int]uint32
	geom  *scene.Geometry
}

func newObjMesh(name string) *objMesh {
	return &objMesh{name: name, local: make(map[int]uint32), geom: &scene.Geometry{}}
}

func (m *objMesh) index(o *gwob.Obj, global int) uint32 {
	if i, ok := m.local[global]; ok {
		return i
	}
	i := uint32(len(m.geom.Positions))
	x, y, z := o.VertexCoordinates(global)
	m.geom.Positions = append(m.geom.Positions, mgl32.Vec3{x, y, z})
	m.local[global] = i
	return i
}

// parseWarnings gathers the parser's non-fatal messages. Vertex and face errors shift or
// truncate the index stream, so they fail the decode; unknown statements are only logged.
type parseWarnings struct {
	err error
}

func (w *parseWarnings) log(msg string) {
	msg = strings.TrimSpace(msg)
	broken := (strings.HasPrefix(msg, "readLines:") || strings.HasPrefix(msg, "scanLines:")) &&
		!strings.Contains(msg, "unexpected")
	if broken && w.err == nil {
		w.err = fmt.Errorf("loader: %s", msg)
		return
	}
	slog.Debug("obj parser", "msg", msg)
}

// Decode parses a Wavefront OBJ stream into a group with one mesh node per `o` or `g`
// statement, in file order. Triangles and quads are accepted; normals, texture coordinates
// and materials are ignored. Faces before the first statement go to a mesh named "default".
func Decode(r io.Reader) (*scene.Node, error) {
	var warn parseWarnings
	o, err := gwob.NewObjFromReader("model", r, &gwob.ObjParserOptions{
		Logger:        warn.log,
		IgnoreNormals: true,
	})
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if warn.err != nil {
		return nil, warn.err
	}

	var (
		meshes []*objMesh
		cur    *objMesh
	)
	for _, g := range o.Groups {
		if g.IndexCount <= 0 {
			continue
		}
		name := g.Name
		if name == "" {
			name = "default"
		}
		// a material or smoothing change splits a group without renaming it
		if cur == nil || cur.name != name {
			cur = newObjMesh(name)
			meshes = append(meshes, cur)
		}
		for _, global := range o.Indices[g.IndexBegin : g.IndexBegin+g.IndexCount] {
			cur.geom.Indices = append(cur.geom.Indices, cur.index(o, global))
		}
	}

	root := scene.NewGroup("model")
	for _, m := range meshes {
		if len(m.geom.Indices) < 3 {
			continue
		}
		m.geom.Indices = m.geom.Indices[:len(m.geom.Indices)/3*3]
		root.Add(scene.NewMesh(m.name, m.geom, scene.Material{Kind: scene.MaterialLit, Color: modelColor}))
	}
	if !root.HasChildren() {
		return nil, ErrNoModel
	}
	return root, nil
}
