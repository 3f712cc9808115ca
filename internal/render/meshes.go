package render

import (
	"acupoint-viewer/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// gpuMesh is an uploaded triangle mesh. The slices back the pointers in mesh and must
// outlive it; they are detached before UnloadMesh so raylib frees only GPU-side state.
type gpuMesh struct {
	mesh      rl.Mesh
	positions []float32
	normals   []float32
	colors    []uint8
}

// MeshCache uploads scene geometry on first draw, keyed by geometry identity. Upload
// happens lazily so GPU resources are allocated after the window/OpenGL context exists.
type MeshCache struct {
	meshes map[*scene.Geometry]*gpuMesh
	free   func(*gpuMesh)
	lit    rl.Material
	id     rl.Material
	ready  bool
}

// NewMeshCache returns an empty cache. Materials are created on first use.
func NewMeshCache() *MeshCache {
	return &MeshCache{meshes: make(map[*scene.Geometry]*gpuMesh), free: unload}
}

func (c *MeshCache) ensureMaterials() {
	if c.ready {
		return
	}
	c.lit = rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(litVS, litFS); rl.IsShaderValid(shader) {
		c.lit.Shader = shader
	}
	c.id = rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(idVS, idFS); rl.IsShaderValid(shader) {
		c.id.Shader = shader
	}
	c.ready = true
}

// get returns the uploaded mesh for g, or nil for line or empty geometry.
func (c *MeshCache) get(g *scene.Geometry) *gpuMesh {
	if m, ok := c.meshes[g]; ok {
		return m
	}
	if g.Topology != scene.TopologyTriangles || len(g.Indices) < 3 {
		return nil
	}
	m := upload(g)
	c.meshes[g] = m
	return m
}

// upload expands indexed triangles into flat-shaded vertices. Geometry carrying IDs also
// gets per-vertex colours holding the encoded ID.
func upload(g *scene.Geometry) *gpuMesh {
	tris := len(g.Indices) / 3
	m := &gpuMesh{
		positions: make([]float32, 0, tris*9),
		normals:   make([]float32, 0, tris*9),
	}
	withIDs := len(g.IDs) == len(g.Positions)
	if withIDs {
		m.colors = make([]uint8, 0, tris*12)
	}
	g.Triangles(func(a, b, cc uint32) {
		pa, pb, pc := g.Positions[a], g.Positions[b], g.Positions[cc]
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		if n.Len() > 0 {
			n = n.Normalize()
		}
		for _, v := range [3]uint32{a, b, cc} {
			p := g.Positions[v]
			m.positions = append(m.positions, p[0], p[1], p[2])
			m.normals = append(m.normals, n[0], n[1], n[2])
			if withIDs {
				col := encodeID(g.IDs[v])
				m.colors = append(m.colors, col[:]...)
			}
		}
	})
	m.mesh.TriangleCount = int32(tris)
	m.mesh.VertexCount = int32(tris * 3)
	m.mesh.Vertices = &m.positions[0]
	m.mesh.Normals = &m.normals[0]
	if withIDs {
		m.mesh.Colors = &m.colors[0]
	}
	rl.UploadMesh(&m.mesh, false)
	return m
}

func unload(m *gpuMesh) {
	m.mesh.Vertices = nil
	m.mesh.Normals = nil
	m.mesh.Colors = nil
	rl.UnloadMesh(&m.mesh)
}

// Forget unloads the meshes uploaded for geometry under root. Call it when a subtree
// leaves the scene for good.
func (c *MeshCache) Forget(root *scene.Node) {
	scene.Walk(root, scene.MeshFunc(func(n *scene.Node) {
		if m, ok := c.meshes[n.Geometry]; ok {
			c.free(m)
			delete(c.meshes, n.Geometry)
		}
	}))
}

// Len returns the number of uploaded meshes.
func (c *MeshCache) Len() int { return len(c.meshes) }

// Close unloads all meshes.
func (c *MeshCache) Close() {
	for g, m := range c.meshes {
		c.free(m)
		delete(c.meshes, g)
	}
}

// drawLit draws a mesh node with the lit material tinted by its colour.
func (c *MeshCache) drawLit(n *scene.Node, l lighting) {
	m := c.get(n.Geometry)
	if m == nil {
		return
	}
	c.ensureMaterials()
	if albedo := c.lit.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = Color(n.Material.Color)
	}
	l.apply(c.lit.Shader)
	rl.DrawMesh(m.mesh, c.lit, Matrix(n.WorldMatrix()))
}

// drawID draws a mirror node writing only its encoded vertex IDs.
func (c *MeshCache) drawID(n *scene.Node) {
	m := c.get(n.Geometry)
	if m == nil {
		return
	}
	c.ensureMaterials()
	rl.DrawMesh(m.mesh, c.id, Matrix(n.WorldMatrix()))
}

// drawLines draws line-list geometry in world space.
func drawLines(n *scene.Node) {
	g := n.Geometry
	if g == nil || g.Topology != scene.TopologyLines {
		return
	}
	world := n.WorldMatrix()
	col := Color(n.Material.Color)
	for i := 0; i+1 < len(g.Indices); i += 2 {
		a := mgl32.TransformCoordinate(g.Positions[g.Indices[i]], world)
		b := mgl32.TransformCoordinate(g.Positions[g.Indices[i+1]], world)
		rl.DrawLine3D(Vector3(a), Vector3(b), col)
	}
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  if (!gl_FrontFacing) N = -N;
  float NdotL = max(dot(N, normalize(lightDir)), 0.0);
  vec3 diffuse = colDiffuse.rgb * NdotL * lightColor * lightIntensity;
  finalColor = vec4(ambient.rgb * colDiffuse.rgb + diffuse, colDiffuse.a);
}
`
	// idVS/idFS pass the encoded vertex ID through untouched.
	idVS = `#version 330
in vec3 vertexPosition;
in vec4 vertexColor;
uniform mat4 mvp;
flat out vec4 fragColor;
void main() {
  fragColor = vertexColor;
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	idFS = `#version 330
flat in vec4 fragColor;
out vec4 finalColor;
void main() {
  finalColor = fragColor;
}
`
)

// lighting is the ambient plus directional light of the visible scene.
type lighting struct {
	dir       [3]float32
	ambient   [4]float32
	color     [3]float32
	intensity float32
}

var defaultLighting = lighting{
	dir:       [3]float32{0.5, 1, 0.8},
	ambient:   [4]float32{0.45, 0.45, 0.45, 1},
	color:     [3]float32{1, 1, 1},
	intensity: 0.8,
}

// apply sets the light uniforms on shader (cgo-safe: local arrays).
func (l lighting) apply(shader rl.Shader) {
	if !rl.IsShaderValid(shader) {
		return
	}
	dir, amb, col := l.dir, l.ambient, l.color
	if loc := rl.GetShaderLocation(shader, "lightDir"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, dir[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "ambient"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, amb[:], rl.ShaderUniformVec4, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightColor"); loc >= 0 {
		rl.SetShaderValueV(shader, loc, col[:], rl.ShaderUniformVec3, 1)
	}
	if loc := rl.GetShaderLocation(shader, "lightIntensity"); loc >= 0 {
		rl.SetShaderValue(shader, loc, []float32{l.intensity}, rl.ShaderUniformFloat)
	}
}
