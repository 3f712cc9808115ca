package render

import (
	"image/color"
	"testing"

	"acupoint-viewer/internal/mask"
	"acupoint-viewer/internal/picking"
	"acupoint-viewer/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDEncoding(t *testing.T) {
	for _, id := range []int32{scene.SentinelID, 0, 1, 254, 255, 256, 70000, 1<<24 - 2} {
		c := encodeID(id)
		assert.Equal(t, uint8(255), c[3])
		assert.Equal(t, id, decodeID(color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}), "id %d", id)
	}
	assert.Equal(t, scene.SentinelID, decodeID(color.RGBA{A: 255}), "cleared background")
}

func TestMatrixLayout(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	r := Matrix(m)
	assert.Equal(t, float32(1), r.M12)
	assert.Equal(t, float32(2), r.M13)
	assert.Equal(t, float32(3), r.M14)
	assert.Equal(t, float32(1), r.M0)
	assert.Equal(t, float32(1), r.M15)
}

func TestMeshCacheForgetDropsSubtree(t *testing.T) {
	c := NewMeshCache()
	var freed []*gpuMesh
	c.free = func(m *gpuMesh) { freed = append(freed, m) }

	old := scene.NewGroup("model")
	palm := scene.NewMesh("Palm", scene.Box(1, 1, 1), scene.Material{})
	point := scene.NewMesh("M_LI4", scene.Box(0.1, 0.1, 0.1), scene.Material{})
	old.Add(palm, point)
	kept := scene.NewMesh("Palm", scene.Box(1, 1, 1), scene.Material{})
	for _, n := range []*scene.Node{palm, point, kept} {
		c.meshes[n.Geometry] = &gpuMesh{}
	}

	c.Forget(old)
	assert.Len(t, freed, 2)
	assert.Equal(t, 1, c.Len())
	assert.Contains(t, c.meshes, kept.Geometry)

	c.Close()
	assert.Len(t, freed, 3)
	assert.Zero(t, c.Len())
}

func TestDecodeRowsFlipsToTopFirst(t *testing.T) {
	const w, h = 3, 2
	enc := func(id int32) color.RGBA {
		c := encodeID(id)
		return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
	}
	bg := color.RGBA{A: 255}
	// bottom-up: the first row read back is the bottom of the viewport
	cols := []color.RGBA{
		enc(4), bg, bg,
		bg, bg, enc(7),
	}
	dst := make([]int32, w*h*picking.Channels)
	require.NoError(t, decodeRows(cols, w, h, dst))

	at := func(x, y int) int32 { return dst[(y*w+x)*picking.Channels] }
	assert.Equal(t, int32(7), at(2, 0), "top-right")
	assert.Equal(t, int32(4), at(0, 1), "bottom-left")
	assert.Equal(t, scene.SentinelID, at(0, 0))
	assert.Equal(t, int32(1), dst[3], "alpha channel")

	assert.Error(t, decodeRows(cols[:5], w, h, dst))
}

func TestMaskUVMatchesCoverageRows(t *testing.T) {
	u, v := maskUV(maskCorners[0])
	assert.Equal(t, [2]float32{0, 0}, [2]float32{u, v}, "top-left corner samples texture row 0")
	u, v = maskUV(maskCorners[2])
	assert.Equal(t, [2]float32{1, 1}, [2]float32{u, v})

	// hole in the upper-left quadrant of the view
	const w, h = 40, 20
	shape := mask.NewBuilder(nil).Rebuild([]mgl32.Vec2{{-0.9, 0.1}, {-0.1, 0.1}, {-0.1, 0.9}, {-0.9, 0.9}})
	cov, err := shape.Coverage(w, h)
	require.NoError(t, err)
	texel := func(ndc mgl32.Vec2) uint8 {
		u, v := maskUV(ndc)
		return cov.At(int(u*w), int(v*h))
	}
	assert.Less(t, texel(mgl32.Vec2{-0.5, 0.5}), uint8(mask.CoveredThreshold))
	assert.GreaterOrEqual(t, texel(mgl32.Vec2{-0.5, -0.5}), uint8(mask.CoveredThreshold))
}
