package picking

import (
	"errors"
	"testing"

	"acupoint-viewer/internal/mask"
	"acupoint-viewer/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meshes(root *scene.Node) []*scene.Node {
	var out []*scene.Node
	scene.Walk(root, scene.MeshFunc(func(n *scene.Node) { out = append(out, n) }))
	return out
}

func model() *scene.Node {
	root := scene.NewGroup("hand")
	palm := scene.NewGroup("Palm")
	palm.Add(
		scene.NewMesh("Skin", scene.Box(1, 1, 1), scene.Material{}),
		scene.NewMesh("M_PC_8", scene.Box(0.1, 0.1, 0.1), scene.Material{}),
	)
	root.Add(
		scene.NewMesh("M_LU_11", scene.Box(0.1, 0.1, 0.1), scene.Material{}),
		palm,
		scene.NewMesh("Nail", scene.Box(0.1, 0.1, 0.1), scene.Material{}),
		scene.NewMesh("M_SJ_3", scene.Box(0.1, 0.1, 0.1), scene.Material{}),
	)
	return root
}

func TestMirrorCarriesLandmarkIDs(t *testing.T) {
	root := model()
	lm := scene.AssignLandmarks(root, scene.DefaultMatcher())
	require.Equal(t, 3, lm.Len())

	mirror := Mirror(root, lm)
	src, dst := meshes(root), meshes(mirror)
	require.Len(t, dst, len(src))

	for i := range src {
		assert.Equal(t, src[i].Name, dst[i].Name)
		assert.Equal(t, scene.MaterialID, dst[i].Material.Kind)
		require.Len(t, dst[i].Geometry.IDs, dst[i].Geometry.VertexCount())
		for _, v := range dst[i].Geometry.IDs {
			assert.Equal(t, dst[i].Geometry.ID(), v, "uniform ID per sub-mesh")
		}
		if id, ok := lm.IDOf(src[i]); ok {
			assert.Equal(t, id, dst[i].Geometry.ID(), src[i].Name)
			assert.GreaterOrEqual(t, id, int32(0))
		} else {
			assert.Equal(t, scene.SentinelID, dst[i].Geometry.ID(), src[i].Name)
		}
		assert.Empty(t, src[i].Geometry.IDs, "visual geometry is untouched")
		assert.NotEqual(t, scene.MaterialID, src[i].Material.Kind)
	}
}

func newTestScene(w, h int) *Scene {
	cam := scene.NewPerspective(60, float32(w)/float32(h), 0.1, 100)
	cam.Position = mgl32.Vec3{0, 0, 5}
	return NewScene(cam, mask.Anchor{Depth: mask.DefaultDepth})
}

func landmarkAt(name string, pos mgl32.Vec3, size float32) *scene.Node {
	n := scene.NewMesh(name, scene.Box(size, size, size), scene.Material{})
	n.Transform.Position = pos
	return n
}

func idsIn(pixels []int32) map[int32]int {
	out := map[int32]int{}
	for i := 0; i < len(pixels); i += Channels {
		out[pixels[i]]++
	}
	return out
}

func TestSoftTargetDepthTest(t *testing.T) {
	const w, h = 64, 64
	root := scene.NewGroup("root")
	target := landmarkAt("M_HT_1", mgl32.Vec3{}, 1)
	occluder := landmarkAt("Skin", mgl32.Vec3{0, 0, 2}, 2)
	root.Add(target, occluder)

	s := newTestScene(w, h)
	s.SetModel(root, scene.AssignLandmarks(root, scene.DefaultMatcher()))

	pass := NewPass(SoftAllocator, nil)
	px, err := pass.Run(s, w, h)
	require.NoError(t, err)
	got := idsIn(px)
	assert.NotContains(t, got, int32(0), "occluded landmark must not be visible")
	assert.Positive(t, got[scene.SentinelID])

	occluder.Visible = false
	s.SetModel(root, scene.AssignLandmarks(root, scene.DefaultMatcher()))
	px, err = pass.Run(s, w, h)
	require.NoError(t, err)
	assert.Positive(t, idsIn(px)[0])
}

func TestSoftTargetClipsOccluderCrossingCamera(t *testing.T) {
	const w, h = 64, 64
	root := scene.NewGroup("root")
	// tilted sheet through z = 4 - y: in front of the camera at the centre, behind it at the bottom
	sheet := scene.NewMesh("Skin", &scene.Geometry{
		Topology:  scene.TopologyTriangles,
		Positions: []mgl32.Vec3{{-3, -3, 7}, {3, -3, 7}, {3, 3, 1}, {-3, 3, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}, scene.Material{})
	root.Add(landmarkAt("M_HT_1", mgl32.Vec3{}, 1), sheet)

	s := newTestScene(w, h)
	s.SetModel(root, scene.AssignLandmarks(root, scene.DefaultMatcher()))
	px, err := NewPass(SoftAllocator, nil).Run(s, w, h)
	require.NoError(t, err)
	assert.NotContains(t, idsIn(px), int32(0), "landmark behind the sheet must stay hidden")
}

func TestClipNear(t *testing.T) {
	var out [4]mgl32.Vec4
	front := mgl32.Vec4{0, 0, 0, 1}
	behind := mgl32.Vec4{0, 0, -3, 1}

	assert.Equal(t, 3, clipNear(front, front, front, &out))
	assert.Equal(t, 0, clipNear(behind, behind, behind, &out))

	n := clipNear(front, front, behind, &out)
	require.Equal(t, 4, n)
	for _, v := range out[:n] {
		assert.GreaterOrEqual(t, v.Z()+v.W(), float32(-1e-6))
	}
	assert.Equal(t, 3, clipNear(front, behind, behind, &out))
}

func TestMaskLimitsVisibleIDs(t *testing.T) {
	const w, h = 64, 64
	root := scene.NewGroup("root")
	root.Add(landmarkAt("M_HT_1", mgl32.Vec3{}, 1))
	s := newTestScene(w, h)
	s.SetModel(root, scene.AssignLandmarks(root, scene.DefaultMatcher()))
	b := mask.NewBuilder(nil)
	pass := NewPass(SoftAllocator, nil)

	s.Mask = b.Rebuild([]mgl32.Vec2{{-0.2, -0.2}, {0.2, -0.2}, {0.2, 0.2}, {-0.2, 0.2}})
	px, err := pass.Run(s, w, h)
	require.NoError(t, err)
	assert.Positive(t, idsIn(px)[0])

	s.Mask = b.Rebuild([]mgl32.Vec2{{0.6, 0.6}, {0.9, 0.6}, {0.9, 0.9}, {0.6, 0.9}})
	px, err = pass.Run(s, w, h)
	require.NoError(t, err)
	assert.Equal(t, map[int32]int{scene.SentinelID: w * h}, idsIn(px))
}

func TestReleasedMaskFailsRender(t *testing.T) {
	s := newTestScene(8, 8)
	b := mask.NewBuilder(nil)
	s.Mask = b.Rebuild([]mgl32.Vec2{{0, 0}, {0.5, 0}, {0.5, 0.5}})
	b.Release()
	_, err := NewPass(SoftAllocator, nil).Run(s, 8, 8)
	assert.ErrorIs(t, err, mask.ErrReleased)
}

type countingTarget struct {
	*SoftTarget
	released *int
	readErr  error
}

func (c countingTarget) Release() {
	*c.released++
	c.SoftTarget.Release()
}

func (c countingTarget) ReadPixels(dst []int32) error {
	if c.readErr != nil {
		return c.readErr
	}
	return c.SoftTarget.ReadPixels(dst)
}

func TestPassReusesTargetUntilResize(t *testing.T) {
	allocs, released := 0, 0
	alloc := func(w, h int) (Target, error) {
		allocs++
		st, err := NewSoftTarget(w, h)
		if err != nil {
			return nil, err
		}
		return countingTarget{SoftTarget: st, released: &released}, nil
	}
	pass := NewPass(alloc, nil)
	s := newTestScene(16, 8)

	for i := 0; i < 3; i++ {
		px, err := pass.Run(s, 16, 8)
		require.NoError(t, err)
		assert.Len(t, px, 16*8*Channels)
	}
	assert.Equal(t, 1, allocs)

	_, err := pass.Run(s, 32, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, allocs)
	assert.Equal(t, 1, released)

	pass.Release()
	assert.Equal(t, 2, released)
	assert.Nil(t, pass.Target())
}

func TestPassPropagatesFailures(t *testing.T) {
	boom := errors.New("device lost")
	s := newTestScene(4, 4)

	_, err := NewPass(func(int, int) (Target, error) { return nil, boom }, nil).Run(s, 4, 4)
	assert.ErrorIs(t, err, boom)

	_, err = NewPass(SoftAllocator, nil).Run(s, 0, 4)
	assert.ErrorIs(t, err, ErrTargetSize)

	released := 0
	failing := func(w, h int) (Target, error) {
		st, _ := NewSoftTarget(w, h)
		return countingTarget{SoftTarget: st, released: &released, readErr: boom}, nil
	}
	_, err = NewPass(failing, nil).Run(s, 4, 4)
	assert.ErrorIs(t, err, boom)
}

func TestReadPixelsChecksLength(t *testing.T) {
	st, err := NewSoftTarget(2, 2)
	require.NoError(t, err)
	assert.Error(t, st.ReadPixels(make([]int32, 3)))
	st.Release()
	assert.Error(t, st.ReadPixels(make([]int32, 16)))
}
