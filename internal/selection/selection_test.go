package selection

import (
	"testing"

	"acupoint-viewer/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pixels(ids ...int32) []int32 {
	out := make([]int32, 0, len(ids)*4)
	for _, id := range ids {
		out = append(out, id, 7, 7, 1)
	}
	return out
}

func TestCollectIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []int32
		want []int32
	}{
		{"empty", nil, []int32{}},
		{"sentinel only", pixels(-1, -1, -1), []int32{}},
		{"dedup and sort", pixels(3, -1, 0, 3, 2, 0), []int32{0, 2, 3}},
		{"other channels ignored", []int32{-1, 5, 5, 5, 4, -1, -1, -1}, []int32{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollectIDs(tt.in))
		})
	}
}

func landmarks(t *testing.T) *scene.Landmarks {
	root := scene.NewGroup("hand")
	for i, name := range []string{"M_HT_1", "M_LI_2", "M_SI_3"} {
		n := scene.NewMesh(name, scene.Box(1, 1, 1), scene.Material{})
		n.Transform.Position = mgl32.Vec3{float32(i) * 3, 0, 0}
		root.Add(n)
	}
	lm := scene.AssignLandmarks(root, scene.DefaultMatcher())
	require.Equal(t, 3, lm.Len())
	return lm
}

func TestResolveIgnoresMisses(t *testing.T) {
	lm := landmarks(t)
	got := Resolve([]int32{2, 17, 0}, lm)
	require.Len(t, got, 2)
	assert.Equal(t, "M_SI_3", got[0].Name())
	assert.Equal(t, "M_HT_1", got[1].Name())
	assert.Empty(t, Resolve([]int32{1}, nil))
}

func TestHighlighterRebuildReplaces(t *testing.T) {
	lm := landmarks(t)
	h := NewHighlighter("highlights")

	h.Rebuild(Resolve([]int32{0, 2}, lm))
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []int32{0, 2}, h.IDs())
	first := h.Node().Children()[0]

	h.Rebuild(Resolve([]int32{1}, lm))
	require.Equal(t, 1, h.Len())
	assert.Nil(t, first.Parent(), "old markers are discarded")

	marker := h.Node().Children()[0]
	assert.Equal(t, "M_LI_2", marker.Name)
	assert.Equal(t, scene.MaterialLine, marker.Material.Kind)
	assert.Equal(t, MarkerColor, marker.Material.Color)
	b := marker.Geometry.Bounds()
	assert.InDeltaSlice(t, []float32{2.5, -0.5, -0.5}, b.Min[:], 1e-5)
	assert.InDeltaSlice(t, []float32{3.5, 0.5, 0.5}, b.Max[:], 1e-5)

	h.Rebuild(nil)
	assert.Zero(t, h.Len())
	assert.Empty(t, h.IDs())
}

func TestHighlighterSelectedIsStable(t *testing.T) {
	lm := landmarks(t)
	h := NewHighlighter("highlights")

	h.Rebuild(Resolve([]int32{0, 2}, lm))
	first := h.Selected()
	h.Rebuild(Resolve([]int32{1}, lm))

	require.Len(t, first, 2)
	assert.Equal(t, int32(0), first[0].ID)
	assert.Equal(t, int32(2), first[1].ID)
	assert.Equal(t, []int32{1}, h.IDs())
}
