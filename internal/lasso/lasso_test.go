package lasso

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vp = Viewport{Width: 200, Height: 100}

func TestViewportNDC(t *testing.T) {
	assert.Equal(t, mgl32.Vec2{-1, 1}, vp.NDC(Point{0, 0}))
	assert.Equal(t, mgl32.Vec2{1, -1}, vp.NDC(Point{200, 100}))
	assert.Equal(t, mgl32.Vec2{0, 0}, vp.NDC(Point{100, 50}))
}

func TestCollinearSamplesCollapse(t *testing.T) {
	tr := New(vp)
	tr.Begin(Point{0, 50})
	require.True(t, tr.Extend(Point{20, 50}))
	require.True(t, tr.Extend(Point{40, 50}))
	require.True(t, tr.Extend(Point{60, 50}))

	line, ok := tr.End()
	require.True(t, ok)
	require.Len(t, line, 2)
	assert.Equal(t, vp.NDC(Point{20, 50}), line[0])
	assert.Equal(t, vp.NDC(Point{60, 50}), line[1])
}

func TestNearCollinearSampleReplacesLast(t *testing.T) {
	tr := New(vp)
	tr.Begin(Point{0, 0})
	tr.Extend(Point{10, 50})
	tr.Extend(Point{110, 50})
	// slight upward drift, dot > 0.99
	tr.Extend(Point{190, 49})
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, vp.NDC(Point{190, 49}), tr.Points()[1])

	// a corner is kept
	tr.Extend(Point{190, 90})
	assert.Equal(t, 3, tr.Len())
}

func TestJitterIsIgnored(t *testing.T) {
	tr := New(vp)
	tr.Begin(Point{10, 10})
	assert.False(t, tr.Extend(Point{12, 11}))
	assert.Zero(t, tr.Len())
	assert.False(t, tr.Visible())

	assert.True(t, tr.Extend(Point{10, 14}))
	assert.Equal(t, 1, tr.Len())
	assert.True(t, tr.Visible())

	// backwards moves are measured by magnitude too
	assert.False(t, tr.Extend(Point{8, 12}))
	assert.True(t, tr.Extend(Point{6, 14}))
	assert.Equal(t, 2, tr.Len())
}

func TestExtendWithoutBeginIsIgnored(t *testing.T) {
	tr := New(vp)
	assert.False(t, tr.Extend(Point{50, 50}))
	assert.Zero(t, tr.Len())
}

func TestDegenerateGesture(t *testing.T) {
	tr := New(vp)
	tr.Begin(Point{10, 10})
	_, ok := tr.End()
	assert.False(t, ok)

	tr.Begin(Point{10, 10})
	tr.Extend(Point{50, 50})
	_, ok = tr.End()
	assert.False(t, ok)
	assert.False(t, tr.Active())
}

func TestBeginResets(t *testing.T) {
	tr := New(vp)
	tr.Begin(Point{0, 0})
	tr.Extend(Point{50, 0})
	tr.Extend(Point{50, 50})
	first, ok := tr.End()
	require.True(t, ok)

	tr.Begin(Point{100, 100})
	assert.Zero(t, tr.Len())
	assert.Equal(t, mgl32.Vec2{0, -1}, tr.Start())
	assert.Len(t, first, 2, "frozen polyline must not alias the tracker buffer")
}

func TestPreviewClosesLoop(t *testing.T) {
	tr := New(vp)
	tr.Begin(Point{0, 0})
	assert.Nil(t, tr.Preview())
	tr.Extend(Point{50, 0})
	tr.Extend(Point{50, 50})
	tr.Extend(Point{0, 50})

	p := tr.Preview()
	require.Len(t, p, 4)
	assert.Equal(t, p[0], p[3])
	assert.Equal(t, 3, tr.Len(), "closing point is not committed")

	assert.True(t, tr.TakeDirty())
	assert.False(t, tr.TakeDirty())
}
