package picking

import (
	"fmt"

	"acupoint-viewer/internal/mask"
	"acupoint-viewer/internal/scene"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SoftTarget is a CPU rasterizer implementing Target: RGBA32I colour plus a float depth buffer.
// Triangles are clipped against the near plane and filled at pixel centres with flat IDs.
type SoftTarget struct {
	w, h  int
	color []int32
	depth []float32
}

// NewSoftTarget allocates a w×h software target.
func NewSoftTarget(w, h int) (*SoftTarget, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrTargetSize, w, h)
	}
	return &SoftTarget{
		w:     w,
		h:     h,
		color: make([]int32, w*h*Channels),
		depth: make([]float32, w*h),
	}, nil
}

// SoftAllocator is an Allocator producing SoftTargets.
func SoftAllocator(w, h int) (Target, error) {
	return NewSoftTarget(w, h)
}

func (t *SoftTarget) Size() (int, int) { return t.w, t.h }

func (t *SoftTarget) Render(s *Scene) error {
	if t.color == nil {
		return fmt.Errorf("picking: render on released target")
	}
	t.clear()
	vp := s.Camera.ViewProjection()
	scene.Walk(s.Root, scene.VisibleMeshFunc(func(n *scene.Node) {
		if !n.HasGeometry() {
			return
		}
		t.drawMesh(n.Geometry, vp.Mul4(n.WorldMatrix()))
	}))
	if s.Mask != nil {
		return t.drawMask(s.Mask, s.Anchor.NDCDepth(s.Camera))
	}
	return nil
}

func (t *SoftTarget) ReadPixels(dst []int32) error {
	if t.color == nil {
		return fmt.Errorf("picking: read from released target")
	}
	if len(dst) != len(t.color) {
		return fmt.Errorf("picking: readback buffer has %d values, want %d", len(dst), len(t.color))
	}
	copy(dst, t.color)
	return nil
}

func (t *SoftTarget) Release() {
	t.color = nil
	t.depth = nil
}

func (t *SoftTarget) clear() {
	for i := range t.depth {
		t.depth[i] = math32.Inf(1)
		t.setPixel(i, scene.SentinelID)
	}
}

func (t *SoftTarget) setPixel(i int, id int32) {
	c := t.color[i*Channels : i*Channels+Channels]
	c[0], c[1], c[2], c[3] = id, 0, 0, 1
}

// screenVert is a vertex after projection: pixel position and NDC depth.
type screenVert struct {
	x, y, z float32
}

// toScreen divides a clip-space vertex in front of the near plane and maps it to pixels.
func (t *SoftTarget) toScreen(c mgl32.Vec4) screenVert {
	inv := 1 / c.W()
	return screenVert{
		x: (c.X()*inv + 1) / 2 * float32(t.w),
		y: (1 - c.Y()*inv) / 2 * float32(t.h),
		z: c.Z() * inv,
	}
}

func (t *SoftTarget) drawMesh(g *scene.Geometry, mvp mgl32.Mat4) {
	id := g.ID()
	clip := make([]mgl32.Vec4, len(g.Positions))
	for i, p := range g.Positions {
		clip[i] = mvp.Mul4x1(p.Vec4(1))
	}
	var poly [4]mgl32.Vec4
	g.Triangles(func(a, b, c uint32) {
		n := clipNear(clip[a], clip[b], clip[c], &poly)
		if n < 3 {
			return
		}
		v0 := t.toScreen(poly[0])
		for i := 1; i+1 < n; i++ {
			t.fillTriangle(v0, t.toScreen(poly[i]), t.toScreen(poly[i+1]), id)
		}
	})
}

// clipNear clips triangle abc against the near plane z = -w (Sutherland-Hodgman with a
// single plane). The kept polygon, at most four vertices, is written to out; the return
// value is its vertex count.
func clipNear(a, b, c mgl32.Vec4, out *[4]mgl32.Vec4) int {
	in := [3]mgl32.Vec4{a, b, c}
	n := 0
	for i, p := range in {
		q := in[(i+1)%3]
		dp, dq := p.Z()+p.W(), q.Z()+q.W()
		if dp >= 0 {
			out[n] = p
			n++
		}
		if (dp >= 0) != (dq >= 0) {
			out[n] = p.Add(q.Sub(p).Mul(dp / (dp - dq)))
			n++
		}
	}
	return n
}

func edge(a, b screenVert, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// fillTriangle rasterizes either winding; depth is interpolated linearly in screen space.
func (t *SoftTarget) fillTriangle(a, b, c screenVert, id int32) {
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}
	x0 := max(0, int(math32.Floor(min(a.x, b.x, c.x))))
	x1 := min(t.w-1, int(math32.Ceil(max(a.x, b.x, c.x))))
	y0 := max(0, int(math32.Floor(min(a.y, b.y, c.y))))
	y1 := min(t.h-1, int(math32.Ceil(max(a.y, b.y, c.y))))
	for y := y0; y <= y1; y++ {
		py := float32(y) + 0.5
		for x := x0; x <= x1; x++ {
			px := float32(x) + 0.5
			w0 := edge(b, c, px, py) / area
			w1 := edge(c, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			// vertices on the near plane sit at -1 up to rounding
			z := max(w0*a.z+w1*b.z+w2*c.z, -1)
			if z > 1 {
				continue
			}
			i := y*t.w + x
			if z < t.depth[i] {
				t.depth[i] = z
				t.setPixel(i, id)
			}
		}
	}
}

// drawMask writes the sentinel wherever the mask covers a pixel and lies in front of it.
func (t *SoftTarget) drawMask(s *mask.Shape, z float32) error {
	cov, err := s.Coverage(t.w, t.h)
	if err != nil {
		return fmt.Errorf("picking: mask: %w", err)
	}
	for y := 0; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			if cov.At(x, y) < mask.CoveredThreshold {
				continue
			}
			i := y*t.w + x
			if z < t.depth[i] {
				t.depth[i] = z
				t.setPixel(i, s.ID())
			}
		}
	}
	return nil
}
