package mask

import (
	"errors"
	"fmt"

	"acupoint-viewer/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gg"
)

// CoveredThreshold is the coverage at or above which a mask pixel hides what is behind it.
const CoveredThreshold = 128

// ErrReleased is returned when a released shape is used.
var ErrReleased = errors.New("mask: shape released")

// Shape is the renderable mask resource of one gesture. It carries the sentinel ID.
// Its coverage raster is created lazily for the target size and dropped on Release.
type Shape struct {
	Polygon Polygon

	coverage  *gg.Mask
	released  bool
	onRelease func()
}

// ID returns the ID the shape writes into the picking target.
func (s *Shape) ID() int32 { return scene.SentinelID }

// Released reports whether Release has been called.
func (s *Shape) Released() bool { return s.released }

// Release frees the coverage raster. Releasing twice is a no-op.
func (s *Shape) Release() {
	if s.released {
		return
	}
	s.released = true
	s.coverage = nil
	if s.onRelease != nil {
		s.onRelease()
	}
}

// Coverage returns the polygon rasterized into a w×h alpha mask, origin top-left:
// 255 where the mask hides the scene, 0 inside the lasso.
func (s *Shape) Coverage(w, h int) (*gg.Mask, error) {
	if s.released {
		return nil, ErrReleased
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("mask: invalid coverage size %dx%d", w, h)
	}
	if s.coverage != nil && s.coverage.Width() == w && s.coverage.Height() == h {
		return s.coverage, nil
	}
	m, err := rasterize(s.Polygon, w, h)
	if err != nil {
		return nil, err
	}
	s.coverage = m
	return m, nil
}

// rasterize fills the outer rectangle and the hole as two sub-paths under the even-odd rule.
func rasterize(p Polygon, w, h int) (*gg.Mask, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.SetRGBA(1, 1, 1, 1)
	addRing(dc, p.Outer[:], w, h)
	addRing(dc, p.Hole, w, h)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("mask: fill: %w", err)
	}
	return gg.NewMaskFromAlpha(dc.Image()), nil
}

func addRing(dc *gg.Context, pts []mgl32.Vec2, w, h int) {
	if len(pts) == 0 {
		return
	}
	for i, v := range pts {
		x, y := toPixel(v, w, h)
		if i == 0 {
			dc.MoveTo(float64(x), float64(y))
		} else {
			dc.LineTo(float64(x), float64(y))
		}
	}
	dc.ClosePath()
}
