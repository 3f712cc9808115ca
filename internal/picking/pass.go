package picking

import (
	"fmt"
	"log/slog"
	"time"
)

// Pass owns the off-screen target and the host-side readback buffer. The target is
// allocated on first use and reallocated only when the viewport size changes.
type Pass struct {
	alloc  Allocator
	log    *slog.Logger
	target Target
	pixels []int32
}

// NewPass returns a pass that allocates targets with alloc.
func NewPass(alloc Allocator, log *slog.Logger) *Pass {
	if log == nil {
		log = slog.Default()
	}
	return &Pass{alloc: alloc, log: log}
}

// Target returns the current target, or nil before the first Run.
func (p *Pass) Target() Target { return p.target }

// Run renders s into a w×h target and returns the full readback, Channels values per pixel.
// The returned slice is reused by the next Run. Errors are terminal for this gesture.
func (p *Pass) Run(s *Scene, w, h int) ([]int32, error) {
	start := time.Now()
	if err := p.ensureTarget(w, h); err != nil {
		return nil, err
	}
	if err := p.target.Render(s); err != nil {
		return nil, fmt.Errorf("picking: render: %w", err)
	}
	if err := p.target.ReadPixels(p.pixels); err != nil {
		return nil, fmt.Errorf("picking: readback: %w", err)
	}
	p.log.Debug("picking pass", "width", w, "height", h, "elapsed", time.Since(start))
	return p.pixels, nil
}

func (p *Pass) ensureTarget(w, h int) error {
	if p.target != nil {
		if tw, th := p.target.Size(); tw == w && th == h {
			return nil
		}
		p.target.Release()
		p.target = nil
		p.pixels = nil
	}
	t, err := p.alloc(w, h)
	if err != nil {
		return fmt.Errorf("picking: allocate %dx%d target: %w", w, h, err)
	}
	p.target = t
	p.pixels = make([]int32, w*h*Channels)
	p.log.Debug("picking target allocated", "width", w, "height", h)
	return nil
}

// Release frees the target.
func (p *Pass) Release() {
	if p.target != nil {
		p.target.Release()
		p.target = nil
	}
	p.pixels = nil
}
