package mask

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Builder owns the mask shape of the most recent gesture. Each Rebuild releases the
// previous shape before creating its replacement, so at most one shape is live.
type Builder struct {
	log     *slog.Logger
	current *Shape
	live    int
}

// NewBuilder returns a builder with no shape.
func NewBuilder(log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{log: log}
}

// Rebuild replaces the current shape with one punched by line.
func (b *Builder) Rebuild(line []mgl32.Vec2) *Shape {
	b.Release()
	s := &Shape{Polygon: Build(line)}
	s.onRelease = func() { b.live-- }
	b.current = s
	b.live++
	b.log.Debug("mask rebuilt", "hole_points", len(line))
	return s
}

// Current returns the live shape, or nil before the first gesture.
func (b *Builder) Current() *Shape { return b.current }

// Live returns how many shapes created by this builder have not been released.
func (b *Builder) Live() int { return b.live }

// Release frees the current shape.
func (b *Builder) Release() {
	if b.current != nil {
		b.current.Release()
		b.current = nil
	}
}
