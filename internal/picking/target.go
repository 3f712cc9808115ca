// Package picking renders the ID-tagged mirror of the scene into an integer
// render target and reads back which landmark IDs are visible inside the mask.
package picking

import "errors"

// Channels is the number of int32 channels per pixel in a target readback. Channel 0 holds the ID.
const Channels = 4

// ErrTargetSize is returned for a non-positive target size.
var ErrTargetSize = errors.New("picking: invalid target size")

// Target is an off-screen integer render target.
type Target interface {
	// Size returns the target size in device pixels.
	Size() (w, h int)
	// Render clears the target to the sentinel ID and draws s into it with depth testing.
	Render(s *Scene) error
	// ReadPixels copies the whole target into dst, row-major, Channels values per pixel.
	// len(dst) must be w*h*Channels.
	ReadPixels(dst []int32) error
	// Release frees the target. It must not be used afterwards.
	Release()
}

// Allocator creates a target of the given size.
type Allocator func(w, h int) (Target, error)
