package selection

import (
	"image/color"
	"slices"

	"acupoint-viewer/internal/scene"
)

// MarkerColor is the colour of bounding-box markers.
var MarkerColor = color.RGBA{R: 255, G: 255, A: 255}

// Highlighter owns the container node holding one box marker per selected landmark.
type Highlighter struct {
	group    *scene.Node
	selected []*scene.Landmark
}

// NewHighlighter returns a highlighter with an empty container named name.
func NewHighlighter(name string) *Highlighter {
	return &Highlighter{group: scene.NewGroup(name)}
}

// Node returns the container; attach it to the visible scene once.
func (h *Highlighter) Node() *scene.Node { return h.group }

// Rebuild discards every marker and adds a fresh one for each landmark.
func (h *Highlighter) Rebuild(landmarks []*scene.Landmark) {
	h.group.Clear()
	h.selected = slices.Clone(landmarks)
	for _, lm := range landmarks {
		b := lm.Bounds()
		if b.IsEmpty() {
			continue
		}
		marker := scene.NewMesh(lm.Name(), scene.BoxOutline(b), scene.Material{Kind: scene.MaterialLine, Color: MarkerColor})
		h.group.Add(marker)
	}
}

// Selected returns the landmarks of the last Rebuild.
func (h *Highlighter) Selected() []*scene.Landmark { return h.selected }

// IDs returns the IDs of the selected landmarks.
func (h *Highlighter) IDs() []int32 {
	ids := make([]int32, len(h.selected))
	for i, lm := range h.selected {
		ids[i] = lm.ID
	}
	return ids
}

// Len returns the number of markers.
func (h *Highlighter) Len() int { return len(h.group.Children()) }
