package picking

import (
	"acupoint-viewer/internal/mask"
	"acupoint-viewer/internal/scene"
)

// Mirror clones the visual graph rooted at root for the picking pass. Each cloned mesh whose
// source node is a landmark gets that landmark's ID in its ID buffer; every other mesh gets
// scene.SentinelID. All materials become scene.IDMaterial.
func Mirror(root *scene.Node, landmarks *scene.Landmarks) *scene.Node {
	clone, copies := root.CloneWithMap()
	for src, dst := range copies {
		dst.Material = scene.IDMaterial
		if !dst.HasGeometry() {
			continue
		}
		id, _ := landmarks.IDOf(src)
		dst.Geometry.SetID(id)
	}
	return clone
}

// Scene is what the picking pass renders: the ID-tagged mirror seen through a camera that
// copies the main camera, with the current mask shape attached to that camera.
type Scene struct {
	Root   *scene.Node
	Camera *scene.Camera
	Mask   *mask.Shape
	Anchor mask.Anchor
}

// NewScene returns a picking scene whose camera is a full clone of main.
func NewScene(main *scene.Camera, anchor mask.Anchor) *Scene {
	return &Scene{Camera: main.Clone(), Anchor: anchor}
}

// SetModel replaces the mirror with one built from the visual model.
func (s *Scene) SetModel(root *scene.Node, landmarks *scene.Landmarks) {
	s.Root = Mirror(root, landmarks)
}

// SyncCamera copies pose and projection from the main camera.
func (s *Scene) SyncCamera(main *scene.Camera) {
	s.Camera.CopyFrom(main)
}
