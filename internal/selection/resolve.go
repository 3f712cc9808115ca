// Package selection maps picked IDs back to landmarks and keeps the highlight markers.
package selection

import (
	"slices"

	"acupoint-viewer/internal/picking"
	"acupoint-viewer/internal/scene"
)

// CollectIDs returns the distinct IDs found in channel 0 of a picking readback,
// sorted ascending, without the sentinel.
func CollectIDs(pixels []int32) []int32 {
	seen := make(map[int32]struct{})
	for i := 0; i < len(pixels); i += picking.Channels {
		id := pixels[i]
		if id == scene.SentinelID {
			continue
		}
		seen[id] = struct{}{}
	}
	ids := make([]int32, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Resolve looks up each ID. IDs without a landmark are dropped.
func Resolve(ids []int32, landmarks *scene.Landmarks) []*scene.Landmark {
	out := make([]*scene.Landmark, 0, len(ids))
	for _, id := range ids {
		if lm, ok := landmarks.ByID(id); ok {
			out = append(out, lm)
		}
	}
	return out
}
