package scene

import "image/color"

// MaterialKind selects the shader program a mesh is drawn with.
type MaterialKind uint8

const (
	// MaterialLit is the ambient+directional shaded material of the visible scene.
	MaterialLit MaterialKind = iota
	// MaterialLine draws line geometry in a flat colour.
	MaterialLine
	// MaterialID does no lighting and writes only the per-vertex ID.
	MaterialID
)

// Material is the drawing state of a mesh node.
type Material struct {
	Kind  MaterialKind
	Color color.RGBA
}

// IDMaterial is shared by every node of a picking mirror.
var IDMaterial = Material{Kind: MaterialID}
