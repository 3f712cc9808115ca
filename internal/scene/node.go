package scene

import "github.com/go-gl/mathgl/mgl32"

// Kind tags what a Node carries. Traversal dispatches on it through a Visitor.
type Kind uint8

const (
	KindGroup Kind = iota
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	}
	return "unknown"
}

// Transform is a node's local translation, rotation and scale.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(t.Rotation.Normalize().Mat4())
	return m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Node is one element of a scene graph. Group nodes only hold children; mesh nodes also
// carry Geometry and a Material. Any node may have children.
type Node struct {
	Name      string
	Kind      Kind
	Transform Transform
	Visible   bool
	Geometry  *Geometry
	Material  Material

	parent   *Node
	children []*Node
}

// NewGroup returns an empty, visible group node.
func NewGroup(name string) *Node {
	return &Node{Name: name, Kind: KindGroup, Transform: IdentityTransform(), Visible: true}
}

// NewMesh returns a visible mesh node drawing g with m.
func NewMesh(name string, g *Geometry, m Material) *Node {
	return &Node{Name: name, Kind: KindMesh, Transform: IdentityTransform(), Visible: true, Geometry: g, Material: m}
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// HasGeometry reports whether the node is a mesh with geometry attached.
func (n *Node) HasGeometry() bool { return n.Kind == KindMesh && n.Geometry != nil }

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Add appends children, detaching each from its previous parent first.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches child. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Clear detaches all children and returns them.
func (n *Node) Clear() []*Node {
	removed := n.children
	for _, c := range removed {
		c.parent = nil
	}
	n.children = nil
	return removed
}

// WorldMatrix returns the product of all local matrices from the root down to n.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

// Clone deep-copies the subtree rooted at n. The clone has no parent.
func (n *Node) Clone() *Node {
	c, _ := n.CloneWithMap()
	return c
}

// CloneWithMap deep-copies the subtree rooted at n and returns, alongside the clone,
// a map from every source node to its copy. Geometry vertex data is shared; ID buffers are not.
func (n *Node) CloneWithMap() (*Node, map[*Node]*Node) {
	m := make(map[*Node]*Node)
	return n.cloneInto(m), m
}

func (n *Node) cloneInto(m map[*Node]*Node) *Node {
	c := &Node{
		Name:      n.Name,
		Kind:      n.Kind,
		Transform: n.Transform,
		Visible:   n.Visible,
		Material:  n.Material,
	}
	if n.Geometry != nil {
		c.Geometry = n.Geometry.Clone()
	}
	m[n] = c
	for _, child := range n.children {
		cc := child.cloneInto(m)
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}
