package scene

// Visitor receives nodes from Walk, one method per Kind. Returning false skips the node's children.
type Visitor interface {
	VisitGroup(n *Node) bool
	VisitMesh(n *Node) bool
}

// Walk visits n and its descendants depth-first in child order.
func Walk(n *Node, v Visitor) {
	if n == nil {
		return
	}
	var descend bool
	switch n.Kind {
	case KindGroup:
		descend = v.VisitGroup(n)
	case KindMesh:
		descend = v.VisitMesh(n)
	}
	if !descend {
		return
	}
	for _, c := range n.children {
		Walk(c, v)
	}
}

// MeshFunc is a Visitor that calls itself for every mesh node and descends everywhere.
type MeshFunc func(n *Node)

func (f MeshFunc) VisitGroup(*Node) bool { return true }

func (f MeshFunc) VisitMesh(n *Node) bool {
	f(n)
	return true
}

// VisibleMeshFunc is like MeshFunc but skips hidden nodes and their subtrees.
type VisibleMeshFunc func(n *Node)

func (f VisibleMeshFunc) VisitGroup(n *Node) bool { return n.Visible }

func (f VisibleMeshFunc) VisitMesh(n *Node) bool {
	if !n.Visible {
		return false
	}
	f(n)
	return true
}
