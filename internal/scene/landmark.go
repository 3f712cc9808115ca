package scene

import "strings"

// SentinelID marks geometry that can never be selected. Landmark IDs are >= 0.
const SentinelID int32 = -1

// DefaultTag and DefaultPrefixes name the meridian groups of the hand model.
const DefaultTag = "M_"

var DefaultPrefixes = []string{"HT", "LI", "LU", "PC", "SI", "SJ"}

// Matcher decides which sub-meshes are landmarks: a node name matches when it
// contains Tag immediately followed by one of Prefixes.
type Matcher struct {
	Tag      string
	Prefixes []string
}

// DefaultMatcher returns the matcher for the meridian groups of the hand model.
func DefaultMatcher() Matcher {
	return Matcher{Tag: DefaultTag, Prefixes: DefaultPrefixes}
}

// Match reports whether name designates a landmark.
func (m Matcher) Match(name string) bool {
	for _, p := range m.Prefixes {
		if strings.Contains(name, m.Tag+p) {
			return true
		}
	}
	return false
}

// Landmark is a selectable sub-mesh of the visual scene.
type Landmark struct {
	ID   int32
	Node *Node
}

// Name returns the node name.
func (l *Landmark) Name() string { return l.Node.Name }

// Bounds returns the landmark's world-space bounding box.
func (l *Landmark) Bounds() Box3 { return WorldBounds(l.Node) }

// Landmarks is the ID mapping built once when a model is loaded. A nil *Landmarks is empty.
type Landmarks struct {
	list   []*Landmark
	byID   map[int32]*Landmark
	byNode map[*Node]int32
}

// AssignLandmarks walks root depth-first and gives each matching mesh node the next ID, starting at 0.
func AssignLandmarks(root *Node, m Matcher) *Landmarks {
	l := &Landmarks{
		byID:   make(map[int32]*Landmark),
		byNode: make(map[*Node]int32),
	}
	Walk(root, MeshFunc(func(n *Node) {
		if !m.Match(n.Name) {
			return
		}
		lm := &Landmark{ID: int32(len(l.list)), Node: n}
		l.list = append(l.list, lm)
		l.byID[lm.ID] = lm
		l.byNode[n] = lm.ID
	}))
	return l
}

// Len returns the number of landmarks.
func (l *Landmarks) Len() int {
	if l == nil {
		return 0
	}
	return len(l.list)
}

// All returns the landmarks in ID order. The slice must not be modified.
func (l *Landmarks) All() []*Landmark {
	if l == nil {
		return nil
	}
	return l.list
}

// ByID looks up a landmark.
func (l *Landmarks) ByID(id int32) (*Landmark, bool) {
	if l == nil {
		return nil, false
	}
	lm, ok := l.byID[id]
	return lm, ok
}

// IDOf returns the ID assigned to a visual node.
func (l *Landmarks) IDOf(n *Node) (int32, bool) {
	if l == nil {
		return SentinelID, false
	}
	id, ok := l.byNode[n]
	if !ok {
		return SentinelID, false
	}
	return id, true
}
