// Package scene holds the vector scene graph the chart draws into.
//
// Nodes are matched by class and position, the way a data join works:
// redrawing updates existing nodes in place, appends the missing ones and
// drops the surplus, so repeated renders never accumulate elements.
package scene

// Kind is the element type of a node.
type Kind string

const (
	KindSVG    Kind = "svg"
	KindGroup  Kind = "g"
	KindPath   Kind = "path"
	KindRect   Kind = "rect"
	KindLine   Kind = "line"
	KindCircle Kind = "circle"
	KindText   Kind = "text"
)

// Node is one element of the scene.
//
// Geometry fields are interpreted by kind: rect uses X, Y, Width, Height;
// line uses X, Y, X2, Y2; circle uses X, Y (center) and R; text uses X, Y.
type Node struct {
	Kind      Kind
	Class     string
	X, Y      float64
	X2, Y2    float64
	Width     float64
	Height    float64
	R         float64
	D         string
	Text      string
	Transform string
	Attrs     map[string]string
	Children  []*Node
}

// NewNode creates an empty node.
func NewNode(kind Kind, class string) *Node {
	return &Node{Kind: kind, Class: class}
}

// Set sets a presentation attribute.
func (n *Node) Set(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Attr returns a presentation attribute.
func (n *Node) Attr(key string) string {
	return n.Attrs[key]
}

// Unset removes a presentation attribute.
func (n *Node) Unset(key string) *Node {
	delete(n.Attrs, key)
	return n
}

// Hidden reports whether the node carries display:none.
func (n *Node) Hidden() bool {
	return n.Attr("display") == "none"
}

// SetHidden toggles display:none.
func (n *Node) SetHidden(hidden bool) *Node {
	if hidden {
		return n.Set("display", "none")
	}
	return n.Unset("display")
}

// Select returns the first direct child with the class, or nil.
func (n *Node) Select(class string) *Node {
	for _, c := range n.Children {
		if c.Class == class {
			return c
		}
	}
	return nil
}

// Ensure returns the first direct child with the class, appending one if missing.
func (n *Node) Ensure(kind Kind, class string) *Node {
	if c := n.Select(class); c != nil {
		return c
	}
	c := NewNode(kind, class)
	n.Children = append(n.Children, c)
	return c
}

// SelectAll returns the direct children with the class, in document order.
func (n *Node) SelectAll(class string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Class == class {
			out = append(out, c)
		}
	}
	return out
}

// Join makes the parent hold exactly count children with the class.
// Existing ones are kept in order, missing ones are appended and the surplus is removed.
func (n *Node) Join(kind Kind, class string, count int) []*Node {
	if count < 0 {
		count = 0
	}
	kept := make([]*Node, 0, count)
	children := n.Children[:0]
	for _, c := range n.Children {
		if c.Class == class {
			if len(kept) >= count || c.Kind != kind {
				continue
			}
			kept = append(kept, c)
		}
		children = append(children, c)
	}
	for i := len(children); i < len(n.Children); i++ {
		n.Children[i] = nil
	}
	n.Children = children
	for len(kept) < count {
		c := NewNode(kind, class)
		n.Children = append(n.Children, c)
		kept = append(kept, c)
	}
	return kept
}

// RemoveAll drops every direct child with the class.
func (n *Node) RemoveAll(class string) {
	n.Join(KindGroup, class, 0)
}

// Raise moves the direct children with the class to the end, keeping their order.
func (n *Node) Raise(class string) {
	rest := make([]*Node, 0, len(n.Children))
	var raised []*Node
	for _, c := range n.Children {
		if c.Class == class {
			raised = append(raised, c)
		} else {
			rest = append(rest, c)
		}
	}
	n.Children = append(rest, raised...)
}

// Walk visits the node and its descendants depth-first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns every descendant (including n) with the class.
func (n *Node) Find(class string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.Class == class {
			out = append(out, c)
		}
	})
	return out
}

// Count returns the number of nodes in the subtree, n included.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) { total++ })
	return total
}
