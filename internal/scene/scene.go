package scene

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// Well-known classes of the chart structure.
const (
	ClassBounds = "bounds"
	ClassXAxis  = "x-axis"
	ClassYAxis  = "y-axis"
)

// Scene is the root of one chart's element tree.
type Scene struct {
	Root *Node
}

// New creates the skeleton every chart starts from: an svg holding the
// bounds group with empty x and y axis groups.
func New() *Scene {
	root := NewNode(KindSVG, "price-chart")
	bounds := root.Ensure(KindGroup, ClassBounds)
	bounds.Ensure(KindGroup, ClassXAxis)
	bounds.Ensure(KindGroup, ClassYAxis)
	return &Scene{Root: root}
}

// Bounds returns the group translated by the chart margins.
func (s *Scene) Bounds() *Node {
	return s.Root.Ensure(KindGroup, ClassBounds)
}

// Resize records the outer size and positions the bounds group.
func (s *Scene) Resize(width, height, left, top float64) {
	s.Root.Width = width
	s.Root.Height = height
	s.Bounds().Transform = fmt.Sprintf("translate(%s,%s)", Num(left), Num(top))
}

// Count returns the number of nodes with the class anywhere in the scene.
func (s *Scene) Count(class string) int {
	return len(s.Root.Find(class))
}

// WriteSVG encodes the scene as an SVG document.
func (s *Scene) WriteSVG(w io.Writer) error {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(px(s.Root.Width), px(s.Root.Height), attrs(s.Root)...)
	for _, c := range s.Root.Children {
		encode(canvas, c)
	}
	canvas.End()
	_, err := w.Write(buf.Bytes())
	return err
}

// SVG returns the encoded scene.
func (s *Scene) SVG() string {
	var b strings.Builder
	_ = s.WriteSVG(&b)
	return b.String()
}

func encode(canvas *svg.SVG, n *Node) {
	a := attrs(n)
	switch n.Kind {
	case KindGroup:
		canvas.Group(a...)
		for _, c := range n.Children {
			encode(canvas, c)
		}
		canvas.Gend()
	case KindPath:
		canvas.Path(n.D, a...)
	case KindRect:
		// Round the edges rather than y and height apart, so bars stay flush with the axis.
		top, bottom := px(n.Y), px(n.Y+n.Height)
		canvas.Rect(px(n.X), top, px(n.Width), bottom-top, a...)
	case KindLine:
		canvas.Line(px(n.X), px(n.Y), px(n.X2), px(n.Y2), a...)
	case KindCircle:
		canvas.Circle(px(n.X), px(n.Y), px(n.R), a...)
	case KindText:
		canvas.Text(px(n.X), px(n.Y), n.Text, a...)
	}
}

// attrs renders class, transform and presentation attributes in a stable order.
func attrs(n *Node) []string {
	out := make([]string, 0, len(n.Attrs)+2)
	if n.Class != "" {
		out = append(out, attr("class", n.Class))
	}
	if n.Transform != "" {
		out = append(out, attr("transform", n.Transform))
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, attr(k, n.Attrs[k]))
	}
	return out
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func attr(k, v string) string {
	return k + `="` + attrEscaper.Replace(v) + `"`
}

// px rounds a coordinate to a whole pixel; non-finite values collapse to 0.
func px(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

// Num formats a coordinate for path data and transforms.
func Num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
