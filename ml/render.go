package ml

import (
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"
)

const (
	boxWidth   = 190
	boxHeight  = 92
	lineHeight = 16
	hGap       = 16
	vGap       = 48
	margin     = 20
)

// Fill colours per class index, cycling when there are more classes.
var classColors = []string{"#e58139", "#399de5", "#47e539", "#e539c0"}

// RenderOptions controls the tree drawing.
type RenderOptions struct {
	Filled bool
}

// CacheKey identifies a rendering of the (immutable) loaded model.
func (o RenderOptions) CacheKey() string {
	return fmt.Sprintf("filled=%t", o.Filled)
}

type nodeBox struct {
	x, y int
}

// RenderTree draws the tree as an SVG document. Each box lists the split,
// gini impurity, sample count, class counts and majority class.
func RenderTree(w io.Writer, dt *DecisionTree, opts RenderOptions) error {
	if len(dt.nodes) == 0 {
		return ErrModelNotLoaded
	}

	boxes := make([]nodeBox, len(dt.nodes))
	leaves := 0
	dt.layout(0, 0, &leaves, boxes)

	width := leaves*(boxWidth+hGap) - hGap + 2*margin
	height := (dt.Depth()+1)*(boxHeight+vGap) - vGap + 2*margin

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title("CART")
	canvas.Rect(0, 0, width, height, "fill:white")

	for i, node := range dt.nodes {
		if node.IsLeaf {
			continue
		}
		from := boxes[i]
		for _, child := range []int{node.LeftChild, node.RightChild} {
			to := boxes[child]
			canvas.Line(from.x+boxWidth/2, from.y+boxHeight, to.x+boxWidth/2, to.y, "stroke:#444;stroke-width:1")
		}
	}

	canvas.Gstyle("font-family:Helvetica,Arial,sans-serif;font-size:12px;text-anchor:middle")
	for i, node := range dt.nodes {
		box := boxes[i]
		canvas.Roundrect(box.x, box.y, boxWidth, boxHeight, 6, 6, dt.boxStyle(node, opts))
		for j, line := range dt.nodeLines(node) {
			canvas.Text(box.x+boxWidth/2, box.y+20+j*lineHeight, line)
		}
	}
	canvas.Gend()
	canvas.End()
	return nil
}

// layout places leaves left to right and centres parents over children.
func (dt *DecisionTree) layout(idx, depth int, leaves *int, boxes []nodeBox) {
	node := dt.nodes[idx]
	y := margin + depth*(boxHeight+vGap)
	if node.IsLeaf {
		boxes[idx] = nodeBox{x: margin + *leaves*(boxWidth+hGap), y: y}
		*leaves++
		return
	}
	dt.layout(node.LeftChild, depth+1, leaves, boxes)
	dt.layout(node.RightChild, depth+1, leaves, boxes)
	boxes[idx] = nodeBox{x: (boxes[node.LeftChild].x + boxes[node.RightChild].x) / 2, y: y}
}

func (dt *DecisionTree) boxStyle(node TreeNode, opts RenderOptions) string {
	if !opts.Filled || len(node.Value) == 0 {
		return "fill:white;stroke:black;stroke-width:1"
	}
	color := classColors[dt.nodeClass(node)%len(classColors)]
	k := float64(len(dt.classNames))
	alpha := 1.0
	if k > 1 {
		alpha = (purity(node.Value) - 1/k) / (1 - 1/k)
	}
	alpha = math.Max(0, math.Min(1, alpha))
	return fmt.Sprintf("fill:%s;fill-opacity:%s;stroke:black;stroke-width:1", color, formatNumber(alpha))
}

func (dt *DecisionTree) nodeLines(node TreeNode) []string {
	lines := make([]string, 0, 5)
	if !node.IsLeaf {
		lines = append(lines, dt.splitLabel(node))
	}
	if len(node.Value) > 0 {
		lines = append(lines, "gini = "+formatNumber(gini(node.Value)))
	}
	if samples := nodeSamples(node); samples > 0 {
		lines = append(lines, "samples = "+strconv.Itoa(samples))
	}
	if len(node.Value) > 0 {
		lines = append(lines, "value = "+formatCounts(node.Value))
	}
	lines = append(lines, "class = "+dt.classNames[dt.nodeClass(node)])
	return lines
}

// splitLabel names the left branch. Selector features also show which
// option goes left.
func (dt *DecisionTree) splitLabel(node TreeNode) string {
	name := dt.featureNames[node.FeatureIdx]
	label := name + " <= " + formatNumber(node.Threshold)
	if IsCategorical(name) && node.Threshold >= 0 && node.Threshold < 1 {
		if option, err := DecodeCategorical(name, 0); err == nil {
			label += " (" + option + ")"
		}
	}
	return label
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

func formatCounts(values []float64) string {
	out := "["
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += formatNumber(v)
	}
	return out + "]"
}
