package ml

import (
	"io"
	"strings"

	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ExportText writes the rules of the tree as an indented listing. Numbers
// are formatted for the printer's locale.
func ExportText(w io.Writer, dt *DecisionTree, p *message.Printer) error {
	if len(dt.nodes) == 0 {
		return ErrModelNotLoaded
	}
	return dt.exportNode(w, p, 0, 0)
}

func (dt *DecisionTree) exportNode(w io.Writer, p *message.Printer, idx, depth int) error {
	node := dt.nodes[idx]
	indent := strings.Repeat("|   ", depth) + "|--- "
	if node.IsLeaf {
		_, err := p.Fprintf(w, "%sclass: %s\n", indent, dt.classNames[dt.nodeClass(node)])
		return err
	}

	name := dt.featureNames[node.FeatureIdx]
	threshold := number.Decimal(node.Threshold, number.MaxFractionDigits(3))
	if _, err := p.Fprintf(w, "%s%s <= %v\n", indent, name, threshold); err != nil {
		return err
	}
	if err := dt.exportNode(w, p, node.LeftChild, depth+1); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "%s%s >  %v\n", indent, name, threshold); err != nil {
		return err
	}
	return dt.exportNode(w, p, node.RightChild, depth+1)
}
