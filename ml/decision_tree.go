package ml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrModelNotLoaded = errors.New("model not loaded")
	ErrInvalidModel   = errors.New("invalid model artifact")
	ErrShapeMismatch  = errors.New("feature vector shape mismatch")
)

// DecisionTree is a fitted CART classifier read from an artifact. It is
// never modified after Load, so one value can be shared by all requests.
type DecisionTree struct {
	nodes        []TreeNode
	featureNames []string
	classNames   []string
}

// TreeNode is stored in pre-order: the left subtree follows its parent.
type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	ClassLabel int       `json:"class_label"`
	IsLeaf     bool      `json:"is_leaf"`
	Samples    int       `json:"samples,omitempty"`
	Value      []float64 `json:"value,omitempty"`
}

type treeArtifact struct {
	ModelType    string     `json:"model_type"`
	FeatureNames []string   `json:"feature_names"`
	ClassNames   []string   `json:"class_names"`
	Nodes        []TreeNode `json:"nodes"`
}

func (dt *DecisionTree) Predict(features []float64) (string, error) {
	idx, err := dt.leaf(features)
	if err != nil {
		return "", err
	}
	return dt.classNames[dt.nodeClass(dt.nodes[idx])], nil
}

func (dt *DecisionTree) leaf(features []float64) (int, error) {
	if len(dt.nodes) == 0 {
		return 0, ErrModelNotLoaded
	}
	if len(features) != len(dt.featureNames) {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrShapeMismatch, len(features), len(dt.featureNames))
	}
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return idx, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

func (dt *DecisionTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := dt.Decode(bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Decode reads an artifact. A bare node array is accepted and gets the
// default feature and class names.
func (dt *DecisionTree) Decode(r io.Reader) error {
	payload, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	payload = bytes.TrimSpace(payload)

	var art treeArtifact
	if len(payload) > 0 && payload[0] == '[' {
		if err := json.Unmarshal(payload, &art.Nodes); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidModel, err)
		}
	} else if err := json.Unmarshal(payload, &art); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if art.ModelType != "" && art.ModelType != "decision_tree" {
		return fmt.Errorf("%w: model type %q", ErrInvalidModel, art.ModelType)
	}
	if len(art.FeatureNames) == 0 {
		art.FeatureNames = append([]string(nil), FeatureNames...)
	}
	if err := checkFeatureNames(art.FeatureNames); err != nil {
		return err
	}
	if len(art.ClassNames) == 0 {
		art.ClassNames = append([]string(nil), ClassNames...)
	}
	if err := validateNodes(art.Nodes, len(art.FeatureNames), len(art.ClassNames)); err != nil {
		return err
	}

	dt.nodes = art.Nodes
	dt.featureNames = art.FeatureNames
	dt.classNames = art.ClassNames
	return nil
}

// checkFeatureNames rejects artifacts trained on a different column order
// than Encode produces.
func checkFeatureNames(names []string) error {
	if len(names) != NumFeatures {
		return fmt.Errorf("%w: %d feature names, want %d", ErrInvalidModel, len(names), NumFeatures)
	}
	for i, name := range names {
		if FeatureIndex(name) != i {
			return fmt.Errorf("%w: feature %d is %q, want %q", ErrInvalidModel, i, name, FeatureNames[i])
		}
	}
	return nil
}

// validateNodes rejects artifacts Predict could not walk safely. Children
// must come after their parent, which also rules out cycles.
func validateNodes(nodes []TreeNode, featureCount, classCount int) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalidModel)
	}
	for i, node := range nodes {
		if node.Value != nil && len(node.Value) != classCount {
			return fmt.Errorf("%w: node %d has %d class counts, want %d", ErrInvalidModel, i, len(node.Value), classCount)
		}
		if node.Value == nil && (node.ClassLabel < 0 || node.ClassLabel >= classCount) {
			return fmt.Errorf("%w: node %d class label %d out of range", ErrInvalidModel, i, node.ClassLabel)
		}
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= featureCount {
			return fmt.Errorf("%w: node %d feature index %d out of range", ErrInvalidModel, i, node.FeatureIdx)
		}
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(nodes) {
				return fmt.Errorf("%w: node %d child %d out of range", ErrInvalidModel, i, child)
			}
		}
	}
	return nil
}

// nodeClass is the argmax of the class counts, or the stored label when
// the artifact carries no counts.
func (dt *DecisionTree) nodeClass(node TreeNode) int {
	if len(node.Value) == 0 {
		return node.ClassLabel
	}
	best := 0
	for i, v := range node.Value {
		if v > node.Value[best] {
			best = i
		}
	}
	return best
}

func (dt *DecisionTree) FeatureNames() []string {
	return append([]string(nil), dt.featureNames...)
}

func (dt *DecisionTree) ClassNames() []string {
	return append([]string(nil), dt.classNames...)
}

func (dt *DecisionTree) NodeCount() int {
	return len(dt.nodes)
}

// Depth is the number of edges on the longest root-to-leaf path.
func (dt *DecisionTree) Depth() int {
	if len(dt.nodes) == 0 {
		return 0
	}
	return dt.depthFrom(0)
}

func (dt *DecisionTree) depthFrom(idx int) int {
	node := dt.nodes[idx]
	if node.IsLeaf {
		return 0
	}
	left := dt.depthFrom(node.LeftChild)
	right := dt.depthFrom(node.RightChild)
	if left > right {
		return left + 1
	}
	return right + 1
}

func nodeSamples(node TreeNode) int {
	if node.Samples > 0 {
		return node.Samples
	}
	total := 0.0
	for _, v := range node.Value {
		total += v
	}
	return int(total)
}

func gini(counts []float64) float64 {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		prob := c / total
		impurity -= prob * prob
	}
	return impurity
}

// purity is the share of the majority class, used for fill opacity.
func purity(counts []float64) float64 {
	total, best := 0.0, 0.0
	for _, c := range counts {
		total += c
		if c > best {
			best = c
		}
	}
	if total == 0 {
		return 0
	}
	return best / total
}
