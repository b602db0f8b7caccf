// Package design models the externally supplied design tree that describes
// the intended UI elements and their positions.
package design

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"design-diff/pkg/geometry"
)

// ErrInvalidTree reports a design tree that cannot be used for matching.
var ErrInvalidTree = errors.New("design: invalid tree")

// Node is one element of the design tree. BoundingBox is in design-space
// units; nodes without one are traversed but never matched.
type Node struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	BoundingBox *geometry.Rect `json:"boundingBox,omitempty"`
	Children    []*Node        `json:"children,omitempty"`
}

// Kind groups design node types by the kind of fix they need.
type Kind int

const (
	KindOther Kind = iota
	KindAsset      // raster images, vectors, icons
	KindText       // text runs
	KindShape      // filled shapes and containers
)

func (k Kind) String() string {
	switch k {
	case KindAsset:
		return "asset"
	case KindText:
		return "text"
	case KindShape:
		return "shape"
	default:
		return "other"
	}
}

// KindOf maps a node type string (case-insensitive) to its Kind.
func KindOf(nodeType string) Kind {
	switch strings.ToUpper(strings.TrimSpace(nodeType)) {
	case "IMAGE", "VECTOR", "ICON", "SVG", "BOOLEAN_OPERATION", "STAR", "LINE", "POLYGON":
		return KindAsset
	case "TEXT":
		return KindText
	case "RECTANGLE", "ELLIPSE", "FRAME", "GROUP", "COMPONENT", "COMPONENT_SET", "INSTANCE", "SECTION":
		return KindShape
	default:
		return KindOther
	}
}

// Parse decodes a JSON design tree and validates it.
func Parse(r io.Reader) (*Node, error) {
	var root Node
	dec := json.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTree, err)
	}
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return &root, nil
}

// Load reads a JSON design tree from a file.
func Load(path string) (*Node, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open design tree: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Validate checks that node IDs are present and unique and that bounding
// boxes have non-negative sizes.
func (n *Node) Validate() error {
	seen := make(map[string]bool)
	var err error
	n.Walk(func(node *Node, depth int) bool {
		switch {
		case node.ID == "":
			err = fmt.Errorf("%w: node %q at depth %d has no id", ErrInvalidTree, node.Name, depth)
		case seen[node.ID]:
			err = fmt.Errorf("%w: duplicate node id %q", ErrInvalidTree, node.ID)
		case node.BoundingBox != nil && (node.BoundingBox.Width < 0 || node.BoundingBox.Height < 0):
			err = fmt.Errorf("%w: node %q has a negative size", ErrInvalidTree, node.ID)
		}
		seen[node.ID] = true
		return err == nil
	})
	return err
}

// Walk visits the tree depth-first in pre-order, children left to right.
// Returning false from fn stops the walk.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	if n == nil {
		return
	}
	type entry struct {
		node  *Node
		depth int
	}
	stack := []entry{{n, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.node == nil {
			continue
		}
		if !fn(e.node, e.depth) {
			return
		}
		for i := len(e.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, entry{e.node.Children[i], e.depth + 1})
		}
	}
}

// Find returns the node with the given ID, or nil.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) bool {
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the tree.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}
