// Package resolver collects the "$ref" targets reachable from a schema node
// through oneOf/allOf compositions and arrays.
package resolver

import (
	"fmt"
	"strconv"

	"github.com/yetics/armkit/internal/schema"
)

// Option configures Refs.
type Option func(*walker)

// WithMaxDepth bounds how deep Refs will descend. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(w *walker) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

// Refs returns, in traversal order, every reference reachable from node.
// A reference node contributes its own "$ref" and nothing else. Sequences
// contribute the references of their elements at any nesting depth.
// Compositions contribute their oneOf references followed by their allOf
// references. Other keywords are not followed.
//
// A node that appears among its own ancestors, or a walk deeper than the
// depth bound, fails with a *schema.StructuralError.
func Refs(node *schema.Node, opts ...Option) ([]string, error) {
	w := &walker{
		maxDepth: schema.DefaultMaxDepth,
		onPath:   make(map[*schema.Node]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	refs := []string{}
	if err := w.walk(node, "", 0, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

type walker struct {
	maxDepth int
	onPath   map[*schema.Node]bool
}

func (w *walker) walk(node *schema.Node, ptr string, depth int, refs *[]string) error {
	if node == nil {
		return nil
	}
	if depth > w.maxDepth {
		return &schema.StructuralError{Pointer: ptr, Reason: fmt.Sprintf("reference walk exceeds %d levels", w.maxDepth)}
	}
	if w.onPath[node] {
		return &schema.StructuralError{Pointer: ptr, Reason: "node is its own ancestor"}
	}
	w.onPath[node] = true
	defer delete(w.onPath, node)

	switch node.Kind {
	case schema.KindReference:
		*refs = append(*refs, node.Ref)
	case schema.KindSequence:
		for i, item := range node.Items {
			if err := w.walk(item, ptr+"/"+strconv.Itoa(i), depth+1, refs); err != nil {
				return err
			}
		}
	case schema.KindComposition:
		if err := w.walk(node.OneOf, schema.ChildPointer(ptr, schema.KeywordOneOf), depth+1, refs); err != nil {
			return err
		}
		if err := w.walk(node.AllOf, schema.ChildPointer(ptr, schema.KeywordAllOf), depth+1, refs); err != nil {
			return err
		}
	case schema.KindLeaf:
	default:
		return &schema.StructuralError{Pointer: ptr, Reason: fmt.Sprintf("unknown node kind %d", node.Kind)}
	}
	return nil
}
