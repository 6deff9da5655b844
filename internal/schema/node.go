// Package schema models JSON Schema trees as a small tagged variant so that
// traversals can switch on a node's role instead of probing for keys.
package schema

import (
	"encoding/json"
	"strings"
)

// Kind tells which role a Node plays in reference traversal.
type Kind int

const (
	// KindLeaf is any object or scalar that is neither a reference nor a composition.
	KindLeaf Kind = iota
	// KindReference is an object carrying a "$ref" string.
	KindReference
	// KindComposition is an object carrying "oneOf" and/or "allOf".
	KindComposition
	// KindSequence is a JSON array.
	KindSequence
)

// Keywords that decide a node's kind
const (
	KeywordRef   = "$ref"
	KeywordOneOf = "oneOf"
	KeywordAllOf = "allOf"
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindReference:
		return "reference"
	case KindComposition:
		return "composition"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Member is one key/value pair of a JSON object, kept in document order.
type Member struct {
	Key   string
	Value *Node
}

// Node is a single position in a schema tree. Kind is fixed when the node is
// built and the node is not modified afterwards.
type Node struct {
	Kind Kind

	// Ref is set for KindReference.
	Ref string

	// OneOf and AllOf are set for KindComposition; either may be nil.
	OneOf *Node
	AllOf *Node

	// Items holds the elements of a KindSequence node.
	Items []*Node

	// Members holds the object members in order. It is non-nil for every
	// object, including objects classified as references or compositions.
	Members []Member

	// Value holds a scalar: string, json.Number, bool or nil.
	Value any
}

// Object builds an object node and classifies it.
func Object(members ...Member) *Node {
	if members == nil {
		members = []Member{}
	}
	n := &Node{Kind: KindLeaf, Members: members}

	if ref, ok := n.Get(KeywordRef).AsString(); ok {
		n.Kind = KindReference
		n.Ref = ref
		return n
	}

	oneOf, allOf := n.Get(KeywordOneOf), n.Get(KeywordAllOf)
	if oneOf.IsNull() {
		oneOf = nil
	}
	if allOf.IsNull() {
		allOf = nil
	}
	if oneOf != nil || allOf != nil {
		n.Kind = KindComposition
		n.OneOf = oneOf
		n.AllOf = allOf
	}
	return n
}

// Array builds a sequence node.
func Array(items ...*Node) *Node {
	if items == nil {
		items = []*Node{}
	}
	return &Node{Kind: KindSequence, Items: items}
}

// String builds a string leaf.
func String(s string) *Node { return &Node{Kind: KindLeaf, Value: s} }

// Number builds a number leaf.
func Number(n json.Number) *Node { return &Node{Kind: KindLeaf, Value: n} }

// Bool builds a boolean leaf.
func Bool(b bool) *Node { return &Node{Kind: KindLeaf, Value: b} }

// Null builds a JSON null leaf.
func Null() *Node { return &Node{Kind: KindLeaf} }

// Ref builds an object node holding only a "$ref".
func Ref(ref string) *Node {
	return Object(Member{Key: KeywordRef, Value: String(ref)})
}

// IsObject reports whether the node is a JSON object.
func (n *Node) IsObject() bool {
	return n != nil && n.Members != nil
}

// IsNull reports whether the node is a JSON null. An absent node is not null.
func (n *Node) IsNull() bool {
	return n != nil && n.Kind == KindLeaf && n.Members == nil && n.Value == nil
}

// Get returns the value of an object member, or nil when the node is not an
// object or has no such member. Duplicate keys resolve to the last one.
func (n *Node) Get(key string) *Node {
	if !n.IsObject() {
		return nil
	}
	for i := len(n.Members) - 1; i >= 0; i-- {
		if n.Members[i].Key == key {
			return n.Members[i].Value
		}
	}
	return nil
}

// Lookup follows a path of object keys and returns nil as soon as one is missing.
func (n *Node) Lookup(path ...string) *Node {
	cur := n
	for _, key := range path {
		cur = cur.Get(key)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// AsString returns the node's string value.
func (n *Node) AsString() (string, bool) {
	if n == nil {
		return "", false
	}
	s, ok := n.Value.(string)
	return s, ok
}

// Interface converts the tree into plain Go values as encoding/json would
// decode them, with numbers kept as json.Number.
func (n *Node) Interface() any {
	switch {
	case n == nil:
		return nil
	case n.Kind == KindSequence:
		out := make([]any, len(n.Items))
		for i, item := range n.Items {
			out[i] = item.Interface()
		}
		return out
	case n.IsObject():
		out := make(map[string]any, len(n.Members))
		for _, m := range n.Members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return n.Value
	}
}

// escapeToken escapes a key for use inside a JSON pointer (RFC 6901).
func escapeToken(key string) string {
	if !strings.ContainsAny(key, "~/") {
		return key
	}
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(key)
}

// ChildPointer appends a key to a JSON pointer.
func ChildPointer(parent, key string) string {
	return parent + "/" + escapeToken(key)
}
