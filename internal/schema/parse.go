package schema

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/grafana/regexp"
	jsoniter "github.com/json-iterator/go"
)

// DefaultMaxDepth bounds how deeply nested a schema tree may be.
const DefaultMaxDepth = 512

// numberPattern is the JSON number grammar. The iterator collects any run of
// number characters, so tokens such as "01" or "1-2" are checked here.
var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ParseOption configures Parse.
type ParseOption func(*parser)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(depth int) ParseOption {
	return func(p *parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

type parser struct {
	iter     *jsoniter.Iterator
	maxDepth int
}

// Parse decodes a JSON document into a classified Node tree. Object members
// keep their document order. Invalid JSON and non-string "$ref" values fail
// with a MalformedInputError; trees nested deeper than the depth bound fail
// with a StructuralError.
func Parse(data []byte, opts ...ParseOption) (*Node, error) {
	p := &parser{
		iter:     jsoniter.ParseBytes(jsoniter.ConfigCompatibleWithStandardLibrary, data),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.iter.WhatIsNext() == jsoniter.InvalidValue {
		return nil, malformed("", "document is empty or not JSON")
	}

	root, err := p.value("", 0)
	if err != nil {
		return nil, err
	}

	// Reaching the end of input sets io.EOF on the iterator; anything else
	// left over is trailing garbage.
	p.iter.WhatIsNext()
	if p.iter.Error == nil {
		return nil, malformed("", "unexpected data after top-level value")
	}
	return root, nil
}

func (p *parser) value(ptr string, depth int) (*Node, error) {
	if depth > p.maxDepth {
		return nil, &StructuralError{Pointer: ptr, Reason: fmt.Sprintf("nesting exceeds %d levels", p.maxDepth)}
	}

	var (
		node *Node
		err  error
	)
	switch p.iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		node, err = p.object(ptr, depth)
	case jsoniter.ArrayValue:
		node, err = p.array(ptr, depth)
	case jsoniter.StringValue:
		node = String(p.iter.ReadString())
	case jsoniter.NumberValue:
		n := p.iter.ReadNumber()
		if err := p.iterError(ptr); err != nil {
			return nil, err
		}
		if !numberPattern.MatchString(string(n)) {
			return nil, malformed(ptr, "invalid number %q", n)
		}
		node = Number(n)
	case jsoniter.BoolValue:
		node = Bool(p.iter.ReadBool())
	case jsoniter.NilValue:
		p.iter.ReadNil()
		node = Null()
	default:
		return nil, malformed(ptr, "invalid JSON value")
	}
	if err != nil {
		return nil, err
	}
	if err := p.iterError(ptr); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) object(ptr string, depth int) (*Node, error) {
	members := []Member{}
	var err error
	p.iter.ReadObjectCB(func(_ *jsoniter.Iterator, key string) bool {
		var child *Node
		child, err = p.value(ChildPointer(ptr, key), depth+1)
		if err != nil {
			return false
		}
		members = append(members, Member{Key: key, Value: child})
		return true
	})
	if err != nil {
		return nil, err
	}
	if err := p.iterError(ptr); err != nil {
		return nil, err
	}

	node := Object(collapseDuplicates(members)...)
	if node.Kind != KindReference && node.Get(KeywordRef) != nil {
		return nil, malformed(ChildPointer(ptr, KeywordRef), "$ref must be a string")
	}
	return node, nil
}

func (p *parser) array(ptr string, depth int) (*Node, error) {
	items := []*Node{}
	var err error
	p.iter.ReadArrayCB(func(_ *jsoniter.Iterator) bool {
		var child *Node
		child, err = p.value(ptr+"/"+strconv.Itoa(len(items)), depth+1)
		if err != nil {
			return false
		}
		items = append(items, child)
		return true
	})
	if err != nil {
		return nil, err
	}
	if err := p.iterError(ptr); err != nil {
		return nil, err
	}
	return Array(items...), nil
}

// collapseDuplicates keeps one member per key: the last value, at the
// position where the key first appeared.
func collapseDuplicates(members []Member) []Member {
	index := make(map[string]int, len(members))
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if i, ok := index[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		index[m.Key] = len(out)
		out = append(out, m)
	}
	return out
}

// iterError converts a decoder failure into a MalformedInputError. io.EOF is
// not a failure: the iterator sets it once the input is consumed.
func (p *parser) iterError(ptr string) error {
	if p.iter.Error == nil || errors.Is(p.iter.Error, io.EOF) {
		return nil
	}
	return malformed(ptr, "invalid JSON: %v", p.iter.Error)
}
