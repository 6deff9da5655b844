package schema

import (
	"encoding/json"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// MarshalJSON writes the tree back out with object members in document order.
func (n *Node) MarshalJSON() ([]byte, error) {
	cfg := jsoniter.ConfigCompatibleWithStandardLibrary
	stream := cfg.BorrowStream(nil)
	defer cfg.ReturnStream(stream)

	n.writeJSON(stream)
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

func (n *Node) writeJSON(stream *jsoniter.Stream) {
	switch {
	case n == nil:
		stream.WriteNil()
	case n.Kind == KindSequence:
		stream.WriteArrayStart()
		for i, item := range n.Items {
			if i > 0 {
				stream.WriteMore()
			}
			item.writeJSON(stream)
		}
		stream.WriteArrayEnd()
	case n.IsObject():
		stream.WriteObjectStart()
		for i, m := range n.Members {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(m.Key)
			m.Value.writeJSON(stream)
		}
		stream.WriteObjectEnd()
	default:
		switch v := n.Value.(type) {
		case string:
			stream.WriteString(v)
		case json.Number:
			stream.WriteRaw(v.String())
		case bool:
			stream.WriteBool(v)
		default:
			stream.WriteNil()
		}
	}
}

// MarshalYAML implements yaml.Marshaler, keeping object member order.
func (n *Node) MarshalYAML() (interface{}, error) {
	return n.yamlNode(), nil
}

func (n *Node) yamlNode() *yaml.Node {
	switch {
	case n == nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case n.Kind == KindSequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			out.Content = append(out.Content, item.yamlNode())
		}
		return out
	case n.IsObject():
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range n.Members {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				m.Value.yamlNode(),
			)
		}
		return out
	}

	switch v := n.Value.(type) {
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(v.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}
	case bool:
		value := "false"
		if v {
			value = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: value}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
