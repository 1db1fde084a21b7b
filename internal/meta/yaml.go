package meta

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML emits a mapping node in insertion order.
func (m Map) MarshalYAML() (any, error) {
	return valueToNode(m)
}

// UnmarshalYAML reads a mapping node, keeping key order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	v, err := nodeToValue(node)
	if err != nil {
		return err
	}
	switch val := v.(type) {
	case Map:
		*m = val
	case Null:
		*m = nil
	default:
		return fmt.Errorf("line %d: metadata must be a mapping, got %T", node.Line, v)
	}
	return nil
}

func valueToNode(v Value) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil, Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(val)}, nil
	case Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(val), 10)}, nil
	case Float:
		s, err := formatFloat(float64(val))
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}, nil
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(val))}, nil
	case List:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, elem := range val {
			child, err := valueToNode(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range val {
			child, err := valueToNode(p.Value)
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", p.Key, err)
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key}
			node.Content = append(node.Content, key, child)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unknown metadata value type: %T", v)
	}
}

func nodeToValue(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null{}, nil
		}
		return nodeToValue(node.Content[0])
	case yaml.AliasNode:
		return nodeToValue(node.Alias)
	case yaml.MappingNode:
		m := make(Map, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			val, err := nodeToValue(node.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", key, err)
			}
			m.Set(key, val)
		}
		return m, nil
	case yaml.SequenceNode:
		l := make(List, 0, len(node.Content))
		for i, child := range node.Content {
			val, err := nodeToValue(child)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			l = append(l, val)
		}
		return l, nil
	case yaml.ScalarNode:
		return scalarValue(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %v", node.Line, node.Kind)
	}
}

func scalarValue(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return nil, err
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}
