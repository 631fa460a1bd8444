// Package yml provides ordered, case-insensitive helpers over yaml.v3 nodes
// used by the definition and configuration parsers.
package yml

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	Node yaml.Node
)

// Root unwraps a document node.
func (n *Node) Root() *Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return (*Node)(n.Content[0])
	}
	return n
}

// Lookup returns the value node of a mapping key, matched case-insensitively.
func (n *Node) Lookup(name string) *Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if strings.EqualFold(n.Content[i].Value, name) {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

// Items iterates sequence items.
func (n *Node) Items(callback func(index int, node *Node) error) error {
	for i := 0; i < len(n.Content); i++ {
		if err := callback(i, (*Node)(n.Content[i])); err != nil {
			return err
		}
	}
	return nil
}

// Pairs iterates mapping entries in declaration order.
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// IsScalar reports whether the node holds a single value.
func (n *Node) IsScalar() bool {
	return n != nil && n.Kind == yaml.ScalarNode
}

// String returns the scalar text or an error for structured nodes.
func (n *Node) String() (string, error) {
	if !n.IsScalar() {
		return "", fmt.Errorf("line %d: expected scalar", n.Line)
	}
	return n.Value, nil
}

// Bool returns the scalar as a boolean.
func (n *Node) Bool() (bool, error) {
	if !n.IsScalar() {
		return false, fmt.Errorf("line %d: expected boolean", n.Line)
	}
	flag, err := strconv.ParseBool(n.Value)
	if err != nil {
		return false, fmt.Errorf("line %d: invalid boolean %q", n.Line, n.Value)
	}
	return flag, nil
}

// Strings returns a scalar or a sequence of scalars as a slice.
func (n *Node) Strings() ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		ret := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: expected scalar item", item.Line)
			}
			ret = append(ret, item.Value)
		}
		return ret, nil
	}
	return nil, fmt.Errorf("line %d: expected scalar or sequence", n.Line)
}

// StringMap returns a mapping of scalars.
func (n *Node) StringMap() (map[string]string, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected mapping", n.Line)
	}
	ret := make(map[string]string, len(n.Content)/2)
	err := n.Pairs(func(key string, value *Node) error {
		text, err := value.String()
		if err != nil {
			return err
		}
		ret[key] = text
		return nil
	})
	return ret, err
}

// Interface converts the node into plain Go values.
func (n *Node) Interface() interface{} {
	switch n.Kind {
	case yaml.DocumentNode:
		return n.Root().Interface()
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!bool":
			flag, _ := strconv.ParseBool(n.Value)
			return flag
		case "!!null":
			return nil
		case "!!float":
			f, _ := strconv.ParseFloat(n.Value, 64)
			return f
		case "!!int":
			i, _ := strconv.Atoi(n.Value)
			return i
		default:
			return n.Value
		}
	case yaml.MappingNode:
		aMap := make(map[string]interface{}, len(n.Content)/2)
		_ = n.Pairs(func(key string, value *Node) error {
			aMap[key] = value.Interface()
			return nil
		})
		return aMap
	case yaml.SequenceNode:
		aSlice := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			aSlice = append(aSlice, (*Node)(item).Interface())
		}
		return aSlice
	}
	return nil
}

// Put appends a key with a scalar, string slice, string map or node value,
// preserving insertion order. Empty values are skipped.
func (n *Node) Put(key string, value interface{}) {
	var valueNode *yaml.Node
	switch actual := value.(type) {
	case nil:
		return
	case *Node:
		valueNode = (*yaml.Node)(actual)
	case string:
		if actual == "" {
			return
		}
		valueNode = scalar(actual, "!!str")
	case bool:
		if !actual {
			return
		}
		valueNode = scalar(strconv.FormatBool(actual), "!!bool")
	case int:
		valueNode = scalar(strconv.Itoa(actual), "!!int")
	case []string:
		if len(actual) == 0 {
			return
		}
		seq := NewSequence()
		for _, item := range actual {
			seq.Content = append(seq.Content, scalar(item, "!!str"))
		}
		valueNode = (*yaml.Node)(seq)
	case map[string]string:
		if len(actual) == 0 {
			return
		}
		aMap := NewMap()
		for _, k := range sortedKeys(actual) {
			aMap.Put(k, actual[k])
		}
		valueNode = (*yaml.Node)(aMap)
	default:
		valueNode = scalar(fmt.Sprintf("%v", actual), "!!str")
	}
	n.Content = append(n.Content, scalar(key, "!!str"), valueNode)
}

// Append adds an item to a sequence node.
func (n *Node) Append(item *Node) {
	n.Content = append(n.Content, (*yaml.Node)(item))
}

// NewMap creates an empty mapping node.
func NewMap() *Node {
	return &Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// NewSequence creates an empty sequence node.
func NewSequence() *Node {
	return &Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

// NewScalar creates a string scalar node.
func NewScalar(value string) *Node {
	return (*Node)(scalar(value, "!!str"))
}

func scalar(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
