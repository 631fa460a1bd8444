package converter

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Node is a JSON object being written.
type Node map[string]interface{}

// Put sets name unless value is an empty string or nil.
func (n Node) Put(name string, value interface{}) Node {
	switch actual := value.(type) {
	case nil:
		return n
	case string:
		if actual == "" {
			return n
		}
	}
	n[name] = value
	return n
}

// Object returns the child object under name, creating it when missing.
func (n Node) Object(name string) Node {
	if child, ok := n[name].(Node); ok {
		return child
	}
	child := Node{}
	n[name] = child
	return child
}

func resourceRef(id string) Node {
	return Node{"resourceId": id}
}

func point(x, y float64) Node {
	return Node{"x": x, "y": y}
}

// text reads a string property; a missing or null value is empty.
func text(properties gjson.Result, name string) string {
	value := properties.Get(name)
	if !value.Exists() || value.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(value.String())
}

// flag reads a boolean property written either as a bool or a string.
func flag(properties gjson.Result, name string) bool {
	value := properties.Get(name)
	return value.Exists() && value.Bool()
}

// items returns the array under path of a property that the editor stores
// either as an object wrapping the array or as the array itself.
func items(properties gjson.Result, name, wrapper string) []gjson.Result {
	value := properties.Get(name)
	if value.IsObject() {
		value = value.Get(wrapper)
	}
	if !value.IsArray() {
		return nil
	}
	return value.Array()
}
