package execution

import (
	"fmt"
	"sort"
)

// Variables holds named values attached to a process instance or an
// execution. Key uniqueness is the only invariant: a later Set overwrites.
type Variables map[string]interface{}

// NewVariables creates variables from the supplied maps; later maps win.
func NewVariables(sources ...map[string]interface{}) Variables {
	ret := Variables{}
	for _, source := range sources {
		ret.Merge(source)
	}
	return ret
}

// Get returns a value and whether it was present.
func (v Variables) Get(name string) (interface{}, bool) {
	value, ok := v[name]
	return value, ok
}

// GetString returns the value formatted as a string when present.
func (v Variables) GetString(name string) (string, bool) {
	value, ok := v[name]
	if !ok || value == nil {
		return "", ok
	}
	if text, ok := value.(string); ok {
		return text, true
	}
	return fmt.Sprintf("%v", value), true
}

// Merge copies all pairs from source, overwriting existing names.
func (v Variables) Merge(source map[string]interface{}) {
	for name, value := range source {
		v[name] = value
	}
}

// Clone returns a shallow copy.
func (v Variables) Clone() Variables {
	if v == nil {
		return Variables{}
	}
	ret := make(Variables, len(v))
	for name, value := range v {
		ret[name] = value
	}
	return ret
}

// Names returns the sorted variable names.
func (v Variables) Names() []string {
	ret := make([]string, 0, len(v))
	for name := range v {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
