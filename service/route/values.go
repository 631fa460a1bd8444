package route

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Values is an insertion ordered name/value store used for exchange
// properties and message headers. Setting an existing name keeps its
// position and replaces its value.
type Values struct {
	names  []string
	values map[string]interface{}
}

// NewValues creates an empty store.
func NewValues() *Values {
	return &Values{values: map[string]interface{}{}}
}

// Set stores value under name.
func (v *Values) Set(name string, value interface{}) {
	if v.values == nil {
		v.values = map[string]interface{}{}
	}
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}
	v.values[name] = value
}

// Get returns the value stored under name.
func (v *Values) Get(name string) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	value, ok := v.values[name]
	return value, ok
}

// Delete removes name.
func (v *Values) Delete(name string) {
	if _, ok := v.values[name]; !ok {
		return
	}
	delete(v.values, name)
	for i, candidate := range v.names {
		if candidate == name {
			v.names = append(v.names[:i], v.names[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.names)
}

// Names returns the names in insertion order.
func (v *Values) Names() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.names...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (v *Values) Range(fn func(name string, value interface{}) bool) {
	if v == nil {
		return
	}
	for _, name := range v.names {
		if !fn(name, v.values[name]) {
			return
		}
	}
}

// Map returns the entries as a plain map.
func (v *Values) Map() map[string]interface{} {
	ret := make(map[string]interface{}, v.Len())
	v.Range(func(name string, value interface{}) bool {
		ret[name] = value
		return true
	})
	return ret
}

// Clone returns a shallow copy.
func (v *Values) Clone() *Values {
	ret := NewValues()
	v.Range(func(name string, value interface{}) bool {
		ret.Set(name, value)
		return true
	})
	return ret
}

// MarshalJSON writes an object whose keys follow insertion order.
func (v *Values) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	var err error
	v.Range(func(name string, value interface{}) bool {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		var data []byte
		if data, err = json.Marshal(name); err != nil {
			return false
		}
		buf.Write(data)
		buf.WriteByte(':')
		if data, err = json.Marshal(value); err != nil {
			err = fmt.Errorf("failed to encode %s: %w", name, err)
			return false
		}
		buf.Write(data)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping its key order.
func (v *Values) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid values document")
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return fmt.Errorf("values document must be an object")
	}
	v.names = nil
	v.values = map[string]interface{}{}
	parsed.ForEach(func(key, value gjson.Result) bool {
		v.Set(key.String(), value.Value())
		return true
	})
	return nil
}
