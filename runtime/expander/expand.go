package expander

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/viant/structology/visitor"
)

var (
	pureVariable = regexp.MustCompile(`^\$[a-zA-Z_][a-zA-Z0-9_\.\[\]]*$`)
	bracedRef    = regexp.MustCompile(`\$\{([^{}]+)\}`)
	plainRef     = regexp.MustCompile(`\$([a-zA-Z_][a-zA-Z0-9_.]*)`)
)

// Value expands a single string. A string holding one reference only
// (${order.total} or $order.total) yields the referenced value unchanged;
// otherwise references are interpolated as text.
//
// An unresolved ${...} reference expands to an empty string, an unresolved
// $name reference is kept as is.
func Value(value string, from map[string]interface{}) interface{} {
	if !hasExpr(value) {
		return value
	}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") && !strings.Contains(value[2:len(value)-1], "${") {
		if !strings.ContainsAny(value[2:len(value)-1], "{}") {
			resolved := Lookup(strings.TrimSpace(value[2:len(value)-1]), from)
			if resolved == nil {
				return ""
			}
			return resolved
		}
	}
	if pureVariable.MatchString(value) {
		if resolved := Lookup(value[1:], from); resolved != nil {
			return resolved
		}
		return value
	}
	result := bracedRef.ReplaceAllStringFunc(value, func(match string) string {
		return stringify(Lookup(strings.TrimSpace(match[2:len(match)-1]), from))
	})
	return plainRef.ReplaceAllStringFunc(result, func(match string) string {
		resolved := Lookup(match[1:], from)
		if resolved == nil {
			return match
		}
		switch reflect.ValueOf(resolved).Kind() {
		case reflect.Map, reflect.Slice:
			return match
		}
		return stringify(resolved)
	})
}

// Text expands value and formats the result as a string.
func Text(value string, from map[string]interface{}) string {
	return stringify(Value(value, from))
}

// Expand recursively traverses maps and slices, expanding every string
// holding a reference.
func Expand(value interface{}, from map[string]interface{}) (interface{}, error) {
	switch actual := value.(type) {
	case map[string]interface{}:
		expanded := make(map[string]interface{}, len(actual))
		visit := visitor.MapVisitorOf[string, interface{}](actual)
		err := visit(func(key string, element interface{}) (bool, error) {
			if hasExpr(key) {
				text, ok := Value(key, from).(string)
				if !ok {
					return true, nil
				}
				key = text
			}
			item, err := Expand(element, from)
			if err != nil {
				return false, err
			}
			expanded[key] = item
			return true, nil
		})
		return expanded, err
	case map[string]string:
		return Fields(actual, from)
	case []interface{}:
		expanded := make([]interface{}, len(actual))
		for i, item := range actual {
			var err error
			if expanded[i], err = Expand(item, from); err != nil {
				return nil, err
			}
		}
		return expanded, nil
	case string:
		return Value(actual, from), nil
	}
	return value, nil
}

// Fields expands string fields into typed values.
func Fields(fields map[string]string, from map[string]interface{}) (map[string]interface{}, error) {
	expanded := make(map[string]interface{}, len(fields))
	visit := visitor.MapVisitorOf[string, string](fields)
	err := visit(func(key string, field string) (bool, error) {
		expanded[key] = Value(field, from)
		return true, nil
	})
	return expanded, err
}

// Lookup resolves a dotted path with optional [index] segments, for example
// order.items[0].sku. It returns nil when any segment is missing.
func Lookup(path string, from map[string]interface{}) interface{} {
	if path == "" {
		return nil
	}
	end := strings.IndexAny(path, ".[")
	if end == -1 {
		end = len(path)
	}
	current, ok := from[path[:end]]
	if !ok {
		return nil
	}
	path = path[end:]
	for path != "" && current != nil {
		switch path[0] {
		case '.':
			path = path[1:]
			end = strings.IndexAny(path, ".[")
			if end == -1 {
				end = len(path)
			}
			current = property(current, path[:end])
			path = path[end:]
		case '[':
			closing := strings.IndexByte(path, ']')
			if closing == -1 {
				return nil
			}
			index, err := strconv.Atoi(path[1:closing])
			if err != nil {
				return nil
			}
			current = element(current, index)
			path = path[closing+1:]
		default:
			return nil
		}
	}
	return current
}

// property reads key from a string keyed map or an exported struct field.
func property(source interface{}, name string) interface{} {
	if aMap, ok := source.(map[string]interface{}); ok {
		if value, ok := aMap[name]; ok {
			return value
		}
		for key, value := range aMap {
			if strings.EqualFold(key, name) {
				return value
			}
		}
		return nil
	}
	value := reflect.ValueOf(source)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	switch value.Kind() {
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return nil
		}
		item := value.MapIndex(reflect.ValueOf(name).Convert(value.Type().Key()))
		if !item.IsValid() || !item.CanInterface() {
			return nil
		}
		return item.Interface()
	case reflect.Struct:
		field := value.FieldByNameFunc(func(candidate string) bool { return strings.EqualFold(candidate, name) })
		if !field.IsValid() || !field.CanInterface() {
			return nil
		}
		return field.Interface()
	}
	return nil
}

func element(source interface{}, index int) interface{} {
	value := reflect.ValueOf(source)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Slice && value.Kind() != reflect.Array {
		return nil
	}
	if index < 0 || index >= value.Len() {
		return nil
	}
	item := value.Index(index)
	if !item.CanInterface() {
		return nil
	}
	return item.Interface()
}

func hasExpr(value string) bool {
	return strings.Contains(value, "$")
}

func stringify(value interface{}) string {
	if value == nil {
		return ""
	}
	switch actual := value.(type) {
	case string:
		return actual
	case float64:
		return strconv.FormatFloat(actual, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(actual), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(actual)
	}
	return fmt.Sprintf("%v", value)
}
