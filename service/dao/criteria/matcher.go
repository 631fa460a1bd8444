package criteria

import (
	"github.com/viant/flowbridge/service/dao"
)

// Fields exposes the filterable fields of an entity.
type Fields[T any] func(t *T) map[string]string

// Match reports whether fields satisfy every parameter. A parameter naming a
// field the entity does not expose never matches.
func Match(fields map[string]string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		actual, ok := fields[parameter.Name]
		if !ok {
			return false
		}
		switch expected := parameter.Value.(type) {
		case string:
			if actual != expected {
				return false
			}
		case []string:
			if !contains(expected, actual) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func contains(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}
