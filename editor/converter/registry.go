package converter

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/viant/flowbridge/model/bpmn"
)

// ElementConverter converts one element kind in both directions. Common
// attributes (id, name, documentation, async flags, bounds) are handled by
// Converter; implementations deal with what is specific to their kind.
type ElementConverter interface {
	// StencilID returns the stencil element is written as.
	StencilID(element bpmn.Element) string
	// ElementToJSON writes the element specific shape properties.
	ElementToJSON(properties Node, element bpmn.Element, ctx *Context) error
	// JSONToElement creates the element described by shape.
	JSONToElement(shape gjson.Result, ctx *Context) (bpmn.Element, error)
}

// TypeFiller registers a converter for its stencils and model type.
type TypeFiller interface {
	FillTypes(registry *Registry)
}

// Registry maps stencil ids and model types to converters.
type Registry struct {
	stencils map[string]ElementConverter
	types    map[reflect.Type]ElementConverter
}

// NewRegistry creates a registry with every built-in converter.
func NewRegistry() *Registry {
	registry := &Registry{
		stencils: map[string]ElementConverter{},
		types:    map[reflect.Type]ElementConverter{},
	}
	for _, filler := range []TypeFiller{
		&StartEventConverter{},
		&EndEventConverter{},
		&UserTaskConverter{},
		&ReceiveTaskConverter{},
		&ServiceTaskConverter{},
		&SequenceFlowConverter{},
	} {
		filler.FillTypes(registry)
	}
	return registry
}

// RegisterStencil binds a stencil id to converter.
func (r *Registry) RegisterStencil(stencilID string, converter ElementConverter) {
	r.stencils[stencilID] = converter
}

// RegisterType binds the dynamic type of element to converter.
func (r *Registry) RegisterType(element bpmn.Element, converter ElementConverter) {
	r.types[reflect.TypeOf(element)] = converter
}

// ForStencil returns the converter reading stencilID.
func (r *Registry) ForStencil(stencilID string) (ElementConverter, error) {
	converter, ok := r.stencils[stencilID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStencil, stencilID)
	}
	return converter, nil
}

// ForElement returns the converter writing element.
func (r *Registry) ForElement(element bpmn.Element) (ElementConverter, error) {
	converter, ok := r.types[reflect.TypeOf(element)]
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnknownElement, element)
	}
	return converter, nil
}

// Stencils returns the registered stencil ids.
func (r *Registry) Stencils() []string {
	result := make([]string, 0, len(r.stencils))
	for id := range r.stencils {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}
