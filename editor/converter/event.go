package converter

import (
	"github.com/tidwall/gjson"
	"github.com/viant/flowbridge/model/bpmn"
)

// StartEventConverter converts none start events.
type StartEventConverter struct{}

func (c *StartEventConverter) FillTypes(registry *Registry) {
	registry.RegisterStencil(StencilStartNoneEvent, c)
	registry.RegisterType(&bpmn.StartEvent{}, c)
}

func (c *StartEventConverter) StencilID(bpmn.Element) string { return StencilStartNoneEvent }

func (c *StartEventConverter) ElementToJSON(properties Node, element bpmn.Element, _ *Context) error {
	event := element.(*bpmn.StartEvent)
	properties.Put(PropertyInitiator, event.Initiator)
	properties.Put(PropertyFormKey, event.FormKey)
	return nil
}

func (c *StartEventConverter) JSONToElement(shape gjson.Result, _ *Context) (bpmn.Element, error) {
	properties := shape.Get("properties")
	return &bpmn.StartEvent{
		Initiator: text(properties, PropertyInitiator),
		FormKey:   text(properties, PropertyFormKey),
	}, nil
}

// EndEventConverter converts none end events.
type EndEventConverter struct{}

func (c *EndEventConverter) FillTypes(registry *Registry) {
	registry.RegisterStencil(StencilEndNoneEvent, c)
	registry.RegisterType(&bpmn.EndEvent{}, c)
}

func (c *EndEventConverter) StencilID(bpmn.Element) string { return StencilEndNoneEvent }

func (c *EndEventConverter) ElementToJSON(Node, bpmn.Element, *Context) error { return nil }

func (c *EndEventConverter) JSONToElement(gjson.Result, *Context) (bpmn.Element, error) {
	return &bpmn.EndEvent{}, nil
}
