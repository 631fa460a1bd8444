package converter

import (
	"github.com/tidwall/gjson"
	"github.com/viant/flowbridge/model/bpmn"
)

// ReceiveTaskConverter converts receive tasks. A task with a non-empty
// eventType extension element is an event-registry receive task.
type ReceiveTaskConverter struct{}

func (c *ReceiveTaskConverter) FillTypes(registry *Registry) {
	c.FillJSONTypes(registry)
	c.FillModelTypes(registry)
}

// FillJSONTypes registers the stencils read by the converter.
func (c *ReceiveTaskConverter) FillJSONTypes(registry *Registry) {
	registry.RegisterStencil(StencilReceiveTask, c)
	registry.RegisterStencil(StencilReceiveEventTask, c)
}

// FillModelTypes registers the model type written by the converter.
func (c *ReceiveTaskConverter) FillModelTypes(registry *Registry) {
	registry.RegisterType(&bpmn.ReceiveTask{}, c)
}

func (c *ReceiveTaskConverter) StencilID(element bpmn.Element) string {
	extensions := element.Base().Extensions(bpmn.ExtensionEventType)
	if len(extensions) > 0 && extensions[0].ElementText != "" {
		return StencilReceiveEventTask
	}
	return StencilReceiveTask
}

func (c *ReceiveTaskConverter) ElementToJSON(properties Node, element bpmn.Element, _ *Context) error {
	writeEventRegistry(properties, element.Base())
	return nil
}

func (c *ReceiveTaskConverter) JSONToElement(shape gjson.Result, _ *Context) (bpmn.Element, error) {
	task := &bpmn.ReceiveTask{}
	if stencilOf(shape) == StencilReceiveEventTask {
		readEventRegistry(shape.Get("properties"), &task.BaseElement)
	}
	return task, nil
}
