package converter

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/viant/flowbridge/model/bpmn"
)

// SequenceFlowConverter converts sequence flows. Source references are
// resolved from the outgoing lists of other shapes, targets from the shape
// target.
type SequenceFlowConverter struct{}

func (c *SequenceFlowConverter) FillTypes(registry *Registry) {
	registry.RegisterStencil(StencilSequenceFlow, c)
	registry.RegisterType(&bpmn.SequenceFlow{}, c)
}

func (c *SequenceFlowConverter) StencilID(bpmn.Element) string { return StencilSequenceFlow }

func (c *SequenceFlowConverter) ElementToJSON(properties Node, element bpmn.Element, _ *Context) error {
	flow := element.(*bpmn.SequenceFlow)
	properties.Put(PropertyName, flow.Name)
	properties.Put(PropertyCondition, flow.ConditionExpression)
	return nil
}

func (c *SequenceFlowConverter) JSONToElement(shape gjson.Result, ctx *Context) (bpmn.Element, error) {
	resourceID := shape.Get("resourceId").String()
	flow := &bpmn.SequenceFlow{
		Name:                text(shape.Get("properties"), PropertyName),
		ConditionExpression: text(shape.Get("properties"), PropertyCondition),
	}
	source, ok := ctx.sources[resourceID]
	if !ok {
		return nil, fmt.Errorf("sequence flow %s: no shape lists it as outgoing", resourceID)
	}
	target := shape.Get("target.resourceId").String()
	if target == "" {
		target = shape.Get("outgoing.0.resourceId").String()
	}
	if _, ok := ctx.shapes[target]; !ok {
		return nil, fmt.Errorf("sequence flow %s: unknown target %q", resourceID, target)
	}
	flow.SourceRef = ctx.ElementID(source)
	flow.TargetRef = ctx.ElementID(target)
	return flow, nil
}
