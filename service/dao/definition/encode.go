package definition

import (
	"fmt"

	"github.com/viant/flowbridge/internal/yml"
	"github.com/viant/flowbridge/model/bpmn"
	"gopkg.in/yaml.v3"
)

// EncodeYAML renders a process in the format accepted by DecodeYAML.
func (s *Service) EncodeYAML(process *bpmn.Process) ([]byte, error) {
	root := yml.NewMap()
	root.Put("id", process.ID)
	root.Put("name", process.Name)
	root.Put("documentation", process.Documentation)
	if !process.Executable {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "executable"},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "false"})
	}
	elements := yml.NewMap()
	for _, element := range process.Elements {
		node, err := encodeElement(element)
		if err != nil {
			return nil, err
		}
		elements.Put(element.ElementID(), node)
	}
	if len(process.CaseFileItems) > 0 {
		items := yml.NewSequence()
		for _, item := range process.CaseFileItems {
			node := yml.NewMap()
			node.Put("id", item.ID)
			node.Put("name", item.Name)
			node.Put("definitionType", item.DefinitionType)
			items.Append(node)
		}
		root.Put("caseFileItems", items)
	}
	root.Put("elements", elements)
	flows := yml.NewSequence()
	for _, flow := range process.Flows {
		item := yml.NewMap()
		item.Put("id", flow.ID)
		item.Put("from", flow.SourceRef)
		item.Put("to", flow.TargetRef)
		item.Put("name", flow.Name)
		item.Put("condition", flow.ConditionExpression)
		flows.Append(item)
	}
	if len(flows.Content) > 0 {
		root.Put("flows", flows)
	}
	return yaml.Marshal((*yaml.Node)(root))
}

func encodeElement(element bpmn.FlowNode) (*yml.Node, error) {
	node := yml.NewMap()
	activity := element.Node()
	switch actual := element.(type) {
	case *bpmn.StartEvent:
		node.Put("type", TypeStartEvent)
		node.Put("initiator", actual.Initiator)
		node.Put("formKey", actual.FormKey)
	case *bpmn.EndEvent:
		node.Put("type", TypeEndEvent)
	case *bpmn.UserTask:
		node.Put("type", TypeUserTask)
		node.Put("assignee", actual.Assignee)
		node.Put("candidateGroups", actual.CandidateGroups)
		node.Put("formKey", actual.FormKey)
		node.Put("priority", actual.Priority)
	case *bpmn.ReceiveTask:
		node.Put("type", TypeReceiveTask)
		for _, name := range []string{
			bpmn.ExtensionEventType, bpmn.ExtensionEventName,
			bpmn.ExtensionChannelKey, bpmn.ExtensionChannelName,
			bpmn.ExtensionChannelType, bpmn.ExtensionChannelDestination,
			bpmn.ExtensionKeyDetectionType, bpmn.ExtensionKeyDetectionValue,
		} {
			node.Put(name, actual.ExtensionText(name))
		}
		for _, name := range []string{bpmn.ExtensionEventInParameter, bpmn.ExtensionEventOutParameter, bpmn.ExtensionEventCorrelationParameter} {
			sourceKey, targetKey := parameterKeys(name)
			params := map[string]string{}
			for _, extension := range actual.Extensions(name) {
				params[extension.Attribute(sourceKey)] = extension.Attribute(targetKey)
			}
			node.Put(name+"s", params)
		}
	case *bpmn.ServiceTask:
		node.Put("type", TypeServiceTask)
		node.Put("delegate", actual.Type)
		node.Put("implementation", actual.Implementation)
		node.Put("resultVariable", actual.ResultVariable)
		node.Put("fields", actual.Fields)
	default:
		return nil, fmt.Errorf("element %s: unsupported type %T", element.ElementID(), element)
	}
	node.Put("name", activity.Name)
	node.Put("documentation", activity.Documentation)
	node.Put("async", activity.Async)
	node.Put("exclusive", activity.Exclusive)
	return node, nil
}
