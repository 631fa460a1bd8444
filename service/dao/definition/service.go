// Package definition decodes and encodes YAML process definitions.
//
// A definition lists its elements as a mapping keyed by element id. Flows
// are either "source -> target" strings or mappings with from/to/id; when
// flows are omitted the elements are chained in declaration order.
//
//	id: order
//	name: Order handling
//	elements:
//	  start: {type: startEvent}
//	  wait:  {type: receiveTask, eventType: orderPaid}
//	  end:   {type: endEvent}
package definition

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/flowbridge/internal/env"
	"github.com/viant/flowbridge/internal/yml"
	"github.com/viant/flowbridge/model/bpmn"
	"github.com/viant/flowbridge/model/cmmn"
	"gopkg.in/yaml.v3"
)

// Element type names.
const (
	TypeStartEvent  = "startEvent"
	TypeEndEvent    = "endEvent"
	TypeUserTask    = "userTask"
	TypeReceiveTask = "receiveTask"
	TypeServiceTask = "serviceTask"
)

type Service struct {
	fs      afs.Service
	options []storage.Option
	ext     string
}

// DecodeYAML decodes a process definition.
func (s *Service) DecodeYAML(encoded []byte) (*bpmn.Process, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(encoded, &node); err != nil {
		return nil, err
	}
	return s.ParseProcess((*yml.Node)(&node))
}

// Load loads a process definition from URL.
func (s *Service) Load(ctx context.Context, URL string) (*bpmn.Process, error) {
	if path.Ext(URL) == "" {
		URL += s.ext
	}
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load definition from %s: %w", URL, err)
	}
	process, err := s.DecodeYAML([]byte(env.Expand(string(data))))
	if err != nil {
		return nil, fmt.Errorf("failed to decode definition %s: %w", URL, err)
	}
	if process.ID == "" {
		process.ID = strings.TrimSuffix(path.Base(URL), path.Ext(URL))
	}
	return process, nil
}

// LoadAll loads every definition found directly under baseURL.
func (s *Service) LoadAll(ctx context.Context, baseURL string) ([]*bpmn.Process, error) {
	objects, err := s.fs.List(ctx, baseURL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions in %s: %w", baseURL, err)
	}
	var result []*bpmn.Process
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		switch path.Ext(object.Name()) {
		case ".yaml", ".yml":
		default:
			continue
		}
		process, err := s.Load(ctx, object.URL())
		if err != nil {
			return nil, err
		}
		result = append(result, process)
	}
	return result, nil
}

// ParseProcess builds a process from a YAML node.
func (s *Service) ParseProcess(node *yml.Node) (*bpmn.Process, error) {
	root := node.Root()
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: definition must be a mapping", root.Line)
	}
	process := bpmn.NewProcess("", "")
	err := root.Pairs(func(key string, value *yml.Node) error {
		var err error
		switch strings.ToLower(key) {
		case "id":
			process.ID, err = value.String()
		case "name":
			process.Name, err = value.String()
		case "documentation":
			process.Documentation, err = value.String()
		case "executable":
			process.Executable, err = value.Bool()
		case "casefileitems":
			process.CaseFileItems, err = parseCaseFileItems(value)
		case "elements", "flows":
		default:
			return fmt.Errorf("line %d: unsupported definition key %q", value.Line, key)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	elements := root.Lookup("elements")
	if elements == nil {
		return nil, fmt.Errorf("definition %s: elements are required", process.ID)
	}
	if err = s.parseElements(process, elements); err != nil {
		return nil, err
	}
	if flows := root.Lookup("flows"); flows != nil {
		err = s.parseFlows(process, flows)
	} else {
		chain(process)
	}
	if err != nil {
		return nil, err
	}
	return process, nil
}

func parseCaseFileItems(node *yml.Node) ([]*cmmn.CaseFileItemDefinition, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: caseFileItems must be a sequence", node.Line)
	}
	var items []*cmmn.CaseFileItemDefinition
	err := node.Items(func(_ int, value *yml.Node) error {
		fields, err := value.StringMap()
		if err != nil {
			return err
		}
		item := &cmmn.CaseFileItemDefinition{}
		for key, text := range fields {
			switch strings.ToLower(key) {
			case "id":
				item.ID = text
			case "name":
				item.Name = text
			case "definitiontype", "type":
				item.DefinitionType = text
			default:
				return fmt.Errorf("line %d: unsupported case file item key %q", value.Line, key)
			}
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (s *Service) parseElements(process *bpmn.Process, node *yml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		return node.Pairs(func(id string, value *yml.Node) error {
			element, err := parseElement(id, value)
			if err != nil {
				return err
			}
			process.Add(element)
			return nil
		})
	case yaml.SequenceNode:
		return node.Items(func(_ int, item *yml.Node) error {
			idNode := item.Lookup("id")
			if idNode == nil {
				return fmt.Errorf("line %d: element id is required", item.Line)
			}
			element, err := parseElement(idNode.Value, item)
			if err != nil {
				return err
			}
			process.Add(element)
			return nil
		})
	}
	return fmt.Errorf("line %d: elements must be a mapping or a sequence", node.Line)
}

func parseElement(id string, node *yml.Node) (bpmn.FlowNode, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: element %s must be a mapping", node.Line, id)
	}
	typeNode := node.Lookup("type")
	if typeNode == nil {
		return nil, fmt.Errorf("line %d: element %s has no type", node.Line, id)
	}
	var element bpmn.FlowNode
	switch typeNode.Value {
	case TypeStartEvent:
		element = bpmn.NewStartEvent(id)
	case TypeEndEvent:
		element = bpmn.NewEndEvent(id)
	case TypeUserTask:
		element = bpmn.NewUserTask(id, "")
	case TypeReceiveTask:
		element = bpmn.NewReceiveTask(id, "")
	case TypeServiceTask:
		element = bpmn.NewServiceTask(id, "", "")
	default:
		return nil, fmt.Errorf("line %d: element %s has unsupported type %q", typeNode.Line, id, typeNode.Value)
	}
	err := node.Pairs(func(key string, value *yml.Node) error {
		return setAttribute(element, key, value)
	})
	if err != nil {
		return nil, fmt.Errorf("element %s: %w", id, err)
	}
	return element, nil
}

func setAttribute(element bpmn.FlowNode, key string, value *yml.Node) (err error) {
	activity := element.Node()
	switch key {
	case "type", "id":
		return nil
	case "name":
		activity.Name, err = value.String()
		return err
	case "documentation":
		activity.Documentation, err = value.String()
		return err
	case "async":
		activity.Async, err = value.Bool()
		return err
	case "exclusive":
		activity.Exclusive, err = value.Bool()
		return err
	}
	switch actual := element.(type) {
	case *bpmn.StartEvent:
		switch key {
		case "initiator":
			actual.Initiator, err = value.String()
			return err
		case "formKey":
			actual.FormKey, err = value.String()
			return err
		}
	case *bpmn.UserTask:
		switch key {
		case "assignee":
			actual.Assignee, err = value.String()
			return err
		case "candidateGroups":
			actual.CandidateGroups, err = value.Strings()
			return err
		case "formKey":
			actual.FormKey, err = value.String()
			return err
		case "priority":
			actual.Priority, err = value.String()
			return err
		}
	case *bpmn.ReceiveTask:
		if isEventExtension(key) {
			text, err := value.String()
			if err != nil {
				return err
			}
			actual.AddExtensionElement(bpmn.NewExtensionElement(key, text))
			return nil
		}
		switch key {
		case "eventOutParameters", "eventCorrelationParameters", "eventInParameters":
			return addParameters(actual.Base(), strings.TrimSuffix(key, "s"), value)
		}
	case *bpmn.ServiceTask:
		switch key {
		case "delegate", "delegateType":
			actual.Type, err = value.String()
			return err
		case "implementation":
			actual.Implementation, err = value.String()
			return err
		case "resultVariable":
			actual.ResultVariable, err = value.String()
			return err
		case "fields":
			actual.Fields, err = value.StringMap()
			return err
		}
	}
	return fmt.Errorf("line %d: unsupported attribute %q", value.Line, key)
}

func isEventExtension(key string) bool {
	switch key {
	case bpmn.ExtensionEventType, bpmn.ExtensionEventName,
		bpmn.ExtensionChannelKey, bpmn.ExtensionChannelName,
		bpmn.ExtensionChannelType, bpmn.ExtensionChannelDestination,
		bpmn.ExtensionKeyDetectionType, bpmn.ExtensionKeyDetectionValue:
		return true
	}
	return false
}

// addParameters maps {source: target} pairs to parameter extension elements.
func addParameters(base *bpmn.BaseElement, name string, node *yml.Node) error {
	sourceKey, targetKey := parameterKeys(name)
	return node.Pairs(func(source string, value *yml.Node) error {
		target, err := value.String()
		if err != nil {
			return err
		}
		base.AddExtensionElement(bpmn.NewExtensionElement(name, "").
			WithAttribute(sourceKey, source).
			WithAttribute(targetKey, target))
		return nil
	})
}

func parameterKeys(name string) (string, string) {
	if name == bpmn.ExtensionEventCorrelationParameter {
		return "name", "value"
	}
	return "source", "target"
}

func (s *Service) parseFlows(process *bpmn.Process, node *yml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: flows must be a sequence", node.Line)
	}
	return node.Items(func(_ int, item *yml.Node) error {
		if item.IsScalar() {
			parts := strings.Split(item.Value, "->")
			if len(parts) != 2 {
				return fmt.Errorf("line %d: invalid flow %q, expected source -> target", item.Line, item.Value)
			}
			process.Link(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
			return nil
		}
		var from, to, id, name, condition string
		err := item.Pairs(func(key string, value *yml.Node) (err error) {
			switch key {
			case "from", "source", "sourceRef":
				from, err = value.String()
			case "to", "target", "targetRef":
				to, err = value.String()
			case "id":
				id, err = value.String()
			case "name":
				name, err = value.String()
			case "condition":
				condition, err = value.String()
			default:
				err = fmt.Errorf("line %d: unsupported flow attribute %q", value.Line, key)
			}
			return err
		})
		if err != nil {
			return err
		}
		if from == "" || to == "" {
			return fmt.Errorf("line %d: flow requires from and to", item.Line)
		}
		if id == "" {
			id = fmt.Sprintf("flow_%s_%s", from, to)
		}
		flow := bpmn.NewSequenceFlow(id, from, to)
		flow.Name = name
		flow.ConditionExpression = condition
		process.Connect(flow)
		return nil
	})
}

func chain(process *bpmn.Process) {
	for i := 1; i < len(process.Elements); i++ {
		process.Link(process.Elements[i-1].ElementID(), process.Elements[i].ElementID())
	}
}

// New creates a definition service.
func New(opts ...Option) *Service {
	ret := &Service{fs: afs.New(), ext: ".yaml"}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
