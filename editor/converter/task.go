package converter

import (
	"sort"

	"github.com/tidwall/gjson"
	"github.com/viant/flowbridge/model/bpmn"
)

// UserTaskConverter converts user tasks and their static assignment.
type UserTaskConverter struct{}

func (c *UserTaskConverter) FillTypes(registry *Registry) {
	registry.RegisterStencil(StencilUserTask, c)
	registry.RegisterType(&bpmn.UserTask{}, c)
}

func (c *UserTaskConverter) StencilID(bpmn.Element) string { return StencilUserTask }

func (c *UserTaskConverter) ElementToJSON(properties Node, element bpmn.Element, _ *Context) error {
	task := element.(*bpmn.UserTask)
	properties.Put(PropertyFormKey, task.FormKey)
	properties.Put(PropertyPriority, task.Priority)
	if task.Assignee == "" && len(task.CandidateGroups) == 0 {
		return nil
	}
	assignment := Node{"type": "static"}
	assignment.Put("assignee", task.Assignee)
	if len(task.CandidateGroups) > 0 {
		groups := make([]Node, 0, len(task.CandidateGroups))
		for _, group := range task.CandidateGroups {
			groups = append(groups, Node{"value": group})
		}
		assignment["candidateGroups"] = groups
	}
	properties.Put(PropertyAssignment, Node{"assignment": assignment})
	return nil
}

func (c *UserTaskConverter) JSONToElement(shape gjson.Result, _ *Context) (bpmn.Element, error) {
	properties := shape.Get("properties")
	task := &bpmn.UserTask{
		FormKey:  text(properties, PropertyFormKey),
		Priority: text(properties, PropertyPriority),
	}
	assignment := properties.Get(PropertyAssignment + ".assignment")
	task.Assignee = text(assignment, "assignee")
	for _, group := range assignment.Get("candidateGroups").Array() {
		if value := text(group, "value"); value != "" {
			task.CandidateGroups = append(task.CandidateGroups, value)
		}
	}
	return task, nil
}

// ServiceTaskConverter converts service tasks with their delegate type and
// string fields.
type ServiceTaskConverter struct{}

func (c *ServiceTaskConverter) FillTypes(registry *Registry) {
	registry.RegisterStencil(StencilServiceTask, c)
	registry.RegisterType(&bpmn.ServiceTask{}, c)
}

func (c *ServiceTaskConverter) StencilID(bpmn.Element) string { return StencilServiceTask }

func (c *ServiceTaskConverter) ElementToJSON(properties Node, element bpmn.Element, _ *Context) error {
	task := element.(*bpmn.ServiceTask)
	properties.Put(PropertyServiceTaskType, task.Type)
	properties.Put(PropertyServiceTaskDelegate, task.Implementation)
	properties.Put(PropertyServiceTaskResultVariable, task.ResultVariable)
	if len(task.Fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(task.Fields))
	for name := range task.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]Node, 0, len(names))
	for _, name := range names {
		fields = append(fields, Node{"name": name, "stringValue": task.Fields[name]})
	}
	properties.Put(PropertyServiceTaskFields, Node{"fields": fields})
	return nil
}

func (c *ServiceTaskConverter) JSONToElement(shape gjson.Result, _ *Context) (bpmn.Element, error) {
	properties := shape.Get("properties")
	task := &bpmn.ServiceTask{
		Type:           text(properties, PropertyServiceTaskType),
		Implementation: text(properties, PropertyServiceTaskDelegate),
		ResultVariable: text(properties, PropertyServiceTaskResultVariable),
	}
	for _, field := range items(properties, PropertyServiceTaskFields, "fields") {
		name := text(field, "name")
		if name == "" {
			continue
		}
		if task.Fields == nil {
			task.Fields = map[string]string{}
		}
		task.Fields[name] = text(field, "stringValue")
	}
	return task, nil
}
