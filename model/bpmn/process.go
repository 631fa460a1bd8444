package bpmn

import (
	"fmt"

	"github.com/viant/flowbridge/model/cmmn"
)

// Process is a single executable process definition.
type Process struct {
	ID            string          `json:"id"`
	Name          string          `json:"name,omitempty"`
	Documentation string          `json:"documentation,omitempty"`
	Executable    bool            `json:"executable"`
	Version       int             `json:"version,omitempty"`
	Elements      []FlowNode      `json:"-"`
	Flows         []*SequenceFlow `json:"flows,omitempty"`
	// CaseFileItems declares the documents and folders the process shares
	// with case models.
	CaseFileItems []*cmmn.CaseFileItemDefinition `json:"caseFileItems,omitempty"`

	index map[string]FlowNode
}

// NewProcess creates an executable process.
func NewProcess(id, name string) *Process {
	return &Process{ID: id, Name: name, Executable: true}
}

// Add appends flow nodes.
func (p *Process) Add(nodes ...FlowNode) *Process {
	p.Elements = append(p.Elements, nodes...)
	p.index = nil
	return p
}

// Connect adds a sequence flow and records it on both ends.
func (p *Process) Connect(flow *SequenceFlow) *Process {
	p.Flows = append(p.Flows, flow)
	if source := p.Element(flow.SourceRef); source != nil {
		source.Node().Outgoing = appendUnique(source.Node().Outgoing, flow.ID)
	}
	if target := p.Element(flow.TargetRef); target != nil {
		target.Node().Incoming = appendUnique(target.Node().Incoming, flow.ID)
	}
	return p
}

// Link connects source to target with a generated flow id.
func (p *Process) Link(source, target string) *Process {
	return p.Connect(NewSequenceFlow(fmt.Sprintf("flow_%s_%s", source, target), source, target))
}

// Element returns a flow node by id.
func (p *Process) Element(id string) FlowNode {
	if p.index == nil || len(p.index) != len(p.Elements) {
		p.index = make(map[string]FlowNode, len(p.Elements))
		for _, element := range p.Elements {
			p.index[element.ElementID()] = element
		}
	}
	return p.index[id]
}

// Flow returns a sequence flow by id.
func (p *Process) Flow(id string) *SequenceFlow {
	for _, flow := range p.Flows {
		if flow.ID == id {
			return flow
		}
	}
	return nil
}

// StartEvents returns all start events.
func (p *Process) StartEvents() []*StartEvent {
	var result []*StartEvent
	for _, element := range p.Elements {
		if start, ok := element.(*StartEvent); ok {
			result = append(result, start)
		}
	}
	return result
}

// OutgoingFlows returns flows leaving the given node, in definition order.
func (p *Process) OutgoingFlows(nodeID string) []*SequenceFlow {
	var result []*SequenceFlow
	for _, flow := range p.Flows {
		if flow.SourceRef == nodeID {
			result = append(result, flow)
		}
	}
	return result
}

// Validate checks structural soundness. The result is empty for a valid
// process.
func (p *Process) Validate() []error {
	var issues []error
	if p.ID == "" {
		issues = append(issues, fmt.Errorf("process id is empty"))
	}
	seen := map[string]bool{}
	for _, element := range p.Elements {
		id := element.ElementID()
		if id == "" {
			issues = append(issues, fmt.Errorf("process %s: element without id", p.ID))
			continue
		}
		if seen[id] {
			issues = append(issues, fmt.Errorf("process %s: duplicate element id %s", p.ID, id))
		}
		seen[id] = true
	}
	if len(p.StartEvents()) == 0 {
		issues = append(issues, fmt.Errorf("process %s: no start event", p.ID))
	}
	for _, flow := range p.Flows {
		if seen[flow.ID] {
			issues = append(issues, fmt.Errorf("process %s: duplicate element id %s", p.ID, flow.ID))
		}
		seen[flow.ID] = true
		if p.Element(flow.SourceRef) == nil {
			issues = append(issues, fmt.Errorf("process %s: flow %s refers to unknown source %s", p.ID, flow.ID, flow.SourceRef))
		}
		if p.Element(flow.TargetRef) == nil {
			issues = append(issues, fmt.Errorf("process %s: flow %s refers to unknown target %s", p.ID, flow.ID, flow.TargetRef))
		}
	}
	items := map[string]bool{}
	for _, item := range p.CaseFileItems {
		switch {
		case item.ID == "":
			issues = append(issues, fmt.Errorf("process %s: case file item without id", p.ID))
		case items[item.ID]:
			issues = append(issues, fmt.Errorf("process %s: duplicate case file item %s", p.ID, item.ID))
		}
		items[item.ID] = true
		if !cmmn.IsKnown(item.Type()) {
			issues = append(issues, fmt.Errorf("process %s: case file item %s has unsupported type %s", p.ID, item.ID, item.Type()))
		}
	}
	return issues
}

func appendUnique(items []string, item string) []string {
	for _, candidate := range items {
		if candidate == item {
			return items
		}
	}
	return append(items, item)
}
