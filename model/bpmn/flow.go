package bpmn

// SequenceFlow connects two flow nodes.
type SequenceFlow struct {
	BaseElement         `yaml:",inline"`
	Name                string `json:"name,omitempty" yaml:"name,omitempty"`
	SourceRef           string `json:"sourceRef" yaml:"sourceRef"`
	TargetRef           string `json:"targetRef" yaml:"targetRef"`
	ConditionExpression string `json:"conditionExpression,omitempty" yaml:"conditionExpression,omitempty"`
}

// NewSequenceFlow creates a flow between source and target.
func NewSequenceFlow(id, source, target string) *SequenceFlow {
	return &SequenceFlow{BaseElement: BaseElement{ID: id}, SourceRef: source, TargetRef: target}
}
