package bpmn

type (
	// FlowNode is an element tokens can rest on.
	FlowNode interface {
		Element
		ElementName() string
		Node() *Activity
	}

	// Activity carries the state every flow node shares.
	Activity struct {
		BaseElement `yaml:",inline"`
		Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
		Async       bool     `json:"async,omitempty" yaml:"async,omitempty"`
		Exclusive   bool     `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
		Incoming    []string `json:"incoming,omitempty" yaml:"incoming,omitempty"`
		Outgoing    []string `json:"outgoing,omitempty" yaml:"outgoing,omitempty"`
	}

	StartEvent struct {
		Activity  `yaml:",inline"`
		Initiator string `json:"initiator,omitempty" yaml:"initiator,omitempty"`
		FormKey   string `json:"formKey,omitempty" yaml:"formKey,omitempty"`
	}

	EndEvent struct {
		Activity `yaml:",inline"`
	}

	UserTask struct {
		Activity        `yaml:",inline"`
		Assignee        string   `json:"assignee,omitempty" yaml:"assignee,omitempty"`
		CandidateGroups []string `json:"candidateGroups,omitempty" yaml:"candidateGroups,omitempty"`
		FormKey         string   `json:"formKey,omitempty" yaml:"formKey,omitempty"`
		Priority        string   `json:"priority,omitempty" yaml:"priority,omitempty"`
	}

	// ReceiveTask waits until it is triggered by an external signal, for
	// example a message delivered through the bridge or an event registry
	// event when an eventType extension element is present.
	ReceiveTask struct {
		Activity `yaml:",inline"`
	}

	// ServiceTask delegates to a registered implementation selected by Type.
	ServiceTask struct {
		Activity       `yaml:",inline"`
		Type           string            `json:"type,omitempty" yaml:"type,omitempty"`
		Implementation string            `json:"implementation,omitempty" yaml:"implementation,omitempty"`
		ResultVariable string            `json:"resultVariable,omitempty" yaml:"resultVariable,omitempty"`
		Fields         map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	}
)

// ElementName returns the display name.
func (a *Activity) ElementName() string { return a.Name }

// Node returns the shared activity state.
func (a *Activity) Node() *Activity { return a }

// EventType returns the event-registry event key of the receive task.
func (t *ReceiveTask) EventType() string {
	return t.ExtensionText(ExtensionEventType)
}

// IsEventReceiver reports whether the task waits for an event-registry event
// rather than a plain trigger.
func (t *ReceiveTask) IsEventReceiver() bool {
	return t.EventType() != ""
}

// Field returns a service task field value.
func (t *ServiceTask) Field(name string) string {
	if t.Fields == nil {
		return ""
	}
	return t.Fields[name]
}

// NewStartEvent creates a start event.
func NewStartEvent(id string) *StartEvent {
	return &StartEvent{Activity: Activity{BaseElement: BaseElement{ID: id}}}
}

// NewEndEvent creates an end event.
func NewEndEvent(id string) *EndEvent {
	return &EndEvent{Activity: Activity{BaseElement: BaseElement{ID: id}}}
}

// NewUserTask creates a user task.
func NewUserTask(id, name string) *UserTask {
	return &UserTask{Activity: Activity{BaseElement: BaseElement{ID: id}, Name: name}}
}

// NewReceiveTask creates a receive task.
func NewReceiveTask(id, name string) *ReceiveTask {
	return &ReceiveTask{Activity: Activity{BaseElement: BaseElement{ID: id}, Name: name}}
}

// NewServiceTask creates a service task delegating to the given type.
func NewServiceTask(id, name, taskType string) *ServiceTask {
	return &ServiceTask{Activity: Activity{BaseElement: BaseElement{ID: id}, Name: name}, Type: taskType}
}
