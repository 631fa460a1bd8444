package bpmn

// GraphicInfo is a diagram location: a shape's upper-left corner and size,
// or a single waypoint of a sequence flow.
type GraphicInfo struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Model groups process definitions with their diagram information.
type Model struct {
	TargetNamespace string                    `json:"targetNamespace,omitempty"`
	Processes       []*Process                `json:"processes"`
	Locations       map[string]*GraphicInfo   `json:"locations,omitempty"`
	FlowLocations   map[string][]*GraphicInfo `json:"flowLocations,omitempty"`
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		TargetNamespace: Namespace,
		Locations:       make(map[string]*GraphicInfo),
		FlowLocations:   make(map[string][]*GraphicInfo),
	}
}

// MainProcess returns the first process or nil.
func (m *Model) MainProcess() *Process {
	if len(m.Processes) == 0 {
		return nil
	}
	return m.Processes[0]
}

// Process returns the process with the given id.
func (m *Model) Process(id string) *Process {
	for _, process := range m.Processes {
		if process.ID == id {
			return process
		}
	}
	return nil
}

// AddProcess appends a process.
func (m *Model) AddProcess(process *Process) *Model {
	m.Processes = append(m.Processes, process)
	return m
}

// SetLocation records the shape bounds of an element.
func (m *Model) SetLocation(id string, info *GraphicInfo) {
	if m.Locations == nil {
		m.Locations = make(map[string]*GraphicInfo)
	}
	m.Locations[id] = info
}

// Location returns the shape bounds of an element.
func (m *Model) Location(id string) *GraphicInfo {
	if m.Locations == nil {
		return nil
	}
	return m.Locations[id]
}

// SetFlowLocation records the waypoints of a sequence flow.
func (m *Model) SetFlowLocation(id string, points []*GraphicInfo) {
	if m.FlowLocations == nil {
		m.FlowLocations = make(map[string][]*GraphicInfo)
	}
	m.FlowLocations[id] = points
}

// FlowLocation returns the waypoints of a sequence flow.
func (m *Model) FlowLocation(id string) []*GraphicInfo {
	if m.FlowLocations == nil {
		return nil
	}
	return m.FlowLocations[id]
}
