package converter

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/viant/flowbridge/model/bpmn"
)

// Default shape sizes used when the model carries no diagram information.
const (
	eventSize    = 30.0
	taskWidth    = 100.0
	taskHeight   = 80.0
	layoutOrigin = 100.0
	layoutGap    = 50.0
)

// Context is shared by element converters during one conversion.
type Context struct {
	Model   *bpmn.Model
	Process *bpmn.Process

	shapes    map[string]gjson.Result
	ids       map[string]string
	sources   map[string]string
	locations map[string]*bpmn.GraphicInfo
}

// Location returns the bounds of an element, preferring the ones laid out
// during conversion over the model's.
func (c *Context) Location(id string) *bpmn.GraphicInfo {
	if location, ok := c.locations[id]; ok {
		return location
	}
	return c.Model.Location(id)
}

// ElementID returns the model id of the shape with resourceID.
func (c *Context) ElementID(resourceID string) string {
	if id, ok := c.ids[resourceID]; ok {
		return id
	}
	return resourceID
}

// Converter converts whole models between editor JSON and bpmn.
type Converter struct {
	registry *Registry
}

// New creates a converter; a nil registry uses NewRegistry.
func New(registry *Registry) *Converter {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Converter{registry: registry}
}

// Registry returns the converter registry.
func (c *Converter) Registry() *Registry {
	return c.registry
}

// ToJSON writes the main process of model as an editor document. Elements
// without a location are laid out left to right.
func (c *Converter) ToJSON(model *bpmn.Model) ([]byte, error) {
	process := model.MainProcess()
	if process == nil {
		return nil, fmt.Errorf("model has no process")
	}
	ctx := &Context{Model: model, Process: process}
	layout(ctx)

	properties := Node{}
	properties.Put(PropertyProcessID, process.ID)
	properties.Put(PropertyName, process.Name)
	properties.Put(PropertyDocumentation, process.Documentation)
	properties.Put(PropertyProcessNamespace, model.TargetNamespace)
	properties[PropertyIsExecutable] = process.Executable

	shapes := make([]Node, 0, len(process.Elements)+len(process.Flows))
	for _, element := range process.Elements {
		shape, err := c.nodeShape(element, ctx)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}
	for _, flow := range process.Flows {
		shape, err := c.flowShape(flow, ctx)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}
	root := Node{
		"resourceId":  "canvas",
		"stencil":     Node{"id": StencilDiagram},
		"stencilset":  Node{"namespace": StencilSetNamespace},
		"properties":  properties,
		"childShapes": shapes,
		"bounds":      bounds(&bpmn.GraphicInfo{Width: 1200, Height: 1050}),
	}
	return json.MarshalIndent(root, "", "  ")
}

func (c *Converter) baseShape(element bpmn.Element, ctx *Context) (Node, error) {
	converter, err := c.registry.ForElement(element)
	if err != nil {
		return nil, err
	}
	base := element.Base()
	properties := Node{}
	properties.Put(PropertyOverrideID, base.ID)
	properties.Put(PropertyDocumentation, base.Documentation)
	if err = converter.ElementToJSON(properties, element, ctx); err != nil {
		return nil, fmt.Errorf("element %s: %w", base.ID, err)
	}
	return Node{
		"resourceId":  base.ID,
		"stencil":     Node{"id": converter.StencilID(element)},
		"properties":  properties,
		"childShapes": []Node{},
	}, nil
}

func (c *Converter) nodeShape(element bpmn.FlowNode, ctx *Context) (Node, error) {
	shape, err := c.baseShape(element, ctx)
	if err != nil {
		return nil, err
	}
	node := element.Node()
	properties := shape["properties"].(Node)
	properties.Put(PropertyName, node.Name)
	if node.Async {
		properties[PropertyAsync] = true
	}
	if node.Exclusive {
		properties[PropertyExclusive] = true
	}
	outgoing := make([]Node, 0, len(node.Outgoing))
	for _, id := range node.Outgoing {
		outgoing = append(outgoing, resourceRef(id))
	}
	shape["outgoing"] = outgoing
	shape["bounds"] = bounds(ctx.Location(node.ID))
	return shape, nil
}

// flowShape writes a sequence flow. The first and last dockers are offsets
// into the source and target shapes; the ones between are absolute bends.
func (c *Converter) flowShape(flow *bpmn.SequenceFlow, ctx *Context) (Node, error) {
	shape, err := c.baseShape(flow, ctx)
	if err != nil {
		return nil, err
	}
	source := ctx.Location(flow.SourceRef)
	target := ctx.Location(flow.TargetRef)
	if source == nil || target == nil {
		return nil, fmt.Errorf("sequence flow %s: unknown source or target", flow.ID)
	}
	waypoints := ctx.Model.FlowLocation(flow.ID)
	if len(waypoints) < 2 {
		waypoints = []*bpmn.GraphicInfo{center(source), center(target)}
	}
	dockers := []Node{point(source.Width/2, source.Height/2)}
	for _, waypoint := range waypoints[1 : len(waypoints)-1] {
		dockers = append(dockers, point(waypoint.X, waypoint.Y))
	}
	dockers = append(dockers, point(target.Width/2, target.Height/2))

	shape["dockers"] = dockers
	shape["target"] = resourceRef(flow.TargetRef)
	shape["outgoing"] = []Node{resourceRef(flow.TargetRef)}
	shape["bounds"] = bounds(envelope(waypoints))
	return shape, nil
}

// ToModel reads an editor document.
func (c *Converter) ToModel(data []byte) (*bpmn.Model, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid editor document: malformed JSON")
	}
	document := gjson.ParseBytes(data)
	properties := document.Get("properties")
	model := bpmn.NewModel()
	if namespace := text(properties, PropertyProcessNamespace); namespace != "" {
		model.TargetNamespace = namespace
	}
	processID := text(properties, PropertyProcessID)
	if processID == "" {
		processID = "process"
	}
	process := bpmn.NewProcess(processID, text(properties, PropertyName))
	process.Documentation = text(properties, PropertyDocumentation)
	if value := properties.Get(PropertyIsExecutable); value.Exists() {
		process.Executable = value.Bool()
	}
	model.AddProcess(process)

	ctx := &Context{
		Model:   model,
		Process: process,
		shapes:  map[string]gjson.Result{},
		ids:     map[string]string{},
		sources: map[string]string{},
	}
	var shapes []gjson.Result
	collectShapes(document, ctx, &shapes)

	var flows []*bpmn.SequenceFlow
	for _, shape := range shapes {
		stencilID := stencilOf(shape)
		converter, err := c.registry.ForStencil(stencilID)
		if err != nil {
			return nil, fmt.Errorf("shape %s: %w", shape.Get("resourceId").String(), err)
		}
		element, err := converter.JSONToElement(shape, ctx)
		if err != nil {
			return nil, err
		}
		resourceID := shape.Get("resourceId").String()
		base := element.Base()
		base.ID = ctx.ElementID(resourceID)
		base.Documentation = text(shape.Get("properties"), PropertyDocumentation)
		switch actual := element.(type) {
		case *bpmn.SequenceFlow:
			flows = append(flows, actual)
			model.SetFlowLocation(actual.ID, flowWaypoints(shape, ctx))
		case bpmn.FlowNode:
			node := actual.Node()
			node.Name = text(shape.Get("properties"), PropertyName)
			node.Async = flag(shape.Get("properties"), PropertyAsync)
			node.Exclusive = flag(shape.Get("properties"), PropertyExclusive)
			process.Add(actual)
			model.SetLocation(base.ID, graphicInfo(shape.Get("bounds")))
		default:
			return nil, fmt.Errorf("shape %s: %w: %T", resourceID, ErrUnknownElement, element)
		}
	}
	for _, flow := range flows {
		process.Connect(flow)
	}
	return model, nil
}

// collectShapes indexes every nested shape and the flows it lists as
// outgoing.
func collectShapes(parent gjson.Result, ctx *Context, shapes *[]gjson.Result) {
	parent.Get("childShapes").ForEach(func(_, shape gjson.Result) bool {
		resourceID := shape.Get("resourceId").String()
		ctx.shapes[resourceID] = shape
		ctx.ids[resourceID] = resourceID
		if id := text(shape.Get("properties"), PropertyOverrideID); id != "" {
			ctx.ids[resourceID] = id
		}
		if stencilOf(shape) != StencilSequenceFlow {
			shape.Get("outgoing").ForEach(func(_, ref gjson.Result) bool {
				ctx.sources[ref.Get("resourceId").String()] = resourceID
				return true
			})
		}
		*shapes = append(*shapes, shape)
		collectShapes(shape, ctx, shapes)
		return true
	})
}

func flowWaypoints(shape gjson.Result, ctx *Context) []*bpmn.GraphicInfo {
	resourceID := shape.Get("resourceId").String()
	source := graphicInfo(ctx.shapes[ctx.sources[resourceID]].Get("bounds"))
	targetID := shape.Get("target.resourceId").String()
	if targetID == "" {
		targetID = shape.Get("outgoing.0.resourceId").String()
	}
	target := graphicInfo(ctx.shapes[targetID].Get("bounds"))
	waypoints := []*bpmn.GraphicInfo{center(source)}
	dockers := shape.Get("dockers").Array()
	for i := 1; i < len(dockers)-1; i++ {
		waypoints = append(waypoints, &bpmn.GraphicInfo{X: dockers[i].Get("x").Float(), Y: dockers[i].Get("y").Float()})
	}
	return append(waypoints, center(target))
}

func stencilOf(shape gjson.Result) string {
	return shape.Get("stencil.id").String()
}

func graphicInfo(bounds gjson.Result) *bpmn.GraphicInfo {
	upperLeftX, upperLeftY := bounds.Get("upperLeft.x").Float(), bounds.Get("upperLeft.y").Float()
	return &bpmn.GraphicInfo{
		X:      upperLeftX,
		Y:      upperLeftY,
		Width:  bounds.Get("lowerRight.x").Float() - upperLeftX,
		Height: bounds.Get("lowerRight.y").Float() - upperLeftY,
	}
}

func bounds(info *bpmn.GraphicInfo) Node {
	if info == nil {
		info = &bpmn.GraphicInfo{}
	}
	return Node{
		"upperLeft":  point(info.X, info.Y),
		"lowerRight": point(info.X+info.Width, info.Y+info.Height),
	}
}

func center(info *bpmn.GraphicInfo) *bpmn.GraphicInfo {
	return &bpmn.GraphicInfo{X: info.X + info.Width/2, Y: info.Y + info.Height/2}
}

func envelope(points []*bpmn.GraphicInfo) *bpmn.GraphicInfo {
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return &bpmn.GraphicInfo{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// layout places elements without a model location on a row; the model is
// left unchanged.
func layout(ctx *Context) {
	ctx.locations = make(map[string]*bpmn.GraphicInfo)
	x := layoutOrigin
	for _, element := range ctx.Process.Elements {
		width, height := taskWidth, taskHeight
		switch element.(type) {
		case *bpmn.StartEvent, *bpmn.EndEvent:
			width, height = eventSize, eventSize
		}
		id := element.ElementID()
		if location := ctx.Model.Location(id); location != nil {
			x = location.X + location.Width + layoutGap
			continue
		}
		ctx.locations[id] = &bpmn.GraphicInfo{
			X:      x,
			Y:      layoutOrigin + (taskHeight-height)/2,
			Width:  width,
			Height: height,
		}
		x += width + layoutGap
	}
}
