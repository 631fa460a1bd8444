package converter

// Stencil ids of editor shapes.
const (
	StencilDiagram          = "BPMNDiagram"
	StencilStartNoneEvent   = "StartNoneEvent"
	StencilEndNoneEvent     = "EndNoneEvent"
	StencilUserTask         = "UserTask"
	StencilReceiveTask      = "ReceiveTask"
	StencilReceiveEventTask = "ReceiveEventTask"
	StencilServiceTask      = "ServiceTask"
	StencilSequenceFlow     = "SequenceFlow"
)

// StencilSetNamespace identifies the stencil set of written documents.
const StencilSetNamespace = "http://b3mn.org/stencilset/bpmn2.0#"

// Shape property names.
const (
	PropertyProcessID        = "process_id"
	PropertyProcessNamespace = "process_namespace"
	PropertyIsExecutable     = "isexecutable"
	PropertyOverrideID       = "overrideid"
	PropertyName             = "name"
	PropertyDocumentation    = "documentation"
	PropertyAsync            = "asynchronousdefinition"
	PropertyExclusive        = "exclusivedefinition"

	PropertyInitiator  = "initiator"
	PropertyFormKey    = "formkeydefinition"
	PropertyPriority   = "prioritydefinition"
	PropertyAssignment = "usertaskassignment"

	PropertyServiceTaskType           = "servicetasktype"
	PropertyServiceTaskDelegate       = "servicetaskdelegateexpression"
	PropertyServiceTaskResultVariable = "servicetaskresultvariable"
	PropertyServiceTaskFields         = "servicetaskfields"

	PropertyCondition = "conditionsequenceflow"

	PropertyEventKey                = "eventkey"
	PropertyEventName               = "eventname"
	PropertyEventOutParameters      = "eventoutparameters"
	PropertyEventCorrelationParams  = "eventcorrelationparameters"
	PropertyChannelKey              = "channelkey"
	PropertyChannelName             = "channelname"
	PropertyChannelType             = "channeltype"
	PropertyChannelDestination      = "channeldestination"
	PropertyKeyDetectionFixedValue  = "keydetectionfixedvalue"
	PropertyKeyDetectionJSONField   = "keydetectionjsonfield"
	PropertyKeyDetectionJSONPointer = "keydetectionjsonpointer"
)

// Key detection types stored in the keyDetectionType extension element.
const (
	KeyDetectionFixedValue  = "fixedValue"
	KeyDetectionJSONField   = "jsonField"
	KeyDetectionJSONPointer = "jsonPointer"
)
