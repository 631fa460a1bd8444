package bpmn

// Extension element names used by event-registry aware activities.
const (
	ExtensionEventType                 = "eventType"
	ExtensionEventName                 = "eventName"
	ExtensionEventInParameter          = "eventInParameter"
	ExtensionEventOutParameter         = "eventOutParameter"
	ExtensionEventCorrelationParameter = "eventCorrelationParameter"
	ExtensionChannelKey                = "channelKey"
	ExtensionChannelName               = "channelName"
	ExtensionChannelType               = "channelType"
	ExtensionChannelDestination        = "channelDestination"
	ExtensionKeyDetectionType          = "keyDetectionType"
	ExtensionKeyDetectionValue         = "keyDetectionValue"
)

// Namespace is the namespace assigned to extension elements created by
// flowbridge.
const Namespace = "http://flowable.org/bpmn"

type (
	// BaseElement is the root of every definition element.
	BaseElement struct {
		ID                string                         `json:"id" yaml:"id"`
		Documentation     string                         `json:"documentation,omitempty" yaml:"documentation,omitempty"`
		ExtensionElements map[string][]*ExtensionElement `json:"extensionElements,omitempty" yaml:"extensionElements,omitempty"`
		Attributes        map[string]string              `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	}

	// ExtensionElement is a vendor specific, free-form element attached to a
	// definition element.
	ExtensionElement struct {
		Name        string                         `json:"name" yaml:"name"`
		Namespace   string                         `json:"namespace,omitempty" yaml:"namespace,omitempty"`
		ElementText string                         `json:"text,omitempty" yaml:"text,omitempty"`
		Attributes  map[string]string              `json:"attributes,omitempty" yaml:"attributes,omitempty"`
		Children    map[string][]*ExtensionElement `json:"children,omitempty" yaml:"children,omitempty"`
	}
)

// NewExtensionElement creates an extension element in the flowbridge namespace.
func NewExtensionElement(name, text string) *ExtensionElement {
	return &ExtensionElement{Name: name, Namespace: Namespace, ElementText: text}
}

// WithAttribute sets an attribute and returns the element.
func (e *ExtensionElement) WithAttribute(name, value string) *ExtensionElement {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string)
	}
	e.Attributes[name] = value
	return e
}

// Attribute returns the attribute value or empty string.
func (e *ExtensionElement) Attribute(name string) string {
	if e == nil || e.Attributes == nil {
		return ""
	}
	return e.Attributes[name]
}

// Base returns the element itself; it lets embedding types satisfy Element.
func (b *BaseElement) Base() *BaseElement {
	return b
}

// ElementID returns the element id.
func (b *BaseElement) ElementID() string {
	return b.ID
}

// AddExtensionElement appends an extension element under its name.
func (b *BaseElement) AddExtensionElement(element *ExtensionElement) {
	if element == nil || element.Name == "" {
		return
	}
	if b.ExtensionElements == nil {
		b.ExtensionElements = make(map[string][]*ExtensionElement)
	}
	b.ExtensionElements[element.Name] = append(b.ExtensionElements[element.Name], element)
}

// Extensions returns all extension elements with the given name.
func (b *BaseElement) Extensions(name string) []*ExtensionElement {
	if b.ExtensionElements == nil {
		return nil
	}
	return b.ExtensionElements[name]
}

// ExtensionText returns the text of the first extension element with the
// given name, or empty string.
func (b *BaseElement) ExtensionText(name string) string {
	elements := b.Extensions(name)
	if len(elements) == 0 || elements[0] == nil {
		return ""
	}
	return elements[0].ElementText
}

// Element is implemented by every definition element.
type Element interface {
	Base() *BaseElement
	ElementID() string
}
