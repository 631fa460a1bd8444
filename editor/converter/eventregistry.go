package converter

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/viant/flowbridge/model/bpmn"
)

// writeEventRegistry writes the event-registry properties of an element
// listening for events. Nothing is written without an event type; channel
// properties require a channel key.
func writeEventRegistry(properties Node, base *bpmn.BaseElement) {
	eventType := base.ExtensionText(bpmn.ExtensionEventType)
	if eventType == "" {
		return
	}
	properties.Put(PropertyEventKey, eventType)
	properties.Put(PropertyEventName, base.ExtensionText(bpmn.ExtensionEventName))
	if parameters := base.Extensions(bpmn.ExtensionEventOutParameter); len(parameters) > 0 {
		var list []Node
		for _, parameter := range parameters {
			list = append(list, Node{}.
				Put("eventName", parameter.Attribute("source")).
				Put("eventType", parameter.Attribute("sourceType")).
				Put("variableName", parameter.Attribute("target")))
		}
		properties.Put(PropertyEventOutParameters, Node{"outParameters": list})
	}
	if parameters := base.Extensions(bpmn.ExtensionEventCorrelationParameter); len(parameters) > 0 {
		var list []Node
		for _, parameter := range parameters {
			list = append(list, Node{}.
				Put("name", parameter.Attribute("name")).
				Put("type", parameter.Attribute("type")).
				Put("value", parameter.Attribute("value")))
		}
		properties.Put(PropertyEventCorrelationParams, Node{"correlationParameters": list})
	}
	channelKey := base.ExtensionText(bpmn.ExtensionChannelKey)
	if channelKey == "" {
		return
	}
	properties.Put(PropertyChannelKey, channelKey)
	properties.Put(PropertyChannelName, base.ExtensionText(bpmn.ExtensionChannelName))
	properties.Put(PropertyChannelType, base.ExtensionText(bpmn.ExtensionChannelType))
	properties.Put(PropertyChannelDestination, base.ExtensionText(bpmn.ExtensionChannelDestination))

	detectionType := base.ExtensionText(bpmn.ExtensionKeyDetectionType)
	detectionValue := base.ExtensionText(bpmn.ExtensionKeyDetectionValue)
	if detectionType == "" || detectionValue == "" {
		return
	}
	switch {
	case strings.EqualFold(detectionType, KeyDetectionFixedValue):
		properties.Put(PropertyKeyDetectionFixedValue, detectionValue)
	case strings.EqualFold(detectionType, KeyDetectionJSONField):
		properties.Put(PropertyKeyDetectionJSONField, detectionValue)
	case strings.EqualFold(detectionType, KeyDetectionJSONPointer):
		properties.Put(PropertyKeyDetectionJSONPointer, detectionValue)
	}
}

// readEventRegistry adds the receive-event extension elements described by
// the shape properties.
func readEventRegistry(properties gjson.Result, base *bpmn.BaseElement) {
	addExtension(base, bpmn.ExtensionEventType, text(properties, PropertyEventKey))
	addExtension(base, bpmn.ExtensionEventName, text(properties, PropertyEventName))
	for _, item := range items(properties, PropertyEventOutParameters, "outParameters") {
		source := text(item, "eventName")
		target := text(item, "variableName")
		if source == "" || target == "" {
			continue
		}
		extension := bpmn.NewExtensionElement(bpmn.ExtensionEventOutParameter, "").
			WithAttribute("source", source).
			WithAttribute("target", target)
		if sourceType := text(item, "eventType"); sourceType != "" {
			extension.WithAttribute("sourceType", sourceType)
		}
		base.AddExtensionElement(extension)
	}
	for _, item := range items(properties, PropertyEventCorrelationParams, "correlationParameters") {
		name := text(item, "name")
		value := text(item, "value")
		if name == "" || value == "" {
			continue
		}
		extension := bpmn.NewExtensionElement(bpmn.ExtensionEventCorrelationParameter, "").
			WithAttribute("name", name).
			WithAttribute("value", value)
		if valueType := text(item, "type"); valueType != "" {
			extension.WithAttribute("type", valueType)
		}
		base.AddExtensionElement(extension)
	}
	addExtension(base, bpmn.ExtensionChannelKey, text(properties, PropertyChannelKey))
	addExtension(base, bpmn.ExtensionChannelName, text(properties, PropertyChannelName))
	addExtension(base, bpmn.ExtensionChannelType, text(properties, PropertyChannelType))
	addExtension(base, bpmn.ExtensionChannelDestination, text(properties, PropertyChannelDestination))

	for _, detection := range []struct{ property, kind string }{
		{PropertyKeyDetectionFixedValue, KeyDetectionFixedValue},
		{PropertyKeyDetectionJSONField, KeyDetectionJSONField},
		{PropertyKeyDetectionJSONPointer, KeyDetectionJSONPointer},
	} {
		if value := text(properties, detection.property); value != "" {
			addExtension(base, bpmn.ExtensionKeyDetectionType, detection.kind)
			addExtension(base, bpmn.ExtensionKeyDetectionValue, value)
			break
		}
	}
}

func addExtension(base *bpmn.BaseElement, name, value string) {
	if value == "" {
		return
	}
	base.AddExtensionElement(bpmn.NewExtensionElement(name, value))
}
