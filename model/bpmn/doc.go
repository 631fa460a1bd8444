// Package bpmn holds the process-definition object model shared by the
// runtime, the YAML definition parser and the editor JSON converter.
//
// A Model groups one or more Process definitions together with the diagram
// locations the visual editor needs. Flow nodes embed Activity, which in turn
// embeds BaseElement carrying the id, documentation and vendor extension
// elements.
package bpmn
