// Package converter translates between the process editor JSON document and
// the bpmn object model.
//
// Each element kind has an ElementConverter registered against the stencil
// ids it reads and the model type it writes. Converter drives a whole model
// through the Registry in both directions.
package converter
