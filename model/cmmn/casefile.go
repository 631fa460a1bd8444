// Package cmmn holds the case-model definition types shared with the
// editor tooling.
package cmmn

// Case file item definition types. The XSD, WSDL and UML types of the CMMN
// standard are not supported.
const (
	TypeCMISFolder       = "http://www.omg.org/spec/CMMN/DefinitionType/CMISFolder"
	TypeCMISDocument     = "http://www.omg.org/spec/CMMN/DefinitionType/CMISDocument"
	TypeCMISRelationship = "http://www.omg.org/spec/CMMN/DefinitionType/CMISRelationship"
	TypeUnknown          = "http://www.omg.org/spec/CMMN/DefinitionType/Unknown"
	TypeUnspecified      = "http://www.omg.org/spec/CMMN/DefinitionType/Unspecified"

	TypeFolder = "http://flowable.org/cmmn/DefinitionType/Folder"
	TypeFile   = "http://flowable.org/cmmn/DefinitionType/File"
)

var standardTypes = map[string]bool{
	TypeCMISFolder:       true,
	TypeCMISDocument:     true,
	TypeCMISRelationship: true,
	TypeUnknown:          true,
	TypeUnspecified:      true,
}

// CaseFileItemDefinition describes the kind of information a case file
// item holds.
type CaseFileItemDefinition struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name,omitempty" yaml:"name,omitempty"`
	DefinitionType string `json:"definitionType,omitempty" yaml:"definitionType,omitempty"`
}

// IsStandard reports whether the type is defined by the CMMN standard.
func IsStandard(definitionType string) bool {
	return standardTypes[definitionType]
}

// IsKnown reports whether the type is either standard or vendor specific.
func IsKnown(definitionType string) bool {
	return IsStandard(definitionType) || definitionType == TypeFolder || definitionType == TypeFile
}

// Type returns the definition type, defaulting to TypeUnspecified.
func (d *CaseFileItemDefinition) Type() string {
	if d.DefinitionType == "" {
		return TypeUnspecified
	}
	return d.DefinitionType
}
