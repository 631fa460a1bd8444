package bridge

import (
	"fmt"
	"strings"
	"time"

	"github.com/viant/flowbridge/service/route"
)

// Scheme is the URI scheme of flow endpoints.
const Scheme = "flow"

// Endpoint option names.
const (
	OptionCopyVariablesFromProperties = "copyVariablesFromProperties"
	OptionCopyVariablesFromHeader     = "copyVariablesFromHeader"
	OptionCopyVariablesToProperties   = "copyVariablesToProperties"
	OptionCopyVariablesToBodyAsMap    = "copyVariablesToBodyAsMap"
	OptionCopyCamelBodyToBody         = "copyCamelBodyToBody"
	OptionCopyBodyToBodyAsString      = "copyBodyToBodyAsString"
	OptionProcessInitiatorHeaderName  = "processInitiatorHeaderName"
	OptionTimeout                     = "timeout"
	OptionTimeResolution              = "timeResolution"
)

// Exchange properties read and written by flow endpoints.
const (
	// PropertyProcessKey carries the business key of a started or signalled
	// instance.
	PropertyProcessKey = "PROCESS_KEY_PROPERTY"
	// PropertyProcessID carries the process instance id.
	PropertyProcessID = "PROCESS_ID_PROPERTY"
	// PropertyExecutionID names the execution to signal directly.
	PropertyExecutionID = "EXECUTION_ID_PROPERTY"
)

// VariableBody is the process variable holding a non-map exchange body.
const VariableBody = "camelBody"

// Endpoint is a parsed flow endpoint URI.
type Endpoint struct {
	URI        string
	ProcessKey string
	// ActivityID is empty for endpoints starting processes.
	ActivityID string

	CopyVariablesFromProperties CopyRule
	CopyVariablesFromHeader     CopyRule
	CopyVariablesToProperties   bool
	CopyVariablesToBodyAsMap    bool
	CopyCamelBodyToBody         bool
	CopyBodyToBodyAsString      bool
	ProcessInitiatorHeaderName  string
	Timeout                     time.Duration
	TimeResolution              time.Duration
}

// ParseEndpoint parses a flow endpoint URI using DefaultConfig.
func ParseEndpoint(uri string) (*Endpoint, error) {
	scheme, remaining, params, err := route.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if scheme != Scheme {
		return nil, fmt.Errorf("invalid flow endpoint %q: unexpected scheme %s", uri, scheme)
	}
	return newEndpoint(uri, remaining, params, DefaultConfig())
}

func newEndpoint(uri, remaining string, params route.Params, config Config) (*Endpoint, error) {
	key, activity, _ := strings.Cut(remaining, ":")
	if key == "" {
		return nil, fmt.Errorf("invalid flow endpoint %q: process key is required", uri)
	}
	endpoint := &Endpoint{
		URI:                        uri,
		ProcessKey:                 key,
		ActivityID:                 activity,
		ProcessInitiatorHeaderName: params.String(OptionProcessInitiatorHeaderName, config.ProcessInitiatorHeaderName),
	}
	var err error
	for name, value := range params {
		switch name {
		case OptionCopyVariablesFromProperties:
			endpoint.CopyVariablesFromProperties, err = ParseCopyRule(value)
		case OptionCopyVariablesFromHeader:
			endpoint.CopyVariablesFromHeader, err = ParseCopyRule(value)
		case OptionCopyVariablesToProperties:
			endpoint.CopyVariablesToProperties, err = params.Bool(name, false)
		case OptionCopyVariablesToBodyAsMap:
			endpoint.CopyVariablesToBodyAsMap, err = params.Bool(name, false)
		case OptionCopyCamelBodyToBody:
			endpoint.CopyCamelBodyToBody, err = params.Bool(name, false)
		case OptionCopyBodyToBodyAsString:
			endpoint.CopyBodyToBodyAsString, err = params.Bool(name, false)
		case OptionProcessInitiatorHeaderName, OptionTimeout, OptionTimeResolution:
		default:
			err = fmt.Errorf("unknown option %s", name)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid flow endpoint %q: %w", uri, err)
		}
	}
	if endpoint.Timeout, err = params.Duration(OptionTimeout, config.Timeout); err != nil {
		return nil, fmt.Errorf("invalid flow endpoint %q: %w", uri, err)
	}
	if endpoint.TimeResolution, err = params.Duration(OptionTimeResolution, config.TimeResolution); err != nil {
		return nil, fmt.Errorf("invalid flow endpoint %q: %w", uri, err)
	}
	if endpoint.TimeResolution <= 0 {
		return nil, fmt.Errorf("invalid flow endpoint %q: timeResolution must be positive", uri)
	}
	return endpoint, nil
}

// IsStart reports whether the endpoint starts processes.
func (e *Endpoint) IsStart() bool {
	return e.ActivityID == ""
}

// Address returns the key:activity pair identifying the endpoint.
func (e *Endpoint) Address() string {
	if e.ActivityID == "" {
		return e.ProcessKey
	}
	return e.ProcessKey + ":" + e.ActivityID
}
