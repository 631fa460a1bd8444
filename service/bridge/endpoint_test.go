package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	var testCases = []struct {
		description string
		uri         string
		expectErr   bool
		check       func(t *testing.T, endpoint *Endpoint)
	}{
		{
			description: "defaults",
			uri:         "flow:order",
			check: func(t *testing.T, endpoint *Endpoint) {
				assert.Equal(t, "order", endpoint.ProcessKey)
				assert.True(t, endpoint.IsStart())
				assert.False(t, endpoint.CopyVariablesFromProperties.Enabled())
				assert.False(t, endpoint.CopyVariablesFromHeader.Enabled())
				assert.Equal(t, 5*time.Second, endpoint.Timeout)
				assert.Equal(t, 100*time.Millisecond, endpoint.TimeResolution)
			},
		},
		{
			description: "activity and options",
			uri:         "flow:order:payment?copyVariablesFromProperties=true&copyVariablesFromHeader=(a|b)&copyVariablesToBodyAsMap=true&processInitiatorHeaderName=user&timeout=200&timeResolution=5ms",
			check: func(t *testing.T, endpoint *Endpoint) {
				assert.Equal(t, "payment", endpoint.ActivityID)
				assert.Equal(t, "order:payment", endpoint.Address())
				assert.Equal(t, "true", endpoint.CopyVariablesFromProperties.String())
				assert.Equal(t, "(a|b)", endpoint.CopyVariablesFromHeader.String())
				assert.True(t, endpoint.CopyVariablesToBodyAsMap)
				assert.Equal(t, "user", endpoint.ProcessInitiatorHeaderName)
				assert.Equal(t, 200*time.Millisecond, endpoint.Timeout)
				assert.Equal(t, 5*time.Millisecond, endpoint.TimeResolution)
			},
		},
		{
			description: "boolean flags",
			uri:         "flow:order?copyVariablesToProperties=true&copyCamelBodyToBody=true&copyBodyToBodyAsString=true",
			check: func(t *testing.T, endpoint *Endpoint) {
				assert.True(t, endpoint.CopyVariablesToProperties)
				assert.True(t, endpoint.CopyCamelBodyToBody)
				assert.True(t, endpoint.CopyBodyToBodyAsString)
			},
		},
		{description: "invalid pattern", uri: "flow:order?copyVariablesFromHeader=(a", expectErr: true},
		{description: "invalid flag", uri: "flow:order?copyVariablesToProperties=maybe", expectErr: true},
		{description: "unknown option", uri: "flow:order?copyEverything=true", expectErr: true},
		{description: "missing key", uri: "flow:", expectErr: true},
		{description: "other scheme", uri: "direct:order", expectErr: true},
		{description: "invalid timeout", uri: "flow:order?timeout=soon", expectErr: true},
		{description: "zero resolution", uri: "flow:order?timeResolution=0", expectErr: true},
	}
	for _, testCase := range testCases {
		endpoint, err := ParseEndpoint(testCase.uri)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		testCase.check(t, endpoint)
	}
}

func TestCopyRule(t *testing.T) {
	var testCases = []struct {
		description string
		value       string
		name        string
		expect      bool
	}{
		{description: "true", value: "true", name: "anything", expect: true},
		{description: "upper case true", value: "TRUE", name: "anything", expect: true},
		{description: "false", value: "false", name: "anything", expect: false},
		{description: "empty", value: "", name: "anything", expect: false},
		{description: "alternation match", value: "(property1|property2)", name: "property2", expect: true},
		{description: "alternation miss", value: "(property1|property2)", name: "property3", expect: false},
		{description: "full name only", value: "prop", name: "property1", expect: false},
		{description: "wildcard", value: "prop.*", name: "property1", expect: true},
	}
	for _, testCase := range testCases {
		rule, err := ParseCopyRule(testCase.value)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, rule.Allows(testCase.name), testCase.description)
	}
	_, err := ParseCopyRule("[")
	assert.Error(t, err)
	assert.Equal(t, "false", CopyRule{}.String())
}
