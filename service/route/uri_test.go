package route

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	testCases := []struct {
		description     string
		uri             string
		expectScheme    string
		expectRemaining string
		expectParams    Params
		expectErr       bool
	}{
		{description: "plain", uri: "direct:start", expectScheme: "direct", expectRemaining: "start", expectParams: Params{}},
		{description: "nested path", uri: "flow:order:receive", expectScheme: "flow", expectRemaining: "order:receive", expectParams: Params{}},
		{
			description:     "pattern option",
			uri:             "flow:order?copyVariablesFromProperties=(property1|property2)&timeout=200",
			expectScheme:    "flow",
			expectRemaining: "order",
			expectParams:    Params{"copyVariablesFromProperties": "(property1|property2)", "timeout": "200"},
		},
		{description: "plus kept", uri: "flow:x?copyVariablesFromHeader=a+", expectScheme: "flow", expectRemaining: "x", expectParams: Params{"copyVariablesFromHeader": "a+"}},
		{description: "raw", uri: "flow:x?copyVariablesFromHeader=RAW(a%b)", expectScheme: "flow", expectRemaining: "x", expectParams: Params{"copyVariablesFromHeader": "a%b"}},
		{description: "escaped", uri: "log:x?level=%77arn", expectScheme: "log", expectRemaining: "x", expectParams: Params{"level": "warn"}},
		{description: "slashes", uri: "queue://jobs", expectScheme: "queue", expectRemaining: "jobs", expectParams: Params{}},
		{description: "missing scheme", uri: "start", expectErr: true},
		{description: "bad escape", uri: "log:x?level=%zz", expectErr: true},
	}
	for _, testCase := range testCases {
		scheme, remaining, params, err := ParseURI(testCase.uri)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectScheme, scheme, testCase.description)
		assert.Equal(t, testCase.expectRemaining, remaining, testCase.description)
		assert.Equal(t, testCase.expectParams, params, testCase.description)
	}
}

func TestParams(t *testing.T) {
	params := Params{"flag": "true", "n": "3", "timeout": "250", "resolution": "2s", "bad": "x"}
	flag, err := params.Bool("flag", false)
	require.NoError(t, err)
	assert.True(t, flag)
	flag, err = params.Bool("missing", true)
	require.NoError(t, err)
	assert.True(t, flag)
	_, err = params.Bool("bad", false)
	assert.Error(t, err)

	n, err := params.Int("n", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = params.Int("bad", 1)
	assert.Error(t, err)

	d, err := params.Duration("timeout", 0)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
	d, err = params.Duration("resolution", 0)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
	_, err = params.Duration("bad", 0)
	assert.Error(t, err)
	assert.Equal(t, "fallback", params.String("missing", "fallback"))
}
