package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/viant/afs"
)

const editorDocument = `{
  "resourceId": "canvas",
  "stencil": {"id": "BPMNDiagram"},
  "properties": {"process_id": "ticket", "name": "Ticket"},
  "childShapes": [
    {"resourceId": "s1", "stencil": {"id": "StartNoneEvent"}, "properties": {"overrideid": "start"},
     "bounds": {"upperLeft": {"x": 100, "y": 125}, "lowerRight": {"x": 130, "y": 155}},
     "outgoing": [{"resourceId": "f1"}]},
    {"resourceId": "s2", "stencil": {"id": "ReceiveEventTask"},
     "properties": {"overrideid": "resolved", "name": "Resolved", "eventkey": "ticketResolved"},
     "bounds": {"upperLeft": {"x": 180, "y": 100}, "lowerRight": {"x": 280, "y": 180}},
     "outgoing": [{"resourceId": "f2"}]},
    {"resourceId": "s3", "stencil": {"id": "EndNoneEvent"}, "properties": {"overrideid": "end"},
     "bounds": {"upperLeft": {"x": 330, "y": 125}, "lowerRight": {"x": 360, "y": 155}}},
    {"resourceId": "f1", "stencil": {"id": "SequenceFlow"}, "properties": {"overrideid": "flow1"},
     "target": {"resourceId": "s2"}, "dockers": [{"x": 15, "y": 15}, {"x": 50, "y": 40}]},
    {"resourceId": "f2", "stencil": {"id": "SequenceFlow"}, "properties": {"overrideid": "flow2"},
     "target": {"resourceId": "s3"}, "dockers": [{"x": 50, "y": 40}, {"x": 15, "y": 15}]}
  ]
}`

const orderDefinition = `id: order
elements:
  start: {type: startEvent}
  payment: {type: receiveTask}
  end: {type: endEvent}
`

func run(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	require.NoError(t, fs.Upload(ctx, "mem://localhost/cli/ticket.json", 0644, strings.NewReader(editorDocument)))

	testCases := []struct {
		description string
		args        []string
		expectErr   bool
		verify      func(t *testing.T, output string)
	}{
		{
			description: "editor json to yaml on stdout",
			args:        []string{"convert", "mem://localhost/cli/ticket.json"},
			verify: func(t *testing.T, output string) {
				assert.Contains(t, output, "id: ticket")
				assert.Contains(t, output, "resolved:")
				assert.Contains(t, output, "eventType: ticketResolved")
			},
		},
		{
			description: "editor json to yaml file and back",
			args:        []string{"convert", "mem://localhost/cli/ticket.json", "mem://localhost/cli/ticket.yaml"},
			verify: func(t *testing.T, output string) {
				assert.Empty(t, output)
				data, err := fs.DownloadWithURL(ctx, "mem://localhost/cli/ticket.yaml")
				require.NoError(t, err)
				assert.Contains(t, string(data), "id: ticket")

				output, err = run(t, "convert", "mem://localhost/cli/ticket.yaml")
				require.NoError(t, err)
				document := gjson.Parse(output)
				assert.Equal(t, "ticket", document.Get("properties.process_id").String())
				stencils := document.Get("childShapes.#.stencil.id").Array()
				assert.Len(t, stencils, 5)
				assert.Equal(t, "ReceiveEventTask", document.Get(`childShapes.#(properties.overrideid=="resolved").stencil.id`).String())
			},
		},
		{description: "unsupported extension", args: []string{"convert", "mem://localhost/cli/ticket.txt"}, expectErr: true},
		{description: "missing source", args: []string{"convert"}, expectErr: true},
	}
	require.NoError(t, fs.Upload(ctx, "mem://localhost/cli/ticket.txt", 0644, strings.NewReader("x")))

	for _, testCase := range testCases {
		output, err := run(t, testCase.args...)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		testCase.verify(t, output)
	}
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, afs.New().Upload(ctx, "mem://localhost/cli/defs/order.yaml", 0644, strings.NewReader(orderDefinition)))

	output, err := run(t, "send",
		"-d", "mem://localhost/cli/defs/order.yaml",
		"-p", "customer=piggy",
		"-b", "hello",
		"flow:order?copyVariablesFromProperties=true")
	require.NoError(t, err)
	exchange := gjson.Parse(output)
	instanceID := exchange.Get("properties.PROCESS_ID_PROPERTY").String()
	assert.NotEmpty(t, instanceID)
	assert.Equal(t, instanceID, exchange.Get("out.body").String())

	_, err = run(t, "send", "flow:missing")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	output, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "flowbridge version dev\n", output)
}
