package bpmn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flowbridge/model/cmmn"
)

func newReceiveProcess() *Process {
	process := NewProcess("receive", "Receive")
	process.Add(NewStartEvent("start"), NewReceiveTask("wait", "Wait"), NewEndEvent("end"))
	process.Link("start", "wait").Link("wait", "end")
	return process
}

func TestProcess_Connect(t *testing.T) {
	process := newReceiveProcess()
	wait := process.Element("wait")
	require.NotNil(t, wait)
	assert.Equal(t, []string{"flow_start_wait"}, wait.Node().Incoming)
	assert.Equal(t, []string{"flow_wait_end"}, wait.Node().Outgoing)
	assert.Len(t, process.OutgoingFlows("start"), 1)
	assert.Equal(t, "wait", process.Flow("flow_start_wait").TargetRef)
}

func TestProcess_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		process     func() *Process
		expectCount int
	}{
		{
			name:    "valid",
			process: newReceiveProcess,
		},
		{
			name: "missing start",
			process: func() *Process {
				return NewProcess("p", "").Add(NewEndEvent("end"))
			},
			expectCount: 1,
		},
		{
			name: "duplicate and dangling",
			process: func() *Process {
				p := newReceiveProcess()
				p.Add(NewUserTask("wait", "again"))
				p.Connect(NewSequenceFlow("f1", "wait", "nowhere"))
				return p
			},
			expectCount: 2,
		},
		{
			name: "known case file items",
			process: func() *Process {
				p := newReceiveProcess()
				p.CaseFileItems = []*cmmn.CaseFileItemDefinition{
					{ID: "invoice", DefinitionType: cmmn.TypeCMISDocument},
					{ID: "attachments", DefinitionType: cmmn.TypeFolder},
					{ID: "notes"},
				}
				return p
			},
		},
		{
			name: "unsupported and duplicate case file items",
			process: func() *Process {
				p := newReceiveProcess()
				p.CaseFileItems = []*cmmn.CaseFileItemDefinition{
					{ID: "schema", DefinitionType: "http://www.omg.org/spec/CMMN/DefinitionType/XSDElement"},
					{ID: "invoice", DefinitionType: cmmn.TypeFile},
					{ID: "invoice", DefinitionType: cmmn.TypeFile},
					{DefinitionType: cmmn.TypeUnknown},
				}
				return p
			},
			expectCount: 3,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			issues := tc.process().Validate()
			assert.Len(t, issues, tc.expectCount, "%v", issues)
		})
	}
}

func TestReceiveTask_EventType(t *testing.T) {
	task := NewReceiveTask("r", "Receive")
	assert.False(t, task.IsEventReceiver())
	task.AddExtensionElement(NewExtensionElement(ExtensionEventType, "orderPlaced"))
	assert.True(t, task.IsEventReceiver())
	assert.Equal(t, "orderPlaced", task.EventType())

	empty := NewReceiveTask("r2", "")
	empty.AddExtensionElement(NewExtensionElement(ExtensionEventType, ""))
	assert.False(t, empty.IsEventReceiver())
}
