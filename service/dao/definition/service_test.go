package definition

import (
	"context"
	"embed"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"
	"github.com/viant/flowbridge/model/bpmn"
	"github.com/viant/flowbridge/model/cmmn"
)

//go:embed testdata/*
var testFS embed.FS

func TestService_Load(t *testing.T) {
	t.Setenv("FLOWBRIDGE_INVOICE_SUFFIX", "v2")
	srv := New(WithFSOptions(&testFS))
	ctx := context.Background()

	testCases := []struct {
		description string
		url         string
		expectID    string
		expectName  string
		expectNodes []string
		expectFlows [][2]string
	}{
		{
			description: "mapping elements chained in order",
			url:         "embed:///testdata/order",
			expectID:    "order",
			expectName:  "Order handling",
			expectNodes: []string{"start", "review", "payment", "notify", "end"},
			expectFlows: [][2]string{{"start", "review"}, {"review", "payment"}, {"payment", "notify"}, {"notify", "end"}},
		},
		{
			description: "explicit flows with id from file name",
			url:         "embed:///testdata/invoice.yml",
			expectID:    "invoice",
			expectName:  "Invoice v2",
			expectNodes: []string{"start", "wait", "end"},
			expectFlows: [][2]string{{"start", "wait"}, {"wait", "end"}},
		},
	}

	for _, testCase := range testCases {
		process, err := srv.Load(ctx, testCase.url)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectID, process.ID, testCase.description)
		assert.Equal(t, testCase.expectName, process.Name, testCase.description)
		var ids []string
		for _, element := range process.Elements {
			ids = append(ids, element.ElementID())
		}
		assert.Equal(t, testCase.expectNodes, ids, testCase.description)
		var flows [][2]string
		for _, flow := range process.Flows {
			flows = append(flows, [2]string{flow.SourceRef, flow.TargetRef})
		}
		assert.Equal(t, testCase.expectFlows, flows, testCase.description)
		assert.Empty(t, process.Validate(), testCase.description)
	}
}

func TestService_LoadElements(t *testing.T) {
	srv := New(WithFSOptions(&testFS))
	process, err := srv.Load(context.Background(), "embed:///testdata/order.yaml")
	require.NoError(t, err)

	start, ok := process.Element("start").(*bpmn.StartEvent)
	require.True(t, ok)
	assert.Equal(t, "initiator", start.Initiator)

	review, ok := process.Element("review").(*bpmn.UserTask)
	require.True(t, ok)
	assert.Equal(t, "kermit", review.Assignee)
	assert.Equal(t, []string{"sales", "management"}, review.CandidateGroups)

	payment, ok := process.Element("payment").(*bpmn.ReceiveTask)
	require.True(t, ok)
	assert.True(t, payment.IsEventReceiver())
	assert.Equal(t, "orderPaid", payment.EventType())
	assert.Equal(t, "payments", payment.ExtensionText(bpmn.ExtensionChannelKey))
	out := payment.Extensions(bpmn.ExtensionEventOutParameter)
	require.Len(t, out, 1)
	assert.Equal(t, "amount", out[0].Attribute("source"))
	assert.Equal(t, "paidAmount", out[0].Attribute("target"))
	correlation := payment.Extensions(bpmn.ExtensionEventCorrelationParameter)
	require.Len(t, correlation, 1)
	assert.Equal(t, "orderId", correlation[0].Attribute("name"))

	notify, ok := process.Element("notify").(*bpmn.ServiceTask)
	require.True(t, ok)
	assert.Equal(t, "route", notify.Type)
	assert.True(t, notify.Async)
	assert.Equal(t, "direct:notify", notify.Field("endpoint"))
}

func TestService_LoadAll(t *testing.T) {
	srv := New(WithFSOptions(&testFS))
	processes, err := srv.LoadAll(context.Background(), "embed:///testdata")
	require.NoError(t, err)
	var ids []string
	for _, process := range processes {
		ids = append(ids, process.ID)
	}
	assert.ElementsMatch(t, []string{"order", "invoice"}, ids)
}

func TestService_DecodeYAMLErrors(t *testing.T) {
	testCases := []struct {
		description string
		yaml        string
	}{
		{description: "not a mapping", yaml: "- a\n- b\n"},
		{description: "missing elements", yaml: "id: x\n"},
		{description: "unknown key", yaml: "id: x\nsteps: []\nelements: {start: {type: startEvent}}\n"},
		{description: "unknown element type", yaml: "id: x\nelements: {g: {type: gateway}}\n"},
		{description: "missing element type", yaml: "id: x\nelements: {g: {name: n}}\n"},
		{description: "unsupported attribute", yaml: "id: x\nelements: {s: {type: startEvent, assignee: a}}\n"},
		{description: "bad flow", yaml: "id: x\nelements: {s: {type: startEvent}}\nflows: [s]\n"},
		{description: "flow without target", yaml: "id: x\nelements: {s: {type: startEvent}}\nflows: [{from: s}]\n"},
		{description: "case file items mapping", yaml: "id: x\ncaseFileItems: {id: a}\nelements: {s: {type: startEvent}}\n"},
		{description: "case file item key", yaml: "id: x\ncaseFileItems: [{id: a, size: 1}]\nelements: {s: {type: startEvent}}\n"},
	}
	srv := New()
	for _, testCase := range testCases {
		_, err := srv.DecodeYAML([]byte(testCase.yaml))
		assert.Error(t, err, testCase.description)
	}
}

func TestService_EncodeYAML(t *testing.T) {
	srv := New(WithFSOptions(&testFS))
	process, err := srv.Load(context.Background(), "embed:///testdata/order.yaml")
	require.NoError(t, err)

	encoded, err := srv.EncodeYAML(process)
	require.NoError(t, err)
	decoded, err := srv.DecodeYAML(encoded)
	require.NoError(t, err)

	assert.Equal(t, process.ID, decoded.ID)
	assert.Equal(t, len(process.Elements), len(decoded.Elements))
	assert.Equal(t, len(process.Flows), len(decoded.Flows))
	payment := decoded.Element("payment").(*bpmn.ReceiveTask)
	assert.Equal(t, "orderPaid", payment.EventType())
	assert.Len(t, payment.Extensions(bpmn.ExtensionEventOutParameter), 1)
	notify := decoded.Element("notify").(*bpmn.ServiceTask)
	assert.Equal(t, "direct:notify", notify.Field("endpoint"))
	assert.True(t, notify.Async)
}

func TestService_CaseFileItems(t *testing.T) {
	testCases := []struct {
		description string
		items       string
		expect      []*cmmn.CaseFileItemDefinition
		expectValid bool
	}{
		{
			description: "standard and vendor types",
			items: `
  - id: invoice
    name: Invoice
    definitionType: http://www.omg.org/spec/CMMN/DefinitionType/CMISDocument
  - id: attachments
    type: http://flowable.org/cmmn/DefinitionType/Folder
  - id: notes`,
			expect: []*cmmn.CaseFileItemDefinition{
				{ID: "invoice", Name: "Invoice", DefinitionType: cmmn.TypeCMISDocument},
				{ID: "attachments", DefinitionType: cmmn.TypeFolder},
				{ID: "notes"},
			},
			expectValid: true,
		},
		{
			description: "unsupported type",
			items: `
  - id: schema
    definitionType: http://www.omg.org/spec/CMMN/DefinitionType/XSDElement`,
			expect: []*cmmn.CaseFileItemDefinition{
				{ID: "schema", DefinitionType: "http://www.omg.org/spec/CMMN/DefinitionType/XSDElement"},
			},
		},
	}
	srv := New()
	for _, testCase := range testCases {
		definition := "id: claim\ncaseFileItems:" + testCase.items + "\nelements:\n  start: {type: startEvent}\n  end: {type: endEvent}\n"
		process, err := srv.DecodeYAML([]byte(definition))
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, process.CaseFileItems, testCase.description)
		assert.Equal(t, testCase.expectValid, len(process.Validate()) == 0, testCase.description)

		encoded, err := srv.EncodeYAML(process)
		require.NoError(t, err, testCase.description)
		assert.True(t, strings.Contains(string(encoded), "caseFileItems:"), testCase.description)
		decoded, err := srv.DecodeYAML(encoded)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, process.CaseFileItems, decoded.CaseFileItems, testCase.description)
	}
}
