package yml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decode(t *testing.T, text string) *Node {
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(text), &node))
	return (*Node)(&node).Root()
}

func TestNode_Lookup(t *testing.T) {
	node := decode(t, "Name: receive\nasync: true\ntags: [a, b]\nfields:\n  endpoint: direct:x\n")
	name, err := node.Lookup("name").String()
	require.NoError(t, err)
	assert.Equal(t, "receive", name)

	async, err := node.Lookup("ASYNC").Bool()
	require.NoError(t, err)
	assert.True(t, async)

	tags, err := node.Lookup("tags").Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tags)

	fields, err := node.Lookup("fields").StringMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"endpoint": "direct:x"}, fields)

	assert.Nil(t, node.Lookup("missing"))
	_, err = node.Lookup("fields").String()
	assert.Error(t, err)
}

func TestNode_Interface(t *testing.T) {
	node := decode(t, "a: 1\nb: 2.5\nc: [x, true]\nd: ~\n")
	assert.Equal(t, map[string]interface{}{
		"a": 1,
		"b": 2.5,
		"c": []interface{}{"x", true},
		"d": nil,
	}, node.Interface())
}

func TestNode_Put(t *testing.T) {
	root := NewMap()
	root.Put("id", "p1")
	root.Put("skipped", "")
	root.Put("async", true)
	root.Put("groups", []string{"g1"})
	root.Put("fields", map[string]string{"b": "2", "a": "1"})
	data, err := yaml.Marshal((*yaml.Node)(root))
	require.NoError(t, err)
	assert.Equal(t, "id: p1\nasync: true\ngroups:\n    - g1\nfields:\n    a: \"1\"\n    b: \"2\"\n", string(data))
}
