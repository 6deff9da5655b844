package resolver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yetics/armkit/internal/resolver"
	"github.com/yetics/armkit/internal/schema"
)

func mustParse(t *testing.T, js string) *schema.Node {
	t.Helper()
	node, err := schema.Parse([]byte(js))
	require.NoError(t, err)
	return node
}

func TestRefs(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{
			name: "plain object has no references",
			json: `{"type": "object", "properties": {"name": {"$ref": "#/definitions/name"}}}`,
			want: []string{},
		},
		{
			name: "scalar has no references",
			json: `"string"`,
			want: []string{},
		},
		{
			name: "reference replaces the node",
			json: `{"$ref": "R", "oneOf": [{"$ref": "ignored"}]}`,
			want: []string{"R"},
		},
		{
			name: "oneOf before allOf",
			json: `{"allOf": [{"$ref": "all"}], "oneOf": [{"$ref": "one1"}, {"$ref": "one2"}]}`,
			want: []string{"one1", "one2", "all"},
		},
		{
			name: "anyOf is not followed",
			json: `{"anyOf": [{"$ref": "a"}]}`,
			want: []string{},
		},
		{
			name: "array of nodes",
			json: `[{"$ref": "a"}, {"type": "string"}, {"oneOf": [{"$ref": "b"}]}]`,
			want: []string{"a", "b"},
		},
		{
			name: "doubly nested arrays flatten completely",
			json: `[[{"$ref": "a"}, [{"$ref": "b"}]], {"$ref": "c"}, [[[{"$ref": "d"}]]]]`,
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "nested compositions with arrays",
			json: `{"oneOf": [{"allOf": [{"$ref": "a"}, {"oneOf": [[{"$ref": "b"}], {"$ref": "c"}]}]}, {"$ref": "d"}]}`,
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "single node oneOf",
			json: `{"oneOf": {"$ref": "only"}}`,
			want: []string{"only"},
		},
		{
			name: "duplicates are kept by the walk",
			json: `[{"$ref": "a"}, {"$ref": "a"}]`,
			want: []string{"a", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Refs(mustParse(t, tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRefs_NilNode(t *testing.T) {
	got, err := resolver.Refs(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRefs_SharedSubtreeIsWalkedAtEachPosition(t *testing.T) {
	shared := schema.Ref("shared")
	root := schema.Array(shared, schema.Object(schema.Member{Key: "oneOf", Value: schema.Array(shared)}))

	got, err := resolver.Refs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "shared"}, got)
}

func TestRefs_CycleIsStructuralError(t *testing.T) {
	loop := schema.Array()
	loop.Items = append(loop.Items, schema.Ref("a"), loop)

	_, err := resolver.Refs(loop)
	require.Error(t, err)

	var structural *schema.StructuralError
	require.True(t, errors.As(err, &structural))
	assert.Equal(t, "/1", structural.Pointer)
}

func TestRefs_DepthBound(t *testing.T) {
	node := schema.Ref("bottom")
	for i := 0; i < 10; i++ {
		node = schema.Object(schema.Member{Key: "allOf", Value: schema.Array(node)})
	}

	got, err := resolver.Refs(node)
	require.NoError(t, err)
	assert.Equal(t, []string{"bottom"}, got)

	_, err = resolver.Refs(node, resolver.WithMaxDepth(5))
	assert.ErrorIs(t, err, schema.ErrStructural)
}
