package graphfile

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/physiq/internal/effects"
	"github.com/abhisek/physiq/internal/skillgraph"
)

func assertSampleGraph(t *testing.T, data skillgraph.Data) {
	t.Helper()
	assert.Equal(t, "1.2", data.Version)
	require.Len(t, data.Nodes, 5)
	require.Len(t, data.Specializations, 2)
	require.Len(t, data.Connections, 1)
	assert.Equal(t, skillgraph.Connection{Source: "radiation_physics", Target: "quantum_comprehension"}, data.Connections[0])

	qc := data.Nodes[4]
	assert.Equal(t, "quantum_comprehension", qc.ID)
	assert.Equal(t, 1, qc.Tier)
	assert.Equal(t, skillgraph.Cost{Reputation: 10, SkillPoints: 1}, qc.Cost)
	require.NotNil(t, qc.Position)
	assert.Equal(t, skillgraph.Position{X: 120, Y: -40}, *qc.Position)

	require.Len(t, qc.Effects, 3)
	assert.Equal(t, effects.Type("insight_gain_flat"), qc.Effects[0].Type)
	assert.True(t, qc.Effects[0].Value.Equal(effects.Number(2)))
	assert.True(t, qc.Effects[1].Value.Equal(effects.Number(0.1)))
	assert.Equal(t, "category == 'quantum'", qc.Effects[1].Condition)
	assert.Equal(t, effects.KindRaw, qc.Effects[2].Value.Kind())
	assert.JSONEq(t, `{"items":["dosimeter"]}`, string(qc.Effects[2].Value.Payload()))

	assert.NoError(t, skillgraph.Validate(data))
}

func TestLoadFormats(t *testing.T) {
	for _, name := range []string{"graph.json", "graph.yaml", "graph.hcl"} {
		t.Run(name, func(t *testing.T) {
			data, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)
			assertSampleGraph(t, data)
		})
	}
}

func TestSourceFetchGraph(t *testing.T) {
	src := Source{Path: filepath.Join("testdata", "graph.hcl")}
	data, err := src.FetchGraph(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Nodes, 5)
}

func TestSourceFor(t *testing.T) {
	_, ok := SourceFor("").(Builtin)
	assert.True(t, ok)
	assert.Equal(t, Source{Path: "g.hcl"}, SourceFor("g.hcl"))

	data, err := Builtin{}.FetchGraph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, skillgraph.Default().Version, data.Version)
}

func TestSourceFetchGraphCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Source{Path: filepath.Join("testdata", "graph.json")}.FetchGraph(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"tree.json", FormatJSON},
		{"tree.YAML", FormatYAML},
		{"tree.yml", FormatYAML},
		{"dir/tree.hcl", FormatHCL},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatOf("tree.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSchemaRejection(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "bad_schema.json"))
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se), "want *SchemaError, got %T", err)
	assert.Contains(t, se.Path, "bad_schema.json")
}

func TestSchemaRejectsBadColor(t *testing.T) {
	doc := []byte(`{"nodes": [], "specializations": [{"id": "x", "name": "X", "color": "blue"}]}`)
	_, err := Parse(FormatJSON, doc, "inline")
	var se *SchemaError
	assert.True(t, errors.As(err, &se))
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.json"))
	require.Error(t, err)
	var se *SchemaError
	assert.False(t, errors.As(err, &se))
}

func TestHCLSyntaxError(t *testing.T) {
	_, err := Parse(FormatHCL, []byte(`node "x" {`), "broken.hcl")
	assert.Error(t, err)
}

func TestDefaultGraphMatchesSchema(t *testing.T) {
	b, err := json.Marshal(skillgraph.Default())
	require.NoError(t, err)

	data, err := Parse(FormatJSON, b, "default")
	require.NoError(t, err)
	assert.Equal(t, len(skillgraph.Default().Nodes), len(data.Nodes))
}
