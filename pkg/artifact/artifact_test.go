package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockbox/pkg/spec"
)

func specFixture() *spec.MockSpec {
	return &spec.MockSpec{
		REST: []spec.RESTMock{
			{
				Endpoint:        spec.Endpoint{Method: "GET", Path: "/api/todos"},
				Status:          200,
				ExampleResponse: []any{map[string]any{"id": "1", "message": "Mock response"}},
				Fallback:        true,
			},
			{
				Endpoint:        spec.Endpoint{Method: "POST", Path: "/api/todos"},
				Status:          201,
				ExampleResponse: map[string]any{"id": "1", "message": "Resource created"},
				Fallback:        true,
			},
		},
		GraphQL: []spec.GraphQLMock{
			{
				GraphQLOperation: spec.GraphQLOperation{
					Endpoint:      "/graphql",
					OperationType: "query",
					OperationName: "GetTodos",
					Document:      "query GetTodos { todos { id } }",
				},
				ExampleResponse: map[string]any{"data": map[string]any{}},
				Fallback:        true,
			},
		},
		Meta: spec.Meta{
			ID:          "spec-1",
			GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			ModelID:     "fallback",
			SourceCount: 3,
		},
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	manifest, err := Write(root, specFixture(), Options{})
	require.NoError(t, err)

	assert.Equal(t, "spec-1", manifest.SpecID)
	assert.Equal(t, DefaultPort, manifest.Port)
	assert.Equal(t, 100, manifest.LatencyMinMS)
	assert.Equal(t, 300, manifest.LatencyMaxMS)
	assert.Equal(t, 2, manifest.RESTCount)
	assert.Equal(t, 1, manifest.GraphQLCount)

	loaded, ms, err := Load(Dir(root))
	require.NoError(t, err)
	assert.Equal(t, manifest.SpecID, loaded.SpecID)
	require.Len(t, ms.REST, 2)
	assert.Equal(t, "GET", ms.REST[0].Method)
	assert.Equal(t, "/api/todos", ms.REST[0].Path)
	require.Len(t, ms.GraphQL, 1)
	assert.Equal(t, "GetTodos", ms.GraphQL[0].OperationName)
}

func TestWriteIsIdempotent(t *testing.T) {
	root := t.TempDir()
	ms := specFixture()

	_, err := Write(root, ms, Options{Port: 5001})
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(Dir(root), SpecFileName))
	require.NoError(t, err)

	_, err = Write(root, ms, Options{Port: 5001})
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(Dir(root), SpecFileName))
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-writing the same spec must overwrite, not append")
}

func TestWriteDoesNotTouchProjectSource(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src", "app.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("fetch('/api/todos')\n"), 0o644))

	_, err := Write(root, specFixture(), Options{})
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"src", SandboxDirName}, names)
}

func TestSpecPersistedVerbatim(t *testing.T) {
	root := t.TempDir()
	ms := specFixture()

	_, err := Write(root, ms, Options{})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(Dir(root), SpecFileName))
	require.NoError(t, err)

	want, err := json.Marshal(ms)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(raw))
}

func TestValidateRejectsBadSpec(t *testing.T) {
	ms := specFixture()
	ms.REST[0].Method = "FETCH"

	err := Validate(ms)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mock spec")
}

func TestValidateRejectsNil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestValidateRejectsBadStatus(t *testing.T) {
	ms := specFixture()
	ms.REST[0].Status = 42

	assert.Error(t, Validate(ms))
}

func TestLoadMissingDirectory(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadRejectsTamperedSpec(t *testing.T) {
	root := t.TempDir()
	_, err := Write(root, specFixture(), Options{})
	require.NoError(t, err)

	// A hand-edited spec with an out-of-range status must not load.
	dir := Dir(root)
	data, err := os.ReadFile(filepath.Join(dir, SpecFileName))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["rest"].([]any)[0].(map[string]any)["status"] = 42
	data, err = json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, SpecFileName), data, 0o644))

	_, _, err = Load(dir)
	assert.ErrorContains(t, err, "invalid mock spec")
}

func TestManifestLatencyWindow(t *testing.T) {
	m := &Manifest{LatencyMinMS: 50, LatencyMaxMS: 150}
	min, max := m.LatencyWindow()
	assert.Equal(t, 50*time.Millisecond, min)
	assert.Equal(t, 150*time.Millisecond, max)
}
