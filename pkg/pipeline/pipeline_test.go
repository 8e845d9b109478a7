package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockbox/pkg/ai"
	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/mockserver"
	"github.com/getmockd/mockbox/pkg/sandbox"
	"github.com/getmockd/mockbox/pkg/spec"
)

// fixtureProject writes a minimal Vite project with the given source files.
func fixtureProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()

	pkg := `{
  "name": "demo-app",
  "scripts": {"dev": "vite"},
  "devDependencies": {"vite": "^5.0.0"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(pkg), 0o644))

	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// unreachableProvider simulates an inference backend that is down.
func unreachableProvider() ai.Provider {
	return ai.NewOllamaProvider(&ai.Config{
		Endpoint: "http://127.0.0.1:1", // nothing listens here
		Timeout:  200 * time.Millisecond,
	})
}

func TestRunAllEndToEndWithUnreachableCollaborator(t *testing.T) {
	t.Setenv("PORT", "")
	root := fixtureProject(t, map[string]string{
		"src/todos.js": `
export async function listTodos() {
  const res = await fetch("/api/todos");
  return res.json();
}

export async function addTodo() {
  const res = await fetch("/api/todos", {
    method: "POST",
    body: JSON.stringify({ title: "x" }),
  });
  return res.json();
}
`,
	})

	var events []string
	r := New(Config{
		Root:            root,
		AIProvider:      unreachableProvider(),
		SandboxProvider: sandbox.NewNoopProvider(),
		Observer:        func(e Event) { events = append(events, e.Name) },
	})

	res, err := r.RunAll(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Services.Stop() })

	// Exactly two entries, both fallback.
	require.Len(t, res.MockSpec.REST, 2)
	assert.Empty(t, res.MockSpec.GraphQL)

	byKey := map[string]spec.RESTMock{}
	for _, m := range res.MockSpec.REST {
		assert.True(t, m.Fallback)
		byKey[m.Key()] = m
	}
	assert.Equal(t, []any{map[string]any{"id": "1", "message": "Mock response"}},
		byKey["GET /api/todos"].ExampleResponse)
	assert.Equal(t, map[string]any{"id": "1", "message": "Resource created"},
		byKey["POST /api/todos"].ExampleResponse)

	// The generated mock server serves both routes.
	srv := httptest.NewServer(mockserver.New(res.MockSpec, mockserver.Config{
		LatencyMin: time.Millisecond, LatencyMax: 2 * time.Millisecond,
	}).Handler())
	defer srv.Close()

	getResp, err := http.Get(srv.URL + "/api/todos")
	require.NoError(t, err)
	getResp.Body.Close()
	assert.Equal(t, 200, getResp.StatusCode)

	postResp, err := http.Post(srv.URL+"/api/todos", "application/json", strings.NewReader(`{"title":"x"}`))
	require.NoError(t, err)
	postResp.Body.Close()
	assert.Equal(t, 200, postResp.StatusCode)

	// Artifacts are on disk and loadable.
	manifest, ms, err := artifact.Load(artifact.Dir(root))
	require.NoError(t, err)
	assert.Equal(t, res.MockSpec.Meta.ID, manifest.SpecID)
	assert.Len(t, ms.REST, 2)

	// Lifecycle events, in order.
	require.GreaterOrEqual(t, len(events), 6)
	assert.Equal(t, EventDetected, events[0])
	assert.Equal(t, EventDiscovered, events[1])
	assert.Equal(t, EventSynthRequest, events[2])
	assert.Equal(t, EventServicesUp, events[len(events)-1])
	assert.Contains(t, events, EventArtifactsWritten)
}

func TestDetectFailureIsStageTagged(t *testing.T) {
	r := New(Config{Root: t.TempDir()}) // no package.json

	_, err := r.RunAll(context.Background())
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageDetect, stageErr.Stage)
}

func TestRunSandboxFailureAborts(t *testing.T) {
	t.Setenv("PORT", "")
	root := fixtureProject(t, map[string]string{
		"src/api.js": `fetch("/api/items");` + "\n",
	})

	compose := sandbox.NewComposeProvider()
	compose.Command = "false" // orchestration always fails

	r := New(Config{
		Root:            root,
		AIProvider:      unreachableProvider(),
		SandboxProvider: compose,
	})

	_, err := r.RunAll(context.Background())
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageRun, stageErr.Stage)

	var failure *sandbox.Failure
	assert.ErrorAs(t, err, &failure)
}

func TestStatelessAcrossRuns(t *testing.T) {
	t.Setenv("PORT", "")
	root := fixtureProject(t, map[string]string{
		"src/api.js": `fetch("/api/items");` + "\n",
	})

	r := New(Config{
		Root:            root,
		AIProvider:      unreachableProvider(),
		SandboxProvider: sandbox.NewNoopProvider(),
	})

	first, err := r.RunAll(context.Background())
	require.NoError(t, err)
	require.NoError(t, first.Services.Stop())

	second, err := r.RunAll(context.Background())
	require.NoError(t, err)
	require.NoError(t, second.Services.Stop())

	// Independent RunningServices and fresh spec identity per run.
	assert.NotSame(t, first.Services, second.Services)
	assert.NotEqual(t, first.MockSpec.Meta.ID, second.MockSpec.Meta.ID)
}

func TestStageErrorFormatting(t *testing.T) {
	err := &StageError{Stage: StageDiscover, Err: assert.AnError}
	assert.Contains(t, err.Error(), "discover")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestEventPayloadsCarryData(t *testing.T) {
	t.Setenv("PORT", "")
	root := fixtureProject(t, map[string]string{
		"src/api.js": `fetch("/api/items");` + "\n",
	})

	var discovered *spec.DiscoveryResult
	r := New(Config{
		Root:            root,
		AIProvider:      unreachableProvider(),
		SandboxProvider: sandbox.NewNoopProvider(),
		Observer: func(e Event) {
			if e.Name == EventDiscovered {
				discovered = e.Payload.(*spec.DiscoveryResult)
			}
		},
	})

	res, err := r.RunAll(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Services.Stop() })

	require.NotNil(t, discovered)
	require.Len(t, discovered.REST, 1)
	assert.Equal(t, "GET /api/items", discovered.REST[0].Key())
}

func TestMockSpecOnDiskValidates(t *testing.T) {
	t.Setenv("PORT", "")
	root := fixtureProject(t, map[string]string{
		"src/api.js": `fetch("/api/items");` + "\n",
	})

	r := New(Config{
		Root:            root,
		AIProvider:      unreachableProvider(),
		SandboxProvider: sandbox.NewNoopProvider(),
	})
	res, err := r.RunAll(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Services.Stop() })

	raw, err := os.ReadFile(filepath.Join(artifact.Dir(root), artifact.SpecFileName))
	require.NoError(t, err)

	var ms spec.MockSpec
	require.NoError(t, json.Unmarshal(raw, &ms))
	require.NoError(t, artifact.Validate(&ms))
}
