package synth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockbox/pkg/ai"
	"github.com/getmockd/mockbox/pkg/spec"
)

// stubProvider returns canned responses or a fixed error.
type stubProvider struct {
	response string
	err      error
	calls    int
}

func (p *stubProvider) Synthesize(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func (p *stubProvider) Name() string { return "stub" }

func discoveryFixture(t *testing.T) *spec.DiscoveryResult {
	t.Helper()
	r := spec.NewDiscoveryResult()
	r.AddEndpoint(spec.Endpoint{Method: "GET", Path: "/api/users"})
	r.AddEndpoint(spec.Endpoint{Method: "GET", Path: "/api/users/:param"})
	r.AddEndpoint(spec.Endpoint{Method: "POST", Path: "/api/users"})
	r.AddEndpoint(spec.Endpoint{Method: "PUT", Path: "/api/users/:param"})
	r.AddEndpoint(spec.Endpoint{Method: "DELETE", Path: "/api/users/:param"})
	r.AddOperation(spec.GraphQLOperation{
		Endpoint:      "/graphql",
		OperationType: "query",
		OperationName: "GetUsers",
		Document:      "query GetUsers { users { id } }",
	})
	return r
}

func TestSynthesizeNeverDropsEndpoints(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	s := New(provider)

	ms, err := s.Synthesize(context.Background(), discoveryFixture(t))
	require.NoError(t, err)

	assert.Len(t, ms.REST, 5)
	assert.Len(t, ms.GraphQL, 1)
	assert.Equal(t, 6, ms.Meta.SourceCount)
	for _, m := range ms.REST {
		assert.True(t, m.Fallback, "endpoint %s should carry a fallback", m.Key())
	}
	assert.True(t, ms.GraphQL[0].Fallback)
}

func TestFallbackShapes(t *testing.T) {
	s := New(nil)

	ms, err := s.Synthesize(context.Background(), discoveryFixture(t))
	require.NoError(t, err)
	require.Len(t, ms.REST, 5)

	byKey := map[string]spec.RESTMock{}
	for _, m := range ms.REST {
		byKey[m.Key()] = m
	}

	collection := byKey["GET /api/users"]
	assert.Equal(t, 200, collection.Status)
	assert.Equal(t, []any{map[string]any{"id": "1", "message": "Mock response"}}, collection.ExampleResponse)

	byID := byKey["GET /api/users/:param"]
	assert.Equal(t, map[string]any{"id": "1", "message": "Mock response"}, byID.ExampleResponse)

	created := byKey["POST /api/users"]
	assert.Equal(t, 200, created.Status)
	assert.Equal(t, map[string]any{"id": "1", "message": "Resource created"}, created.ExampleResponse)

	updated := byKey["PUT /api/users/:param"]
	assert.Equal(t, map[string]any{"id": "1", "message": "Resource updated"}, updated.ExampleResponse)

	deleted := byKey["DELETE /api/users/:param"]
	assert.Equal(t, map[string]any{"success": true, "message": "Resource deleted"}, deleted.ExampleResponse)

	assert.Equal(t, map[string]any{"data": map[string]any{}}, ms.GraphQL[0].ExampleResponse)
	assert.Equal(t, "fallback", ms.Meta.ModelID)
}

func TestSynthesizeUsesProviderResponse(t *testing.T) {
	provider := &stubProvider{response: `[{"id": "u1", "name": "Ada"}]`}
	s := New(provider)

	r := spec.NewDiscoveryResult()
	r.AddEndpoint(spec.Endpoint{Method: "GET", Path: "/api/users"})

	ms, err := s.Synthesize(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, ms.REST, 1)

	assert.False(t, ms.REST[0].Fallback)
	assert.Equal(t, 200, ms.REST[0].Status)
	assert.Equal(t, []any{map[string]any{"id": "u1", "name": "Ada"}}, ms.REST[0].ExampleResponse)
	assert.Equal(t, "stub", ms.Meta.ModelID)
}

func TestSynthesizeStripsCodeFences(t *testing.T) {
	provider := &stubProvider{response: "```json\n{\"id\": \"u1\"}\n```"}
	s := New(provider)

	r := spec.NewDiscoveryResult()
	r.AddEndpoint(spec.Endpoint{Method: "GET", Path: "/api/users/:param"})

	ms, err := s.Synthesize(context.Background(), r)
	require.NoError(t, err)

	assert.False(t, ms.REST[0].Fallback)
	assert.Equal(t, map[string]any{"id": "u1"}, ms.REST[0].ExampleResponse)
}

func TestSynthesizeMalformedResponseFallsBack(t *testing.T) {
	provider := &stubProvider{response: "Sure! Here is the JSON you asked for."}
	s := New(provider)

	r := spec.NewDiscoveryResult()
	r.AddEndpoint(spec.Endpoint{Method: "GET", Path: "/api/users"})

	ms, err := s.Synthesize(context.Background(), r)
	require.NoError(t, err)

	assert.True(t, ms.REST[0].Fallback)
}

func TestGraphQLResponseWrappedInDataEnvelope(t *testing.T) {
	provider := &stubProvider{response: `{"users": [{"id": "1"}]}`}
	s := New(provider)

	r := spec.NewDiscoveryResult()
	r.AddOperation(spec.GraphQLOperation{
		Endpoint:      "/graphql",
		OperationType: "query",
		OperationName: "GetUsers",
		Document:      "query GetUsers { users { id } }",
	})

	ms, err := s.Synthesize(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, ms.GraphQL, 1)

	resp, ok := ms.GraphQL[0].ExampleResponse.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, resp, "data")
}

func TestEventsSurroundEachAttempt(t *testing.T) {
	provider := &stubProvider{err: ai.ErrUnreachable}

	var events []string
	s := New(provider, WithEmitter(func(event string, payload any) {
		events = append(events, event)
	}))

	_, err := s.Synthesize(context.Background(), discoveryFixture(t))
	require.NoError(t, err)

	// One request/response pair per entry, in order.
	require.Len(t, events, 12)
	for i := 0; i < len(events); i += 2 {
		assert.Equal(t, EventRequest, events[i])
		assert.Equal(t, EventResponse, events[i+1])
	}
}

func TestMetaPopulated(t *testing.T) {
	s := New(&stubProvider{response: `{}`})

	r := spec.NewDiscoveryResult()
	r.AddEndpoint(spec.Endpoint{Method: "GET", Path: "/api/things"})
	r.AddBaseURL("https://api.example.com")

	ms, err := s.Synthesize(context.Background(), r)
	require.NoError(t, err)

	assert.NotEmpty(t, ms.Meta.ID)
	assert.False(t, ms.Meta.GeneratedAt.IsZero())
	assert.Equal(t, []string{"https://api.example.com"}, ms.Meta.BaseURLs)
	assert.Equal(t, 1, ms.Meta.SourceCount)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		method, path string
		want         endpointKind
	}{
		{"GET", "/api/users", kindCollection},
		{"GET", "/api/users/:param", kindByID},
		{"POST", "/api/users", kindCreate},
		{"PUT", "/api/users/:param", kindUpdate},
		{"PATCH", "/api/users/:param", kindUpdate},
		{"DELETE", "/api/users/:param", kindDelete},
		{"OPTIONS", "/api/users", kindOther},
	}
	for _, tt := range tests {
		got := classify(spec.Endpoint{Method: tt.method, Path: tt.path})
		assert.Equal(t, tt.want, got, "%s %s", tt.method, tt.path)
	}
}

func TestResourceHint(t *testing.T) {
	assert.Equal(t, "users", resourceHint("/api/users"))
	assert.Equal(t, "users", resourceHint("/api/users/:param"))
	assert.Equal(t, "orders", resourceHint("/api/v2/orders/:param"))
	assert.Equal(t, "resource", resourceHint("/"))
}
