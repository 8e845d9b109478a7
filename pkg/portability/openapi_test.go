package portability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockbox/pkg/spec"
)

func exportFixture() *spec.MockSpec {
	return &spec.MockSpec{
		REST: []spec.RESTMock{
			{
				Endpoint:        spec.Endpoint{Method: "GET", Path: "/api/users", Query: []string{"page"}},
				Status:          200,
				ExampleResponse: []any{map[string]any{"id": "1"}},
			},
			{
				Endpoint:        spec.Endpoint{Method: "GET", Path: "/api/users/:param"},
				Status:          200,
				ExampleResponse: map[string]any{"id": "1"},
			},
			{
				Endpoint: spec.Endpoint{
					Method:             "POST",
					Path:               "/api/users",
					ExampleRequestBody: map[string]any{"name": "Ada"},
				},
				Status:          201,
				ExampleResponse: map[string]any{"id": "1", "name": "Ada"},
			},
		},
		GraphQL: []spec.GraphQLMock{
			{
				GraphQLOperation: spec.GraphQLOperation{
					Endpoint:      "/graphql",
					OperationType: "query",
					OperationName: "GetUsers",
				},
				ExampleResponse: map[string]any{"data": map[string]any{}},
			},
		},
		Meta: spec.Meta{
			ID:          "spec-1",
			BaseURLs:    []string{"https://api.example.com", "/api"},
			ModelID:     "ollama/llama3.2",
			SourceCount: 4,
		},
	}
}

func TestExportOpenAPI(t *testing.T) {
	doc, err := ExportOpenAPI(exportFixture())
	require.NoError(t, err)

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	require.Len(t, doc.Servers, 1, "relative base URLs are not servers")
	assert.Equal(t, "https://api.example.com", doc.Servers[0].URL)

	users := doc.Paths.Find("/api/users")
	require.NotNil(t, users)
	require.NotNil(t, users.Get)
	require.NotNil(t, users.Post)

	getResp := users.Get.Responses.Status(200)
	require.NotNil(t, getResp)
	assert.Equal(t, []any{map[string]any{"id": "1"}},
		getResp.Value.Content["application/json"].Example)

	// Query parameter carried over.
	require.Len(t, users.Get.Parameters, 1)
	assert.Equal(t, "page", users.Get.Parameters[0].Value.Name)
	assert.Equal(t, "query", users.Get.Parameters[0].Value.In)

	// POST carries request body example and 201.
	require.NotNil(t, users.Post.RequestBody)
	require.NotNil(t, users.Post.Responses.Status(201))

	// Path parameter becomes a typed path parameter.
	byID := doc.Paths.Find("/api/users/{p0}")
	require.NotNil(t, byID)
	require.NotNil(t, byID.Get)
	require.Len(t, byID.Get.Parameters, 1)
	assert.Equal(t, "p0", byID.Get.Parameters[0].Value.Name)
	assert.Equal(t, "path", byID.Get.Parameters[0].Value.In)

	// GraphQL endpoint summarized as one POST operation.
	gql := doc.Paths.Find("/graphql")
	require.NotNil(t, gql)
	require.NotNil(t, gql.Post)
	assert.Contains(t, gql.Post.Description, "GetUsers")
}

func TestExportOpenAPIMarshals(t *testing.T) {
	doc, err := ExportOpenAPI(exportFixture())
	require.NoError(t, err)

	data, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"openapi":"3.0.3"`)
}

func TestExportOpenAPINil(t *testing.T) {
	_, err := ExportOpenAPI(nil)
	assert.Error(t, err)
}

func TestOperationID(t *testing.T) {
	assert.Equal(t, "get_api_users", operationID("GET", "/api/users"))
	assert.Equal(t, "get_api_users_p0", operationID("GET", "/api/users/{p0}"))
	assert.Equal(t, "get_root", operationID("GET", "/"))
}
