// Package portability exports a MockSpec to interchange formats so the
// discovered surface can be loaded into other API tooling.
package portability

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/mockbox/pkg/spec"
)

var pathParamRe = regexp.MustCompile(`\{([^}]+)\}`)

// ExportOpenAPI converts a MockSpec into an OpenAPI 3 document. Each REST
// entry becomes one operation whose response carries the stored example;
// GraphQL entries are summarized as a single POST operation per endpoint.
func ExportOpenAPI(ms *spec.MockSpec) (*openapi3.T, error) {
	if ms == nil {
		return nil, fmt.Errorf("mock spec is nil")
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Mock API",
			Description: fmt.Sprintf("Synthesized mock surface (%d sources, model %s)", ms.Meta.SourceCount, ms.Meta.ModelID),
			Version:     "1.0.0",
		},
	}

	for _, base := range ms.Meta.BaseURLs {
		if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
			doc.Servers = append(doc.Servers, &openapi3.Server{URL: base})
		}
	}

	for _, m := range ms.REST {
		path := spec.RoutePath(m.Path)
		doc.AddOperation(path, m.Method, restOperation(m, path))
	}

	for _, endpoint := range graphqlEndpoints(ms) {
		doc.AddOperation(endpoint, "POST", graphqlOperation(ms, endpoint))
	}

	return doc, nil
}

func restOperation(m spec.RESTMock, path string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = operationID(m.Method, path)
	op.Summary = fmt.Sprintf("%s %s", m.Method, m.Path)

	for _, match := range pathParamRe.FindAllStringSubmatch(path, -1) {
		p := openapi3.NewPathParameter(match[1]).WithSchema(openapi3.NewStringSchema())
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
	}

	for _, q := range m.Query {
		p := openapi3.NewQueryParameter(q).WithSchema(openapi3.NewStringSchema())
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
	}

	if m.ExampleRequestBody != nil {
		body := openapi3.NewRequestBody().WithContent(openapi3.Content{
			"application/json": &openapi3.MediaType{Example: m.ExampleRequestBody},
		})
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}

	desc := "Mocked response"
	op.AddResponse(m.Status, &openapi3.Response{
		Description: &desc,
		Content: openapi3.Content{
			"application/json": &openapi3.MediaType{Example: m.ExampleResponse},
		},
	})
	return op
}

func graphqlOperation(ms *spec.MockSpec, endpoint string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = operationID("POST", endpoint)

	var names []string
	for _, g := range ms.GraphQL {
		if g.Endpoint == endpoint {
			names = append(names, g.OperationName)
		}
	}
	op.Summary = "GraphQL endpoint"
	op.Description = "Dispatches by operationName: " + strings.Join(names, ", ")

	desc := "Mocked GraphQL response"
	op.AddResponse(200, &openapi3.Response{
		Description: &desc,
		Content: openapi3.Content{
			"application/json": &openapi3.MediaType{Example: map[string]any{"data": map[string]any{}}},
		},
	})
	return op
}

func graphqlEndpoints(ms *spec.MockSpec) []string {
	var out []string
	seen := map[string]bool{}
	for _, g := range ms.GraphQL {
		if !seen[g.Endpoint] {
			seen[g.Endpoint] = true
			out = append(out, g.Endpoint)
		}
	}
	return out
}

func operationID(method, path string) string {
	slug := strings.NewReplacer("/", "_", "{", "", "}", "", ":", "").Replace(strings.Trim(path, "/"))
	if slug == "" {
		slug = "root"
	}
	return strings.ToLower(method) + "_" + slug
}
