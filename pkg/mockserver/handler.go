package mockserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/getmockd/mockbox/pkg/spec"
)

// HealthPath is the mock server's health-check route.
const HealthPath = "/__health"

// Handler builds the router for the server's MockSpec.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	gqlPaths := s.graphqlPaths()
	gqlSet := map[string]bool{}
	for _, p := range gqlPaths {
		gqlSet[p] = true
	}

	for _, mock := range s.spec.REST {
		// The GraphQL dispatcher owns POSTs to its endpoints.
		if mock.Method == http.MethodPost && gqlSet[mock.Path] {
			continue
		}
		r.Method(mock.Method, spec.RoutePath(mock.Path), s.restHandler(mock))
	}

	for _, path := range gqlPaths {
		r.Post(path, s.graphqlHandler(path))
	}

	r.Get(HealthPath, s.healthHandler)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": "no mock registered for " + req.Method + " " + req.URL.Path,
		})
	})

	return r
}

func (s *Server) restHandler(mock spec.RESTMock) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		s.sleepLatency()
		s.log.Debug("mock hit", "method", mock.Method, "path", mock.Path, "status", mock.Status)
		writeJSON(w, mock.Status, mock.ExampleResponse)
	}
}

// graphqlPaths returns the distinct endpoints the spec's GraphQL
// operations are mounted on, in first-seen order.
func (s *Server) graphqlPaths() []string {
	var paths []string
	seen := map[string]bool{}
	for _, op := range s.spec.GraphQL {
		if !seen[op.Endpoint] {
			seen[op.Endpoint] = true
			paths = append(paths, op.Endpoint)
		}
	}
	return paths
}

type graphqlRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

func (s *Server) graphqlHandler(path string) http.HandlerFunc {
	// Dispatch table for this endpoint, by operation name.
	ops := map[string]spec.GraphQLMock{}
	for _, op := range s.spec.GraphQL {
		if op.Endpoint == path {
			ops[op.OperationName] = op
		}
	}

	return func(w http.ResponseWriter, req *http.Request) {
		s.sleepLatency()

		var gql graphqlRequest
		if err := json.NewDecoder(req.Body).Decode(&gql); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"errors": []map[string]any{{"message": "invalid GraphQL request body"}},
			})
			return
		}

		mock, ok := ops[gql.OperationName]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"errors": []map[string]any{{"message": "no mock for operation " + gql.OperationName}},
			})
			return
		}

		s.log.Debug("graphql mock hit", "endpoint", path, "operation", gql.OperationName)
		writeJSON(w, http.StatusOK, mock.ExampleResponse)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"specId":       s.spec.Meta.ID,
		"restMocks":    len(s.spec.REST),
		"graphqlMocks": len(s.spec.GraphQL),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}
