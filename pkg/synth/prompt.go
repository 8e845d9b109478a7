package synth

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getmockd/mockbox/pkg/spec"
)

// System prompt for the text-generation provider.
const systemPrompt = `You are a mock API response generator. Given a description of an HTTP endpoint, generate a realistic example JSON response body.

Rules:
1. Return ONLY valid JSON, no explanations, no markdown formatting
2. Make data realistic and contextually appropriate based on the resource names in the path
3. Collection endpoints return a JSON array of 2-3 items
4. Single-resource endpoints return one JSON object
5. Every resource object has a string "id" field
6. Use common patterns (realistic names, emails, dates in RFC 3339)
7. Keep responses small: at most 6 fields per object`

// endpointKind classifies a REST endpoint by its response semantics.
type endpointKind int

const (
	kindCollection endpointKind = iota // GET on a collection path
	kindByID                           // GET on a path ending in a parameter
	kindCreate                         // POST
	kindUpdate                         // PUT or PATCH
	kindDelete                         // DELETE
	kindOther
)

func classify(ep spec.Endpoint) endpointKind {
	switch ep.Method {
	case "GET":
		if spec.IsParam(spec.LastSegment(ep.Path)) {
			return kindByID
		}
		return kindCollection
	case "POST":
		return kindCreate
	case "PUT", "PATCH":
		return kindUpdate
	case "DELETE":
		return kindDelete
	default:
		return kindOther
	}
}

// resourceHint extracts the most descriptive path segment, skipping
// parameter placeholders and generic API prefixes.
func resourceHint(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		s := segments[i]
		if s == "" || spec.IsParam(s) {
			continue
		}
		switch strings.ToLower(s) {
		case "api", "v1", "v2", "v3", "rest":
			continue
		}
		return s
	}
	return "resource"
}

// buildRESTPrompt describes one REST endpoint in natural language.
func buildRESTPrompt(ep spec.Endpoint) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate an example JSON response for this endpoint:\n\n")
	fmt.Fprintf(&b, "Method: %s\nPath: %s\nResource: %s\n", ep.Method, ep.Path, resourceHint(ep.Path))

	switch classify(ep) {
	case kindCollection:
		b.WriteString("Semantics: list a collection. Return a JSON array of 2-3 objects.\n")
	case kindByID:
		b.WriteString("Semantics: fetch a single resource by id. Return one JSON object.\n")
	case kindCreate:
		b.WriteString("Semantics: create a resource. Return the created object including its new id.\n")
	case kindUpdate:
		b.WriteString("Semantics: update a resource. Return the updated object.\n")
	case kindDelete:
		b.WriteString("Semantics: delete a resource. Return a small success confirmation object.\n")
	default:
		b.WriteString("Semantics: generic operation. Return a small JSON object.\n")
	}

	if len(ep.Query) > 0 {
		keys := append([]string(nil), ep.Query...)
		sort.Strings(keys)
		fmt.Fprintf(&b, "Query parameters: %s\n", strings.Join(keys, ", "))
	}

	if ep.ExampleRequestBody != nil {
		if body, err := json.Marshal(ep.ExampleRequestBody); err == nil {
			fmt.Fprintf(&b, "Example request body: %s\n", body)
		}
	}

	b.WriteString("\nReturn ONLY the JSON response body, nothing else.")
	return b.String()
}

// buildGraphQLPrompt describes one GraphQL operation.
func buildGraphQLPrompt(op spec.GraphQLOperation) string {
	var b strings.Builder

	b.WriteString("Generate an example JSON response for this GraphQL operation:\n\n")
	fmt.Fprintf(&b, "Operation type: %s\n", op.OperationType)
	if op.OperationName != "" {
		fmt.Fprintf(&b, "Operation name: %s\n", op.OperationName)
	}
	fmt.Fprintf(&b, "Document:\n%s\n", op.Document)

	if op.ExampleVariables != nil {
		if vars, err := json.Marshal(op.ExampleVariables); err == nil {
			fmt.Fprintf(&b, "Variables: %s\n", vars)
		}
	}

	b.WriteString("\nReturn ONLY a JSON object of the form {\"data\": {...}} matching the selection set, nothing else.")
	return b.String()
}
