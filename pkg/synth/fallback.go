package synth

import "github.com/getmockd/mockbox/pkg/spec"

// fallbackREST returns the deterministic rule-based response used when the
// provider fails. The shape depends only on the endpoint's method and path.
func fallbackREST(ep spec.Endpoint) (any, int) {
	switch classify(ep) {
	case kindCollection:
		return []any{map[string]any{"id": "1", "message": "Mock response"}}, 200
	case kindByID:
		return map[string]any{"id": "1", "message": "Mock response"}, 200
	case kindCreate:
		return map[string]any{"id": "1", "message": "Resource created"}, 200
	case kindUpdate:
		return map[string]any{"id": "1", "message": "Resource updated"}, 200
	case kindDelete:
		return map[string]any{"success": true, "message": "Resource deleted"}, 200
	default:
		return map[string]any{"message": "Mock response"}, 200
	}
}

// fallbackGraphQL returns the deterministic fallback for a GraphQL
// operation: an envelope with an empty data object.
func fallbackGraphQL() any {
	return map[string]any{"data": map[string]any{}}
}
