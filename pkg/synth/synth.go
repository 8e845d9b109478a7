package synth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/getmockd/mockbox/internal/id"
	"github.com/getmockd/mockbox/pkg/ai"
	"github.com/getmockd/mockbox/pkg/logging"
	"github.com/getmockd/mockbox/pkg/spec"
)

// Emitter receives a named progress event with a payload. A nil Emitter is
// valid and drops all events.
type Emitter func(event string, payload any)

// Event names emitted around each synthesis attempt.
const (
	EventRequest  = "synthesis-request"
	EventResponse = "synthesis-response"
)

// RequestEvent is the payload emitted immediately before a synthesis attempt.
type RequestEvent struct {
	Kind   string `json:"kind"` // "rest" or "graphql"
	Key    string `json:"key"`
	Index  int    `json:"index"`
	Total  int    `json:"total"`
	Method string `json:"method,omitempty"`
	Path   string `json:"path"`
}

// ResponseEvent is the payload emitted after each attempt, successful or not.
type ResponseEvent struct {
	Kind     string `json:"kind"`
	Key      string `json:"key"`
	Fallback bool   `json:"fallback"`
	Error    string `json:"error,omitempty"`
}

// Synthesizer builds a MockSpec from a DiscoveryResult, one endpoint at a
// time. Synthesis is sequential: it keeps event ordering deterministic and
// avoids flooding a typically local, single-instance inference backend.
type Synthesizer struct {
	provider ai.Provider
	emit     Emitter
	log      *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithEmitter installs a progress event callback.
func WithEmitter(emit Emitter) Option {
	return func(s *Synthesizer) { s.emit = emit }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Synthesizer) { s.log = log }
}

// New creates a Synthesizer around the given provider. A nil provider is
// valid: every endpoint then receives its fallback response.
func New(provider ai.Provider, opts ...Option) *Synthesizer {
	s := &Synthesizer{provider: provider}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	return s
}

// Synthesize produces a MockSpec with exactly one entry per discovered
// endpoint and operation. Provider failures never drop an endpoint; the
// affected entry carries a deterministic fallback response instead.
func (s *Synthesizer) Synthesize(ctx context.Context, result *spec.DiscoveryResult) (*spec.MockSpec, error) {
	if result == nil {
		return nil, errors.New("synth: nil discovery result")
	}

	total := len(result.REST) + len(result.GraphQL)
	ms := &spec.MockSpec{
		REST:    make([]spec.RESTMock, 0, len(result.REST)),
		GraphQL: make([]spec.GraphQLMock, 0, len(result.GraphQL)),
		Meta: spec.Meta{
			ID:          id.New(),
			BaseURLs:    result.BaseURLs,
			GeneratedAt: time.Now().UTC(),
			ModelID:     s.modelID(),
			SourceCount: total,
		},
	}

	idx := 0
	for _, ep := range result.REST {
		idx++
		s.fire(EventRequest, RequestEvent{
			Kind: "rest", Key: ep.Key(), Index: idx, Total: total,
			Method: ep.Method, Path: ep.Path,
		})

		mock := s.synthesizeREST(ctx, ep)
		ms.REST = append(ms.REST, mock)

		s.fire(EventResponse, ResponseEvent{Kind: "rest", Key: ep.Key(), Fallback: mock.Fallback})
	}

	for _, op := range result.GraphQL {
		idx++
		s.fire(EventRequest, RequestEvent{
			Kind: "graphql", Key: op.Key(), Index: idx, Total: total,
			Path: op.Endpoint,
		})

		mock := s.synthesizeGraphQL(ctx, op)
		ms.GraphQL = append(ms.GraphQL, mock)

		s.fire(EventResponse, ResponseEvent{Kind: "graphql", Key: op.Key(), Fallback: mock.Fallback})
	}

	return ms, nil
}

func (s *Synthesizer) synthesizeREST(ctx context.Context, ep spec.Endpoint) spec.RESTMock {
	if body, ok := s.ask(ctx, buildRESTPrompt(ep), ep.Key()); ok {
		// Providers return bodies only; every stored mock answers 200,
		// creates included.
		return spec.RESTMock{
			Endpoint:        ep,
			Status:          200,
			ExampleResponse: body,
		}
	}

	response, status := fallbackREST(ep)
	return spec.RESTMock{
		Endpoint:        ep,
		Status:          status,
		ExampleResponse: response,
		Fallback:        true,
	}
}

func (s *Synthesizer) synthesizeGraphQL(ctx context.Context, op spec.GraphQLOperation) spec.GraphQLMock {
	if body, ok := s.ask(ctx, buildGraphQLPrompt(op), op.Key()); ok {
		// The GraphQL transport always wraps results in a data envelope.
		if m, isObj := body.(map[string]any); isObj {
			if _, hasData := m["data"]; hasData {
				return spec.GraphQLMock{GraphQLOperation: op, ExampleResponse: body}
			}
			return spec.GraphQLMock{GraphQLOperation: op, ExampleResponse: map[string]any{"data": m}}
		}
	}

	return spec.GraphQLMock{
		GraphQLOperation: op,
		ExampleResponse:  fallbackGraphQL(),
		Fallback:         true,
	}
}

// ask performs one provider round trip and parses the answer as JSON. If
// direct parsing fails, code fences are stripped and parsing is retried
// once. Any failure reports ok=false; the caller substitutes a fallback.
func (s *Synthesizer) ask(ctx context.Context, userPrompt, key string) (any, bool) {
	if s.provider == nil {
		return nil, false
	}

	raw, err := s.provider.Synthesize(ctx, systemPrompt, userPrompt)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrUnreachable):
			s.log.Warn("provider unreachable, using fallback", "endpoint", key, "error", err)
		default:
			s.log.Warn("provider failed, using fallback", "endpoint", key, "error", err)
		}
		return nil, false
	}

	var body any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		stripped := ai.StripCodeFences(raw)
		if err := json.Unmarshal([]byte(stripped), &body); err != nil {
			s.log.Warn("unparsable provider response, using fallback", "endpoint", key)
			return nil, false
		}
	}
	return body, true
}

func (s *Synthesizer) fire(event string, payload any) {
	if s.emit != nil {
		s.emit(event, payload)
	}
}

func (s *Synthesizer) modelID() string {
	if s.provider == nil {
		return "fallback"
	}
	if m, ok := s.provider.(interface{ Model() string }); ok {
		return s.provider.Name() + "/" + m.Model()
	}
	return s.provider.Name()
}
