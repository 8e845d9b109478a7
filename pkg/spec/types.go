package spec

import (
	"strings"
	"time"
)

// PathParam is the stable placeholder substituted for interpolated URL
// segments, so that `/users/${id}` and `/users/${x}` report the same
// logical path.
const PathParam = ":param"

// Endpoint describes one discovered REST call site.
type Endpoint struct {
	Method             string            `json:"method"`
	Path               string            `json:"path"`
	Query              []string          `json:"query,omitempty"`
	Headers            map[string]string `json:"headers,omitempty"`
	ExampleRequestBody any               `json:"exampleRequestBody,omitempty"`
}

// Key returns the identity key for deduplication: method plus normalized path.
func (e Endpoint) Key() string {
	return strings.ToUpper(e.Method) + " " + e.Path
}

// GraphQLOperation describes one discovered GraphQL operation.
type GraphQLOperation struct {
	Endpoint         string         `json:"endpoint"`
	OperationType    string         `json:"operationType"`
	OperationName    string         `json:"operationName"`
	Document         string         `json:"document"`
	ExampleVariables map[string]any `json:"exampleVariables,omitempty"`
}

// Key returns the identity key for deduplication within an endpoint.
func (o GraphQLOperation) Key() string {
	return o.Endpoint + "#" + o.OperationName
}

// DiscoveryResult aggregates everything the scanners found. It is produced
// once per pipeline run and treated as immutable afterwards.
type DiscoveryResult struct {
	REST     []Endpoint         `json:"rest"`
	GraphQL  []GraphQLOperation `json:"graphql"`
	BaseURLs []string           `json:"baseUrls"`
	Notes    []string           `json:"notes,omitempty"`

	restKeys map[string]bool
	gqlKeys  map[string]bool
	baseKeys map[string]bool
}

// NewDiscoveryResult returns an empty result ready for accumulation.
func NewDiscoveryResult() *DiscoveryResult {
	return &DiscoveryResult{
		restKeys: make(map[string]bool),
		gqlKeys:  make(map[string]bool),
		baseKeys: make(map[string]bool),
	}
}

// AddEndpoint appends ep unless an endpoint with the same identity key was
// already recorded. The first occurrence wins.
func (d *DiscoveryResult) AddEndpoint(ep Endpoint) bool {
	if d.restKeys == nil {
		d.restKeys = make(map[string]bool)
		for _, e := range d.REST {
			d.restKeys[e.Key()] = true
		}
	}
	if ep.Method == "" {
		ep.Method = "GET"
	}
	ep.Method = strings.ToUpper(ep.Method)
	if d.restKeys[ep.Key()] {
		return false
	}
	d.restKeys[ep.Key()] = true
	d.REST = append(d.REST, ep)
	return true
}

// AddOperation appends op unless an operation with the same name was already
// recorded for its endpoint.
func (d *DiscoveryResult) AddOperation(op GraphQLOperation) bool {
	if d.gqlKeys == nil {
		d.gqlKeys = make(map[string]bool)
		for _, o := range d.GraphQL {
			d.gqlKeys[o.Key()] = true
		}
	}
	if op.Endpoint == "" {
		op.Endpoint = "/graphql"
	}
	if d.gqlKeys[op.Key()] {
		return false
	}
	d.gqlKeys[op.Key()] = true
	d.GraphQL = append(d.GraphQL, op)
	return true
}

// AddBaseURL records a base URL, set semantics.
func (d *DiscoveryResult) AddBaseURL(u string) {
	if u == "" {
		return
	}
	if d.baseKeys == nil {
		d.baseKeys = make(map[string]bool)
		for _, b := range d.BaseURLs {
			d.baseKeys[b] = true
		}
	}
	if d.baseKeys[u] {
		return
	}
	d.baseKeys[u] = true
	d.BaseURLs = append(d.BaseURLs, u)
}

// AddNote records a diagnostic note.
func (d *DiscoveryResult) AddNote(note string) {
	d.Notes = append(d.Notes, note)
}

// Merge folds other into d, deduplicating by identity key (first-seen wins).
func (d *DiscoveryResult) Merge(other *DiscoveryResult) {
	if other == nil {
		return
	}
	for _, ep := range other.REST {
		d.AddEndpoint(ep)
	}
	for _, op := range other.GraphQL {
		d.AddOperation(op)
	}
	for _, u := range other.BaseURLs {
		d.AddBaseURL(u)
	}
	d.Notes = append(d.Notes, other.Notes...)
}

// RESTMock is one synthesized REST mock entry.
type RESTMock struct {
	Endpoint
	Status          int  `json:"status"`
	ExampleResponse any  `json:"exampleResponse"`
	Fallback        bool `json:"fallback,omitempty"`
}

// GraphQLMock is one synthesized GraphQL mock entry.
type GraphQLMock struct {
	GraphQLOperation
	ExampleResponse any  `json:"exampleResponse"`
	Fallback        bool `json:"fallback,omitempty"`
}

// Meta carries provenance for a MockSpec.
type Meta struct {
	ID          string    `json:"id"`
	BaseURLs    []string  `json:"baseUrls"`
	GeneratedAt time.Time `json:"generatedAt"`
	ModelID     string    `json:"modelId"`
	SourceCount int       `json:"sourceCount"`
}

// MockSpec is the synthesized mock specification, derived from exactly one
// DiscoveryResult. Every discovered call site yields exactly one entry.
type MockSpec struct {
	REST    []RESTMock    `json:"rest"`
	GraphQL []GraphQLMock `json:"graphql"`
	Meta    Meta          `json:"meta"`
}
