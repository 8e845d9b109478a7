package discovery

import (
	"context"
	"regexp"
	"strings"

	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/spec"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var (
	gqlTagRe      = regexp.MustCompile("(?s)\\b(?:gql|graphql)\\s*`([^`]*)`")
	gqlEndpointRe = regexp.MustCompile(`(?:uri|endpoint|url)\s*:\s*['"]([^'"]*graphql[^'"]*)['"]`)
	gqlClientRe   = regexp.MustCompile(`new\s+GraphQLClient\s*\(\s*['"]([^'"]+)['"]`)
)

// graphqlPackages mark a project as GraphQL-capable.
var graphqlPackages = []string{
	"graphql", "graphql-tag", "graphql-request", "@apollo/client", "urql", "@urql/core",
}

// GraphQLScanner discovers GraphQL operations declared in gql/graphql tagged
// template literals and attributes them to the client endpoint configured in
// the same codebase.
type GraphQLScanner struct{}

// NewGraphQLScanner returns the GraphQL operation scanner.
func NewGraphQLScanner() *GraphQLScanner { return &GraphQLScanner{} }

// Name identifies the scanner.
func (s *GraphQLScanner) Name() string { return "graphql" }

// Supports requires a GraphQL client package in the dependency tree.
func (s *GraphQLScanner) Supports(p *project.Project) bool {
	if p == nil {
		return false
	}
	for _, name := range graphqlPackages {
		if _, ok := p.Package.Dependencies[name]; ok {
			return true
		}
		if _, ok := p.Package.DevDependencies[name]; ok {
			return true
		}
	}
	return false
}

// Discover scans for tagged operation documents. Parse failures of a single
// document are recorded as notes; the scan continues.
func (s *GraphQLScanner) Discover(ctx context.Context, p *project.Project) (*spec.DiscoveryResult, error) {
	result := spec.NewDiscoveryResult()

	// The endpoint is discovered per file but applies codebase-wide: the
	// last configured endpoint wins, defaulting to /graphql.
	endpoint := "/graphql"
	type parsedOp struct {
		op  spec.GraphQLOperation
		doc string
	}
	var ops []parsedOp

	err := scanFiles(ctx, p.Root, func(f fileVisit) {
		if m := gqlEndpointRe.FindStringSubmatch(f.Source); m != nil {
			endpoint = m[1]
		}
		if m := gqlClientRe.FindStringSubmatch(f.Source); m != nil {
			endpoint = m[1]
		}

		for _, m := range gqlTagRe.FindAllStringSubmatch(f.Source, -1) {
			doc := m[1]
			parsed, err := parseOperations(doc)
			if err != nil {
				result.AddNote("unparsable GraphQL document in " + f.Rel + ": " + err.Error())
				continue
			}
			for _, op := range parsed {
				ops = append(ops, parsedOp{op: op, doc: doc})
			}
		}
	}, result.AddNote)
	if err != nil {
		return nil, err
	}

	if origin, path := splitGraphQLEndpoint(endpoint); origin != "" {
		result.AddBaseURL(origin)
		endpoint = path
	}

	for _, entry := range ops {
		entry.op.Endpoint = endpoint
		result.AddOperation(entry.op)
	}
	return result, nil
}

// parseOperations parses a GraphQL document and returns one descriptor per
// named operation. Fragments-only documents yield nothing.
func parseOperations(doc string) ([]spec.GraphQLOperation, error) {
	trimmed := strings.TrimSpace(doc)
	if trimmed == "" {
		return nil, nil
	}

	parsed, err := parser.ParseQuery(&ast.Source{Name: "call-site", Input: trimmed})
	if err != nil {
		return nil, err
	}

	var ops []spec.GraphQLOperation
	for _, op := range parsed.Operations {
		name := op.Name
		if name == "" {
			name = "anonymous"
		}
		ops = append(ops, spec.GraphQLOperation{
			OperationType:    string(op.Operation),
			OperationName:    name,
			Document:         trimmed,
			ExampleVariables: exampleVariables(op),
		})
	}
	return ops, nil
}

// exampleVariables emits a null placeholder per declared variable so the
// synthesized mock knows the operation's input surface.
func exampleVariables(op *ast.OperationDefinition) map[string]any {
	if len(op.VariableDefinitions) == 0 {
		return nil
	}
	vars := make(map[string]any, len(op.VariableDefinitions))
	for _, v := range op.VariableDefinitions {
		vars[v.Variable] = nil
	}
	return vars
}

func splitGraphQLEndpoint(endpoint string) (origin, path string) {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return spec.SplitURL(endpoint)
	}
	return "", endpoint
}
