package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gqlPkgJSON = `{"name": "fixture", "dependencies": {"graphql-request": "^6.0.0"}}`

func TestGraphQLScannerSupports(t *testing.T) {
	s := NewGraphQLScanner()
	assert.True(t, s.Supports(fixtureProject(t, gqlPkgJSON, nil)))
	assert.False(t, s.Supports(fixtureProject(t, `{"name": "fixture"}`, nil)))
}

func TestGraphQLScannerFindsOperations(t *testing.T) {
	src := "import { gql } from \"graphql-request\";\n" +
		"const GET_USER = gql`\n" +
		"  query GetUser($id: ID!) {\n" +
		"    user(id: $id) { id name }\n" +
		"  }\n" +
		"`;\n" +
		"const ADD_USER = gql`\n" +
		"  mutation AddUser($input: UserInput!) {\n" +
		"    addUser(input: $input) { id }\n" +
		"  }\n" +
		"`;\n"

	p := fixtureProject(t, gqlPkgJSON, map[string]string{"src/queries.js": src})

	d, err := NewGraphQLScanner().Discover(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, d.GraphQL, 2)

	byName := map[string]string{}
	for _, op := range d.GraphQL {
		byName[op.OperationName] = op.OperationType
	}
	assert.Equal(t, "query", byName["GetUser"])
	assert.Equal(t, "mutation", byName["AddUser"])

	for _, op := range d.GraphQL {
		assert.Equal(t, "/graphql", op.Endpoint)
		if op.OperationName == "GetUser" {
			assert.Contains(t, op.ExampleVariables, "id")
		}
	}
}

func TestGraphQLScannerEndpointFromClient(t *testing.T) {
	src := "import { GraphQLClient } from \"graphql-request\";\n" +
		"const client = new GraphQLClient(\"https://api.example.com/graphql\");\n" +
		"const Q = gql`query Ping { ping }`;\n"

	p := fixtureProject(t, gqlPkgJSON, map[string]string{"src/client.js": src})

	d, err := NewGraphQLScanner().Discover(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, d.GraphQL, 1)

	assert.Equal(t, "/graphql", d.GraphQL[0].Endpoint)
	assert.Contains(t, d.BaseURLs, "https://api.example.com")
}

func TestGraphQLScannerBadDocumentIsNoteNotError(t *testing.T) {
	src := "const Q = gql`query { unbalanced `;\n"

	p := fixtureProject(t, gqlPkgJSON, map[string]string{"src/broken.js": src})

	d, err := NewGraphQLScanner().Discover(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, d.GraphQL)
	assert.NotEmpty(t, d.Notes)
}

func TestGraphQLScannerDeduplicatesByOperationName(t *testing.T) {
	doc := "const Q = gql`query GetUser { user { id } }`;\n"
	p := fixtureProject(t, gqlPkgJSON, map[string]string{
		"src/a.js": doc,
		"src/b.js": doc,
	})

	d, err := NewGraphQLScanner().Discover(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, d.GraphQL, 1)
}
