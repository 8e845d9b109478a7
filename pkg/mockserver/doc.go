// Package mockserver serves a MockSpec over HTTP.
//
// One route is registered per REST entry at its normalized path, returning
// the stored example response with the stored status code after a
// randomized latency sampled from the configured window. A single GraphQL
// route dispatches by operationName. A health route reports mock counts,
// and everything else falls through to a JSON 404.
package mockserver
