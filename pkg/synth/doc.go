// Package synth turns discovered API surfaces into a complete MockSpec.
//
// For every discovered endpoint it asks a text-generation provider for a
// realistic example response, constrained to JSON only. When the provider
// is unreachable or answers with unusable output, a deterministic
// rule-based fallback response is substituted so that no endpoint is ever
// dropped from the resulting spec.
package synth
