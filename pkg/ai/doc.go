// Package ai abstracts the text-generation collaborator used to synthesize
// realistic mock responses. Providers return raw text; callers parse it as
// JSON and fall back to rule-based responses when a provider is unreachable
// or returns unusable output.
package ai
