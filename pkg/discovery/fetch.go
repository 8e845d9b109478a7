package discovery

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/spec"
)

var (
	fetchCallRe = regexp.MustCompile(`\bfetch\s*\(`)
	methodRe    = regexp.MustCompile(`method\s*:\s*['"]([A-Za-z]+)['"]`)
	bodyJSONRe  = regexp.MustCompile(`body\s*:\s*JSON\.stringify\s*\(`)
)

// FetchScanner discovers direct fetch() call sites.
type FetchScanner struct{}

// NewFetchScanner returns the fetch call-site scanner.
func NewFetchScanner() *FetchScanner { return &FetchScanner{} }

// Name identifies the scanner.
func (s *FetchScanner) Name() string { return "fetch" }

// Supports always returns true: fetch is ambient in every browser project.
func (s *FetchScanner) Supports(_ *project.Project) bool { return true }

// Discover scans every source file for fetch() calls with a recognizable
// URL argument.
func (s *FetchScanner) Discover(ctx context.Context, p *project.Project) (*spec.DiscoveryResult, error) {
	result := spec.NewDiscoveryResult()

	err := scanFiles(ctx, p.Root, func(f fileVisit) {
		s.scanSource(f.Source, p.Env, result)
	}, result.AddNote)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *FetchScanner) scanSource(src string, env map[string]string, result *spec.DiscoveryResult) {
	for _, loc := range fetchCallRe.FindAllStringIndex(src, -1) {
		args, _, ok := callAt(src, loc[1]-1)
		if !ok {
			continue
		}
		parts := splitArgs(args)
		if len(parts) == 0 {
			continue
		}

		raw, ok := urlFromExpr(parts[0], env)
		if !ok {
			continue
		}

		path, base, query := endpointFromURL(raw)
		ep := spec.Endpoint{Method: "GET", Path: path, Query: query}

		if len(parts) > 1 {
			applyFetchOptions(&ep, parts[1])
		}

		result.AddEndpoint(ep)
		result.AddBaseURL(base)
	}
}

// applyFetchOptions pulls method and an example request body out of the
// fetch options object literal. Method defaults to GET when absent.
func applyFetchOptions(ep *spec.Endpoint, opts string) {
	if m := methodRe.FindStringSubmatch(opts); m != nil {
		ep.Method = strings.ToUpper(m[1])
	}
	if loc := bodyJSONRe.FindStringIndex(opts); loc != nil {
		if args, _, ok := callAt(opts, loc[1]-1); ok {
			ep.ExampleRequestBody = literalJSON(args)
		}
	}
}

// literalJSON attempts to decode an object-literal argument as JSON. Only
// literals that already are valid JSON survive; identifiers and expressions
// are not evaluated.
func literalJSON(arg string) any {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "{") && !strings.HasPrefix(arg, "[") {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return nil
	}
	return v
}
