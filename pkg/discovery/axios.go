package discovery

import (
	"context"
	"regexp"
	"strings"

	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/spec"
)

var (
	axiosCreateRe = regexp.MustCompile(`(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*axios\.create\s*\(`)
	axiosMethodRe = regexp.MustCompile(`\b([A-Za-z_$][A-Za-z0-9_$]*)\.(get|post|put|patch|delete|head|options)\s*\(`)
	axiosConfigRe = regexp.MustCompile(`\baxios\s*\(`)
	baseURLRe     = regexp.MustCompile(`baseURL\s*:\s*([^,}]+)`)
	urlFieldRe    = regexp.MustCompile(`url\s*:\s*([^,}]+)`)
	dataFieldRe   = regexp.MustCompile(`\bdata\s*:\s*`)
)

// AxiosScanner discovers axios call sites: static axios.<method>() calls,
// axios({...}) config calls, and method calls through client instances
// created with axios.create({baseURL}).
type AxiosScanner struct{}

// NewAxiosScanner returns the axios call-site scanner.
func NewAxiosScanner() *AxiosScanner { return &AxiosScanner{} }

// Name identifies the scanner.
func (s *AxiosScanner) Name() string { return "axios" }

// Supports requires axios in the dependency tree.
func (s *AxiosScanner) Supports(p *project.Project) bool {
	if p == nil {
		return false
	}
	_, dep := p.Package.Dependencies["axios"]
	_, dev := p.Package.DevDependencies["axios"]
	return dep || dev
}

// Discover scans every source file for axios usage.
func (s *AxiosScanner) Discover(ctx context.Context, p *project.Project) (*spec.DiscoveryResult, error) {
	result := spec.NewDiscoveryResult()

	err := scanFiles(ctx, p.Root, func(f fileVisit) {
		s.scanSource(f.Source, p.Env, result)
	}, result.AddNote)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AxiosScanner) scanSource(src string, env map[string]string, result *spec.DiscoveryResult) {
	// First pass: instance -> base URL bindings established in this file.
	instances := s.instanceBases(src, env)
	for _, base := range instances {
		if origin, _ := spec.SplitURL(base); origin != "" {
			result.AddBaseURL(origin)
		} else if base != "" {
			result.AddBaseURL(base)
		}
	}

	// Method-style calls: axios.get(...) or <instance>.get(...).
	for _, loc := range axiosMethodRe.FindAllStringSubmatchIndex(src, -1) {
		recv := src[loc[2]:loc[3]]
		method := src[loc[4]:loc[5]]

		base, isInstance := instances[recv]
		if recv != "axios" && !isInstance {
			continue
		}

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

		ep := spec.Endpoint{Method: strings.ToUpper(method)}
		ep.Path, ep.Query = s.resolvePath(raw, base, result)

		// For mutating verbs the second argument is the request payload.
		if len(parts) > 1 && ep.Method != "GET" && ep.Method != "DELETE" {
			ep.ExampleRequestBody = literalJSON(parts[1])
		}

		result.AddEndpoint(ep)
	}

	// Config-style calls: axios({url, method, data}).
	for _, loc := range axiosConfigRe.FindAllStringIndex(src, -1) {
		args, _, ok := callAt(src, loc[1]-1)
		if !ok || !strings.HasPrefix(strings.TrimSpace(args), "{") {
			continue
		}

		urlMatch := urlFieldRe.FindStringSubmatch(args)
		if urlMatch == nil {
			continue
		}
		raw, ok := urlFromExpr(strings.TrimSpace(urlMatch[1]), env)
		if !ok {
			continue
		}

		ep := spec.Endpoint{Method: "GET"}
		ep.Path, ep.Query = s.resolvePath(raw, "", result)
		if m := methodRe.FindStringSubmatch(args); m != nil {
			ep.Method = strings.ToUpper(m[1])
		}
		if loc := dataFieldRe.FindStringIndex(args); loc != nil {
			rest := args[loc[1]:]
			if end := strings.LastIndexByte(rest, '}'); end > 0 {
				ep.ExampleRequestBody = literalJSON(rest[:end])
			}
		}

		result.AddEndpoint(ep)
	}
}

// instanceBases extracts identifier -> baseURL bindings from axios.create
// calls, resolving the configured base against the project environment.
func (s *AxiosScanner) instanceBases(src string, env map[string]string) map[string]string {
	instances := make(map[string]string)
	for _, loc := range axiosCreateRe.FindAllStringSubmatchIndex(src, -1) {
		name := src[loc[2]:loc[3]]
		args, _, ok := callAt(src, loc[1]-1)
		if !ok {
			instances[name] = ""
			continue
		}
		base := ""
		if m := baseURLRe.FindStringSubmatch(args); m != nil {
			if v, ok := urlFromExpr(strings.TrimSpace(m[1]), env); ok {
				base = v
			}
		}
		instances[name] = base
	}
	return instances
}

// resolvePath joins a call URL with its instance base, records the base
// origin, and returns the normalized endpoint path and query keys.
func (s *AxiosScanner) resolvePath(raw, base string, result *spec.DiscoveryResult) (string, []string) {
	full := raw
	if base != "" && !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		full = strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(raw, "/")
	}
	path, origin, query := endpointFromURL(full)
	result.AddBaseURL(origin)
	return path, query
}
