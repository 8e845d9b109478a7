package discovery

import (
	"regexp"
	"strings"

	"github.com/getmockd/mockbox/pkg/spec"
)

var (
	stringLitRe  = regexp.MustCompile(`^['"](.*)['"]$`)
	templateRe   = regexp.MustCompile("^`(.*)`$")
	envMemberRe  = regexp.MustCompile(`^(?:process\.env|import\.meta\.env)\.([A-Za-z_][A-Za-z0-9_]*)$`)
	envInterpRe  = regexp.MustCompile(`\$\{\s*(?:process\.env|import\.meta\.env)\.([A-Za-z_][A-Za-z0-9_]*)\s*\}`)
	concatPartRe = regexp.MustCompile(`\s*\+\s*`)
)

// urlFromExpr resolves a URL argument expression to a concrete URL string.
// Supported shapes: string literals, template literals (interpolated
// segments collapse to the stable path placeholder, environment lookups
// resolve against env), concatenations of literals and environment lookups,
// and bare environment member expressions. Anything else is not a
// recognized shape and yields ok=false.
func urlFromExpr(expr string, env map[string]string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", false
	}

	// Concatenation: resolve each part and join.
	if parts := concatPartRe.Split(expr, -1); len(parts) > 1 {
		var b strings.Builder
		for _, part := range parts {
			v, ok := urlFromExpr(part, env)
			if !ok {
				return "", false
			}
			b.WriteString(v)
		}
		return b.String(), true
	}

	if m := stringLitRe.FindStringSubmatch(expr); m != nil {
		return m[1], true
	}

	if m := templateRe.FindStringSubmatch(expr); m != nil {
		inner := m[1]
		// Environment interpolations resolve to real values first; the
		// remaining interpolations are dynamic path segments.
		inner = envInterpRe.ReplaceAllStringFunc(inner, func(tok string) string {
			name := envInterpRe.FindStringSubmatch(tok)[1]
			if v, ok := env[name]; ok {
				return v
			}
			return ""
		})
		return inner, true
	}

	if m := envMemberRe.FindStringSubmatch(expr); m != nil {
		if v, ok := env[m[1]]; ok {
			return v, true
		}
		return "", false
	}

	return "", false
}

// endpointFromURL converts a resolved raw URL into a normalized endpoint
// path, an optional base URL (absolute origin), and the names of any query
// parameters carried in the URL itself.
func endpointFromURL(raw string) (path, base string, query []string) {
	rest := raw
	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		rest = raw[:idx]
		query = queryKeys(raw[idx+1:])
	}
	base, path = spec.SplitURL(rest)
	return path, base, query
}

// queryKeys extracts parameter names from a raw query string, in order.
func queryKeys(qs string) []string {
	var keys []string
	for _, pair := range strings.Split(qs, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		// Interpolated values may leave placeholder junk; the key part is
		// still meaningful.
		key = strings.TrimSpace(key)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
