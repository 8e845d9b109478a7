package spec

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	interpRe   = regexp.MustCompile(`\$\{[^}]*\}`)
	expressRe  = regexp.MustCompile(`/:([A-Za-z_][A-Za-z0-9_]*)`)
	bracketRe  = regexp.MustCompile(`\{[^}]*\}`)
	paramTokRe = regexp.MustCompile(`:param\b`)
)

// NormalizePath collapses interpolated or named path parameters into the
// stable PathParam placeholder. `/users/${id}`, `/users/:id`, and
// `/users/{id}` all normalize to `/users/:param`.
func NormalizePath(p string) string {
	p = interpRe.ReplaceAllString(p, PathParam)
	p = expressRe.ReplaceAllString(p, "/"+PathParam)
	p = bracketRe.ReplaceAllString(p, PathParam)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	// Collapse accidental duplicate slashes from concatenation.
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// SplitURL splits an absolute URL into its origin and normalized path.
// Relative URLs return an empty origin.
func SplitURL(raw string) (origin, path string) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		if u, err := url.Parse(raw); err == nil {
			return u.Scheme + "://" + u.Host, NormalizePath(u.Path)
		}
	}
	return "", NormalizePath(raw)
}

// RoutePath converts a normalized path into brace-style routing syntax with
// positionally named parameters: `/users/:param/posts/:param` becomes
// `/users/{p0}/posts/{p1}`.
func RoutePath(p string) string {
	i := 0
	return paramTokRe.ReplaceAllStringFunc(p, func(string) string {
		s := fmt.Sprintf("{p%d}", i)
		i++
		return s
	})
}

// IsParam reports whether a path segment is a parameter placeholder.
func IsParam(segment string) bool {
	return segment == PathParam ||
		(strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")) ||
		strings.HasPrefix(segment, ":")
}

// LastSegment returns the final segment of a path, or "" for the root.
func LastSegment(p string) string {
	p = strings.TrimSuffix(p, "/")
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}
