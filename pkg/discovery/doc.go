// Package discovery statically scans a frontend codebase for outbound
// HTTP and GraphQL call sites.
//
// Each scanner is a narrow capability over the project file tree: it
// enumerates source files, pattern-matches known call shapes, and returns a
// partial discovery fragment. The aggregator runs every applicable scanner
// and merges fragments, deduplicating by endpoint identity. Scanning is
// purely syntactic; unrecognized call patterns are simply not reported, and
// no project file is ever modified.
package discovery
