// Package spec defines the data model shared by discovery, synthesis, and
// artifact generation: endpoint descriptors, discovery results, and the
// persisted mock specification.
package spec
