// Package project detects a frontend project: its package manifest, framework
// family, dev-server defaults, and merged environment.
package project
