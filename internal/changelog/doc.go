// Package changelog renders parsed commits into a Markdown changelog.
//
// This package implements:
//   - Release grouping by commit type in first-seen order
//   - Deduplication of identical (scope, description) entries within a type
//   - An optional Breaking Changes section per release
//   - Multi-release documents built from independent per-release renders
//   - Terminal preview of the rendered document via glamour
//
// Rendering is deterministic: the same Release and Options always produce
// byte-identical output.
package changelog
